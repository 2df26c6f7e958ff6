package model

import (
	"math"
	"slices"
)

// UnitMod identifies one modifiable unit value.
type UnitMod uint8

const (
	UnitModStatStrength UnitMod = iota
	UnitModStatAgility
	UnitModStatStamina
	UnitModStatIntellect
	UnitModStatSpirit
	UnitModHealth
	UnitModMana
	UnitModRage
	UnitModFocus
	UnitModEnergy
	UnitModHappiness
	UnitModArmor
	UnitModResistanceHoly
	UnitModResistanceFire
	UnitModResistanceNature
	UnitModResistanceFrost
	UnitModResistanceShadow
	UnitModResistanceArcane
	UnitModAttackPower
	UnitModAttackPowerRanged
	UnitModDamageMainHand
	UnitModDamageOffHand
	UnitModDamageRanged
	UnitModAttackSpeed
	UnitModAttackSpeedRanged

	UnitModCount

	UnitModStatStart       = UnitModStatStrength
	UnitModPowerStart      = UnitModMana
	UnitModResistanceStart = UnitModArmor
)

// UnitModForStat returns the modifier of a primary stat.
func UnitModForStat(stat int) UnitMod {
	return UnitModStatStart + UnitMod(stat)
}

// UnitModForPower returns the modifier of a power type.
func UnitModForPower(p PowerType) UnitMod {
	return UnitModPowerStart + UnitMod(p)
}

// UnitModForResistance returns the modifier of a resistance school (0 = armor).
func UnitModForResistance(school int) UnitMod {
	return UnitModResistanceStart + UnitMod(school)
}

// ModType selects one of the four terms of a modifier slot.
type ModType uint8

const (
	ModBaseValue ModType = iota
	ModBasePct
	ModTotalValue
	ModTotalPct
)

// modifierSlot - четыре составляющих одного модификатора.
// Flat terms are plain sums. Percent terms keep every contribution with a
// reference count, so removing a contribution restores the exact previous
// factor regardless of how many apply/unapply cycles happened.
type modifierSlot struct {
	base     float64
	total    float64
	basePct  pctStack
	totalPct pctStack
}

// combine returns (base+bonus)*basePct + total*totalPct.
func (m *modifierSlot) combine(bonus float64) float64 {
	return (m.base+bonus)*m.basePct.value() + m.total*m.totalPct.value()
}

type pctStack struct {
	amounts map[float64]int
	factor  float64
	valid   bool
}

func (p *pctStack) update(amount float64, apply bool) {
	if p.amounts == nil {
		p.amounts = make(map[float64]int, 2)
	}
	if apply {
		p.amounts[amount]++
	} else if n := p.amounts[amount]; n > 1 {
		p.amounts[amount] = n - 1
	} else {
		delete(p.amounts, amount)
	}
	p.valid = false
}

func (p *pctStack) value() float64 {
	if p.valid {
		return p.factor
	}

	// Fixed multiplication order keeps the result deterministic.
	keys := make([]float64, 0, len(p.amounts))
	for k := range p.amounts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	f := 1.0
	for _, k := range keys {
		f *= math.Pow((100.0+k)/100.0, float64(p.amounts[k]))
	}
	p.factor = f
	p.valid = true
	return f
}

// UpdateModifierValue adds (apply) or removes (!apply) a contribution.
// Flat types add amount; percent types multiply by (100+amount)/100.
func (u *Unit) UpdateModifierValue(mod UnitMod, typ ModType, amount float64, apply bool) {
	if mod >= UnitModCount {
		return
	}
	slot := &u.mods[mod]
	switch typ {
	case ModBaseValue:
		if apply {
			slot.base += amount
		} else {
			slot.base -= amount
		}
	case ModTotalValue:
		if apply {
			slot.total += amount
		} else {
			slot.total -= amount
		}
	case ModBasePct:
		slot.basePct.update(amount, apply)
	case ModTotalPct:
		slot.totalPct.update(amount, apply)
	}
	u.refreshMod(mod)
}

// ModifierValue returns one term of a modifier slot. Percent terms are
// returned as factors (1.0 = 100%).
func (u *Unit) ModifierValue(mod UnitMod, typ ModType) float64 {
	if mod >= UnitModCount {
		return 0
	}
	slot := &u.mods[mod]
	switch typ {
	case ModBaseValue:
		return slot.base
	case ModTotalValue:
		return slot.total
	case ModBasePct:
		return slot.basePct.value()
	case ModTotalPct:
		return slot.totalPct.value()
	}
	return 0
}

// ModifiedValue combines the four terms: base*basePct + total*totalPct.
// Total percent scales only the flat total, never the base.
func (u *Unit) ModifiedValue(mod UnitMod) float64 {
	return u.mods[mod].combine(0)
}

// refreshMod pushes a changed modifier into the dependent update fields.
func (u *Unit) refreshMod(mod UnitMod) {
	switch {
	case mod <= UnitModStatSpirit:
		u.UpdateStat(int(mod - UnitModStatStart))
	case mod == UnitModHealth:
		u.UpdateMaxHealth()
	case mod >= UnitModMana && mod <= UnitModHappiness:
		u.UpdateMaxPower(PowerType(mod - UnitModPowerStart))
	case mod >= UnitModArmor && mod <= UnitModResistanceArcane:
		u.UpdateResistance(int(mod - UnitModResistanceStart))
	case mod == UnitModAttackPower || mod == UnitModAttackPowerRanged:
		u.UpdateAttackPower()
	case mod == UnitModAttackSpeed || mod == UnitModAttackSpeedRanged:
		u.UpdateAttackSpeed()
	}
}

// UpdateStat recomputes one primary stat and everything derived from it.
func (u *Unit) UpdateStat(stat int) {
	if stat < 0 || stat >= StatCount {
		return
	}
	v := u.ModifiedValue(UnitModForStat(stat))
	u.SetInt32Value(FieldStat0+stat, clampInt32(v))

	switch stat {
	case StatStamina:
		u.UpdateMaxHealth()
	case StatIntellect:
		u.UpdateMaxPower(PowerMana)
		u.UpdateArmor()
	case StatAgility:
		u.UpdateArmor()
		u.UpdateAttackPower()
	case StatStrength:
		u.UpdateAttackPower()
	case StatSpirit:
		u.updateManaRegenField()
	}
}

// Stat returns the current value of a primary stat.
func (u *Unit) Stat(stat int) int32 {
	return u.GetInt32Value(FieldStat0 + stat)
}

// Primary stat indices.
const (
	StatStrength = iota
	StatAgility
	StatStamina
	StatIntellect
	StatSpirit
)

// UpdateMaxHealth recomputes max health: stamina above 20 is worth 10 health.
func (u *Unit) UpdateMaxHealth() {
	slot := &u.mods[UnitModHealth]
	stamina := float64(u.Stat(StatStamina))
	bonus := math.Min(stamina, 20) + math.Max(stamina-20, 0)*10
	v := slot.combine(bonus)
	u.SetMaxHealth(clampInt32(v))
}

// UpdateMaxPower recomputes the maximum of one power type. Intellect above
// 20 adds 15 mana per point.
func (u *Unit) UpdateMaxPower(p PowerType) {
	if p >= PowerCount {
		return
	}
	slot := &u.mods[UnitModForPower(p)]
	bonus := 0.0
	if p == PowerMana {
		intellect := float64(u.Stat(StatIntellect))
		bonus = math.Min(intellect, 20) + math.Max(intellect-20, 0)*15
		if slot.base == 0 && slot.total == 0 {
			bonus = 0
		}
	}
	v := slot.combine(bonus)
	u.SetMaxPower(p, clampInt32(v))
}

// UpdateResistance recomputes one resistance field (0 = armor).
func (u *Unit) UpdateResistance(school int) {
	if school == 0 {
		u.UpdateArmor()
		return
	}
	if school < 0 || school >= ResistanceCount {
		return
	}
	v := u.ModifiedValue(UnitModForResistance(school))
	u.SetInt32Value(FieldResistance0+school, clampInt32(v))
}

// UpdateArmor recomputes armor: agility*2 plus the configured share of a stat.
func (u *Unit) UpdateArmor() {
	slot := &u.mods[UnitModArmor]
	bonus := float64(u.Stat(StatAgility)) * 2
	if u.armorStatPct != 0 {
		bonus += float64(u.Stat(u.armorStat)) * float64(u.armorStatPct) / 100.0
	}
	v := slot.combine(bonus)
	u.SetInt32Value(FieldResistance0, clampInt32(v))
}

// SetArmorFromStatPercent sets the share of a stat added to armor.
func (u *Unit) SetArmorFromStatPercent(stat int, pct float32) {
	u.armorStat = stat
	u.armorStatPct = pct
	u.UpdateArmor()
}

// UpdateAttackPower recomputes melee and ranged attack power.
func (u *Unit) UpdateAttackPower() {
	bonus := float64(u.Stat(StatStrength)) * 2
	slot := &u.mods[UnitModAttackPower]
	v := slot.combine(bonus)
	u.SetInt32Value(FieldAttackPower, clampInt32(v))

	rbonus := float64(u.Stat(StatAgility))
	rslot := &u.mods[UnitModAttackPowerRanged]
	rv := rslot.combine(rbonus)
	u.SetInt32Value(FieldRangedAttackPower, clampInt32(rv))
}

// UpdateAttackSpeed recomputes the base attack times from the haste modifiers.
func (u *Unit) UpdateAttackSpeed() {
	melee := u.ModifiedValue(UnitModAttackSpeed)
	ranged := u.ModifiedValue(UnitModAttackSpeedRanged)
	u.SetFloatValue(FieldBaseAttackTime, float32(float64(u.baseAttackTime[0])*melee))
	u.SetFloatValue(FieldBaseAttackTime+1, float32(float64(u.baseAttackTime[1])*melee))
	u.SetFloatValue(FieldBaseAttackTime+2, float32(float64(u.baseAttackTime[2])*ranged))
}

// UpdateAllStats recomputes every derived field.
func (u *Unit) UpdateAllStats() {
	for i := range StatCount {
		u.UpdateStat(i)
	}
	for i := 1; i < ResistanceCount; i++ {
		u.UpdateResistance(i)
	}
	u.UpdateArmor()
	u.UpdateMaxHealth()
	for p := range PowerType(PowerCount) {
		u.UpdateMaxPower(p)
	}
	u.UpdateAttackPower()
	u.UpdateAttackSpeed()
}

func clampInt32(v float64) int32 {
	v = math.Round(v)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}
