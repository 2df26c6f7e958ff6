package model

// MoveType identifies a movement speed kind.
type MoveType uint8

const (
	MoveWalk MoveType = iota
	MoveRun
	MoveRunBack
	MoveSwim
	MoveSwimBack
	MoveTurn
	MoveFlight
	MoveFlightBack

	MoveTypeCount = 8
)

// Base speeds in yards per second.
var baseMoveSpeed = [MoveTypeCount]float32{2.5, 7.0, 4.5, 4.722222, 2.5, 3.141594, 7.0, 4.5}

// Movement flags mirrored from pending movement changes.
const (
	MovementFlagRoot        uint32 = 0x00000800
	MovementFlagWaterWalk   uint32 = 0x10000000
	MovementFlagFeatherFall uint32 = 0x20000000
	MovementFlagHover       uint32 = 0x40000000
	MovementFlagCanFly      uint32 = 0x01000000
	MovementFlagFlying      uint32 = 0x02000000
)

// MovementChangeType identifies a movement capability toggled by auras.
type MovementChangeType uint8

const (
	MovementChangeRoot MovementChangeType = iota
	MovementChangeWaterWalk
	MovementChangeFeatherFall
	MovementChangeHover
	MovementChangeCanFly
	MovementChangeSpeed
)

var movementChangeFlag = map[MovementChangeType]uint32{
	MovementChangeRoot:        MovementFlagRoot,
	MovementChangeWaterWalk:   MovementFlagWaterWalk,
	MovementChangeFeatherFall: MovementFlagFeatherFall,
	MovementChangeHover:       MovementFlagHover,
	MovementChangeCanFly:      MovementFlagCanFly,
}

// MovementChange - ожидающее подтверждения клиентом изменение движения.
type MovementChange struct {
	Type     MovementChangeType
	Enable   bool
	MoveType MoveType
	Speed    float32
}

// SetPendingMovementFlag queues a movement capability change and mirrors it
// into the server-side movement flags immediately.
func (u *Unit) SetPendingMovementFlag(t MovementChangeType, enable bool) {
	u.pendingMovement = append(u.pendingMovement, MovementChange{Type: t, Enable: enable})
	if flag, ok := movementChangeFlag[t]; ok {
		if enable {
			u.movementFlags |= flag
		} else {
			u.movementFlags &^= flag
		}
	}
}

// TakePendingMovementChanges returns and clears the queued movement changes.
func (u *Unit) TakePendingMovementChanges() []MovementChange {
	out := u.pendingMovement
	u.pendingMovement = nil
	return out
}

// HasMovementFlag reports whether all bits of flag are set.
func (u *Unit) HasMovementFlag(flag uint32) bool {
	return u.movementFlags&flag == flag
}

// IsRooted reports whether the root movement flag is set.
func (u *Unit) IsRooted() bool {
	return u.HasMovementFlag(MovementFlagRoot)
}

// SetFlightMode toggles creature flight.
func (u *Unit) SetFlightMode(on bool) {
	u.flightMode = on
	if on {
		u.movementFlags |= MovementFlagFlying
	} else {
		u.movementFlags &^= MovementFlagFlying
	}
}

// FlightMode reports whether the creature is flying.
func (u *Unit) FlightMode() bool {
	return u.flightMode
}

// SpeedRate returns the speed multiplier of a movement type.
func (u *Unit) SpeedRate(t MoveType) float32 {
	return u.speedRates[t]
}

// Speed returns the effective speed of a movement type.
func (u *Unit) Speed(t MoveType) float32 {
	return baseMoveSpeed[t] * u.speedRates[t]
}

// SetSpeedRate updates a speed multiplier. Unless initial is set, the
// change is queued for the client like other movement changes.
func (u *Unit) SetSpeedRate(t MoveType, rate float32, initial bool) {
	if rate < 0 {
		rate = 0
	}
	if u.speedRates[t] == rate {
		return
	}
	u.speedRates[t] = rate
	if !initial {
		u.pendingMovement = append(u.pendingMovement, MovementChange{
			Type:     MovementChangeSpeed,
			Enable:   true,
			MoveType: t,
			Speed:    baseMoveSpeed[t] * rate,
		})
	}
}

// AddMechanicImmunity grants immunity to every mechanic in mask.
func (u *Unit) AddMechanicImmunity(mask uint32) {
	u.mechanicImmunity |= mask
}

// RemoveMechanicImmunity revokes immunity for every mechanic in mask.
func (u *Unit) RemoveMechanicImmunity(mask uint32) {
	u.mechanicImmunity &^= mask
}

// MechanicImmunity returns the current immunity mask.
func (u *Unit) MechanicImmunity() uint32 {
	return u.mechanicImmunity
}

// IsImmuneToMechanic reports whether any bit of mask is covered.
func (u *Unit) IsImmuneToMechanic(mask uint32) bool {
	return mask != 0 && u.mechanicImmunity&mask != 0
}

// SetThreatModifier sets the threat modifier of one school, as a fraction.
func (u *Unit) SetThreatModifier(school int, pct float32) {
	u.threatMods[school] = pct
}

// ThreatMultiplier returns the threat multiplier for a school index.
func (u *Unit) ThreatMultiplier(school int) float32 {
	return 1.0 + u.threatMods[school]
}

// SpellModOp - операция модификатора заклинаний.
type SpellModOp uint8

const (
	SpellModDamage SpellModOp = iota
	SpellModDuration
	SpellModThreat
	SpellModEffect1
	SpellModCharges
	SpellModRange
	SpellModRadius
	SpellModCritChance
	SpellModAllEffects
	SpellModNotLoseCastingTime
	SpellModCastingTime
	SpellModCooldown
	SpellModEffect2
	SpellModCost SpellModOp = 14

	SpellModOpCount = 29
)

// SpellModType selects flat or percent application.
type SpellModType uint8

const (
	SpellModFlat SpellModType = iota
	SpellModPct
)

// SpellModifier adjusts a spell property for spells whose family flags
// intersect Mask.
type SpellModifier struct {
	Op       SpellModOp
	Type     SpellModType
	Value    int32
	SpellID  uint32
	EffectID int
	Mask     uint64
	Charges  int32
}

// ModifySpellMod adds or removes a spell modifier.
func (u *Unit) ModifySpellMod(mod SpellModifier, apply bool) {
	if apply {
		u.spellMods = append(u.spellMods, mod)
		return
	}
	for i, m := range u.spellMods {
		if m.SpellID == mod.SpellID && m.EffectID == mod.EffectID && m.Op == mod.Op && m.Type == mod.Type {
			u.spellMods = append(u.spellMods[:i], u.spellMods[i+1:]...)
			return
		}
	}
}

// SpellModCount returns the number of active spell modifiers.
func (u *Unit) SpellModCount() int {
	return len(u.spellMods)
}

// ApplySpellMod returns base adjusted by every matching modifier:
// flat values are summed first, then percent values applied.
func (u *Unit) ApplySpellMod(op SpellModOp, familyMask uint64, base int32) int32 {
	var flat, pct int32
	for _, m := range u.spellMods {
		if m.Op != op || m.Mask&familyMask == 0 {
			continue
		}
		if m.Type == SpellModFlat {
			flat += m.Value
		} else {
			pct += m.Value
		}
	}
	v := base + flat
	return v + v*pct/100
}

// ApplyCombatRatingMod adds or removes combat rating points.
func (u *Unit) ApplyCombatRatingMod(rating int, amount int32, apply bool) {
	if rating < 0 || rating >= CombatRatingCount {
		return
	}
	if !apply {
		amount = -amount
	}
	u.combatRatings[rating] += amount
	u.SetInt32Value(FieldCombatRating1+rating, u.combatRatings[rating])
}

// CombatRating returns the current value of a combat rating.
func (u *Unit) CombatRating(rating int) int32 {
	return u.combatRatings[rating]
}

// Crit groups for flat crit chance bonuses.
const (
	BaseCritMelee = iota
	BaseCritOffhand
	BaseCritRanged

	baseCritGroupCount = 3
)

// SetCritBonus sets the aura crit chance bonus of one group.
func (u *Unit) SetCritBonus(group int, bonus float32) {
	u.critBonus[group] = bonus
	u.updateCritFields()
}

func (u *Unit) updateCritFields() {
	u.SetFloatValue(FieldCritPercent, u.baseCrit+u.critBonus[BaseCritMelee])
	u.SetFloatValue(FieldOffhandCritPercent, u.baseCrit+u.critBonus[BaseCritOffhand])
	u.SetFloatValue(FieldRangedCritPercent, u.baseCrit+u.critBonus[BaseCritRanged])
}

// UpdateDodgePercentage sets dodge to base plus bonus.
func (u *Unit) UpdateDodgePercentage(bonus float32) {
	u.SetFloatValue(FieldDodgePercent, max(u.baseDodge+bonus, 0))
}

// UpdateParryPercentage sets parry to base plus bonus.
func (u *Unit) UpdateParryPercentage(bonus float32) {
	u.SetFloatValue(FieldParryPercent, max(u.baseParry+bonus, 0))
}

// UpdateManaRegen sets the flat mana per five seconds bonus and the share
// of spirit regen kept while casting.
func (u *Unit) UpdateManaRegen(flatPer5, interruptPct float32) {
	u.manaRegenFlat = flatPer5
	u.regenInCombat = interruptPct
	u.updateManaRegenField()
}

func (u *Unit) updateManaRegenField() {
	spirit := u.baseManaRegen + float32(u.Stat(StatSpirit))/5
	flat := u.manaRegenFlat / 5
	u.SetFloatValue(FieldManaRegen, spirit+flat)
	u.SetFloatValue(FieldManaRegenInterrupt, spirit*min(u.regenInCombat, 100)/100+flat)
}
