package aura

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// Flat and percent modifiers go through the unit's modifier slots, which
// reverse exactly. Derived fields without a slot (cast speed, damage done,
// threat, crit) are recomputed from the container's aggregates instead, so
// undo never accumulates rounding drift.

// valueModType picks the base term for talent passives, total otherwise.
func valueModType(e *Effect) model.ModType {
	if e.aura.IsPassive() && e.aura.spell.HasAttribute(data.AttrAbility) {
		return model.ModBaseValue
	}
	return model.ModTotalValue
}

func handleModStat(e *Effect, apply, _ bool) {
	updateStats(e, valueModType(e), apply)
}

func handleModTotalStatPercentage(e *Effect, apply, _ bool) {
	updateStats(e, model.ModTotalPct, apply)
}

// updateStats applies bp to the stat named by misc; -1 and -2 mean all stats.
func updateStats(e *Effect, typ model.ModType, apply bool) {
	stat := e.MiscValue()
	if stat < -2 || stat >= model.StatCount {
		slog.Error("invalid stat index", "effect", e.String())
		return
	}
	u := e.target()
	for i := range model.StatCount {
		if stat < 0 || int(stat) == i {
			u.UpdateModifierValue(model.UnitModForStat(i), typ, float64(e.basePoints), apply)
		}
	}
}

// updateResistances applies bp to every school in the misc mask.
func updateResistances(e *Effect, typ model.ModType, apply bool) {
	u := e.target()
	mask := uint32(e.MiscValue())
	for i := range model.ResistanceCount {
		if mask&(1<<i) != 0 {
			u.UpdateModifierValue(model.UnitModForResistance(i), typ, float64(e.basePoints), apply)
		}
	}
}

func handleModResistance(e *Effect, apply, _ bool) {
	updateResistances(e, valueModType(e), apply)
}

func handleModBaseResistancePct(e *Effect, apply, _ bool) {
	updateResistances(e, model.ModBasePct, apply)
}

func handleModResistancePct(e *Effect, apply, _ bool) {
	updateResistances(e, model.ModTotalPct, apply)
}

// handleModResistanceOfStatPct grants armor equal to a percent of intellect.
func handleModResistanceOfStatPct(e *Effect, _, _ bool) {
	u := e.target()
	if !u.IsCharacter() {
		return
	}
	total := e.container().GetTotalBasePoints(data.AuraModResistanceOfStatPct)
	u.SetArmorFromStatPercent(model.StatIntellect, float32(total))
}

func handleModIncreaseHealth(e *Effect, apply, _ bool) {
	u := e.target()
	u.UpdateModifierValue(model.UnitModHealth, model.ModTotalValue, float64(e.basePoints), apply)
	if apply {
		u.ModifyHealth(e.basePoints)
	}
}

// rescaleModIncreaseHealth keeps current health through the change and
// grants only the growth.
func rescaleModIncreaseHealth(e *Effect, old int32) {
	u := e.target()
	health := u.Health()
	u.UpdateModifierValue(model.UnitModHealth, model.ModTotalValue, float64(old), false)
	u.UpdateModifierValue(model.UnitModHealth, model.ModTotalValue, float64(e.basePoints), true)
	u.SetHealth(health + max(e.basePoints-old, 0))
}

func handleModIncreaseHealthPercent(e *Effect, apply, _ bool) {
	e.target().UpdateModifierValue(model.UnitModHealth, model.ModTotalPct, float64(e.basePoints), apply)
}

func effectPower(e *Effect) (model.PowerType, bool) {
	p := model.PowerType(e.MiscValue())
	if e.MiscValue() < 0 || p >= model.PowerCount {
		slog.Error("invalid power type", "effect", e.String())
		return 0, false
	}
	return p, true
}

func handleModIncreaseEnergy(e *Effect, apply, _ bool) {
	p, ok := effectPower(e)
	if !ok {
		return
	}
	e.target().UpdateModifierValue(model.UnitModForPower(p), model.ModTotalValue, float64(e.basePoints), apply)
}

func handleModIncreaseEnergyPercent(e *Effect, apply, _ bool) {
	p, ok := effectPower(e)
	if !ok {
		return
	}
	e.target().UpdateModifierValue(model.UnitModForPower(p), model.ModTotalPct, float64(e.basePoints), apply)
}

func handleModAttackPower(e *Effect, apply, _ bool) {
	e.target().UpdateModifierValue(model.UnitModAttackPower, valueModType(e), float64(e.basePoints), apply)
}

func handleModAttackSpeed(e *Effect, apply, _ bool) {
	e.target().UpdateModifierValue(model.UnitModAttackSpeed, model.ModTotalPct, float64(-e.basePoints), apply)
}

func handleModHaste(e *Effect, apply, _ bool) {
	e.target().UpdateModifierValue(model.UnitModAttackSpeed, model.ModBasePct, float64(-e.basePoints), apply)
}

func handleModRangedHaste(e *Effect, apply, _ bool) {
	e.target().UpdateModifierValue(model.UnitModAttackSpeedRanged, model.ModBasePct, float64(-e.basePoints), apply)
}

func handleModRangedAmmoHaste(e *Effect, apply, _ bool) {
	u := e.target()
	if !u.IsCharacter() {
		return
	}
	u.UpdateModifierValue(model.UnitModAttackSpeedRanged, model.ModTotalPct, float64(-e.basePoints), apply)
}

// handleModCastingSpeed sets the cast time multiplier: +bp% speed divides
// cast time by (100+bp)/100.
func handleModCastingSpeed(e *Effect, _, _ bool) {
	mult := 1.0
	for other := range e.container().EffectsOfType(data.AuraModCastingSpeed) {
		if other.basePoints > -100 {
			mult *= 100.0 / float64(100+other.basePoints)
		}
	}
	e.target().SetFloatValue(model.FieldModCastSpeed, float32(mult))
}

func handleModPowerCostSchoolPct(e *Effect, _, _ bool) {
	c := e.container()
	for i := range data.SchoolCount {
		total := c.schoolTotal(data.AuraModPowerCostSchoolPct, i)
		c.owner.SetFloatValue(model.FieldPowerCostMultiplier0+i, float32(total)/100)
	}
}

func handleModDamageDone(e *Effect, _, _ bool) {
	c := e.container()
	for i := range data.SchoolCount {
		total := c.schoolTotal(data.AuraModDamageDone, i)
		c.owner.SetInt32Value(model.FieldModDamageDonePos+i, max(total, 0))
		c.owner.SetInt32Value(model.FieldModDamageDoneNeg+i, max(-total, 0))
	}
}

func handleModDamagePercentDone(e *Effect, _, _ bool) {
	c := e.container()
	for i := range data.SchoolCount {
		mult := c.schoolMultiplier(data.AuraModDamagePercentDone, 1<<i)
		c.owner.SetFloatValue(model.FieldModDamageDonePct+i, float32(mult))
	}
}

func handleModDamagePercentTaken(e *Effect, _, _ bool) {
	c := e.container()
	c.owner.SetFloatValue(model.FieldModDamageTakenPct, float32(c.GetTotalMultiplier(data.AuraModDamagePercentTaken)))
}

func handleModHealingDone(e *Effect, _, _ bool) {
	c := e.container()
	c.owner.SetInt32Value(model.FieldModHealingDonePos, max(c.GetTotalBasePoints(data.AuraModHealingDone), 0))
}

func handleModHealingPct(e *Effect, _, _ bool) {
	c := e.container()
	c.owner.SetFloatValue(model.FieldModHealingPct, float32(c.GetTotalMultiplier(data.AuraModHealingPct)))
}

// handleModTargetResistance splits penetration into physical and spell parts.
func handleModTargetResistance(e *Effect, _, _ bool) {
	c := e.container()
	if !c.owner.IsCharacter() {
		return
	}
	var physical, spell int32
	for other := range c.EffectsOfType(data.AuraModTargetResistance) {
		mask := uint32(other.MiscValue())
		if mask&data.SchoolMaskNormal != 0 {
			physical += other.basePoints
		}
		if mask&data.SchoolMaskSpell != 0 {
			spell += other.basePoints
		}
	}
	c.owner.SetInt32Value(model.FieldModTargetPhysicalResistance, physical)
	c.owner.SetInt32Value(model.FieldModTargetResistance, spell)
}

// handleModThreat serves both per-school and total threat modifiers.
func handleModThreat(e *Effect, _, _ bool) {
	c := e.container()
	total := c.GetTotalBasePoints(data.AuraModTotalThreat)
	for i := range data.SchoolCount {
		pct := c.schoolTotal(data.AuraModThreat, i) + total
		c.owner.SetThreatModifier(i, float32(pct)/100)
	}
}

func handleModCritPercent(e *Effect, _, _ bool) {
	c := e.container()
	bonus := float32(c.GetTotalBasePoints(data.AuraModCritPercent))
	for _, g := range []int{model.BaseCritMelee, model.BaseCritOffhand, model.BaseCritRanged} {
		c.owner.SetCritBonus(g, bonus)
	}
}

func handleModDodgePercent(e *Effect, _, _ bool) {
	c := e.container()
	c.owner.UpdateDodgePercentage(float32(c.GetTotalBasePoints(data.AuraModDodgePercent)))
}

func handleModParryPercent(e *Effect, _, _ bool) {
	c := e.container()
	c.owner.UpdateParryPercentage(float32(c.GetTotalBasePoints(data.AuraModParryPercent)))
}

func handleModRating(e *Effect, apply, _ bool) {
	u := e.target()
	if !u.IsCharacter() {
		return
	}
	mask := uint32(e.MiscValue())
	for i := range model.CombatRatingCount {
		if mask&(1<<i) != 0 {
			u.ApplyCombatRatingMod(i, e.basePoints, apply)
		}
	}
}

// handleModPowerRegen serves flat mana regen and regen while casting.
func handleModPowerRegen(e *Effect, _, _ bool) {
	c := e.container()
	var flat int32
	for other := range c.EffectsOfType(data.AuraModPowerRegen) {
		if model.PowerType(other.MiscValue()) == model.PowerMana {
			flat += other.basePoints
		}
	}
	interrupt := c.GetTotalBasePoints(data.AuraModManaRegenInterrupt)
	c.owner.UpdateManaRegen(float32(flat), float32(interrupt))
}

// handleAddModifier registers a spell modifier on the target. misc is the
// modified property, AffectMask (or ItemType) selects the spells.
func handleAddModifier(e *Effect, apply, _ bool) {
	misc := e.MiscValue()
	if misc < 0 || misc >= model.SpellModOpCount {
		slog.Error("invalid spell modifier op", "effect", e.String())
		return
	}
	mask := e.def.AffectMask
	if mask == 0 {
		mask = uint64(e.def.ItemType)
	}
	if mask == 0 {
		slog.Warn("spell modifier without affect mask", "effect", e.String())
		return
	}

	typ := model.SpellModFlat
	if e.Type() == data.AuraAddPctModifier {
		typ = model.SpellModPct
	}
	e.target().ModifySpellMod(model.SpellModifier{
		Op:       model.SpellModOp(misc),
		Type:     typ,
		Value:    e.basePoints,
		SpellID:  e.aura.spell.ID,
		EffectID: e.def.Index,
		Mask:     mask,
		Charges:  int32(e.aura.charges),
	}, apply)
}
