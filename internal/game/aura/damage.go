package aura

import (
	"log/slog"
	"math"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// DamageResult describes one resolved hit.
type DamageResult struct {
	Damage   uint32 // after damage taken modifiers
	Absorbed uint32
	Dealt    uint32 // health actually removed
	Killed   bool
}

// DealDamage runs a hit through the victim's auras: damage taken modifiers,
// absorb shields, health, damage interrupts and death. Melee hits from a
// live attacker trigger the victim's damage shields back at it.
// attacker may be nil.
func DealDamage(attacker, victim *Container, amount uint32, schoolMask uint32, melee bool) DamageResult {
	var res DamageResult
	target := victim.owner
	if !target.IsAlive() || amount == 0 {
		return res
	}

	mult := victim.schoolMultiplier(data.AuraModDamagePercentTaken, schoolMask)
	res.Damage = uint32(math.Round(float64(amount) * max(mult, 0)))
	if res.Damage == 0 {
		return res
	}

	res.Absorbed = victim.ConsumeAbsorb(res.Damage, schoolMask)
	remaining := res.Damage - res.Absorbed
	if remaining > 0 {
		before := target.Health()
		target.ModifyHealth(-int32(min(remaining, math.MaxInt32)))
		res.Dealt = uint32(before - target.Health())
		victim.RemoveAllAurasDueToInterrupt(data.InterruptDamage)
	}

	if melee && attacker != nil && attacker.owner.IsAlive() {
		for e := range victim.EffectsOfType(data.AuraDamageShield) {
			DealDamage(victim, attacker, uint32(max(e.basePoints, 0)), e.aura.spell.SchoolMask(), false)
		}
	}

	if !target.IsAlive() {
		res.Killed = true
		slog.Debug("unit died", "guid", target.GUID(), "school", schoolMask)
		victim.HandleTargetDeath()
	}
	return res
}

// Heal restores health scaled by the target's healing taken modifiers and
// returns the amount actually gained.
func Heal(target *Container, amount uint32) uint32 {
	u := target.owner
	if !u.IsAlive() || amount == 0 {
		return 0
	}
	scaled := math.Round(float64(amount) * float64(u.GetFloatValue(model.FieldModHealingPct)))
	before := u.Health()
	u.ModifyHealth(int32(min(scaled, math.MaxInt32)))
	return uint32(u.Health() - before)
}

// SpellDamageBonus returns the caster's flat and percent damage done bonus
// for the first school of schoolMask.
func SpellDamageBonus(caster *Container, schoolMask uint32, base int32) int32 {
	if caster == nil {
		return base
	}
	u := caster.owner
	for school := range data.SchoolCount {
		if schoolMask&(1<<school) == 0 {
			continue
		}
		flat := u.GetInt32Value(model.FieldModDamageDonePos+school) - u.GetInt32Value(model.FieldModDamageDoneNeg+school)
		pct := u.GetFloatValue(model.FieldModDamageDonePct + school)
		return max(int32(math.Round(float64(base+flat)*float64(pct))), 0)
	}
	return base
}

// SpellHealingBonus adds the caster's flat healing bonus.
func SpellHealingBonus(caster *Container, base int32) int32 {
	if caster == nil {
		return base
	}
	return max(base+caster.owner.GetInt32Value(model.FieldModHealingDonePos), 0)
}
