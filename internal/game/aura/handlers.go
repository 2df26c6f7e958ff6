package aura

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// handler applies (apply=true) or undoes (apply=false) one effect on its
// target. restoration is set when the aura is re-applied from persisted
// state, so clients need no visual update.
//
// Undo runs after the aura left its container: aggregates read during
// undo already exclude the effect.
type handler func(e *Effect, apply, restoration bool)

// handlers maps aura type → handler. Populated in init; read-only after.
var handlers = map[data.AuraType]handler{}

func registerHandler(t data.AuraType, h handler) {
	handlers[t] = h
}

func handlerFor(t data.AuraType) handler {
	if h, ok := handlers[t]; ok {
		return h
	}
	return handleUnknown
}

// rescaler moves an applied effect from old to its current basePoints.
// Types without one are undone and reapplied.
type rescaler func(e *Effect, old int32)

var rescalers = map[data.AuraType]rescaler{}

// HasHandler reports whether aura type t has a dedicated handler.
func HasHandler(t data.AuraType) bool {
	_, ok := handlers[t]
	return ok
}

func init() {
	// Effects consumed by other code paths.
	for _, t := range []data.AuraType{
		data.AuraSchoolAbsorb, data.AuraManaShield, data.AuraDamageShield,
		data.AuraProcTriggerSpell, data.AuraProcTriggerDamage,
		data.AuraModStealthDetect, data.AuraModInvisibilityDetect,
		data.AuraModDamageTaken, data.AuraReflectSpells, data.AuraModSkill,
		data.AuraModTaunt,
	} {
		registerHandler(t, handleNoop)
	}

	// Periodic
	for _, t := range []data.AuraType{
		data.AuraPeriodicDamage, data.AuraPeriodicHeal, data.AuraPeriodicEnergize,
		data.AuraPeriodicTriggerSpell, data.AuraPeriodicLeech, data.AuraPeriodicDummy,
		data.AuraObsModHealth, data.AuraObsModMana,
	} {
		registerHandler(t, handlePeriodic)
	}

	registerHandler(data.AuraDummy, handleDummy)
	registerHandler(data.AuraChannelDeathItem, handleChannelDeathItem)
	registerHandler(data.AuraTrackCreatures, handleTrackCreatures)
	registerHandler(data.AuraTrackResources, handleTrackResources)
	registerHandler(data.AuraMechanicImmunity, handleMechanicImmunity)

	// Stats
	registerHandler(data.AuraModStat, handleModStat)
	registerHandler(data.AuraModTotalStatPercentage, handleModTotalStatPercentage)
	registerHandler(data.AuraModResistance, handleModResistance)
	registerHandler(data.AuraModResistanceExclusive, handleModResistance)
	registerHandler(data.AuraModBaseResistancePct, handleModBaseResistancePct)
	registerHandler(data.AuraModResistancePct, handleModResistancePct)
	registerHandler(data.AuraModResistanceOfStatPct, handleModResistanceOfStatPct)
	registerHandler(data.AuraModIncreaseHealth, handleModIncreaseHealth)
	rescalers[data.AuraModIncreaseHealth] = rescaleModIncreaseHealth
	registerHandler(data.AuraModIncreaseHealthPercent, handleModIncreaseHealthPercent)
	registerHandler(data.AuraModIncreaseEnergy, handleModIncreaseEnergy)
	registerHandler(data.AuraModIncreaseEnergyPercent, handleModIncreaseEnergyPercent)
	registerHandler(data.AuraModAttackPower, handleModAttackPower)
	registerHandler(data.AuraModAttackSpeed, handleModAttackSpeed)
	registerHandler(data.AuraModHaste, handleModHaste)
	registerHandler(data.AuraModRangedHaste, handleModRangedHaste)
	registerHandler(data.AuraModRangedAmmoHaste, handleModRangedAmmoHaste)
	registerHandler(data.AuraModCastingSpeed, handleModCastingSpeed)
	registerHandler(data.AuraModPowerCostSchoolPct, handleModPowerCostSchoolPct)
	registerHandler(data.AuraModDamageDone, handleModDamageDone)
	registerHandler(data.AuraModDamagePercentDone, handleModDamagePercentDone)
	registerHandler(data.AuraModDamagePercentTaken, handleModDamagePercentTaken)
	registerHandler(data.AuraModHealingDone, handleModHealingDone)
	registerHandler(data.AuraModHealingPct, handleModHealingPct)
	registerHandler(data.AuraModTargetResistance, handleModTargetResistance)
	registerHandler(data.AuraModThreat, handleModThreat)
	registerHandler(data.AuraModTotalThreat, handleModThreat)
	registerHandler(data.AuraModCritPercent, handleModCritPercent)
	registerHandler(data.AuraModDodgePercent, handleModDodgePercent)
	registerHandler(data.AuraModParryPercent, handleModParryPercent)
	registerHandler(data.AuraModRating, handleModRating)
	registerHandler(data.AuraModPowerRegen, handleModPowerRegen)
	registerHandler(data.AuraModManaRegenInterrupt, handleModPowerRegen)
	registerHandler(data.AuraAddFlatModifier, handleAddModifier)
	registerHandler(data.AuraAddPctModifier, handleAddModifier)

	// Control
	registerHandler(data.AuraModStun, handleModStun)
	registerHandler(data.AuraModRoot, handleModRoot)
	registerHandler(data.AuraModConfuse, handleModConfuse)
	registerHandler(data.AuraModFear, handleModFear)
	registerHandler(data.AuraModSilence, handleModSilence)
	registerHandler(data.AuraModPacify, handleModPacify)
	registerHandler(data.AuraModStealth, handleModStealth)
	registerHandler(data.AuraModInvisibility, handleModInvisibility)
	registerHandler(data.AuraTransform, handleTransform)
	registerHandler(data.AuraMounted, handleMounted)
	registerHandler(data.AuraModScale, handleModScale)
	registerHandler(data.AuraModShapeShift, handleModShapeShift)

	// Movement
	registerHandler(data.AuraModIncreaseSpeed, handleRunSpeed)
	registerHandler(data.AuraModIncreaseMountedSpeed, handleRunSpeed)
	registerHandler(data.AuraModDecreaseSpeed, handleDecreaseSpeed)
	registerHandler(data.AuraModIncreaseSwimSpeed, handleSwimSpeed)
	registerHandler(data.AuraModFlightSpeedMounted, handleFlightSpeed)
	registerHandler(data.AuraFly, handleFly)
	registerHandler(data.AuraWaterWalk, handleWaterWalk)
	registerHandler(data.AuraFeatherFall, handleFeatherFall)
	registerHandler(data.AuraHover, handleHover)
}

func handleNoop(*Effect, bool, bool) {}

func handleUnknown(e *Effect, apply, _ bool) {
	slog.Debug("unhandled aura effect", "effect", e.String(), "apply", apply)
}

// handlePeriodic starts ticking; ticks stop when the effect is undone.
func handlePeriodic(e *Effect, apply, _ bool) {
	if apply {
		e.startPeriodic()
	}
}

// handlePeriodicTick runs one tick of a periodic effect.
func handlePeriodicTick(e *Effect) {
	c := e.container()
	target := c.owner
	if !target.IsAlive() {
		return
	}
	caster := e.aura.Caster()
	school := e.aura.spell.SchoolMask()
	bp := e.basePoints

	switch e.Type() {
	case data.AuraPeriodicDamage:
		dmg := SpellDamageBonus(caster, school, bp)
		DealDamage(caster, c, uint32(max(dmg, 0)), school, false)

	case data.AuraPeriodicLeech:
		dmg := SpellDamageBonus(caster, school, bp)
		res := DealDamage(caster, c, uint32(max(dmg, 0)), school, false)
		if caster != nil && res.Dealt > 0 {
			mult := e.def.MultipleValue
			if mult == 0 {
				mult = 1
			}
			Heal(caster, uint32(float32(res.Dealt)*mult))
		}

	case data.AuraPeriodicHeal:
		Heal(c, uint32(SpellHealingBonus(caster, bp)))

	case data.AuraObsModHealth:
		Heal(c, uint32(max(target.MaxHealth()*bp/100, 0)))

	case data.AuraPeriodicEnergize:
		power := model.PowerType(e.MiscValue())
		if e.MiscValue() < 0 || power >= model.PowerCount {
			slog.Error("invalid power type", "effect", e.String())
			return
		}
		target.AddPower(power, bp)

	case data.AuraObsModMana:
		target.AddPower(model.PowerMana, target.MaxPower(model.PowerMana)*bp/100)

	case data.AuraPeriodicTriggerSpell:
		env := c.env
		if env.Caster == nil {
			return
		}
		from := caster
		if from == nil {
			from = c
		}
		env.Caster.CastTriggered(from, target.GUID(), e.def.TriggerSpell)

	case data.AuraPeriodicDummy:
		// Drinking: regen bonus is mana per five seconds.
		if e.aura.HasEffect(data.AuraModPowerRegen) {
			regen := c.GetTotalBasePoints(data.AuraModPowerRegen)
			target.AddPower(model.PowerMana, regen*e.def.Amplitude/5000)
		}
	}
}

// handleDummy covers dummy auras with engine-side meaning. Paladin seals
// enable the Judgement aura state.
func handleDummy(e *Effect, apply, _ bool) {
	sp := e.aura.spell
	if sp.Family != data.FamilyPaladin || sp.ExclusiveGroup != data.GroupSeal {
		return
	}
	if apply {
		e.target().ModifyAuraState(model.AuraStateJudgement, true)
		return
	}
	for other := range e.container().EffectsOfType(data.AuraDummy) {
		seal := other.aura.spell
		if seal.Family == data.FamilyPaladin && seal.ExclusiveGroup == data.GroupSeal {
			return
		}
	}
	e.target().ModifyAuraState(model.AuraStateJudgement, false)
}

// handleChannelDeathItem grants the item to the caster when the target dies
// while the channel is held.
func handleChannelDeathItem(e *Effect, apply, _ bool) {
	if apply {
		return
	}
	target := e.target()
	if target.IsAlive() {
		return
	}
	caster := e.aura.Caster()
	if caster == nil || !caster.owner.IsCharacter() {
		return
	}
	// No reward from gray targets.
	if target.Level() <= model.GrayLevel(caster.owner.Level()) {
		return
	}
	env := e.env()
	item := env.Spells.Item(e.def.ItemType)
	if item == nil {
		slog.Warn("channel death item references unknown item",
			"spell", e.aura.spell.ID, "item", e.def.ItemType)
		return
	}
	if env.Items == nil {
		return
	}
	count := uint32(max(e.basePoints, 1))
	if err := env.Items.CreateItems(caster.owner, item.ID, count); err != nil {
		slog.Warn("could not grant channel death item",
			"caster", caster.owner.GUID(), "item", item.ID, "error", err)
	}
}

func handleTrackCreatures(e *Effect, apply, _ bool) {
	u := e.target()
	if !u.IsCharacter() {
		return
	}
	var v uint32
	if apply && e.MiscValue() > 0 {
		v = 1 << (e.MiscValue() - 1)
	}
	u.SetUInt32Value(model.FieldTrackCreatures, v)
}

func handleTrackResources(e *Effect, apply, _ bool) {
	u := e.target()
	if !u.IsCharacter() {
		return
	}
	var v uint32
	if apply && e.MiscValue() > 0 {
		v = 1 << (e.MiscValue() - 1)
	}
	u.SetUInt32Value(model.FieldTrackResources, v)
}

// handleMechanicImmunity grants immunity and breaks held auras of the
// mechanic. Undo only revokes bits no other immunity effect still grants.
func handleMechanicImmunity(e *Effect, apply, _ bool) {
	misc := e.MiscValue()
	if misc <= 0 || misc >= 32 {
		slog.Error("invalid mechanic", "effect", e.String())
		return
	}
	mask := uint32(1) << misc
	u := e.target()
	c := e.container()

	if apply {
		u.AddMechanicImmunity(mask)
		self := e.aura
		c.removeIf(func(a *Aura) bool { return a != self && a.HasMechanics(mask) }, 0)
		return
	}

	for other := range c.EffectsOfType(data.AuraMechanicImmunity) {
		if other.MiscValue() == misc {
			return
		}
	}
	u.RemoveMechanicImmunity(mask)
}
