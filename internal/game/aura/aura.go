package aura

import (
	"log/slog"
	"time"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/timer"
)

type auraState uint8

const (
	stateUnapplied auraState = iota
	stateApplied
	stateMisapplied
)

const (
	slotFlagsPositive uint8 = 31
	slotFlagsNegative uint8 = 9

	// defaultCasterLevel is shown in the slot when the caster level is unknown.
	defaultCasterLevel = 70
)

// Aura is one applied instance of a spell on a unit: a group of effects
// sharing lifetime, slot and caster.
//
// Lifecycle: Unapplied → Applied (AddAura) → Misapplied (removal).
// An aura is never applied twice and never re-enters a container after removal.
type Aura struct {
	spell       *data.Spell
	casterGUID  uint64
	casterLevel int32
	itemGUID    uint64
	effects     []*Effect

	container *Container
	slot      uint8
	state     auraState

	stacks  uint32
	charges uint32

	// duration is the full duration in ms; <= 0 means infinite.
	duration int32
	// remaining overrides duration for the first countdown (restoration).
	remaining int32
	expire    *timer.Countdown
	// expired is set once the aura leaves its container. Pending timer
	// callbacks check it before acting.
	expired bool
}

// New creates an unapplied aura of spell. casterGUID 0 means no caster.
func New(spell *data.Spell, casterGUID, itemGUID uint64) *Aura {
	a := &Aura{
		spell:       spell,
		casterGUID:  casterGUID,
		casterLevel: defaultCasterLevel,
		itemGUID:    itemGUID,
		slot:        model.NoAuraSlot,
		stacks:      1,
		charges:     spell.ProcCharges,
		duration:    spell.Duration,
		remaining:   -1,
	}
	return a
}

// BuildAura creates an unapplied aura of spell with one effect per aura
// entry, using basePoints by effect index when given and the definition
// values otherwise.
func BuildAura(spell *data.Spell, casterGUID, itemGUID uint64, basePoints map[int]int32) *Aura {
	a := New(spell, casterGUID, itemGUID)
	for i := range spell.Effects {
		def := &spell.Effects[i]
		if !def.IsAura() {
			continue
		}
		bp, ok := basePoints[def.Index]
		if !ok {
			bp = def.BasePoints
		}
		a.AddEffect(def, bp)
	}
	return a
}

// AddEffect attaches an effect built from one of the spell's aura entries.
func (a *Aura) AddEffect(def *data.SpellEffect, basePoints int32) *Effect {
	e := &Effect{
		aura:       a,
		def:        def,
		basePoints: basePoints,
		perStack:   basePoints,
	}
	a.effects = append(a.effects, e)
	return e
}

// Spell returns the aura's definition.
func (a *Aura) Spell() *data.Spell { return a.spell }

// CasterGUID returns the weak caster reference, 0 if none.
func (a *Aura) CasterGUID() uint64 { return a.casterGUID }

// ItemGUID returns the guid of the item that produced the aura, 0 if none.
func (a *Aura) ItemGUID() uint64 { return a.itemGUID }

// SetCasterLevel sets the level shown in the aura slot.
func (a *Aura) SetCasterLevel(level int32) { a.casterLevel = level }

// Effects returns the aura's effects in definition order.
func (a *Aura) Effects() []*Effect { return a.effects }

// Slot returns the visible slot index or model.NoAuraSlot.
func (a *Aura) Slot() uint8 { return a.slot }

// HasValidSlot reports whether the aura occupies a visible slot.
func (a *Aura) HasValidSlot() bool { return a.slot != model.NoAuraSlot }

// IsApplied reports whether the aura is currently applied to its owner.
func (a *Aura) IsApplied() bool { return a.state == stateApplied }

// IsExpired reports whether the aura has left its container.
func (a *Aura) IsExpired() bool { return a.expired }

func (a *Aura) IsPassive() bool  { return a.spell.IsPassive() }
func (a *Aura) IsPositive() bool { return a.spell.Positive }

// IsChanneled reports whether the aura belongs to a channeled spell.
func (a *Aura) IsChanneled() bool { return a.spell.HasAttribute(data.AttrChanneled) }

// IsDeathPersistent reports whether the aura survives its owner's death.
func (a *Aura) IsDeathPersistent() bool { return a.spell.HasAttribute(data.AttrDeathPersistent) }

// StackCount returns the current number of stacks, at least 1.
func (a *Aura) StackCount() uint32 { return a.stacks }

// SetStackCount sets the stack count without touching effect values.
// Used when restoring persisted auras.
func (a *Aura) SetStackCount(n uint32) {
	a.stacks = max(n, 1)
	a.updateSlotApplications()
}

// ChargeCount returns the remaining proc charges, 0 if unlimited.
func (a *Aura) ChargeCount() uint32 { return a.charges }

// SetChargeCount overrides the remaining proc charges.
func (a *Aura) SetChargeCount(n uint32) { a.charges = n }

// DropCharge consumes one proc charge and removes the aura when none are left.
func (a *Aura) DropCharge() {
	if a.charges == 0 {
		return
	}
	a.charges--
	if a.charges == 0 && a.state == stateApplied {
		a.container.RemoveAura(a)
	}
}

// Duration returns the full duration in ms, <= 0 for infinite.
func (a *Aura) Duration() int32 { return a.duration }

// SetDuration overrides the full duration before the aura is applied.
func (a *Aura) SetDuration(ms int32) { a.duration = ms }

// SetRemaining sets the time left on the first countdown, used on restore.
func (a *Aura) SetRemaining(ms int32) { a.remaining = ms }

// Remaining returns the time left in ms, -1 for infinite auras.
func (a *Aura) Remaining() int32 {
	if a.duration <= 0 {
		return -1
	}
	if a.expire == nil || !a.expire.Running() {
		if a.state == stateUnapplied && a.remaining >= 0 {
			return a.remaining
		}
		return 0
	}
	return int32(a.expire.Remaining() / time.Millisecond)
}

// HasEffect reports whether any effect of the aura has type t.
func (a *Aura) HasEffect(t data.AuraType) bool {
	for _, e := range a.effects {
		if e.Type() == t {
			return true
		}
	}
	return false
}

// HasMechanics reports whether the spell or any of its effects carries a
// mechanic in mask.
func (a *Aura) HasMechanics(mask uint32) bool {
	if a.spell.MechanicMask()&mask != 0 {
		return true
	}
	for _, e := range a.effects {
		if e.def.Mechanic != data.MechanicNone && (1<<e.def.Mechanic)&mask != 0 {
			return true
		}
	}
	return false
}

// ShouldOverwrite reports whether a, being added, replaces existing.
//
// Same spell from the same caster, any rank of the same base spell, or a
// spell of the same exclusive group and family from the same caster all
// compete for one slot. UniquePerTarget spells compete regardless of caster.
func (a *Aura) ShouldOverwrite(existing *Aura) bool {
	sameCaster := a.casterGUID == existing.casterGUID
	unique := a.spell.HasAttribute(data.AttrUniquePerTarget)

	if a.spell.ID == existing.spell.ID {
		return sameCaster || unique
	}
	if a.spell.BaseID == existing.spell.BaseID {
		return true
	}
	if a.spell.ExclusiveGroup != data.GroupNone &&
		a.spell.ExclusiveGroup == existing.spell.ExclusiveGroup &&
		a.spell.Family == existing.spell.Family {
		return sameCaster || (unique && a.spell.Dispel == existing.spell.Dispel)
	}
	return false
}

// Caster resolves the caster's container, nil if the caster is gone.
func (a *Aura) Caster() *Container {
	if a.container == nil {
		return nil
	}
	return a.container.resolve(a.casterGUID)
}

// Owner returns the unit the aura is applied to, nil before AddAura.
func (a *Aura) Owner() *model.Unit {
	if a.container == nil {
		return nil
	}
	return a.container.owner
}

// AddStack merges a new application of the same spell into a: one more
// stack up to the spell's limit, refreshed duration, and effect values
// rescaled to the new stack count.
func (a *Aura) AddStack(other *Aura) {
	if a.stacks < a.spell.StackAmount {
		a.stacks++
	}
	a.duration = other.duration
	a.startDuration(-1)

	for i, e := range a.effects {
		per := e.perStack
		if i < len(other.effects) {
			per = other.effects[i].perStack
		}
		e.perStack = per
		e.changeBasePoints(per * int32(a.stacks))
	}
	a.updateSlotApplications()
	a.notifySlot()
}

// applyEffects runs every effect's apply handler and starts the duration.
func (a *Aura) applyEffects(restoration bool) {
	if a.state != stateUnapplied {
		invariant(ErrAlreadyApplied, "apply of aura in wrong state",
			"spell", a.spell.ID, "owner", a.container.owner.GUID())
	}
	a.state = stateApplied

	for _, e := range a.effects {
		e.apply(restoration)
		if a.state != stateApplied {
			// A handler removed the aura; its applied effects are already undone.
			return
		}
	}

	a.startDuration(a.remaining)
}

// misapplyEffects undoes every applied effect. Must follow removal from the
// container so handlers observe post-removal counters.
func (a *Aura) misapplyEffects() {
	if a.state != stateApplied {
		invariant(errNotApplied, "misapply of aura in wrong state",
			"spell", a.spell.ID, "owner", a.container.owner.GUID())
	}
	a.state = stateMisapplied
	a.expired = true
	if a.expire != nil {
		a.expire.Cancel()
	}

	for _, e := range a.effects {
		e.misapply()
	}
}

// startDuration arms the expiry countdown. remaining < 0 uses the full duration.
func (a *Aura) startDuration(remaining int32) {
	if a.duration <= 0 {
		return
	}
	if remaining < 0 || remaining > a.duration {
		remaining = a.duration
	}
	if a.expire == nil {
		a.expire = a.container.env.Timers.NewCountdown(a.onExpired)
	}
	a.expire.SetDelay(time.Duration(remaining) * time.Millisecond)
}

func (a *Aura) onExpired() {
	if a.expired || a.state != stateApplied {
		return
	}
	// A tick due at the expiry moment still fires.
	now := a.container.env.Timers.Now()
	for _, e := range a.effects {
		if e.tick != nil && e.tick.Running() && !e.tick.End().After(now) {
			e.tick.Cancel()
			e.onTick()
		}
	}
	if a.expired {
		return
	}
	slog.Debug("aura expired", "spell", a.spell.ID, "owner", a.container.owner.GUID())
	a.container.RemoveAura(a)
}

func (a *Aura) slotFlags() uint8 {
	if a.IsPositive() {
		return slotFlagsPositive
	}
	return slotFlagsNegative
}

// updateSlotApplications writes stack count - 1 into the applications byte.
func (a *Aura) updateSlotApplications() {
	if !a.HasValidSlot() || a.container == nil {
		return
	}
	a.container.owner.SetByteValue(model.FieldAuraApplications+int(a.slot/4), a.slot%4, uint8(min(a.stacks-1, 0xFF)))
}

func (a *Aura) notifySlot() {
	if !a.HasValidSlot() || a.container == nil || a.container.env.Listener == nil {
		return
	}
	maxDuration := a.duration
	if maxDuration <= 0 {
		maxDuration = -1
	}
	a.container.env.Listener.AuraUpdated(a.container.owner, a.slot, a.spell.ID, a.Remaining(), maxDuration)
}
