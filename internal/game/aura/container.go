package aura

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// Container holds every aura applied to one unit.
//
// Auras are kept in insertion order; absorb consumption and iteration follow
// that order. typeCount tracks how many effects of each type are currently
// held and must always match the list.
//
// Not thread-safe: a container is owned by the world tick goroutine.
// Handlers may call back into the container while it is mutating; every
// traversal works on a snapshot and skips auras removed in between.
type Container struct {
	owner     *model.Unit
	env       *Env
	auras     []*Aura
	typeCount map[data.AuraType]int
}

// NewContainer creates an empty container for owner.
func NewContainer(owner *model.Unit, env *Env) *Container {
	return &Container{
		owner:     owner,
		env:       env,
		auras:     make([]*Aura, 0, 16),
		typeCount: make(map[data.AuraType]int),
	}
}

// Owner returns the unit the container belongs to.
func (c *Container) Owner() *model.Unit { return c.owner }

// Env returns the shared collaborators.
func (c *Container) Env() *Env { return c.env }

// Len returns the number of held auras.
func (c *Container) Len() int { return len(c.auras) }

// Auras returns a snapshot of the held auras in insertion order.
func (c *Container) Auras() []*Aura { return slices.Clone(c.auras) }

// AddAura applies a new aura to the owner.
//
// An existing aura it overwrites is removed first and its slot reused. A
// second application of a stackable spell from the same caster is merged
// into the existing aura instead. Returns false when the aura is rejected
// (lower rank than a held one, or no free slot); nothing changes then.
// A new shapeshift removes every held shapeshift before the aura is written.
func (c *Container) AddAura(a *Aura, restoration bool) bool {
	if a.state != stateUnapplied {
		invariant(ErrAlreadyApplied, "add of aura in wrong state",
			"spell", a.spell.ID, "owner", c.owner.GUID())
	}

	newSlot := model.NoAuraSlot
	if !c.isHidden(a) {
		for i := 0; i < len(c.auras); i++ {
			existing := c.auras[i]
			if !existing.HasValidSlot() || !a.ShouldOverwrite(existing) {
				continue
			}

			sameBase := existing.spell.BaseID == a.spell.BaseID
			if sameBase && existing.spell.Rank > a.spell.Rank {
				slog.Debug("aura rejected by higher rank",
					"owner", c.owner.GUID(), "spell", a.spell.ID, "held", existing.spell.ID)
				return false
			}

			if existing.spell.ID == a.spell.ID && a.spell.StackAmount > 0 &&
				a.casterGUID != 0 && existing.casterGUID == a.casterGUID {
				existing.AddStack(a)
				return true
			}

			newSlot = existing.slot
			c.removeAt(i)
			break
		}

		// Handlers of the removed aura may have filled the freed slot.
		if newSlot != model.NoAuraSlot && !c.slotFree(newSlot) {
			newSlot = model.NoAuraSlot
		}
		if newSlot == model.NoAuraSlot {
			newSlot = c.findFreeSlot(a.IsPositive())
		}
		if newSlot == model.NoAuraSlot && a.HasEffect(data.AuraModShapeShift) {
			newSlot = c.formSlot(a.IsPositive())
		}
		if newSlot == model.NoAuraSlot {
			slog.Debug("no free aura slot", "owner", c.owner.GUID(), "spell", a.spell.ID)
			return false
		}
	}

	// Every check has passed; from here on the aura is accepted.
	if a.HasEffect(data.AuraModShapeShift) {
		c.RemoveAurasByType(data.AuraModShapeShift)
		if newSlot != model.NoAuraSlot && !c.slotFree(newSlot) {
			invariant(errSlotTaken, "aura slot filled while removing old forms",
				"owner", c.owner.GUID(), "spell", a.spell.ID, "slot", newSlot)
		}
	}

	a.container = c
	a.slot = newSlot
	if a.HasValidSlot() {
		c.writeSlot(a)
	}

	c.auras = append(c.auras, a)
	for _, e := range a.effects {
		c.typeCount[e.Type()]++
	}

	a.applyEffects(restoration)
	if a.state == stateApplied {
		a.notifySlot()
	}
	return true
}

// RemoveAura removes a held aura. Removing an aura that is not held logs a
// warning and does nothing.
func (c *Container) RemoveAura(a *Aura) {
	i := slices.Index(c.auras, a)
	if i < 0 {
		slog.Warn("removing aura not held by container",
			"owner", c.owner.GUID(), "spell", a.spell.ID)
		return
	}
	c.removeAt(i)
}

// removeAt erases the aura at index i, updates counters and clears its slot,
// then undoes its effects. Handlers run last so they observe the container
// without the aura.
func (c *Container) removeAt(i int) {
	a := c.auras[i]
	c.auras = slices.Delete(c.auras, i, i+1)

	for _, e := range a.effects {
		t := e.Type()
		n := c.typeCount[t] - 1
		if n < 0 {
			invariant(errCounterUnderflow, "effect type counter underflow",
				"owner", c.owner.GUID(), "spell", a.spell.ID, "type", t)
		}
		if n == 0 {
			delete(c.typeCount, t)
		} else {
			c.typeCount[t] = n
		}
	}

	if a.HasValidSlot() {
		c.clearSlot(a)
	}

	a.misapplyEffects()
}

// removeIf removes every held aura matching pred, at most limit when
// limit > 0. Auras added during the traversal are not visited.
func (c *Container) removeIf(pred func(*Aura) bool, limit int) int {
	removed := 0
	for _, a := range slices.Clone(c.auras) {
		if a.state != stateApplied || a.container != c || !pred(a) {
			continue
		}
		c.RemoveAura(a)
		removed++
		if limit > 0 && removed >= limit {
			break
		}
	}
	return removed
}

// RemoveAllAurasDueToSpell removes every aura of spellID.
func (c *Container) RemoveAllAurasDueToSpell(spellID uint32) int {
	if spellID == 0 {
		slog.Warn("removing auras of spell 0", "owner", c.owner.GUID())
		return 0
	}
	return c.removeIf(func(a *Aura) bool { return a.spell.ID == spellID }, 0)
}

// RemoveAllAurasDueToItem removes every aura produced by the item.
// Guid 0 marks auras without an item source and matches nothing.
func (c *Container) RemoveAllAurasDueToItem(itemGUID uint64) int {
	if itemGUID == 0 {
		slog.Warn("removing auras of item 0", "owner", c.owner.GUID())
		return 0
	}
	return c.removeIf(func(a *Aura) bool { return a.itemGUID == itemGUID }, 0)
}

// RemoveAllAurasDueToMechanic removes every aura carrying a mechanic in mask.
func (c *Container) RemoveAllAurasDueToMechanic(mask uint32) int {
	if mask == 0 {
		slog.Warn("removing auras by empty mechanic mask", "owner", c.owner.GUID())
		return 0
	}
	return c.removeIf(func(a *Aura) bool { return a.HasMechanics(mask) }, 0)
}

// RemoveAurasDueToDispel removes up to count auras of the dispel type whose
// polarity matches positive. count below 1 is treated as 1.
func (c *Container) RemoveAurasDueToDispel(dispelType uint32, positive bool, count int) int {
	if dispelType == data.DispelNone {
		slog.Warn("dispel without dispel type", "owner", c.owner.GUID())
		return 0
	}
	return c.removeIf(func(a *Aura) bool {
		return a.spell.Dispel == dispelType && a.IsPositive() == positive
	}, max(count, 1))
}

// RemoveAurasByType removes every aura holding an effect of type t.
func (c *Container) RemoveAurasByType(t data.AuraType) int {
	if !c.HasAura(t) {
		return 0
	}
	return c.removeIf(func(a *Aura) bool { return a.HasEffect(t) }, 0)
}

// RemoveAllAurasDueToInterrupt removes auras whose interrupt flags
// intersect flags.
func (c *Container) RemoveAllAurasDueToInterrupt(flags uint32) int {
	return c.removeIf(func(a *Aura) bool { return a.spell.AuraInterruptFlags&flags != 0 }, 0)
}

// HandleTargetDeath removes every aura that does not persist through death.
func (c *Container) HandleTargetDeath() int {
	return c.removeIf(func(a *Aura) bool { return !a.IsDeathPersistent() }, 0)
}

// RemoveAllAuras removes every aura.
func (c *Container) RemoveAllAuras() int {
	return c.removeIf(func(*Aura) bool { return true }, 0)
}

// HasAura reports whether any held effect has type t.
func (c *Container) HasAura(t data.AuraType) bool {
	return c.typeCount[t] > 0
}

// HasAuraFromSpell reports whether an aura of spellID is held.
func (c *Container) HasAuraFromSpell(spellID uint32) bool {
	return slices.ContainsFunc(c.auras, func(a *Aura) bool { return a.spell.ID == spellID })
}

// FindAura returns the first held aura of spellID, optionally from casterGUID.
func (c *Container) FindAura(spellID uint32, casterGUID uint64) *Aura {
	for _, a := range c.auras {
		if a.spell.ID == spellID && (casterGUID == 0 || a.casterGUID == casterGUID) {
			return a
		}
	}
	return nil
}

// TypeCount returns the number of held effects of type t.
func (c *Container) TypeCount(t data.AuraType) int {
	return c.typeCount[t]
}

// Effects yields every effect of every held aura in insertion order.
// Auras removed during the traversal are skipped; added ones are not visited.
func (c *Container) Effects() iter.Seq[*Effect] {
	return func(yield func(*Effect) bool) {
		for _, a := range slices.Clone(c.auras) {
			if a.state != stateApplied {
				continue
			}
			for _, e := range a.effects {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// EffectsOfType yields every held effect of type t.
func (c *Container) EffectsOfType(t data.AuraType) iter.Seq[*Effect] {
	return func(yield func(*Effect) bool) {
		if !c.HasAura(t) {
			return
		}
		for e := range c.Effects() {
			if e.Type() == t && !yield(e) {
				return
			}
		}
	}
}

// ForEachAura calls visitor for every held effect until it returns false.
func (c *Container) ForEachAura(visitor func(*Effect) bool) {
	for e := range c.Effects() {
		if !visitor(e) {
			return
		}
	}
}

// ForEachAuraOfType calls visitor for every held effect of type t until it
// returns false.
func (c *Container) ForEachAuraOfType(t data.AuraType, visitor func(*Effect) bool) {
	for e := range c.EffectsOfType(t) {
		if !visitor(e) {
			return
		}
	}
}

// GetTotalBasePoints sums base points of all effects of type t.
func (c *Container) GetTotalBasePoints(t data.AuraType) int32 {
	var total int32
	for e := range c.EffectsOfType(t) {
		total += e.basePoints
	}
	return total
}

// GetMaximumBasePoints returns the largest base points of type t, or 0.
func (c *Container) GetMaximumBasePoints(t data.AuraType) int32 {
	var threshold int32
	for e := range c.EffectsOfType(t) {
		threshold = max(threshold, e.basePoints)
	}
	return threshold
}

// GetMinimumBasePoints returns the smallest base points of type t, or 0.
func (c *Container) GetMinimumBasePoints(t data.AuraType) int32 {
	var threshold int32
	for e := range c.EffectsOfType(t) {
		threshold = min(threshold, e.basePoints)
	}
	return threshold
}

// GetTotalMultiplier returns the product of (100 + bp) / 100 over all
// effects of type t. 1.0 when none are held.
func (c *Container) GetTotalMultiplier(t data.AuraType) float64 {
	mult := 1.0
	for e := range c.EffectsOfType(t) {
		mult *= float64(100+e.basePoints) / 100.0
	}
	return mult
}

// schoolMultiplier is GetTotalMultiplier restricted to effects whose misc
// value covers a school in schoolMask.
func (c *Container) schoolMultiplier(t data.AuraType, schoolMask uint32) float64 {
	mult := 1.0
	for e := range c.EffectsOfType(t) {
		if uint32(e.MiscValue())&schoolMask != 0 {
			mult *= float64(100+e.basePoints) / 100.0
		}
	}
	return mult
}

// schoolTotal sums base points of effects of type t covering school index i.
func (c *Container) schoolTotal(t data.AuraType, school int) int32 {
	var total int32
	for e := range c.EffectsOfType(t) {
		if uint32(e.MiscValue())&(1<<school) != 0 {
			total += e.basePoints
		}
	}
	return total
}

// Verify recomputes the per-type counters and slot ownership from the list
// and reports the first mismatch.
func (c *Container) Verify() error {
	counts := make(map[data.AuraType]int, len(c.typeCount))
	slots := make(map[uint8]uint32)
	for _, a := range c.auras {
		for _, e := range a.effects {
			counts[e.Type()]++
		}
		if !a.HasValidSlot() {
			continue
		}
		if other, taken := slots[a.slot]; taken {
			return fmt.Errorf("slot %d held by spells %d and %d", a.slot, other, a.spell.ID)
		}
		slots[a.slot] = a.spell.ID
		if got := c.owner.GetUInt32Value(model.FieldAuraEffect + int(a.slot)); got != a.spell.ID {
			return fmt.Errorf("slot %d field holds %d, aura is %d", a.slot, got, a.spell.ID)
		}
	}
	for t, n := range counts {
		if c.typeCount[t] != n {
			return fmt.Errorf("type %d counter %d, list holds %d", t, c.typeCount[t], n)
		}
	}
	for t, n := range c.typeCount {
		if counts[t] != n {
			return fmt.Errorf("type %d counter %d, list holds %d", t, n, counts[t])
		}
	}
	return nil
}

// LogAuraInfos writes every held aura at info level.
func (c *Container) LogAuraInfos() {
	slog.Info("aura list", "owner", c.owner.GUID(), "name", c.owner.Name(), "count", len(c.auras))
	for i, a := range c.auras {
		slog.Info("aura",
			"index", i,
			"spell", a.spell.ID,
			"name", a.spell.Name,
			"slot", a.slot,
			"caster", a.casterGUID,
			"stacks", a.stacks,
			"remaining", a.Remaining())
		for _, e := range a.effects {
			slog.Info("aura effect", "index", e.def.Index, "type", e.Type(), "bp", e.basePoints)
		}
	}
}

// isHidden reports whether a takes no visible slot.
func (c *Container) isHidden(a *Aura) bool {
	return a.IsPassive() || a.spell.HasAttribute(data.AttrHiddenClientSide)
}

func (c *Container) slotFree(slot uint8) bool {
	return c.owner.GetUInt32Value(model.FieldAuraEffect+int(slot)) == 0
}

// findFreeSlot returns the lowest free slot of the polarity's range.
func (c *Container) findFreeSlot(positive bool) uint8 {
	start, end := 0, model.MaxPositiveAuraSlots
	if !positive {
		start, end = model.MaxPositiveAuraSlots, model.MaxAuraSlots
	}
	for i := start; i < end; i++ {
		if c.slotFree(uint8(i)) {
			return uint8(i)
		}
	}
	return model.NoAuraSlot
}

// formSlot returns the slot of a held shapeshift of the given polarity.
// A new form replaces it, so the slot is free by the time the form is written.
func (c *Container) formSlot(positive bool) uint8 {
	for _, held := range c.auras {
		if held.state == stateApplied && held.HasValidSlot() &&
			held.IsPositive() == positive && held.HasEffect(data.AuraModShapeShift) {
			return held.slot
		}
	}
	return model.NoAuraSlot
}

func (c *Container) writeSlot(a *Aura) {
	slot := int(a.slot)
	c.owner.SetUInt32Value(model.FieldAuraEffect+slot, a.spell.ID)
	c.owner.SetByteValue(model.FieldAuraLevels+slot/4, uint8(slot%4), uint8(min(max(a.casterLevel, 0), 0xFF)))
	c.owner.SetByteValue(model.FieldAuraFlags+slot/4, uint8(slot%4), a.slotFlags())
	a.updateSlotApplications()
}

func (c *Container) clearSlot(a *Aura) {
	slot := int(a.slot)
	c.owner.SetUInt32Value(model.FieldAuraEffect+slot, 0)
	c.owner.SetByteValue(model.FieldAuraLevels+slot/4, uint8(slot%4), 0)
	c.owner.SetByteValue(model.FieldAuraFlags+slot/4, uint8(slot%4), 0)
	c.owner.SetByteValue(model.FieldAuraApplications+slot/4, uint8(slot%4), 0)

	if c.env.Listener != nil {
		c.env.Listener.AuraUpdated(c.owner, a.slot, 0, 0, 0)
	}
}
