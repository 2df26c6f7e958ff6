package aura

import "log/slog"

// MaxRecordEffects is the number of effect values a persisted aura keeps.
const MaxRecordEffects = 3

// Record is the persisted form of one aura.
type Record struct {
	SpellID          uint32
	CasterGUID       uint64
	ItemGUID         uint64
	MaxDuration      int32 // ms, <= 0 infinite
	RemainingTime    int32 // ms, -1 infinite
	RemainingCharges uint32
	StackCount       uint32
	BasePoints       [MaxRecordEffects]int32
}

// SerializeAuraData snapshots every aura worth persisting. Passive auras
// are recreated by their sources and channeled ones end on logout, so both
// are skipped.
func (c *Container) SerializeAuraData() []Record {
	records := make([]Record, 0, len(c.auras))
	for _, a := range c.auras {
		if a.IsPassive() || a.IsChanneled() {
			continue
		}
		rec := Record{
			SpellID:          a.spell.ID,
			CasterGUID:       a.casterGUID,
			ItemGUID:         a.itemGUID,
			MaxDuration:      a.duration,
			RemainingTime:    a.Remaining(),
			RemainingCharges: a.charges,
			StackCount:       a.stacks,
		}
		for i, e := range a.effects {
			if i >= MaxRecordEffects {
				break
			}
			rec.BasePoints[i] = e.basePoints
		}
		records = append(records, rec)
	}
	return records
}

// RestoreAuraData re-applies persisted auras in order and returns how many
// were restored. Records of unknown spells are skipped with a warning.
// Casters are resolved lazily; a caster that is not in the world yet keeps
// its guid reference.
func (c *Container) RestoreAuraData(records []Record) int {
	restored := 0
	for _, rec := range records {
		spell := c.env.Spells.Spell(rec.SpellID)
		if spell == nil {
			slog.Warn("skipping persisted aura of unknown spell",
				"owner", c.owner.GUID(), "spell", rec.SpellID)
			continue
		}
		if rec.RemainingTime == 0 && rec.MaxDuration > 0 {
			continue
		}

		a := New(spell, rec.CasterGUID, rec.ItemGUID)
		a.SetDuration(rec.MaxDuration)
		a.SetRemaining(rec.RemainingTime)
		a.SetChargeCount(rec.RemainingCharges)
		a.stacks = max(rec.StackCount, 1)
		if caster := c.resolve(rec.CasterGUID); caster != nil {
			a.SetCasterLevel(caster.owner.Level())
		}

		idx := 0
		for i := range spell.Effects {
			def := &spell.Effects[i]
			if !def.IsAura() {
				continue
			}
			var bp int32
			if idx < MaxRecordEffects {
				bp = rec.BasePoints[idx]
			}
			e := a.AddEffect(def, bp)
			e.perStack = bp / int32(a.stacks)
			idx++
		}

		if !c.AddAura(a, true) {
			slog.Warn("persisted aura rejected", "owner", c.owner.GUID(), "spell", rec.SpellID)
			continue
		}
		restored++
	}
	return restored
}

// resolve looks up a container by guid, this one included.
func (c *Container) resolve(guid uint64) *Container {
	if guid == 0 {
		return nil
	}
	if guid == c.owner.GUID() {
		return c
	}
	if c.env.World == nil {
		return nil
	}
	return c.env.World.Auras(guid)
}
