package aura

import (
	"math/rand/v2"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/timer"
)

// Resolver looks up a unit's aura container by guid.
// Casters are referenced weakly: a nil result means the unit is gone,
// which every caller must tolerate.
type Resolver interface {
	Auras(guid uint64) *Container
}

// SpellCaster casts triggered spells on behalf of aura handlers
// (shapeshift passives, talent procs, periodic triggers).
type SpellCaster interface {
	CastTriggered(caster *Container, targetGUID uint64, spellID uint32)
}

// ItemGranter creates items in a character's inventory.
type ItemGranter interface {
	CreateItems(owner *model.Unit, itemID uint32, count uint32) error
}

// Listener receives visible aura slot changes. duration and maxDuration are
// in ms, -1 for infinite auras; spellID 0 means the slot was cleared.
type Listener interface {
	AuraUpdated(owner *model.Unit, slot uint8, spellID uint32, duration, maxDuration int32)
}

// Env carries the collaborators shared by every container of one world.
// Timers and Spells are required; the rest may be nil.
type Env struct {
	Timers   *timer.Queue
	Spells   *data.Store
	World    Resolver
	Caster   SpellCaster
	Items    ItemGranter
	Listener Listener
	Rand     *rand.Rand
}

// rollChance returns true with the given percent probability.
func (e *Env) rollChance(pct int32) bool {
	if pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if e.Rand == nil {
		return rand.Int32N(100) < pct
	}
	return e.Rand.Int32N(100) < pct
}
