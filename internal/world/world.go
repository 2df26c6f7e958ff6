package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/timer"
)

// ErrUnitExists is returned when spawning a guid that is already in the world.
var ErrUnitExists = errors.New("unit already in world")

// World owns every unit's aura container and the timer queue that drives
// them. All aura work happens on the loop goroutine: Run executes ticks and
// the tasks submitted through Do one at a time.
//
// Methods other than Do, Run and UnitCount must be called from the loop
// goroutine (inside a Do task or a timer callback), or before Run starts.
type World struct {
	queue *timer.Queue
	env   *aura.Env
	units map[uint64]*aura.Container
	guids *GUIDGenerator
	tasks chan func()

	// unitCount mirrors len(units) for readers outside the loop.
	unitCount atomic.Int32
}

// New creates a world whose clock starts at start.
func New(spells *data.Store, start time.Time) *World {
	w := &World{
		queue: timer.NewQueue(start),
		units: make(map[uint64]*aura.Container),
		guids: NewGUIDGenerator(),
		tasks: make(chan func()),
	}
	w.env = &aura.Env{
		Timers:   w.queue,
		Spells:   spells,
		World:    w,
		Listener: LogListener{},
		Items:    LogItemGranter{},
		Rand:     rand.New(rand.NewPCG(uint64(start.UnixNano()), 0x5eed)),
	}
	return w
}

// Env returns the collaborators shared by the world's containers.
func (w *World) Env() *aura.Env { return w.env }

// Timers returns the world's timer queue.
func (w *World) Timers() *timer.Queue { return w.queue }

// SetSpellCaster installs the caster used for triggered spells.
func (w *World) SetSpellCaster(c aura.SpellCaster) { w.env.Caster = c }

// SetItemGranter replaces the item collaborator.
func (w *World) SetItemGranter(g aura.ItemGranter) { w.env.Items = g }

// SetListener replaces the slot update listener.
func (w *World) SetListener(l aura.Listener) { w.env.Listener = l }

// Auras returns the container of a unit in the world, nil if absent.
func (w *World) Auras(guid uint64) *aura.Container {
	return w.units[guid]
}

// Spawn adds a unit to the world and returns its fresh container.
func (w *World) Spawn(u *model.Unit) (*aura.Container, error) {
	if _, ok := w.units[u.GUID()]; ok {
		return nil, fmt.Errorf("spawning unit %d: %w", u.GUID(), ErrUnitExists)
	}
	c := aura.NewContainer(u, w.env)
	w.units[u.GUID()] = c
	w.unitCount.Add(1)
	slog.Debug("unit spawned", "guid", u.GUID(), "name", u.Name(), "character", u.IsCharacter())
	return c, nil
}

// SpawnCreature creates a creature from tmpl under a fresh guid.
func (w *World) SpawnCreature(tmpl model.UnitTemplate) (*aura.Container, error) {
	tmpl.Character = false
	return w.Spawn(model.NewUnit(w.guids.NextCreature(), tmpl))
}

// Despawn removes a unit and all of its auras. Auras it cast on others stay;
// their caster simply stops resolving.
func (w *World) Despawn(guid uint64) bool {
	c, ok := w.units[guid]
	if !ok {
		return false
	}
	removed := c.RemoveAllAuras()
	delete(w.units, guid)
	w.unitCount.Add(-1)
	slog.Debug("unit despawned", "guid", guid, "auras", removed)
	return true
}

// UnitCount returns the number of units in the world. Safe from any goroutine.
func (w *World) UnitCount() int {
	return int(w.unitCount.Load())
}

// Characters returns the containers of every character in the world.
func (w *World) Characters() []*aura.Container {
	out := make([]*aura.Container, 0, len(w.units))
	for _, c := range w.units {
		if c.Owner().IsCharacter() {
			out = append(out, c)
		}
	}
	return out
}

// MoveUnit reports movement of a unit: auras that end on movement are
// removed, and those that end on turning when turned is set.
func (w *World) MoveUnit(guid uint64, turned bool) int {
	c := w.units[guid]
	if c == nil {
		return 0
	}
	flags := data.InterruptMove
	if turned {
		flags |= data.InterruptTurning
	}
	return c.RemoveAllAurasDueToInterrupt(flags)
}

// Update advances the world clock, firing due aura timers.
func (w *World) Update(now time.Time) {
	w.queue.Update(now)
}

// Run drives the world until ctx is canceled: every interval the clock
// advances to wall time, and tasks from Do run between ticks.
func (w *World) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("world loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("world loop stopping", "units", len(w.units))
			return ctx.Err()

		case fn := <-w.tasks:
			fn()

		case now := <-ticker.C:
			w.Update(now)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
// Returns ctx.Err() only if ctx ends before fn is scheduled. Once the loop
// has taken fn, Do waits for it regardless of ctx, so the caller may read
// what fn wrote.
func (w *World) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case w.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	}

	<-done
	return nil
}
