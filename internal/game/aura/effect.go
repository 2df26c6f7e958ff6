package aura

import (
	"fmt"
	"time"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/timer"
)

// Effect is one typed effect of an applied aura.
type Effect struct {
	aura *Aura
	def  *data.SpellEffect

	basePoints int32
	// perStack is the single-stack value rescaled on AddStack.
	perStack int32

	// applied pairs every misapply with exactly one earlier apply.
	applied bool

	tick      *timer.Countdown
	tickCount uint32
}

// Aura returns the owning aura.
func (e *Effect) Aura() *Aura { return e.aura }

// Definition returns the spell effect entry the effect was built from.
func (e *Effect) Definition() *data.SpellEffect { return e.def }

// Type returns the effect's aura type.
func (e *Effect) Type() data.AuraType { return e.def.Aura }

// BasePoints returns the current effect value.
func (e *Effect) BasePoints() int32 { return e.basePoints }

// SetBasePoints changes the value without re-running the handler.
// Used by consumers such as absorb shields.
func (e *Effect) SetBasePoints(v int32) { e.basePoints = v }

// MiscValue returns the definition's first misc value.
func (e *Effect) MiscValue() int32 { return e.def.MiscValueA }

// TickCount returns how many periodic ticks have fired.
func (e *Effect) TickCount() uint32 { return e.tickCount }

// IsApplied reports whether the handler currently has its effect applied.
func (e *Effect) IsApplied() bool { return e.applied }

func (e *Effect) String() string {
	return fmt.Sprintf("spell %d effect %d type %d bp %d", e.aura.spell.ID, e.def.Index, e.def.Aura, e.basePoints)
}

func (e *Effect) container() *Container { return e.aura.container }
func (e *Effect) target() *model.Unit   { return e.aura.container.owner }
func (e *Effect) env() *Env             { return e.aura.container.env }

func (e *Effect) apply(restoration bool) {
	if e.applied {
		invariant(ErrAlreadyApplied, "effect applied twice", "effect", e.String())
	}
	e.applied = true
	handlerFor(e.Type())(e, true, restoration)
}

// misapply undoes apply. A no-op for effects that never applied, which
// happens when the aura is removed from inside its own apply.
func (e *Effect) misapply() {
	if !e.applied {
		return
	}
	e.applied = false
	if e.tick != nil {
		e.tick.Cancel()
	}
	handlerFor(e.Type())(e, false, false)
}

// changeBasePoints reapplies a non-periodic effect around a value change so
// stat modifiers move by the exact difference.
func (e *Effect) changeBasePoints(v int32) {
	if !e.applied || e.Type().IsPeriodic() {
		e.basePoints = v
		return
	}
	if r, ok := rescalers[e.Type()]; ok {
		old := e.basePoints
		e.basePoints = v
		r(e, old)
		return
	}
	h := handlerFor(e.Type())
	h(e, false, false)
	e.basePoints = v
	h(e, true, false)
}

// startPeriodic arms the tick countdown on the definition's amplitude.
func (e *Effect) startPeriodic() {
	if e.def.Amplitude <= 0 {
		return
	}
	e.tickCount = 0
	if e.tick == nil {
		e.tick = e.env().Timers.NewCountdown(e.onTick)
	}
	e.tick.SetDelay(e.amplitude())
}

func (e *Effect) amplitude() time.Duration {
	return time.Duration(e.def.Amplitude) * time.Millisecond
}

func (e *Effect) onTick() {
	// The aura may have been removed after this tick was queued.
	if e.aura.expired || !e.applied {
		return
	}
	e.tickCount++
	handlePeriodicTick(e)

	if e.aura.expired || !e.applied {
		return
	}
	e.tick.SetEnd(e.tick.End().Add(e.amplitude()))
}
