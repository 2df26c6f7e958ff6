package aura

import (
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// Speed rates combine the strongest increase with the strongest slow, so
// overlapping speed buffs never add up.
func speedRate(c *Container, increase ...data.AuraType) float32 {
	var main int32
	for _, t := range increase {
		main = max(main, c.GetMaximumBasePoints(t))
	}
	slow := c.GetMinimumBasePoints(data.AuraModDecreaseSpeed)
	rate := float32(100+main) / 100 * float32(100+slow) / 100
	return max(rate, 0)
}

func updateRunSpeed(c *Container, restoration bool) {
	rate := speedRate(c, data.AuraModIncreaseSpeed, data.AuraModIncreaseMountedSpeed)
	c.owner.SetSpeedRate(model.MoveRun, rate, restoration)
}

func updateSwimSpeed(c *Container, restoration bool) {
	rate := speedRate(c, data.AuraModIncreaseSwimSpeed)
	c.owner.SetSpeedRate(model.MoveSwim, rate, restoration)
}

func updateFlightSpeed(c *Container, restoration bool) {
	rate := speedRate(c, data.AuraModFlightSpeedMounted)
	c.owner.SetSpeedRate(model.MoveFlight, rate, restoration)
}

func handleRunSpeed(e *Effect, _, restoration bool) {
	updateRunSpeed(e.container(), restoration)
}

func handleSwimSpeed(e *Effect, _, restoration bool) {
	updateSwimSpeed(e.container(), restoration)
}

func handleFlightSpeed(e *Effect, _, restoration bool) {
	updateFlightSpeed(e.container(), restoration)
}

// handleDecreaseSpeed slows every movement type.
func handleDecreaseSpeed(e *Effect, _, restoration bool) {
	c := e.container()
	updateRunSpeed(c, restoration)
	updateSwimSpeed(c, restoration)
	updateFlightSpeed(c, restoration)
}

func handleFly(e *Effect, _, _ bool) {
	c := e.container()
	flying := c.HasAura(data.AuraFly)
	if c.owner.IsCharacter() {
		if c.owner.HasMovementFlag(model.MovementFlagCanFly) != flying {
			c.owner.SetPendingMovementFlag(model.MovementChangeCanFly, flying)
		}
		return
	}
	c.owner.SetFlightMode(flying)
}

// toggleMovement sets a movement capability on apply and clears it once no
// effect of type t is left.
func toggleMovement(e *Effect, apply bool, t data.AuraType, change model.MovementChangeType) {
	if !apply && e.container().HasAura(t) {
		return
	}
	e.target().SetPendingMovementFlag(change, apply)
}

func handleWaterWalk(e *Effect, apply, _ bool) {
	toggleMovement(e, apply, data.AuraWaterWalk, model.MovementChangeWaterWalk)
}

func handleFeatherFall(e *Effect, apply, _ bool) {
	toggleMovement(e, apply, data.AuraFeatherFall, model.MovementChangeFeatherFall)
}

func handleHover(e *Effect, apply, _ bool) {
	toggleMovement(e, apply, data.AuraHover, model.MovementChangeHover)
}
