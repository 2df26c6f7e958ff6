package aura

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// Control flags are derived from the per-type counters: a flag stays set
// while any effect of its type is held.

func handleModConfuse(e *Effect, _, _ bool) {
	e.target().SetUnitFlag(model.UnitFlagConfused, e.container().HasAura(data.AuraModConfuse))
}

func handleModFear(e *Effect, _, _ bool) {
	e.target().SetUnitFlag(model.UnitFlagFleeing, e.container().HasAura(data.AuraModFear))
}

func handleModSilence(e *Effect, _, _ bool) {
	e.target().SetUnitFlag(model.UnitFlagSilenced, e.container().HasAura(data.AuraModSilence))
}

func handleModPacify(e *Effect, _, _ bool) {
	e.target().SetUnitFlag(model.UnitFlagPacified, e.container().HasAura(data.AuraModPacify))
}

// updateRooted roots the unit while any stun or root is held.
func updateRooted(c *Container) {
	rooted := c.HasAura(data.AuraModStun) || c.HasAura(data.AuraModRoot)
	u := c.owner
	if u.IsRooted() == rooted {
		return
	}
	u.SetUnitFlag(model.UnitFlagRooted, rooted)
	u.SetPendingMovementFlag(model.MovementChangeRoot, rooted)
}

func handleModStun(e *Effect, _, _ bool) {
	c := e.container()
	c.owner.SetUnitFlag(model.UnitFlagStunned, c.HasAura(data.AuraModStun))
	updateRooted(c)
}

func handleModRoot(e *Effect, _, _ bool) {
	updateRooted(e.container())
}

// handleModStealth sets stealth visibility; undo keeps it while another
// stealth effect is held.
func handleModStealth(e *Effect, apply, _ bool) {
	u := e.target()
	if !apply && e.container().HasAura(data.AuraModStealth) {
		return
	}
	if apply {
		u.SetByteValue(model.FieldBytes1, 2, u.GetByteValue(model.FieldBytes1, 2)|0x02)
		if u.IsCharacter() {
			u.SetByteValue(model.FieldCharacterBytes2, 3, u.GetByteValue(model.FieldCharacterBytes2, 3)|0x20)
		}
	} else {
		u.SetByteValue(model.FieldBytes1, 2, u.GetByteValue(model.FieldBytes1, 2)&^0x02)
		if u.IsCharacter() {
			u.SetByteValue(model.FieldCharacterBytes2, 3, u.GetByteValue(model.FieldCharacterBytes2, 3)&^0x20)
		}
	}
	u.SetUnitFlag(model.UnitFlagStealthed, apply)
}

func handleModInvisibility(e *Effect, apply, _ bool) {
	u := e.target()
	if !apply && e.container().HasAura(data.AuraModInvisibility) {
		return
	}
	if apply {
		u.SetByteValue(model.FieldBytes1, 2, u.GetByteValue(model.FieldBytes1, 2)|0x01)
	} else {
		u.SetByteValue(model.FieldBytes1, 2, u.GetByteValue(model.FieldBytes1, 2)&^0x01)
	}
}

// handleTransform shows the creature model named by misc. Undo falls back
// to a held shapeshift or transform, else the native model.
func handleTransform(e *Effect, apply, _ bool) {
	u := e.target()
	if apply {
		if id := creatureModel(e); id != 0 {
			u.SetUInt32Value(model.FieldDisplayID, id)
		}
		return
	}
	restoreDisplay(e.container())
}

// creatureModel resolves the misc value to a display id, 0 if unknown.
func creatureModel(e *Effect) uint32 {
	tmpl := e.env().Spells.Creature(uint32(e.MiscValue()))
	if tmpl == nil {
		slog.Warn("aura references unknown creature", "effect", e.String(), "creature", e.MiscValue())
		return 0
	}
	return tmpl.MaleModel
}

// restoreDisplay recomputes the display id from remaining transforms,
// then shapeshift, then the native model.
func restoreDisplay(c *Container) {
	u := c.owner
	for other := range c.EffectsOfType(data.AuraTransform) {
		if id := creatureModel(other); id != 0 {
			u.SetUInt32Value(model.FieldDisplayID, id)
			return
		}
	}
	if form := data.ShapeshiftForm(u.ShapeShiftForm()); form != data.FormNone {
		if id := formModel(form, u); id != 0 {
			u.SetUInt32Value(model.FieldDisplayID, id)
			return
		}
	}
	u.SetUInt32Value(model.FieldDisplayID, u.GetUInt32Value(model.FieldNativeDisplayID))
}

func handleMounted(e *Effect, apply, _ bool) {
	u := e.target()
	if !apply {
		u.SetUInt32Value(model.FieldMountDisplayID, 0)
		return
	}
	if id := creatureModel(e); id != 0 {
		u.SetUInt32Value(model.FieldMountDisplayID, id)
	}
}

// handleModScale multiplies the object scale by every held scale effect.
func handleModScale(e *Effect, _, _ bool) {
	c := e.container()
	mult := c.GetTotalMultiplier(data.AuraModScale)
	c.owner.SetFloatValue(model.FieldScaleX, c.owner.NativeScale()*float32(mult))
}
