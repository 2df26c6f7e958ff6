package spell

import "errors"

var (
	// ErrUnknownSpell is returned when a spell id has no definition.
	ErrUnknownSpell = errors.New("unknown spell")

	// ErrNoAuraEffects is returned when an aura is requested from a spell
	// without aura effects.
	ErrNoAuraEffects = errors.New("spell has no aura effects")

	// ErrCasterDead is returned for casts from a dead unit.
	ErrCasterDead = errors.New("caster is dead")

	// ErrTargetNotFound is returned when the target guid does not resolve.
	ErrTargetNotFound = errors.New("target not found")
)
