package spell

import (
	"math/rand/v2"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/game/aura"
)

// HitResult is the outcome of a spell hit check against one target.
type HitResult uint8

const (
	HitNormal HitResult = iota
	HitMiss
	HitImmune
)

func (r HitResult) String() string {
	switch r {
	case HitNormal:
		return "hit"
	case HitMiss:
		return "miss"
	case HitImmune:
		return "immune"
	default:
		return "unknown"
	}
}

// HitResolver decides whether a spell lands on a target.
type HitResolver interface {
	ResolveHit(caster, target *aura.Container, sp *data.Spell) HitResult
}

// AlwaysHit lands every spell.
type AlwaysHit struct{}

func (AlwaysHit) ResolveHit(_, _ *aura.Container, _ *data.Spell) HitResult { return HitNormal }

// LevelHitResolver rolls hostile spells against a miss chance that grows
// with the target's level advantage. Beneficial spells always land.
type LevelHitResolver struct {
	Rand *rand.Rand
}

func (r LevelHitResolver) ResolveHit(caster, target *aura.Container, sp *data.Spell) HitResult {
	if sp.Positive || caster == target {
		return HitNormal
	}
	chance := MissChance(caster.Owner().Level(), target.Owner().Level(), target.Owner().IsCharacter())
	var roll int32
	if r.Rand != nil {
		roll = r.Rand.Int32N(100)
	} else {
		roll = rand.Int32N(100)
	}
	if roll < chance {
		return HitMiss
	}
	return HitNormal
}

// MissChance returns the percent chance for a hostile spell to miss.
// Up to two levels above the caster add one percent each; every further
// level adds eleven against creatures and seven against characters.
func MissChance(casterLevel, targetLevel int32, targetIsCharacter bool) int32 {
	diff := targetLevel - casterLevel
	var chance int32
	switch {
	case diff < 3:
		chance = 4 + diff
	case targetIsCharacter:
		chance = 6 + (diff-2)*7
	default:
		chance = 6 + (diff-2)*11
	}
	return min(max(chance, 1), 99)
}
