package spell

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/model"
)

// Result describes what one cast did to its target.
type Result struct {
	Hit HitResult
	// Aura is the built aura, nil for spells without aura effects.
	Aura *aura.Aura
	// Applied reports whether the aura was accepted by the target.
	Applied bool
	Damage  aura.DamageResult
	Healed  uint32
}

// Caster executes spells: instant effects resolve at once, aura effects are
// bundled into one aura and added to the target's container.
// It implements aura.SpellCaster for spells triggered by aura handlers.
//
// Not safe for concurrent use; like the containers it serves, a Caster
// belongs to one world loop.
type Caster struct {
	spells *data.Store
	world  aura.Resolver
	hits   HitResolver
	rand   *rand.Rand
}

// NewCaster creates a Caster. A nil hits lands every spell.
func NewCaster(spells *data.Store, world aura.Resolver, hits HitResolver, rnd *rand.Rand) *Caster {
	if hits == nil {
		hits = AlwaysHit{}
	}
	return &Caster{
		spells: spells,
		world:  world,
		hits:   hits,
		rand:   rnd,
	}
}

// Cast runs spellID from caster on target. Casting breaks the caster's
// auras that end on cast.
func (c *Caster) Cast(caster, target *aura.Container, spellID uint32) (Result, error) {
	sp := c.spells.Spell(spellID)
	if sp == nil {
		return Result{}, fmt.Errorf("casting spell %d: %w", spellID, ErrUnknownSpell)
	}
	if !caster.Owner().IsAlive() {
		return Result{}, fmt.Errorf("casting spell %d: %w", spellID, ErrCasterDead)
	}

	caster.RemoveAllAurasDueToInterrupt(data.InterruptCast)
	return c.cast(caster, target, sp, false), nil
}

// CastOn resolves the target by guid and casts.
func (c *Caster) CastOn(caster *aura.Container, targetGUID uint64, spellID uint32) (Result, error) {
	target := c.world.Auras(targetGUID)
	if target == nil {
		return Result{}, fmt.Errorf("casting spell %d on %d: %w", spellID, targetGUID, ErrTargetNotFound)
	}
	return c.Cast(caster, target, spellID)
}

// CastTriggered casts without interrupts or hit checks. Failures are logged.
func (c *Caster) CastTriggered(caster *aura.Container, targetGUID uint64, spellID uint32) {
	sp := c.spells.Spell(spellID)
	if sp == nil {
		slog.Warn("triggered spell not found", "spell", spellID, "caster", caster.Owner().GUID())
		return
	}
	target := c.world.Auras(targetGUID)
	if target == nil {
		slog.Debug("triggered spell target gone", "spell", spellID, "target", targetGUID)
		return
	}
	c.cast(caster, target, sp, true)
}

func (c *Caster) cast(caster, target *aura.Container, sp *data.Spell, triggered bool) Result {
	var res Result
	if !triggered {
		res.Hit = c.hits.ResolveHit(caster, target, sp)
		if res.Hit == HitNormal && target.Owner().IsImmuneToMechanic(sp.MechanicMask()) {
			res.Hit = HitImmune
		}
		if res.Hit != HitNormal {
			slog.Debug("spell did not land",
				"spell", sp.ID, "caster", caster.Owner().GUID(),
				"target", target.Owner().GUID(), "result", res.Hit)
			return res
		}
		if !sp.Positive && caster != target {
			target.RemoveAllAurasDueToInterrupt(data.InterruptHitBySpell)
		}
	}

	for i := range sp.Effects {
		def := &sp.Effects[i]
		switch def.Type {
		case data.SpellEffectSchoolDamage:
			bp := c.rollBasePoints(caster, sp, def)
			dmg := aura.SpellDamageBonus(caster, sp.SchoolMask(), bp)
			res.Damage = aura.DealDamage(caster, target, uint32(max(dmg, 0)), sp.SchoolMask(), false)
		case data.SpellEffectHeal:
			bp := c.rollBasePoints(caster, sp, def)
			res.Healed += aura.Heal(target, uint32(aura.SpellHealingBonus(caster, bp)))
		case data.SpellEffectEnergize:
			power := model.PowerType(def.MiscValueA)
			if def.MiscValueA < 0 || power >= model.PowerCount {
				slog.Warn("energize with invalid power type", "spell", sp.ID, "power", def.MiscValueA)
				continue
			}
			target.Owner().AddPower(power, c.rollBasePoints(caster, sp, def))
		}
	}

	if !target.Owner().IsAlive() && !sp.HasAttribute(data.AttrDeathPersistent) {
		return res
	}

	a, err := c.BuildAura(caster, sp)
	if err != nil {
		return res
	}
	res.Aura = a
	res.Applied = target.AddAura(a, false)
	if res.Applied {
		slog.Debug("aura applied",
			"spell", sp.ID, "caster", caster.Owner().GUID(), "target", target.Owner().GUID())
	}
	return res
}

// BuildAura creates an unapplied aura of sp with rolled and spell-modified
// base points and duration.
func (c *Caster) BuildAura(caster *aura.Container, sp *data.Spell) (*aura.Aura, error) {
	basePoints := make(map[int]int32)
	for i := range sp.Effects {
		def := &sp.Effects[i]
		if def.IsAura() {
			basePoints[def.Index] = c.rollBasePoints(caster, sp, def)
		}
	}
	if len(basePoints) == 0 {
		return nil, fmt.Errorf("building aura of spell %d: %w", sp.ID, ErrNoAuraEffects)
	}

	u := caster.Owner()
	a := aura.BuildAura(sp, u.GUID(), 0, basePoints)
	a.SetCasterLevel(u.Level())
	if sp.Duration > 0 {
		a.SetDuration(max(u.ApplySpellMod(model.SpellModDuration, sp.FamilyFlags, sp.Duration), 1))
	}
	return a, nil
}

// rollBasePoints returns the effect value: base points plus a die roll,
// adjusted by the caster's spell modifiers.
func (c *Caster) rollBasePoints(caster *aura.Container, sp *data.Spell, def *data.SpellEffect) int32 {
	bp := def.BasePoints
	if def.DieSides > 0 {
		bp += 1 + c.intN(def.DieSides)
	}

	u := caster.Owner()
	bp = u.ApplySpellMod(model.SpellModAllEffects, sp.FamilyFlags, bp)
	switch def.Index {
	case 0:
		bp = u.ApplySpellMod(model.SpellModEffect1, sp.FamilyFlags, bp)
	case 1:
		bp = u.ApplySpellMod(model.SpellModEffect2, sp.FamilyFlags, bp)
	}
	return bp
}

func (c *Caster) intN(n int32) int32 {
	if c.rand == nil {
		return rand.Int32N(n)
	}
	return c.rand.Int32N(n)
}
