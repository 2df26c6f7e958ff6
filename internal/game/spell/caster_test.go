package spell

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/timer"
)

const (
	spellFireball   uint32 = 133
	spellFlashHeal  uint32 = 2061
	spellManaPotion uint32 = 437
	spellFortitude  uint32 = 1243
	spellHammer     uint32 = 853
	spellBearForm   uint32 = 5487
	spellDrink      uint32 = 430
	spellFrostNova  uint32 = 122
	spellRolled     uint32 = 95001
	spellFamilyDot  uint32 = 95002
	spellFocus      uint32 = 95003
	spellCheapShot  uint32 = 95004
)

type units map[uint64]*aura.Container

func (u units) Auras(guid uint64) *aura.Container { return u[guid] }

type fixture struct {
	env    *aura.Env
	units  units
	caster *Caster
}

func newFixture(t *testing.T, hits HitResolver) *fixture {
	t.Helper()
	store, err := data.LoadStore("")
	require.NoError(t, err)

	store.AddSpell(&data.Spell{ID: spellFireball, Name: "Fireball", Rank: 1, School: data.SchoolMaskFire,
		Effects: []data.SpellEffect{{Type: data.SpellEffectSchoolDamage, BasePoints: 100}}})
	store.AddSpell(&data.Spell{ID: spellFlashHeal, Name: "Flash Heal", Rank: 1, Positive: true,
		Effects: []data.SpellEffect{{Type: data.SpellEffectHeal, BasePoints: 200}}})
	store.AddSpell(&data.Spell{ID: spellManaPotion, Name: "Restore Mana", Rank: 1, Positive: true,
		Effects: []data.SpellEffect{{Type: data.SpellEffectEnergize, BasePoints: 300, MiscValueA: int32(model.PowerMana)}}})
	store.AddSpell(&data.Spell{ID: spellRolled, Name: "Rolled Armor", Rank: 1, Positive: true,
		Effects: []data.SpellEffect{{Type: data.SpellEffectApplyAura, Aura: data.AuraModResistance, BasePoints: 10, DieSides: 5, MiscValueA: 1}}})
	store.AddSpell(&data.Spell{ID: spellFamilyDot, Name: "Family Dot", Rank: 1, Family: data.FamilyWarlock,
		FamilyFlags: 0x2, Duration: 12000, School: data.SchoolMaskShadow,
		Effects: []data.SpellEffect{{Type: data.SpellEffectApplyAura, Aura: data.AuraPeriodicDamage, BasePoints: 10, Amplitude: 3000}}})

	store.AddSpell(&data.Spell{ID: spellFocus, Name: "Focus", Rank: 1, Positive: true,
		AuraInterruptFlags: data.InterruptCast,
		Effects:            []data.SpellEffect{{Type: data.SpellEffectApplyAura, Aura: data.AuraModStat, BasePoints: 5, MiscValueA: -1}}})
	store.AddSpell(&data.Spell{ID: spellCheapShot, Name: "Fragile Sleep", Rank: 1,
		AuraInterruptFlags: data.InterruptHitBySpell,
		Effects:            []data.SpellEffect{{Type: data.SpellEffectApplyAura, Aura: data.AuraModStun}}})

	f := &fixture{units: make(units)}
	f.env = &aura.Env{
		Timers: timer.NewQueue(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		Spells: store,
		World:  f.units,
		Rand:   rand.New(rand.NewPCG(3, 4)),
	}
	f.caster = NewCaster(store, f.units, hits, rand.New(rand.NewPCG(5, 6)))
	f.env.Caster = f.caster
	return f
}

func (f *fixture) spawn(guid uint64, level int32) *aura.Container {
	u := model.NewUnit(guid, model.UnitTemplate{
		Name:       "unit",
		Level:      level,
		Class:      model.ClassDruid,
		Race:       model.RaceNightElf,
		Character:  true,
		PowerType:  model.PowerMana,
		BaseHealth: 1000,
		BasePower:  [model.PowerCount]int32{1000, 1000, 0, 100, 0},
		BaseStats:  [model.StatCount]int32{20, 20, 20, 20, 20},
		BaseArmor:  1000,
		DisplayID:  100,
	})
	c := aura.NewContainer(u, f.env)
	f.units[guid] = c
	return c
}

type fixedHit HitResult

func (h fixedHit) ResolveHit(_, _ *aura.Container, _ *data.Spell) HitResult { return HitResult(h) }

func TestCast_AppliesAura(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)

	res, err := f.caster.Cast(caster, target, spellFortitude)
	require.NoError(t, err)
	assert.Equal(t, HitNormal, res.Hit)
	require.NotNil(t, res.Aura)
	assert.True(t, res.Applied)
	assert.Equal(t, uint64(1), res.Aura.CasterGUID())
	assert.True(t, target.HasAuraFromSpell(spellFortitude))
}

func TestCast_UnknownSpell(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)

	_, err := f.caster.Cast(caster, caster, 999999)
	require.ErrorIs(t, err, ErrUnknownSpell)
}

func TestCast_DeadCaster(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)
	caster.Owner().SetHealth(0)

	_, err := f.caster.Cast(caster, target, spellFortitude)
	require.ErrorIs(t, err, ErrCasterDead)
	assert.Zero(t, target.Len())
}

func TestCastOn_MissingTarget(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)

	_, err := f.caster.CastOn(caster, 42, spellFortitude)
	require.ErrorIs(t, err, ErrTargetNotFound)
}

func TestCast_MissLeavesTargetAlone(t *testing.T) {
	f := newFixture(t, fixedHit(HitMiss))
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)

	res, err := f.caster.Cast(caster, target, spellHammer)
	require.NoError(t, err)
	assert.Equal(t, HitMiss, res.Hit)
	assert.Nil(t, res.Aura)
	assert.Zero(t, target.Len())
}

func TestCast_MechanicImmunity(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)
	target.Owner().AddMechanicImmunity(1 << data.MechanicStun)

	res, err := f.caster.Cast(caster, target, spellHammer)
	require.NoError(t, err)
	assert.Equal(t, HitImmune, res.Hit)
	assert.False(t, target.HasAura(data.AuraModStun))
}

func TestCast_InterruptsCasterAuras(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)

	_, err := f.caster.Cast(caster, caster, spellDrink)
	require.NoError(t, err)
	_, err = f.caster.Cast(caster, caster, spellFocus)
	require.NoError(t, err)
	require.True(t, caster.HasAuraFromSpell(spellFocus))

	_, err = f.caster.Cast(caster, target, spellFortitude)
	require.NoError(t, err)
	assert.False(t, caster.HasAuraFromSpell(spellFocus))
	assert.True(t, caster.HasAuraFromSpell(spellDrink), "drink ends on movement, not on cast")
}

func TestCast_HostileSpellBreaksFragileAuras(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)

	_, err := f.caster.Cast(caster, target, spellCheapShot)
	require.NoError(t, err)
	require.True(t, target.HasAuraFromSpell(spellCheapShot))

	_, err = f.caster.Cast(caster, target, spellFortitude)
	require.NoError(t, err)
	assert.True(t, target.HasAuraFromSpell(spellCheapShot), "beneficial spells do not break it")

	_, err = f.caster.Cast(caster, target, spellFrostNova)
	require.NoError(t, err)
	assert.False(t, target.HasAuraFromSpell(spellCheapShot))
	assert.True(t, target.HasAuraFromSpell(spellFrostNova))
}

func TestCast_SchoolDamage(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)
	caster.Owner().SetInt32Value(model.FieldModDamageDonePos+2, 20) // fire

	res, err := f.caster.Cast(caster, target, spellFireball)
	require.NoError(t, err)
	assert.Equal(t, uint32(120), res.Damage.Dealt)
	assert.Nil(t, res.Aura)
	assert.Equal(t, target.Owner().MaxHealth()-120, target.Owner().Health())
}

func TestCast_HealAndEnergize(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	target := f.spawn(2, 60)
	target.Owner().SetHealth(100)
	target.Owner().SetPower(model.PowerMana, 0)

	res, err := f.caster.Cast(caster, target, spellFlashHeal)
	require.NoError(t, err)
	assert.Equal(t, uint32(200), res.Healed)
	assert.Equal(t, int32(300), target.Owner().Health())

	_, err = f.caster.Cast(caster, target, spellManaPotion)
	require.NoError(t, err)
	assert.Equal(t, int32(300), target.Owner().Power(model.PowerMana))
}

func TestBuildAura_RollsDieSides(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	sp := f.env.Spells.Spell(spellRolled)

	for range 50 {
		a, err := f.caster.BuildAura(caster, sp)
		require.NoError(t, err)
		bp := a.Effects()[0].BasePoints()
		assert.GreaterOrEqual(t, bp, int32(11))
		assert.LessOrEqual(t, bp, int32(15))
	}
}

func TestBuildAura_NoAuraEffects(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)

	_, err := f.caster.BuildAura(caster, f.env.Spells.Spell(spellFireball))
	require.ErrorIs(t, err, ErrNoAuraEffects)
}

func TestBuildAura_SpellModifiers(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 60)
	u := caster.Owner()
	u.ModifySpellMod(model.SpellModifier{Op: model.SpellModAllEffects, Type: model.SpellModPct, Value: 50, SpellID: 1, Mask: 0x2}, true)
	u.ModifySpellMod(model.SpellModifier{Op: model.SpellModDuration, Type: model.SpellModFlat, Value: 3000, SpellID: 2, Mask: 0x2}, true)

	a, err := f.caster.BuildAura(caster, f.env.Spells.Spell(spellFamilyDot))
	require.NoError(t, err)
	assert.Equal(t, int32(15), a.Effects()[0].BasePoints())
	assert.Equal(t, int32(15000), a.Duration())

	// Modifiers only touch spells of the matching family flags.
	other, err := f.caster.BuildAura(caster, f.env.Spells.Spell(spellFortitude))
	require.NoError(t, err)
	assert.Equal(t, int32(3), other.Effects()[0].BasePoints())
}

func TestCastTriggered_FormPassive(t *testing.T) {
	f := newFixture(t, nil)
	druid := f.spawn(1, 60)

	_, err := f.caster.Cast(druid, druid, spellBearForm)
	require.NoError(t, err)
	assert.True(t, druid.HasAuraFromSpell(1178), "form passive cast through the caster")

	// Unknown triggered spells are skipped.
	f.caster.CastTriggered(druid, 1, 21178)
	f.caster.CastTriggered(druid, 77, spellFortitude)
	require.NoError(t, druid.Verify())
}

func TestMissChance(t *testing.T) {
	tests := []struct {
		name      string
		caster    int32
		target    int32
		character bool
		want      int32
	}{
		{"same level", 60, 60, false, 4},
		{"two above", 60, 62, false, 6},
		{"three above creature", 60, 63, false, 17},
		{"three above character", 60, 63, true, 13},
		{"far below", 60, 10, false, 1},
		{"far above", 10, 60, false, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissChance(tt.caster, tt.target, tt.character))
		})
	}
}

func TestLevelHitResolver(t *testing.T) {
	f := newFixture(t, nil)
	caster := f.spawn(1, 10)
	target := f.spawn(2, 60)
	r := LevelHitResolver{Rand: rand.New(rand.NewPCG(7, 8))}

	hostile := f.env.Spells.Spell(spellHammer)
	friendly := f.env.Spells.Spell(spellFortitude)

	misses := 0
	for range 100 {
		if r.ResolveHit(caster, target, hostile) == HitMiss {
			misses++
		}
		assert.Equal(t, HitNormal, r.ResolveHit(caster, target, friendly))
	}
	assert.Greater(t, misses, 90)
	assert.Equal(t, HitNormal, r.ResolveHit(target, target, hostile), "self casts land")
}
