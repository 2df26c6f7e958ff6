package aura

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/timer"
)

// Test-only spell ids.
const (
	spellAbsorb50     uint32 = 90001
	spellAbsorb30     uint32 = 90002
	spellTaken10      uint32 = 90003
	spellTaken20      uint32 = 90004
	spellStunImmunity uint32 = 90005
	spellSprint40     uint32 = 90006
	spellSprint30     uint32 = 90007
	spellSlow50       uint32 = 90008
	spellFireAbsorb   uint32 = 90009
	spellThorns       uint32 = 90010
	spellRegen        uint32 = 90011
	spellVigor        uint32 = 90012
	spellSlotFiller   uint32 = 91000 // +i for i < 100, even i positive
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type slotUpdate struct {
	guid    uint64
	slot    uint8
	spellID uint32
}

type castCall struct {
	caster  uint64
	target  uint64
	spellID uint32
}

type grant struct {
	owner  uint64
	itemID uint32
	count  uint32
}

// testWorld implements Resolver, SpellCaster, Listener and ItemGranter.
type testWorld struct {
	env     *Env
	queue   *timer.Queue
	store   *data.Store
	units   map[uint64]*Container
	updates []slotUpdate
	casts   []castCall
	grants  []grant
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	store, err := data.LoadStore("")
	require.NoError(t, err)
	addTestSpells(store)

	w := &testWorld{
		queue: timer.NewQueue(t0),
		store: store,
		units: make(map[uint64]*Container),
	}
	w.env = &Env{
		Timers:   w.queue,
		Spells:   store,
		World:    w,
		Caster:   w,
		Items:    w,
		Listener: w,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	}
	return w
}

func addTestSpells(s *data.Store) {
	aura := func(t data.AuraType, bp, misc int32) data.SpellEffect {
		return data.SpellEffect{Type: data.SpellEffectApplyAura, Aura: t, BasePoints: bp, MiscValueA: misc}
	}
	add := func(id uint32, positive bool, effects ...data.SpellEffect) *data.Spell {
		sp := &data.Spell{ID: id, Name: "test", Rank: 1, Positive: positive, Dispel: data.DispelMagic, Effects: effects}
		s.AddSpell(sp)
		return sp
	}

	add(spellAbsorb50, true, aura(data.AuraSchoolAbsorb, 50, int32(data.SchoolMaskAll)))
	add(spellAbsorb30, true, aura(data.AuraSchoolAbsorb, 30, int32(data.SchoolMaskAll)))
	add(spellTaken10, false, aura(data.AuraModDamagePercentTaken, 10, int32(data.SchoolMaskAll)))
	add(spellTaken20, false, aura(data.AuraModDamagePercentTaken, 20, int32(data.SchoolMaskAll)))
	add(spellStunImmunity, true, aura(data.AuraMechanicImmunity, 0, int32(data.MechanicStun)))
	add(spellSprint40, true, aura(data.AuraModIncreaseSpeed, 40, 0))
	add(spellSprint30, true, aura(data.AuraModIncreaseSpeed, 30, 0))
	add(spellSlow50, false, aura(data.AuraModDecreaseSpeed, -50, 0))
	add(spellFireAbsorb, true, aura(data.AuraSchoolAbsorb, 100, int32(data.SchoolMaskFire)))
	add(spellThorns, true, aura(data.AuraDamageShield, 5, 0)).School = data.SchoolMaskNature
	add(spellRegen, true, aura(data.AuraModPowerRegen, 10, int32(model.PowerMana)))
	add(spellVigor, true, aura(data.AuraModIncreaseHealth, 100, 0)).StackAmount = 3
	for i := range uint32(100) {
		add(spellSlotFiller+i, i%2 == 0, aura(data.AuraModStat, 1, int32(model.StatStrength)))
	}
}

func (w *testWorld) Auras(guid uint64) *Container { return w.units[guid] }

func (w *testWorld) CastTriggered(caster *Container, targetGUID uint64, spellID uint32) {
	w.casts = append(w.casts, castCall{caster: caster.Owner().GUID(), target: targetGUID, spellID: spellID})
	sp := w.store.Spell(spellID)
	target := w.units[targetGUID]
	if sp == nil || target == nil {
		return
	}
	target.AddAura(BuildAura(sp, caster.Owner().GUID(), 0, nil), false)
}

func (w *testWorld) AuraUpdated(owner *model.Unit, slot uint8, spellID uint32, _, _ int32) {
	w.updates = append(w.updates, slotUpdate{guid: owner.GUID(), slot: slot, spellID: spellID})
}

func (w *testWorld) CreateItems(owner *model.Unit, itemID uint32, count uint32) error {
	w.grants = append(w.grants, grant{owner: owner.GUID(), itemID: itemID, count: count})
	return nil
}

// spawn creates a level 60 night elf druid (character) or creature.
func (w *testWorld) spawn(guid uint64, character bool) *Container {
	u := model.NewUnit(guid, model.UnitTemplate{
		Name:       "unit",
		Level:      60,
		Class:      model.ClassDruid,
		Race:       model.RaceNightElf,
		Character:  character,
		PowerType:  model.PowerMana,
		BaseHealth: 1000,
		BasePower:  [model.PowerCount]int32{1000, 1000, 0, 100, 0},
		BaseStats:  [model.StatCount]int32{20, 20, 20, 20, 20},
		BaseArmor:  1000,
		AttackTime: [3]int32{2000, 2000, 3000},
		DisplayID:  100,
	})
	c := NewContainer(u, w.env)
	w.units[guid] = c
	return c
}

// apply builds and adds an aura of spellID from caster.
func (w *testWorld) apply(t *testing.T, target *Container, spellID uint32, casterGUID uint64) (*Aura, bool) {
	t.Helper()
	sp := w.store.Spell(spellID)
	require.NotNil(t, sp, "spell %d", spellID)
	a := BuildAura(sp, casterGUID, 0, nil)
	return a, target.AddAura(a, false)
}

func (w *testWorld) advance(d time.Duration) {
	w.queue.Update(w.queue.Now().Add(d))
}

// requirePanicsWith asserts fn panics with an error wrapping target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
	}()
	fn()
}
