package aura

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

func TestPeriodicDamage_TicksUntilExpiry(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawn(1, true)
	w.spawn(2, true)
	u := target.Owner()

	dot, ok := w.apply(t, target, spellCorruption, 2)
	require.True(t, ok)
	full := u.Health()

	w.advance(3 * time.Second)
	assert.Equal(t, uint32(1), dot.Effects()[0].TickCount())
	assert.Equal(t, full-10, u.Health())

	w.advance(9 * time.Second)
	assert.True(t, dot.IsExpired())
	assert.Equal(t, uint32(4), dot.Effects()[0].TickCount(), "tick due at expiry fires")
	assert.Equal(t, full-40, u.Health())
	assert.Zero(t, w.queue.ScheduledCount())
}

func TestPeriodicDamage_StaleTickAfterRemoval(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawn(1, true)
	u := target.Owner()

	dot, _ := w.apply(t, target, spellCorruption, 2)
	w.advance(3 * time.Second)
	hp := u.Health()

	target.RemoveAura(dot)
	assert.Zero(t, w.queue.ScheduledCount())

	w.advance(20 * time.Second)
	assert.Equal(t, hp, u.Health())
	assert.Equal(t, uint32(1), dot.Effects()[0].TickCount())
}

func TestPeriodicDamage_UsesCasterBonus(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawn(1, true)
	caster := w.spawn(2, true)
	u := target.Owner()

	caster.Owner().SetInt32Value(model.FieldModDamageDonePos+5, 5) // shadow
	w.apply(t, target, spellCorruption, 2)
	full := u.Health()

	w.advance(3 * time.Second)
	assert.Equal(t, full-15, u.Health())
}

func TestPeriodicHeal(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawn(1, true)
	u := target.Owner()
	u.SetHealth(100)

	renew, _ := w.apply(t, target, spellRenew, 1)

	w.advance(15 * time.Second)
	assert.True(t, renew.IsExpired())
	assert.Equal(t, int32(145), u.Health())
}

func TestDrink_RegeneratesAndBreaksOnMove(t *testing.T) {
	w := newTestWorld(t)
	c := w.spawn(1, true)
	u := c.Owner()
	u.SetPower(model.PowerMana, 0)

	drink, ok := w.apply(t, c, spellDrink, 1)
	require.True(t, ok)

	w.advance(5 * time.Second)
	assert.Equal(t, int32(10), u.Power(model.PowerMana))

	c.RemoveAllAurasDueToInterrupt(data.InterruptMove)
	assert.True(t, drink.IsExpired())

	w.advance(5 * time.Second)
	assert.Equal(t, int32(10), u.Power(model.PowerMana))
}

func TestDrink_FullDuration(t *testing.T) {
	w := newTestWorld(t)
	c := w.spawn(1, true)
	u := c.Owner()
	u.SetPower(model.PowerMana, 0)

	w.apply(t, c, spellDrink, 1)
	w.advance(18 * time.Second)

	assert.Equal(t, int32(36), u.Power(model.PowerMana))
	assert.Zero(t, c.Len())
}

func TestPeriodic_DeadTargetTakesNoTicks(t *testing.T) {
	w := newTestWorld(t)
	c := w.spawn(1, true)
	u := c.Owner()

	renew, _ := w.apply(t, c, spellRenew, 1)
	u.SetHealth(0)

	w.advance(3 * time.Second)
	assert.Equal(t, int32(0), u.Health())
	assert.True(t, renew.IsApplied())
	assert.Equal(t, uint32(1), renew.Effects()[0].TickCount())
}

func TestChannelDeathItem(t *testing.T) {
	t.Run("character caster gets the item", func(t *testing.T) {
		w := newTestWorld(t)
		victim := w.spawn(1, false)
		w.spawn(2, true)

		w.apply(t, victim, spellDrainSoul, 2)
		DealDamage(nil, victim, 100000, data.SchoolMaskNormal, false)

		require.Len(t, w.grants, 1)
		assert.Equal(t, grant{owner: 2, itemID: 6265, count: 1}, w.grants[0])
	})

	t.Run("no item while the target lives", func(t *testing.T) {
		w := newTestWorld(t)
		victim := w.spawn(1, false)
		w.spawn(2, true)

		drain, _ := w.apply(t, victim, spellDrainSoul, 2)
		victim.RemoveAura(drain)
		assert.Empty(t, w.grants)
	})

	t.Run("creature caster gets nothing", func(t *testing.T) {
		w := newTestWorld(t)
		victim := w.spawn(1, false)
		w.spawn(2, false)

		w.apply(t, victim, spellDrainSoul, 2)
		DealDamage(nil, victim, 100000, data.SchoolMaskNormal, false)
		assert.Empty(t, w.grants)
	})

	t.Run("gray target gives nothing", func(t *testing.T) {
		w := newTestWorld(t)
		victim := w.spawn(1, false)
		w.spawn(2, true)
		victim.Owner().SetInt32Value(model.FieldLevel, 10)

		w.apply(t, victim, spellDrainSoul, 2)
		DealDamage(nil, victim, 100000, data.SchoolMaskNormal, false)
		assert.Empty(t, w.grants)
	})
}

func TestAddStack_RefreshesDuration(t *testing.T) {
	w := newTestWorld(t)
	c := w.spawn(1, true)

	sunder, _ := w.apply(t, c, spellSunder, 2)
	w.advance(20 * time.Second)
	assert.Equal(t, int32(10000), sunder.Remaining())

	_, ok := w.apply(t, c, spellSunder, 2)
	require.True(t, ok)
	assert.Equal(t, uint32(2), sunder.StackCount())
	assert.Equal(t, int32(30000), sunder.Remaining())

	w.advance(29 * time.Second)
	assert.True(t, sunder.IsApplied())
	w.advance(time.Second)
	assert.True(t, sunder.IsExpired())
}

func TestDropCharge(t *testing.T) {
	w := newTestWorld(t)
	c := w.spawn(1, true)

	a, _ := w.apply(t, c, spellAbsorb50, 1)
	a.SetChargeCount(2)

	a.DropCharge()
	assert.True(t, a.IsApplied())
	assert.Equal(t, uint32(1), a.ChargeCount())

	a.DropCharge()
	assert.True(t, a.IsExpired())

	b, _ := w.apply(t, c, spellAbsorb30, 1)
	b.DropCharge()
	assert.True(t, b.IsApplied(), "unlimited charges")
}

func TestListener_SlotUpdates(t *testing.T) {
	w := newTestWorld(t)
	c := w.spawn(1, true)

	a, _ := w.apply(t, c, spellFortitudeR1, 2)
	require.NotEmpty(t, w.updates)
	last := w.updates[len(w.updates)-1]
	assert.Equal(t, slotUpdate{guid: 1, slot: a.Slot(), spellID: spellFortitudeR1}, last)

	slot := a.Slot()
	c.RemoveAura(a)
	last = w.updates[len(w.updates)-1]
	assert.Equal(t, slotUpdate{guid: 1, slot: slot, spellID: 0}, last)
}
