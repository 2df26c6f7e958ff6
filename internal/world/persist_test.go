package world

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/game/aura"
)

type memStore struct {
	mu      sync.Mutex
	records map[uint64][]aura.Record
	saves   int
	saveErr error
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[uint64][]aura.Record)}
}

func (s *memStore) LoadAuras(_ context.Context, guid uint64) ([]aura.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.records[guid], nil
}

func (s *memStore) SaveAuras(_ context.Context, guid uint64, records []aura.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[guid] = records
	return nil
}

func TestPersister_LogoutThenLogin(t *testing.T) {
	w := newTestWorld(t)
	startLoop(t, w)
	store := newMemStore()
	p := NewPersister(w, store, 2)
	ctx := context.Background()

	require.NoError(t, p.Login(ctx, newUnit(1, true)))

	var maxHealth int32
	require.NoError(t, w.Do(ctx, func() {
		c := w.Auras(1)
		apply(t, w, c, spellFortitude, 1)
		maxHealth = c.Owner().MaxHealth()
	}))

	found, err := p.Logout(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Zero(t, w.UnitCount())
	require.Len(t, store.records[1], 1)
	assert.Equal(t, spellFortitude, store.records[1][0].SpellID)

	require.NoError(t, p.Login(ctx, newUnit(1, true)))
	require.NoError(t, w.Do(ctx, func() {
		c := w.Auras(1)
		require.NotNil(t, c)
		assert.True(t, c.HasAuraFromSpell(spellFortitude))
		assert.Equal(t, maxHealth, c.Owner().MaxHealth())
		assert.NoError(t, c.Verify())
	}))
}

func TestPersister_LoginTwice(t *testing.T) {
	w := newTestWorld(t)
	startLoop(t, w)
	p := NewPersister(w, newMemStore(), 1)
	ctx := context.Background()

	require.NoError(t, p.Login(ctx, newUnit(1, true)))
	err := p.Login(ctx, newUnit(1, true))
	require.ErrorIs(t, err, ErrUnitExists)
}

func TestPersister_LoginLoadFails(t *testing.T) {
	w := newTestWorld(t)
	store := newMemStore()
	store.loadErr = errors.New("connection refused")
	p := NewPersister(w, store, 1)

	err := p.Login(context.Background(), newUnit(1, true))
	require.ErrorIs(t, err, store.loadErr)
	assert.Zero(t, w.UnitCount())
}

func TestPersister_LogoutUnknown(t *testing.T) {
	w := newTestWorld(t)
	startLoop(t, w)
	store := newMemStore()
	p := NewPersister(w, store, 1)

	found, err := p.Logout(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, store.saves)
}

func TestPersister_SaveAllCharactersOnly(t *testing.T) {
	w := newTestWorld(t)
	startLoop(t, w)
	store := newMemStore()
	p := NewPersister(w, store, 2)
	ctx := context.Background()

	require.NoError(t, w.Do(ctx, func() {
		for guid := uint64(1); guid <= 5; guid++ {
			c := spawn(t, w, guid, true)
			apply(t, w, c, spellFortitude, guid)
		}
		spawn(t, w, 100, false)
	}))

	n, err := p.SaveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Len(t, store.records, 5)
	assert.NotContains(t, store.records, uint64(100))
	for guid, recs := range store.records {
		require.Len(t, recs, 1, "character %d", guid)
		assert.Equal(t, guid, recs[0].CasterGUID)
	}
}

func TestPersister_SaveAllReportsError(t *testing.T) {
	w := newTestWorld(t)
	startLoop(t, w)
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	p := NewPersister(w, store, 4)
	ctx := context.Background()

	require.NoError(t, w.Do(ctx, func() { spawn(t, w, 1, true) }))

	_, err := p.SaveAll(ctx)
	require.ErrorIs(t, err, store.saveErr)
}
