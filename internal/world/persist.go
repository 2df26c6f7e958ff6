package world

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/model"
)

// AuraStore persists aura records per character.
type AuraStore interface {
	LoadAuras(ctx context.Context, characterGUID uint64) ([]aura.Record, error)
	SaveAuras(ctx context.Context, characterGUID uint64, records []aura.Record) error
}

type snapshot struct {
	guid    uint64
	records []aura.Record
}

// Persister moves character auras between the world and an AuraStore.
// Database calls run outside the world loop; only snapshots and restores
// are scheduled onto it.
type Persister struct {
	world   *World
	store   AuraStore
	workers int
}

// NewPersister creates a Persister saving with up to workers concurrent writes.
func NewPersister(w *World, store AuraStore, workers int) *Persister {
	if workers < 1 {
		workers = 1
	}
	return &Persister{world: w, store: store, workers: workers}
}

// Login spawns a character and restores its saved auras.
func (p *Persister) Login(ctx context.Context, u *model.Unit) error {
	records, err := p.store.LoadAuras(ctx, u.GUID())
	if err != nil {
		return fmt.Errorf("loading auras of character %d: %w", u.GUID(), err)
	}

	var spawnErr error
	var restored int
	if err := p.world.Do(ctx, func() {
		c, err := p.world.Spawn(u)
		if err != nil {
			spawnErr = err
			return
		}
		restored = c.RestoreAuraData(records)
	}); err != nil {
		return fmt.Errorf("logging in character %d: %w", u.GUID(), err)
	}
	if spawnErr != nil {
		return fmt.Errorf("logging in character %d: %w", u.GUID(), spawnErr)
	}

	slog.Info("character logged in", "guid", u.GUID(), "auras", restored, "stored", len(records))
	return nil
}

// Logout saves a character's auras and removes it from the world.
// Returns false if the character was not in the world.
func (p *Persister) Logout(ctx context.Context, guid uint64) (bool, error) {
	var records []aura.Record
	var found bool
	if err := p.world.Do(ctx, func() {
		c := p.world.Auras(guid)
		if c == nil {
			return
		}
		found = true
		records = c.SerializeAuraData()
		p.world.Despawn(guid)
	}); err != nil {
		return false, fmt.Errorf("logging out character %d: %w", guid, err)
	}
	if !found {
		return false, nil
	}

	if err := p.store.SaveAuras(ctx, guid, records); err != nil {
		return true, fmt.Errorf("saving auras of character %d: %w", guid, err)
	}
	slog.Info("character logged out", "guid", guid, "auras", len(records))
	return true, nil
}

// SaveAll snapshots every character in the world and writes the snapshots
// concurrently. Returns the first write error.
func (p *Persister) SaveAll(ctx context.Context) (int, error) {
	var snaps []snapshot
	if err := p.world.Do(ctx, func() {
		chars := p.world.Characters()
		snaps = make([]snapshot, 0, len(chars))
		for _, c := range chars {
			snaps = append(snaps, snapshot{
				guid:    c.Owner().GUID(),
				records: c.SerializeAuraData(),
			})
		}
	}); err != nil {
		return 0, fmt.Errorf("snapshotting auras: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, s := range snaps {
		g.Go(func() error {
			if err := p.store.SaveAuras(gctx, s.guid, s.records); err != nil {
				return fmt.Errorf("saving auras of character %d: %w", s.guid, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(snaps), nil
}

// Run saves every character each interval until ctx is canceled.
// A failed save is logged and retried on the next interval.
func (p *Persister) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("aura autosave started", "interval", interval, "workers", p.workers)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			start := time.Now()
			n, err := p.SaveAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Error("aura autosave failed", "error", err)
				continue
			}
			slog.Debug("aura autosave done", "characters", n, "duration", time.Since(start))
		}
	}
}
