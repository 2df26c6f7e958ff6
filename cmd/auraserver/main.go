package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/auracore/internal/config"
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/db"
	"github.com/udisondev/auracore/internal/game/spell"
	"github.com/udisondev/auracore/internal/world"
)

const ConfigPath = "config/auraserver.yaml"

// shutdownSaveTimeout bounds the final save after the autosave loop stops.
const shutdownSaveTimeout = 30 * time.Second

var _ world.AuraStore = (*db.AuraRepository)(nil)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("AURACORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadAuraServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("auracore server starting",
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.TickInterval,
		"autosave_interval", cfg.AutosaveInterval)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if _, err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	spells, err := data.LoadStore(cfg.SpellData)
	if err != nil {
		return fmt.Errorf("loading spell data: %w", err)
	}

	w := world.New(spells, time.Now())
	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	caster := spell.NewCaster(spells, w, spell.LevelHitResolver{Rand: rnd}, rnd)
	w.SetSpellCaster(caster)

	persister := world.NewPersister(w, database.Auras(), cfg.SaveWorkers)

	// The world loop outlives ctx so the final save can still snapshot through it.
	worldCtx, stopWorld := context.WithCancel(context.Background())
	defer stopWorld()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting world loop", "interval", cfg.TickInterval)
		if err := w.Run(worldCtx, cfg.TickInterval); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("world loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer stopWorld()

		err := persister.Run(gctx, cfg.AutosaveInterval)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("aura autosave: %w", err)
		}

		saveCtx, cancel := context.WithTimeout(context.Background(), shutdownSaveTimeout)
		defer cancel()
		n, err := persister.SaveAll(saveCtx)
		if err != nil {
			return fmt.Errorf("final aura save: %w", err)
		}
		slog.Info("auras saved on shutdown", "characters", n)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("auracore server stopped")
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
