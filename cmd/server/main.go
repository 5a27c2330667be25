package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xtding233/underworld-engine/internal/authority"
	"github.com/xtding233/underworld-engine/internal/config"
	"github.com/xtding233/underworld-engine/internal/engine"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/state"
	"github.com/xtding233/underworld-engine/internal/store"
)

// configPollInterval is how often tuning files are checked for edits.
const configPollInterval = 2 * time.Second

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		slog.Error("settings", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: settings.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, settings config.Settings) error {
	loader := config.NewLoader(settings.ConfigDir)
	tuning, err := loader.Load(settings.Profile)
	if err != nil {
		return err
	}
	tick := time.Duration(settings.TickMinutes) * time.Minute
	tuning = tuning.WithTick(tick)

	db, err := store.Open(settings.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := engine.Options{RevealWindow: engine.DefaultRevealWindow}
	if settings.Seed != 0 {
		opts.RNG = roll.NewSeededRNG(settings.Seed)
	}
	if settings.AuthorityAddr != "" {
		client, conn, err := authority.Dial(settings.AuthorityAddr)
		if err != nil {
			return err
		}
		defer conn.Close()
		opts.Authority = client
		slog.Info("wager authority configured", "addr", settings.AuthorityAddr)
	}

	now := time.Now()
	container := state.NewContainer(state.New("Player", now, tuning.JackpotFloor))
	eng := engine.New(container, tuning, opts)

	saved, err := db.LoadState(store.DefaultSlot)
	switch {
	case errors.Is(err, store.ErrNoSave):
		slog.Info("starting a new game")
	case err != nil:
		return err
	default:
		if _, err := eng.Restore(saved); err != nil {
			return err
		}
		slog.Info("save restored", "day", saved.Day, "version", saved.Version)
	}
	container.Subscribe(db.Autosave(store.DefaultSlot))

	watcher := config.NewFileWatcher(loader.Paths().Files(settings.Profile), configPollInterval, func(string) {
		loader.Invalidate()
		next, err := loader.Load(settings.Profile)
		if err != nil {
			slog.Warn("config reload rejected", "err", err)
			return
		}
		eng.SetTuning(next.WithTick(tick))
	})
	go watcher.Run(ctx)

	ticker := &engine.Ticker{
		Interval: tuning.Incarceration.TickInterval,
		OnTick: func(now time.Time) {
			if _, err := eng.Tick(now); err != nil {
				slog.Warn("tick failed", "err", err)
			}
		},
	}
	go ticker.Run(ctx)

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           newServer(eng).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	slog.Info("listening", "addr", settings.Addr, "profile", settings.Profile)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
