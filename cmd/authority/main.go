// Command authority runs a development wager authority backed by an
// in-memory House.
package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"google.golang.org/grpc"

	"github.com/xtding233/underworld-engine/internal/authority"
	"github.com/xtding233/underworld-engine/internal/roll"
)

type settings struct {
	Addr    string `env:"UW_AUTHORITY_LISTEN" envDefault:"127.0.0.1:9090"`
	Opening int    `env:"UW_AUTHORITY_OPENING" envDefault:"1000"`
	Seed    uint64 `env:"UW_SEED"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	var cfg settings
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse env", "err", err)
		os.Exit(1)
	}

	var rng roll.RandomSource
	if cfg.Seed != 0 {
		rng = roll.NewSeededRNG(cfg.Seed)
	}
	house := authority.NewHouse(rng)
	house.Opening = cfg.Opening

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		slog.Error("listen", "addr", cfg.Addr, "err", err)
		os.Exit(1)
	}
	srv := grpc.NewServer()
	authority.Register(srv, house)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	slog.Info("authority listening", "addr", cfg.Addr)
	if err := srv.Serve(lis); err != nil {
		slog.Error("serve", "err", err)
		os.Exit(1)
	}
}
