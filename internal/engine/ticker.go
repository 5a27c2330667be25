package engine

import (
	"context"
	"log/slog"
	"time"
)

// Ticker advances game days on a fixed real-time interval until its
// context is cancelled.
type Ticker struct {
	Interval time.Duration
	OnTick   func(now time.Time)
}

// Run blocks until ctx is done.
func (t *Ticker) Run(ctx context.Context) {
	if t.Interval <= 0 || t.OnTick == nil {
		return
	}
	slog.Info("day ticker started", "interval", t.Interval)
	tk := time.NewTicker(t.Interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("day ticker stopped")
			return
		case now := <-tk.C:
			t.OnTick(now)
		}
	}
}
