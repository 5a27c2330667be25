// Package engine is the action boundary between a host and the game
// state. Each method reads one snapshot, computes tagged actions with the
// pure rule packages and applies them through the state container in a
// single update, so an intent lands fully or not at all.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/authority"
	"github.com/xtding233/underworld-engine/internal/config"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/state"
)

// DefaultRevealWindow is how long a surface stays busy after a staged
// result.
const DefaultRevealWindow = 1500 * time.Millisecond

// Options configure an Engine. Zero values pick sensible defaults.
type Options struct {
	Clock        Clock
	RNG          roll.RandomSource
	Authority    authority.Resolver
	RevealWindow time.Duration
}

// Engine serializes player intents against one state container.
type Engine struct {
	store     *state.Container
	clock     Clock
	rng       roll.RandomSource
	authority authority.Resolver
	reveal    time.Duration

	mu     sync.RWMutex
	tuning config.Tuning
}

// New wraps store with the given tuning.
func New(store *state.Container, tuning config.Tuning, opts Options) *Engine {
	e := &Engine{
		store:     store,
		clock:     opts.Clock,
		rng:       opts.RNG,
		authority: opts.Authority,
		reveal:    opts.RevealWindow,
		tuning:    tuning,
	}
	if e.clock == nil {
		e.clock = RealClock{}
	}
	if e.rng == nil {
		e.rng = roll.DefaultRNG()
	}
	return e
}

// Tuning returns the active configuration.
func (e *Engine) Tuning() config.Tuning {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tuning
}

// SetTuning swaps the configuration, e.g. after a hot reload. Running
// sessions keep the values they were created with.
func (e *Engine) SetTuning(t config.Tuning) {
	e.mu.Lock()
	e.tuning = t
	e.mu.Unlock()
	slog.Info("tuning applied", "version", t.Version, "missions", len(t.Missions))
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() state.GameState { return e.store.Snapshot() }

// Now is the engine clock.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// update runs fn inside the container lock. Panics in rule code are
// turned into errors so a bad intent never takes the host down.
func (e *Engine) update(op string, fn func(state.GameState) ([]state.Action, error)) (next state.GameState, err error) {
	next, err = e.store.Update(func(s state.GameState) (actions []state.Action, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = apperr.Wrap(apperr.CodeUnknown, op+" failed", fmt.Errorf("panic: %v", r))
			}
		}()
		return fn(s)
	})
	if err != nil {
		slog.Warn("intent rejected", "op", op, "code", apperr.CodeOf(err), "err", err)
	}
	return next, err
}

// staged wraps update with the reveal guard for surface.
func (e *Engine) staged(surface state.Surface, op string, fn func(state.GameState) ([]state.Action, error)) (state.GameState, error) {
	if err := e.store.BeginReveal(surface, e.clock.Now(), e.reveal); err != nil {
		return e.store.Snapshot(), err
	}
	next, err := e.update(op, fn)
	if err != nil {
		e.store.EndReveal(surface)
	}
	return next, err
}

// EndReveal frees surface once the host finished animating a result.
func (e *Engine) EndReveal(surface state.Surface) { e.store.EndReveal(surface) }

func requireFree(s state.GameState) error {
	if s.GameOver {
		return apperr.ErrGameOver
	}
	if s.Locked() {
		return apperr.WithMetadata(apperr.CodeIllegalTransition, "player is in custody",
			map[string]string{"reason": "You are in " + string(s.Incarceration.Kind) + "."})
	}
	return nil
}
