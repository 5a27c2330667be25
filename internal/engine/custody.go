package engine

import (
	"log/slog"
	"time"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/state"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// MaxCatchUpDays bounds how many missed days a reload replays.
const MaxCatchUpDays = 365

var weatherTable = []stats.Weather{
	stats.WeatherClear, stats.WeatherClear, stats.WeatherClear,
	stats.WeatherRain, stats.WeatherRain,
	stats.WeatherFog, stats.WeatherStorm, stats.WeatherSnow,
}

func currentStay(s state.GameState) (incarceration.Record, error) {
	if s.GameOver {
		return incarceration.Record{}, apperr.ErrGameOver
	}
	if !s.Locked() {
		return incarceration.Record{}, apperr.New(apperr.CodeNotFound, "not in custody")
	}
	return *s.Incarceration, nil
}

// Countdown is the real time left on the current stay.
func (e *Engine) Countdown() (time.Duration, error) {
	s := e.store.Snapshot()
	rec, err := currentStay(s)
	if err != nil {
		return 0, err
	}
	return rec.Countdown(e.clock.Now(), e.Tuning().Incarceration.TickInterval), nil
}

// ReleaseCost prices buying out the current stay.
func (e *Engine) ReleaseCost() (int, error) {
	s := e.store.Snapshot()
	rec, err := currentStay(s)
	if err != nil {
		return 0, err
	}
	return rec.PaymentCost(e.Tuning().Incarceration, s.Player.Contact), nil
}

// PayRelease buys out the remaining days.
func (e *Engine) PayRelease() (int, state.GameState, error) {
	rules := e.Tuning().Incarceration
	var charged int
	next, err := e.staged(state.SurfaceCustody, "pay release", func(s state.GameState) ([]state.Action, error) {
		rec, err := currentStay(s)
		if err != nil {
			return nil, err
		}
		out, cost, err := rec.Pay(s.Player.Money, rules, s.Player.Contact)
		if err != nil {
			return nil, err
		}
		charged = cost
		slog.Info("release paid", "stay", rec.ID, "cost", cost)
		return []state.Action{state.CustodyUpdated{Record: out, Charge: cost}}, nil
	})
	return charged, next, err
}

// EscapeChance is the labelled escape breakdown for the current player.
func (e *Engine) EscapeChance() stats.Effective {
	return incarceration.EscapeChance(e.store.Snapshot().Context())
}

// EscapeOdds is the chance the escape roll is made against.
func (e *Engine) EscapeOdds() int {
	return incarceration.EscapeOdds(e.store.Snapshot().Context())
}

// Escape makes the one escape attempt of a prison stay.
func (e *Engine) Escape() (incarceration.EscapeResult, state.GameState, error) {
	rules := e.Tuning().Incarceration
	var res incarceration.EscapeResult
	next, err := e.staged(state.SurfaceCustody, "escape", func(s state.GameState) ([]state.Action, error) {
		rec, err := currentStay(s)
		if err != nil {
			return nil, err
		}
		out, er, err := rec.Escape(s.Context(), rules, nil, e.rng)
		if err != nil {
			return nil, err
		}
		res = er
		slog.Info("escape attempted", "stay", rec.ID, "escaped", er.Escaped, "chance", er.Check.Chance)
		return []state.Action{state.CustodyUpdated{Record: out, Heat: er.HeatGained}}, nil
	})
	return res, next, err
}

// Tick advances one game day: weather, heat decay, sentence countdown,
// and a timed-out minigame is failed.
func (e *Engine) Tick(now time.Time) (state.GameState, error) {
	return e.update("tick", func(s state.GameState) ([]state.Action, error) {
		if s.GameOver {
			return nil, nil
		}
		w := weatherTable[roll.IntN(e.rng, len(weatherTable))]
		actions := []state.Action{state.Ticked{Now: now, Weather: w}}
		exp, err := e.expireMinigame(s, now)
		if err != nil {
			return nil, err
		}
		return append(actions, exp...), nil
	})
}

// ExpireMinigame fails a session whose deadline passed without a report.
func (e *Engine) ExpireMinigame() (state.GameState, error) {
	now := e.clock.Now()
	return e.update("expire minigame", func(s state.GameState) ([]state.Action, error) {
		return e.expireMinigame(s, now)
	})
}

func (e *Engine) expireMinigame(s state.GameState, now time.Time) ([]state.Action, error) {
	m := s.Sessions.Minigame
	if m == nil {
		return nil, nil
	}
	done, sig, ok := m.Expire(now)
	if !ok {
		return nil, nil
	}
	slog.Info("minigame timed out", "session", sig.SessionID, "kind", sig.Kind)
	return e.consumeSignal(s, done, sig)
}

// Restore loads a saved game and replays the days that passed while it
// was closed, so sentences keep counting down across reloads.
func (e *Engine) Restore(saved state.GameState) (state.GameState, error) {
	tick := e.Tuning().Incarceration.TickInterval
	now := e.clock.Now()
	return e.update("restore", func(state.GameState) ([]state.Action, error) {
		actions := []state.Action{state.Loaded{State: saved}}
		if saved.GameOver || tick <= 0 {
			return actions, nil
		}
		last := saved.LastTick
		for i := 0; i < MaxCatchUpDays && now.Sub(last) >= tick; i++ {
			last = last.Add(tick)
			actions = append(actions, state.Ticked{Now: last})
		}
		if n := len(actions) - 1; n > 0 {
			slog.Info("caught up missed days", "days", n)
		}
		return actions, nil
	})
}
