package engine

import (
	"log/slog"
	"time"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/minigame"
	"github.com/xtding233/underworld-engine/internal/mission"
	"github.com/xtding233/underworld-engine/internal/state"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// HospitalDays is the stay after being knocked out on a job.
const HospitalDays = 3

// StartRun begins mission or street event id with the chosen approach.
func (e *Engine) StartRun(id, approach string) (state.GameState, error) {
	t := e.Tuning()
	return e.update("start run", func(s state.GameState) ([]state.Action, error) {
		if err := requireFree(s); err != nil {
			return nil, err
		}
		m, ok := t.Mission(id)
		if !ok {
			return nil, apperr.WithMetadata(apperr.CodeNotFound, "unknown mission", map[string]string{"mission": id})
		}
		if s.Player.Level < m.MinLevel {
			return nil, apperr.WithMetadata(apperr.CodeIllegalTransition, "level too low",
				map[string]string{"reason": "Requires more experience."})
		}
		run, err := mission.Start(m, s.District, approach)
		if err != nil {
			return nil, err
		}
		slog.Info("run started", "run", run.ID, "mission", m.ID, "approach", approach)
		return []state.Action{state.RunStarted{Run: run}}, nil
	})
}

func activeRun(s state.GameState) (mission.Run, error) {
	if s.GameOver {
		return mission.Run{}, apperr.ErrGameOver
	}
	if s.Run == nil {
		return mission.Run{}, apperr.New(apperr.CodeNotFound, "no active run")
	}
	return *s.Run, nil
}

// ChoiceChance is the labelled breakdown for a choice in the current
// encounter. It changes nothing.
func (e *Engine) ChoiceChance(choiceID string) (stats.Effective, error) {
	s := e.store.Snapshot()
	run, err := activeRun(s)
	if err != nil {
		return stats.Effective{}, err
	}
	return run.Chance(choiceID, s.Context())
}

// ResolveChoice settles a choice in the current encounter.
func (e *Engine) ResolveChoice(choiceID string) (mission.Step, state.GameState, error) {
	var step mission.Step
	next, err := e.staged(state.SurfaceMission, "resolve choice", func(s state.GameState) ([]state.Action, error) {
		run, err := activeRun(s)
		if err != nil {
			return nil, err
		}
		out, st, err := run.Resolve(choiceID, s.Context(), nil, e.rng)
		if err != nil {
			return nil, err
		}
		step = st
		return []state.Action{state.RunUpdated{Run: out}}, nil
	})
	return step, next, err
}

// ResolveComplication settles the pending complication.
func (e *Engine) ResolveComplication() (mission.Step, state.GameState, error) {
	var step mission.Step
	next, err := e.staged(state.SurfaceMission, "resolve complication", func(s state.GameState) ([]state.Action, error) {
		run, err := activeRun(s)
		if err != nil {
			return nil, err
		}
		out, st, err := run.ResolveComplication(s.Context(), nil, e.rng)
		if err != nil {
			return nil, err
		}
		step = st
		return []state.Action{state.RunUpdated{Run: out}}, nil
	})
	return step, next, err
}

// BeginChoiceMinigame gates choiceID on its minigame and opens the
// session sized for the player.
func (e *Engine) BeginChoiceMinigame(choiceID string) (minigame.Session, error) {
	var sess minigame.Session
	_, err := e.update("begin minigame", func(s state.GameState) ([]state.Action, error) {
		run, err := activeRun(s)
		if err != nil {
			return nil, err
		}
		if s.Sessions.Minigame != nil && !s.Sessions.Minigame.Done {
			return nil, apperr.New(apperr.CodeIllegalTransition, "a minigame is already running")
		}
		out, kind, err := run.BeginMinigame(choiceID)
		if err != nil {
			return nil, err
		}
		sess, err = minigame.Start(kind, s.Player.Level, s.Context(), e.clock.Now(), e.rng)
		if err != nil {
			return nil, err
		}
		return []state.Action{state.RunUpdated{Run: out}, state.MinigameSet{Session: &sess}}, nil
	})
	return sess, err
}

// StartMinigame opens a standalone session, e.g. the tap contest before
// an arm-wrestle bet.
func (e *Engine) StartMinigame(k minigame.Kind) (minigame.Session, error) {
	var sess minigame.Session
	_, err := e.update("start minigame", func(s state.GameState) ([]state.Action, error) {
		if err := requireFree(s); err != nil {
			return nil, err
		}
		if s.Sessions.Minigame != nil && !s.Sessions.Minigame.Done {
			return nil, apperr.New(apperr.CodeIllegalTransition, "a minigame is already running")
		}
		var err error
		sess, err = minigame.Start(k, s.Player.Level, s.Context(), e.clock.Now(), e.rng)
		if err != nil {
			return nil, err
		}
		return []state.Action{state.MinigameSet{Session: &sess}}, nil
	})
	return sess, err
}

// FinishMinigame checks the host's report of the player's attempt. When a
// run is waiting on the minigame the signal resolves the gated choice
// immediately.
func (e *Engine) FinishMinigame(a minigame.Attempt) (minigame.Signal, state.GameState, error) {
	return e.closeMinigame("finish minigame", func(sess minigame.Session) (minigame.Session, minigame.Signal, error) {
		return sess.Finish(e.clock.Now(), a)
	})
}

// AbandonMinigame gives up the running session, which counts as failure.
func (e *Engine) AbandonMinigame() (minigame.Signal, state.GameState, error) {
	return e.closeMinigame("abandon minigame", func(sess minigame.Session) (minigame.Session, minigame.Signal, error) {
		return sess.Abandon()
	})
}

func (e *Engine) closeMinigame(op string, closer func(minigame.Session) (minigame.Session, minigame.Signal, error)) (minigame.Signal, state.GameState, error) {
	var sig minigame.Signal
	next, err := e.staged(state.SurfaceMinigame, op, func(s state.GameState) ([]state.Action, error) {
		if s.Sessions.Minigame == nil {
			return nil, apperr.New(apperr.CodeNotFound, "no minigame running")
		}
		done, sg, err := closer(*s.Sessions.Minigame)
		if err != nil {
			return nil, err
		}
		sig = sg
		return e.consumeSignal(s, done, sig)
	})
	return sig, next, err
}

// consumeSignal feeds a closed session into the run waiting on it.
// Standalone sessions keep the closed session so a wager can consume it.
func (e *Engine) consumeSignal(s state.GameState, done minigame.Session, sig minigame.Signal) ([]state.Action, error) {
	if s.Run == nil || s.Run.Status != mission.StatusPendingMinigame {
		return []state.Action{state.MinigameSet{Session: &done}}, nil
	}
	out, _, err := s.Run.CompleteMinigame(sig, s.Context(), e.rng)
	if err != nil {
		return nil, err
	}
	return []state.Action{state.RunUpdated{Run: out}, state.MinigameSet{Session: nil}}, nil
}

// AcknowledgeRun applies a finished run and clears it. Heat past the
// arrest line sends the player to prison; health at zero sends them to
// hospital. Exceeding a facility's lifetime admissions ends the game.
func (e *Engine) AcknowledgeRun() (state.GameState, error) {
	t := e.Tuning()
	now := e.clock.Now()
	return e.update("acknowledge run", func(s state.GameState) ([]state.Action, error) {
		if _, err := activeRun(s); err != nil {
			return nil, err
		}
		actions := []state.Action{state.RunAcknowledged{}}
		after, err := state.ReduceAll(s, actions...)
		if err != nil {
			return nil, err
		}
		rules := t.Incarceration
		if after.Player.Health <= 0 {
			a, err := admission(after, incarceration.KindHospital, HospitalDays, rules, now)
			return append(actions, a), err
		}
		if days, arrested := rules.Sentence(after.Player.Heat); arrested {
			a, err := admission(after, incarceration.KindPrison, days, rules, now)
			return append(actions, a), err
		}
		return actions, nil
	})
}

// admission builds the admit action, or the terminal one when the
// lifetime limit is spent.
func admission(s state.GameState, k incarceration.Kind, days int, rules incarceration.Rules, now time.Time) (state.Action, error) {
	h := incarceration.Holdings{Clean: s.Player.Money, Dirty: s.Player.Dirty, Goods: s.Player.Goods}
	rec, err := incarceration.Admit(k, days, h, s.Admissions[k], rules, now)
	if apperr.CodeOf(err) == apperr.CodeGameOver {
		slog.Warn("admission limit reached, ending game", "facility", k)
		return gameEnded(s, "admitted to "+string(k)+" too many times", rules), nil
	}
	if err != nil {
		return nil, err
	}
	charge := 0
	if k == incarceration.KindHospital {
		charge = min(rec.MedicalBill, s.Player.Money)
	}
	slog.Info("admitted", "facility", k, "days", days, "stay", rec.ID)
	return state.Admitted{Record: rec, Charge: charge}, nil
}

func gameEnded(s state.GameState, reason string, rules incarceration.Rules) state.GameEnded {
	wealth := s.Player.Money + s.Player.Dirty
	return state.GameEnded{Reason: reason, Legacy: incarceration.ComputeLegacy(wealth, s.Player.Level, rules.Legacy)}
}
