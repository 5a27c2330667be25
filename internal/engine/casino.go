package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/authority"
	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/minigame"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/state"
)

// DefaultOpponent is the arm-wrestling opponent strength when none is
// named.
const DefaultOpponent = 3

// BonusPct is the capped casino bonus for the player in s.
func (e *Engine) BonusPct(s state.GameState) int {
	return e.Tuning().BonusSet(s.Player.Bonuses).Total()
}

// checkBet validates a new stake against the tuned table limits.
func (e *Engine) checkBet(s state.GameState, k casino.Kind, bet int) error {
	if err := requireFree(s); err != nil {
		return err
	}
	return casino.ValidateLimits(k, e.Tuning().LimitsFor(k), bet, s.Player.Money)
}

// PlayRoulette spins once.
func (e *Engine) PlayRoulette(pick casino.RoulettePick, bet int) (casino.RouletteSpin, state.GameState, error) {
	var spin casino.RouletteSpin
	next, err := e.staged(state.SurfaceCasino, "roulette", func(s state.GameState) ([]state.Action, error) {
		if err := e.checkBet(s, casino.KindRoulette, bet); err != nil {
			return nil, err
		}
		var err error
		spin, err = casino.PlayRoulette(pick, bet, s.Player.Money, e.BonusPct(s), e.rng)
		if err != nil {
			return nil, err
		}
		return []state.Action{state.WagerSettled{Settlement: spin.Settlement}}, nil
	})
	return spin, next, err
}

// PlaySlots pulls the lever. The shared jackpot pool moves with the spin.
func (e *Engine) PlaySlots(bet int) (casino.SlotsSpin, state.GameState, error) {
	var spin casino.SlotsSpin
	next, err := e.staged(state.SurfaceCasino, "slots", func(s state.GameState) ([]state.Action, error) {
		if err := e.checkBet(s, casino.KindSlots, bet); err != nil {
			return nil, err
		}
		var err error
		spin, err = casino.PlaySlots(bet, s.Player.Money, e.BonusPct(s), s.Jackpot, e.rng)
		if err != nil {
			return nil, err
		}
		if spin.Settlement.Jackpot {
			slog.Info("jackpot hit", "paid", spin.Settlement.Base)
		}
		jp := spin.Jackpot
		return []state.Action{state.WagerSettled{Settlement: spin.Settlement, Jackpot: &jp}}, nil
	})
	return spin, next, err
}

// PlayRace bets on the player's car.
func (e *Engine) PlayRace(bet int) (casino.SkillBet, state.GameState, error) {
	var res casino.SkillBet
	next, err := e.staged(state.SurfaceCasino, "race", func(s state.GameState) ([]state.Action, error) {
		if err := e.checkBet(s, casino.KindRace, bet); err != nil {
			return nil, err
		}
		var err error
		res, err = casino.PlayRace(bet, s.Player.Money, e.BonusPct(s), s.Context(), nil, e.rng)
		if err != nil {
			return nil, err
		}
		return []state.Action{state.WagerSettled{Settlement: res.Settlement, Heat: res.Heat}}, nil
	})
	return res, next, err
}

// PlayArmWrestle bets against an opponent. A finished tap contest forces
// the result and is consumed; otherwise the bout is a skill check.
func (e *Engine) PlayArmWrestle(bet, opponent int) (casino.SkillBet, state.GameState, error) {
	if opponent <= 0 {
		opponent = DefaultOpponent
	}
	var res casino.SkillBet
	next, err := e.staged(state.SurfaceCasino, "arm wrestle", func(s state.GameState) ([]state.Action, error) {
		if err := e.checkBet(s, casino.KindArmWrestle, bet); err != nil {
			return nil, err
		}
		var forced *roll.Forced
		actions := []state.Action{}
		if m := s.Sessions.Minigame; m != nil && m.Done && m.Kind == minigame.KindTapContest && m.Signal != nil {
			forced = m.Signal.Forced()
			actions = append(actions, state.MinigameSet{Session: nil})
		}
		var err error
		res, err = casino.PlayArmWrestle(bet, s.Player.Money, e.BonusPct(s), opponent, s.Context(), forced, e.rng)
		if err != nil {
			return nil, err
		}
		return append(actions, state.WagerSettled{Settlement: res.Settlement}), nil
	})
	return res, next, err
}

// DealBlackjack commits the stake and deals. A natural settles at once.
func (e *Engine) DealBlackjack(bet int) (casino.Blackjack, state.GameState, error) {
	var hand casino.Blackjack
	next, err := e.staged(state.SurfaceCasino, "blackjack deal", func(s state.GameState) ([]state.Action, error) {
		if s.Sessions.Blackjack != nil {
			return nil, apperr.New(apperr.CodeIllegalTransition, "a hand is already in play")
		}
		if err := e.checkBet(s, casino.KindBlackjack, bet); err != nil {
			return nil, err
		}
		var err error
		hand, err = casino.DealBlackjack(bet, s.Player.Money, e.rng)
		if err != nil {
			return nil, err
		}
		return e.blackjackActions(s, hand, bet)
	})
	return hand, next, err
}

// blackjackActions commits stake and either stores the hand or settles it.
func (e *Engine) blackjackActions(s state.GameState, hand casino.Blackjack, stake int) ([]state.Action, error) {
	var actions []state.Action
	if stake > 0 {
		actions = append(actions, state.StakeCommitted{Game: casino.KindBlackjack, Amount: stake})
	}
	if !hand.Done {
		h := hand
		return append(actions, state.BlackjackSet{Game: &h}), nil
	}
	st, err := hand.Settle(e.BonusPct(s))
	if err != nil {
		return nil, err
	}
	slog.Info("blackjack settled", "hand", hand.ID, "result", hand.Result(), "net", st.Net())
	return append(actions, state.SessionCredited{Settlement: st}, state.BlackjackSet{Game: nil}), nil
}

func currentHand(s state.GameState) (casino.Blackjack, error) {
	if s.GameOver {
		return casino.Blackjack{}, apperr.ErrGameOver
	}
	if s.Sessions.Blackjack == nil {
		return casino.Blackjack{}, apperr.New(apperr.CodeNotFound, "no hand in play")
	}
	return *s.Sessions.Blackjack, nil
}

// HitBlackjack draws a card.
func (e *Engine) HitBlackjack() (casino.Blackjack, state.GameState, error) {
	return e.blackjackStep("blackjack hit", func(s state.GameState, h casino.Blackjack) (casino.Blackjack, int, error) {
		out, err := h.Hit(e.rng)
		return out, 0, err
	})
}

// StandBlackjack plays out the dealer and settles.
func (e *Engine) StandBlackjack() (casino.Blackjack, state.GameState, error) {
	return e.blackjackStep("blackjack stand", func(s state.GameState, h casino.Blackjack) (casino.Blackjack, int, error) {
		out, err := h.Stand(e.rng)
		return out, 0, err
	})
}

// DoubleBlackjack doubles the stake for one card. The extra stake is
// checked against the cash still on hand.
func (e *Engine) DoubleBlackjack() (casino.Blackjack, state.GameState, error) {
	return e.blackjackStep("blackjack double", func(s state.GameState, h casino.Blackjack) (casino.Blackjack, int, error) {
		limit := e.Tuning().LimitsFor(casino.KindBlackjack).Max
		if limit > 0 && h.Bet*2 > limit {
			return h, 0, apperr.WithMetadata(apperr.CodeInvalidWager, "doubled bet above table ceiling",
				map[string]string{"reason": "Doubling would exceed the table maximum."})
		}
		extra := h.Bet
		out, err := h.DoubleDown(s.Player.Money, e.rng)
		return out, extra, err
	})
}

func (e *Engine) blackjackStep(op string, fn func(state.GameState, casino.Blackjack) (casino.Blackjack, int, error)) (casino.Blackjack, state.GameState, error) {
	var hand casino.Blackjack
	next, err := e.staged(state.SurfaceCasino, op, func(s state.GameState) ([]state.Action, error) {
		h, err := currentHand(s)
		if err != nil {
			return nil, err
		}
		out, extra, err := fn(s, h)
		if err != nil {
			return nil, err
		}
		hand = out
		return e.blackjackActions(s, out, extra)
	})
	return hand, next, err
}

// StartHighLow commits the stake and shows the first card.
func (e *Engine) StartHighLow(bet int) (casino.HighLow, state.GameState, error) {
	var game casino.HighLow
	next, err := e.staged(state.SurfaceCasino, "high-low start", func(s state.GameState) ([]state.Action, error) {
		if s.Sessions.HighLow != nil {
			return nil, apperr.New(apperr.CodeIllegalTransition, "a high-low session is already running")
		}
		if err := e.checkBet(s, casino.KindHighLow, bet); err != nil {
			return nil, err
		}
		var err error
		game, err = casino.StartHighLow(bet, s.Player.Money, e.Tuning().Ladder, e.rng)
		if err != nil {
			return nil, err
		}
		g := game
		return []state.Action{
			state.StakeCommitted{Game: casino.KindHighLow, Amount: bet},
			state.HighLowSet{Game: &g},
		}, nil
	})
	return game, next, err
}

func currentLadder(s state.GameState) (casino.HighLow, error) {
	if s.GameOver {
		return casino.HighLow{}, apperr.ErrGameOver
	}
	if s.Sessions.HighLow == nil {
		return casino.HighLow{}, apperr.New(apperr.CodeNotFound, "no high-low session")
	}
	return *s.Sessions.HighLow, nil
}

// GuessHighLow calls the next card. A miss loses the stake and ends the
// session.
func (e *Engine) GuessHighLow(g casino.Guess) (casino.HighLow, state.GameState, error) {
	var game casino.HighLow
	next, err := e.staged(state.SurfaceCasino, "high-low guess", func(s state.GameState) ([]state.Action, error) {
		h, err := currentLadder(s)
		if err != nil {
			return nil, err
		}
		game, err = h.Guess(g, e.rng)
		if err != nil {
			return nil, err
		}
		if game.Lost {
			st, err := game.Settle()
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SessionCredited{Settlement: st}, state.HighLowSet{Game: nil}}, nil
		}
		out := game
		return []state.Action{state.HighLowSet{Game: &out}}, nil
	})
	return game, next, err
}

// CashOutHighLow banks the current rung.
func (e *Engine) CashOutHighLow() (casino.Settlement, state.GameState, error) {
	var st casino.Settlement
	next, err := e.staged(state.SurfaceCasino, "high-low cash out", func(s state.GameState) ([]state.Action, error) {
		h, err := currentLadder(s)
		if err != nil {
			return nil, err
		}
		_, st, err = h.CashOut(e.BonusPct(s))
		if err != nil {
			return nil, err
		}
		return []state.Action{state.SessionCredited{Settlement: st}, state.HighLowSet{Game: nil}}, nil
	})
	return st, next, err
}

// Abandon walks away from a multi-step game. The committed stake is lost.
func (e *Engine) Abandon(k casino.Kind) (state.GameState, error) {
	return e.update("abandon "+string(k), func(s state.GameState) ([]state.Action, error) {
		switch k {
		case casino.KindBlackjack:
			h, err := currentHand(s)
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SessionCredited{Settlement: casino.Forfeit(k, h.Bet)}, state.BlackjackSet{Game: nil}}, nil
		case casino.KindHighLow:
			h, err := currentLadder(s)
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SessionCredited{Settlement: casino.Forfeit(k, h.Bet)}, state.HighLowSet{Game: nil}}, nil
		default:
			return nil, apperr.WithMetadata(apperr.CodeIllegalTransition, "nothing to abandon", map[string]string{"game": string(k)})
		}
	})
}

// PlayRussianRoulette asks the remote authority to resolve the wager. The
// call happens outside the state lock; local state moves only after a
// confirmed verdict, and any failure leaves it untouched and retryable.
// The verdict's net is applied to the balance current at commit time, never
// the authority's ledger. Dying ends the game.
func (e *Engine) PlayRussianRoulette(ctx context.Context, bet, rounds int) (authority.Response, state.GameState, error) {
	if e.authority == nil {
		return authority.Response{}, e.store.Snapshot(), apperr.WithMetadata(apperr.CodeRemoteAuthorityFailure,
			"no authority configured", map[string]string{"reason": "The back room is closed."})
	}
	snap := e.store.Snapshot()
	if err := e.checkBet(snap, casino.KindRussianRoulette, bet); err != nil {
		return authority.Response{}, snap, err
	}
	if err := e.store.BeginReveal(state.SurfaceCasino, e.clock.Now(), e.reveal); err != nil {
		return authority.Response{}, snap, err
	}

	resp, err := e.authority.Resolve(ctx, authority.Request{
		RequestID:       uuid.NewString(),
		PlayerID:        snap.Player.Name,
		GameKind:        casino.KindRussianRoulette,
		Bet:             bet,
		RoundsAttempted: rounds,
	})
	if err != nil {
		e.store.EndReveal(state.SurfaceCasino)
		return authority.Response{}, e.store.Snapshot(), err
	}

	t := e.Tuning()
	next, err := e.update("russian roulette", func(s state.GameState) ([]state.Action, error) {
		if s.GameOver {
			return nil, apperr.ErrGameOver
		}
		actions := []state.Action{state.RemoteWagerConfirmed{
			Game: casino.KindRussianRoulette, Net: resp.NetResult, Balance: resp.UpdatedBalance,
		}}
		if resp.Outcome == authority.OutcomeDead {
			after, err := state.ReduceAll(s, actions...)
			if err != nil {
				return nil, err
			}
			actions = append(actions, gameEnded(after, "lost at russian roulette", t.Incarceration))
		}
		return actions, nil
	})
	if err != nil {
		e.store.EndReveal(state.SurfaceCasino)
		return resp, next, err
	}
	if resp.UpdatedBalance != next.Player.Money {
		slog.Warn("authority ledger differs from local balance",
			"authority", resp.UpdatedBalance, "local", next.Player.Money, "net", resp.NetResult)
	}
	return resp, next, nil
}

// MaxSimTrials bounds one house-edge simulation.
const MaxSimTrials = 200000

// SimulateEdge estimates the return to player for k at bet, using the
// player's current bonus and skill context. It never touches state.
func (e *Engine) SimulateEdge(k casino.Kind, bet, trials int) (casino.Stats, error) {
	if trials <= 0 || trials > MaxSimTrials {
		return casino.Stats{}, apperr.Newf(apperr.CodeInvalidWager, "trials must be 1..%d", MaxSimTrials)
	}
	spec, ok := k.Spec()
	if !ok {
		return casino.Stats{}, apperr.WithMetadata(apperr.CodeNotFound, "unknown game", map[string]string{"game": string(k)})
	}
	if spec.Remote {
		return casino.Stats{}, apperr.WithMetadata(apperr.CodeIllegalTransition, "remote games cannot be simulated", map[string]string{"game": string(k)})
	}
	if err := casino.ValidateLimits(k, e.Tuning().LimitsFor(k), bet, bet); err != nil {
		return casino.Stats{}, err
	}
	s := e.store.Snapshot()
	return casino.SimulateEdge(casino.SimParams{
		Kind:     k,
		Bet:      bet,
		BonusPct: e.BonusPct(s),
		Context:  s.Context(),
	}, trials, roll.DefaultRNG())
}
