package state

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/mission"
)

// XPPerLevel is the experience needed for each level.
const XPPerLevel = 250

// Reduce applies a to s and returns the next state. s is never modified;
// on error the caller keeps s.
func Reduce(s GameState, a Action) (GameState, error) {
	if s.GameOver {
		if l, ok := a.(Loaded); ok {
			return l.State, nil
		}
		return s, apperr.ErrGameOver
	}
	out := s.clone()
	if err := out.apply(a); err != nil {
		return s, err
	}
	out.Version = s.Version + 1
	return out, nil
}

// ReduceAll folds actions in order. Either all apply or none do.
func ReduceAll(s GameState, actions ...Action) (GameState, error) {
	cur := s
	for _, a := range actions {
		next, err := Reduce(cur, a)
		if err != nil {
			return s, fmt.Errorf("%s: %w", a.Kind(), err)
		}
		cur = next
	}
	return cur, nil
}

func (s *GameState) debit(amount int) error {
	if amount < 0 {
		return apperr.Newf(apperr.CodeInvalidWager, "negative debit %d", amount)
	}
	if amount > s.Player.Money {
		return apperr.WithMetadata(apperr.CodeInsufficientFunds, "balance too low",
			map[string]string{"reason": "You have $" + humanize.Comma(int64(s.Player.Money)) + "."})
	}
	s.Player.Money -= amount
	return nil
}

func (s *GameState) apply(a Action) error {
	switch a := a.(type) {
	case RunStarted:
		if s.Run != nil {
			return apperr.New(apperr.CodeIllegalTransition, "a run is already active")
		}
		if s.Locked() {
			return apperr.New(apperr.CodeIllegalTransition, "cannot start a run in custody")
		}
		r := a.Run
		s.Run = &r
		s.feed("Started " + a.Run.Mission.Title)

	case RunUpdated:
		if s.Run == nil || s.Run.ID != a.Run.ID {
			return apperr.New(apperr.CodeIllegalTransition, "no matching run")
		}
		if s.Run.Finished() {
			return apperr.New(apperr.CodeIllegalTransition, "run is already finished")
		}
		r := a.Run
		s.Run = &r

	case RunAcknowledged:
		if s.Run == nil {
			return apperr.New(apperr.CodeIllegalTransition, "no run to acknowledge")
		}
		if err := s.Run.Acknowledge(); err != nil {
			return err
		}
		s.settleRun(*s.Run)
		s.Run = nil

	case StakeCommitted:
		if err := s.debit(a.Amount); err != nil {
			return err
		}

	case WagerSettled:
		st := a.Settlement
		if st.Bet > s.Player.Money {
			return apperr.WithMetadata(apperr.CodeInvalidWager, "bet exceeds balance",
				map[string]string{"reason": "You have $" + humanize.Comma(int64(s.Player.Money)) + "."})
		}
		s.Player.Money += st.Final - st.Bet
		s.Player.Heat += a.Heat
		if a.Jackpot != nil {
			s.Jackpot = *a.Jackpot
		}
		s.feed(settlementLine(st))

	case SessionCredited:
		s.Player.Money += a.Settlement.Final
		s.feed(settlementLine(a.Settlement))

	case BlackjackSet:
		s.Sessions.Blackjack = a.Game

	case HighLowSet:
		s.Sessions.HighLow = a.Game

	case RemoteWagerConfirmed:
		if a.Balance < 0 {
			return apperr.New(apperr.CodeRemoteAuthorityFailure, "authority reported a negative balance")
		}
		s.Player.Money += a.Net
		if s.Player.Money < 0 {
			s.Player.Money = 0
		}
		s.feed(fmt.Sprintf("%s: net %s", a.Game, signedMoney(a.Net)))

	case Admitted:
		if s.Locked() {
			return apperr.New(apperr.CodeIllegalTransition, "already in custody")
		}
		r := a.Record
		s.Admissions[r.Kind]++
		switch r.Kind {
		case incarceration.KindPrison:
			s.Player.Money = floor0(s.Player.Money - r.Confiscation.Clean)
			s.Player.Dirty = floor0(s.Player.Dirty - r.Confiscation.Dirty)
			s.Player.Goods = floor0(s.Player.Goods - r.Confiscation.Goods)
			s.Player.Heat /= 2
		case incarceration.KindHospital:
			if err := s.debit(a.Charge); err != nil {
				return err
			}
			if s.Player.Health < 1 {
				s.Player.Health = 1
			}
		}
		s.Incarceration = &r
		s.Run = nil
		s.Sessions = Sessions{}
		s.feed(fmt.Sprintf("Admitted to %s for %d days", r.Kind, r.Total))

	case CustodyUpdated:
		if s.Incarceration == nil || s.Incarceration.ID != a.Record.ID {
			return apperr.New(apperr.CodeIllegalTransition, "no matching stay")
		}
		if err := s.debit(a.Charge); err != nil {
			return err
		}
		s.Player.Heat += a.Heat
		r := a.Record
		s.Incarceration = &r
		s.releaseIfDone()

	case Ticked:
		s.Day++
		s.LastTick = a.Now
		if a.Weather != "" {
			s.Weather = a.Weather
		}
		s.Player.Heat = floor0(s.Player.Heat - HeatDecayPerDay)
		s.Player.VehicleHeat = floor0(s.Player.VehicleHeat - VehicleDecay)
		if s.Incarceration != nil {
			r := s.Incarceration.Tick(a.Now)
			s.Incarceration = &r
			s.releaseIfDone()
		}

	case MinigameSet:
		s.Sessions.Minigame = a.Session

	case CrewHired:
		for _, c := range s.Crew {
			if c.ID == a.Member.ID {
				return apperr.WithMetadata(apperr.CodeIllegalTransition, "crew member already hired", map[string]string{"id": c.ID})
			}
		}
		if err := s.debit(a.Cost); err != nil {
			return err
		}
		s.Crew = append(s.Crew, a.Member)
		s.feed("Hired " + a.Member.Name)

	case BonusToggled:
		kept := s.Player.Bonuses[:0]
		for _, b := range s.Player.Bonuses {
			if b != a.Name {
				kept = append(kept, b)
			}
		}
		if a.Active {
			kept = append(kept, a.Name)
		}
		s.Player.Bonuses = kept

	case ContactSet:
		s.Player.Contact = a.Active

	case GameEnded:
		l := a.Legacy
		s.GameOver = true
		s.Legacy = &l
		s.Run = nil
		s.Sessions = Sessions{}
		s.feed("Game over: " + a.Reason)

	case Loaded:
		*s = a.State.clone()

	default:
		return apperr.Newf(apperr.CodeUnknown, "unknown action %T", a)
	}
	return nil
}

// settleRun applies a finished run's totals.
func (s *GameState) settleRun(r mission.Run) {
	pay := r.Payout()
	if r.Mission.Kind == mission.KindHeist {
		s.Player.Dirty += pay
	} else {
		s.Player.Money += pay
	}
	vehicle, personal := r.HeatSplit()
	s.Player.VehicleHeat += vehicle
	s.Player.Heat += personal
	s.Player.Health = floor0(s.Player.Health - r.Totals.Health)
	s.damageCrew(r.Totals.CrewDamage)

	for i := range s.Crew {
		if !s.Crew[i].Active() {
			continue
		}
		if r.Success {
			s.Crew[i].Loyalty = min(100, s.Crew[i].Loyalty+LoyaltyOnSuccess)
		} else {
			s.Crew[i].Loyalty = floor0(s.Crew[i].Loyalty - LoyaltyOnFailure)
		}
	}

	s.Player.XP += 10 + pay/100
	s.Player.Level = 1 + s.Player.XP/XPPerLevel
	s.feed(r.Log[len(r.Log)-1])
}

// damageCrew spreads dmg one point at a time across active members.
func (s *GameState) damageCrew(dmg int) {
	for dmg > 0 {
		hit := false
		for i := range s.Crew {
			if dmg == 0 {
				break
			}
			if s.Crew[i].Active() {
				s.Crew[i].HitPoints--
				dmg--
				hit = true
			}
		}
		if !hit {
			return
		}
	}
}

func (s *GameState) releaseIfDone() {
	r := s.Incarceration
	if r == nil || !r.Released() {
		return
	}
	if r.Kind == incarceration.KindHospital {
		s.Player.Health = s.Player.MaxHealth
	}
	s.feed(fmt.Sprintf("Released from %s after %d days", r.Kind, r.Served()))
	s.Incarceration = nil
}

func settlementLine(st casino.Settlement) string {
	label := string(st.Kind)
	if spec, ok := st.Kind.Spec(); ok {
		label = spec.Label
	}
	line := label + ": net " + signedMoney(st.Net())
	if st.Jackpot {
		line += " (JACKPOT)"
	}
	return line
}

func signedMoney(n int) string {
	if n < 0 {
		return "-$" + humanize.Comma(int64(-n))
	}
	return "+$" + humanize.Comma(int64(n))
}

func floor0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
