package casino

import (
	"github.com/google/uuid"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
)

// DefaultLadder holds payout multipliers in hundredths, indexed by the
// number of consecutive correct guesses. Index 0 is the ladder start.
var DefaultLadder = []int{100, 130, 180, 250, 350, 500, 700, 950, 1300, 1800, 2500}

// Guess is the player's call on the next card.
type Guess string

const (
	GuessHigher Guess = "higher"
	GuessLower  Guess = "lower"
)

// HighLow is a push-your-luck ladder session.
// - each correct guess climbs one rung: Streak++
// - a wrong guess or a tie loses the stake and resets Streak to 0
// - reaching the top rung ends the session; CashOut must still be called
type HighLow struct {
	ID     string `json:"id"`
	Bet    int    `json:"bet"`
	Ladder []int  `json:"ladder"`
	Streak int    `json:"streak"`
	Card   Card   `json:"card"`
	Last   Card   `json:"last"`
	Done   bool   `json:"done"`
	Lost   bool   `json:"lost"`
}

// StartHighLow validates the stake and shows the first card. A nil ladder
// uses DefaultLadder.
func StartHighLow(bet, balance int, ladder []int, rng roll.RandomSource) (HighLow, error) {
	if err := Validate(KindHighLow, bet, balance); err != nil {
		return HighLow{}, err
	}
	if len(ladder) < 2 {
		ladder = DefaultLadder
	}
	return HighLow{
		ID:     uuid.NewString(),
		Bet:    bet,
		Ladder: append([]int(nil), ladder...),
		Card:   DrawCard(rng),
	}, nil
}

// Top is the highest reachable streak.
func (h HighLow) Top() int { return len(h.Ladder) - 1 }

// Multiplier is the current rung in hundredths.
func (h HighLow) Multiplier() int {
	return ladderAt(h.Ladder, h.Streak)
}

func ladderAt(ladder []int, r int) int {
	if r < 0 {
		r = 0
	}
	if r >= len(ladder) {
		r = len(ladder) - 1
	}
	return ladder[r]
}

// LadderPayout is the gross payout for cashing out bet at rung r.
func LadderPayout(bet int, ladder []int, r int) int {
	if len(ladder) == 0 {
		return 0
	}
	return mulPct(bet, ladderAt(ladder, r))
}

// Guess draws the next card and scores the call. Ties lose.
func (h HighLow) Guess(g Guess, rng roll.RandomSource) (HighLow, error) {
	if h.Done {
		return h, apperr.New(apperr.CodeIllegalTransition, "high-low session finished")
	}
	if g != GuessHigher && g != GuessLower {
		return h, apperr.WithMetadata(apperr.CodeIllegalTransition, "unknown guess", map[string]string{"guess": string(g)})
	}
	next := DrawCard(rng)
	correct := (g == GuessHigher && next.Rank > h.Card.Rank) ||
		(g == GuessLower && next.Rank < h.Card.Rank)

	h.Last, h.Card = h.Card, next
	if !correct {
		h.Streak = 0
		h.Lost = true
		h.Done = true
		return h, nil
	}
	h.Streak++
	if h.Streak >= h.Top() {
		h.Done = true
	}
	return h, nil
}

// CashOut ends a winning session at the current rung.
func (h HighLow) CashOut(bonusPct int) (HighLow, Settlement, error) {
	if h.Lost {
		return h, Settlement{}, apperr.New(apperr.CodeIllegalTransition, "nothing to cash out after a loss")
	}
	if h.Streak == 0 {
		return h, Settlement{}, apperr.New(apperr.CodeIllegalTransition, "guess at least once before cashing out")
	}
	h.Done = true
	return h, Settle(KindHighLow, h.Bet, LadderPayout(h.Bet, h.Ladder, h.Streak), bonusPct), nil
}

// Settle prices a lost session; winning sessions go through CashOut.
func (h HighLow) Settle() (Settlement, error) {
	if !h.Lost {
		return Settlement{}, apperr.New(apperr.CodeIllegalTransition, "session not lost")
	}
	return Forfeit(KindHighLow, h.Bet), nil
}
