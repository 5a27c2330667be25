package casino

import (
	"fmt"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
)

// The wheel has 15 pockets: 0 is green, 1–14 are split red/black.
const Pockets = 15

// RouletteBet is a bet type.
type RouletteBet string

const (
	BetGreen  RouletteBet = "green"
	BetRed    RouletteBet = "red"
	BetBlack  RouletteBet = "black"
	BetEven   RouletteBet = "even"
	BetOdd    RouletteBet = "odd"
	BetLow    RouletteBet = "low"  // 1–7
	BetHigh   RouletteBet = "high" // 8–14
	BetNumber RouletteBet = "number"
)

// rouletteMultiplier is the gross payout multiplier for a winning bet.
var rouletteMultiplier = map[RouletteBet]int{
	BetGreen:  14,
	BetNumber: 14,
	BetRed:    2,
	BetBlack:  2,
	BetEven:   2,
	BetOdd:    2,
	BetLow:    2,
	BetHigh:   2,
}

// Color of a pocket.
type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Black Color = "black"
)

var redPockets = map[int]bool{1: true, 2: true, 5: true, 6: true, 9: true, 10: true, 13: true}

// PocketColor returns the colour of pocket n.
func PocketColor(n int) Color {
	switch {
	case n == 0:
		return Green
	case redPockets[n]:
		return Red
	default:
		return Black
	}
}

// RoulettePick is what the player staked on. Number is used only by
// BetNumber.
type RoulettePick struct {
	Bet    RouletteBet `json:"bet"`
	Number int         `json:"number,omitempty"`
}

// Validate checks the pick itself.
func (p RoulettePick) Validate() error {
	if _, ok := rouletteMultiplier[p.Bet]; !ok {
		return apperr.WithMetadata(apperr.CodeInvalidWager, "unknown roulette bet", map[string]string{"bet_type": string(p.Bet)})
	}
	if p.Bet == BetNumber && (p.Number < 0 || p.Number >= Pockets) {
		return apperr.WithMetadata(apperr.CodeInvalidWager, "pocket out of range", map[string]string{"reason": fmt.Sprintf("Pick 0–%d.", Pockets-1)})
	}
	return nil
}

// Wins reports whether the pick wins on pocket n.
func (p RoulettePick) Wins(n int) bool {
	if n == 0 {
		return p.Bet == BetGreen || (p.Bet == BetNumber && p.Number == 0)
	}
	switch p.Bet {
	case BetRed:
		return PocketColor(n) == Red
	case BetBlack:
		return PocketColor(n) == Black
	case BetEven:
		return n%2 == 0
	case BetOdd:
		return n%2 == 1
	case BetLow:
		return n <= 7
	case BetHigh:
		return n >= 8
	case BetNumber:
		return p.Number == n
	default:
		return false
	}
}

// RouletteBase is the gross payout for pick landing on pocket n.
func RouletteBase(p RoulettePick, n, bet int) int {
	if !p.Wins(n) {
		return 0
	}
	return bet * rouletteMultiplier[p.Bet]
}

// SpinWheel draws a pocket.
func SpinWheel(rng roll.RandomSource) int {
	return roll.IntN(rng, Pockets)
}

// RouletteSpin is a resolved spin.
type RouletteSpin struct {
	Pocket     int          `json:"pocket"`
	Color      Color        `json:"color"`
	Pick       RoulettePick `json:"pick"`
	Settlement Settlement   `json:"settlement"`
}

// PlayRoulette validates, spins and settles one bet.
func PlayRoulette(p RoulettePick, bet, balance, bonusPct int, rng roll.RandomSource) (RouletteSpin, error) {
	if err := p.Validate(); err != nil {
		return RouletteSpin{}, err
	}
	if err := Validate(KindRoulette, bet, balance); err != nil {
		return RouletteSpin{}, err
	}
	n := SpinWheel(rng)
	return RouletteSpin{
		Pocket:     n,
		Color:      PocketColor(n),
		Pick:       p,
		Settlement: Settle(KindRoulette, bet, RouletteBase(p, n, bet), bonusPct),
	}, nil
}
