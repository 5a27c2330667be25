package casino

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
)

// Blackjack payouts in percent of the stake.
const (
	NaturalPayoutPct = 250
	WinPayoutPct     = 200
	PushPayoutPct    = 100
	DealerStandsOn   = 17
)

// Card is a playing card rank, 1 (ace) through 13 (king).
type Card struct {
	Rank int `json:"rank"`
}

var rankNames = [...]string{"?", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (c Card) String() string {
	if c.Rank < 1 || c.Rank > 13 {
		return "?"
	}
	return rankNames[c.Rank]
}

// Points is the blackjack value with aces counted as 1.
func (c Card) Points() int {
	if c.Rank >= 10 {
		return 10
	}
	return c.Rank
}

// DrawCard draws from an infinite shoe.
func DrawCard(rng roll.RandomSource) Card {
	return Card{Rank: roll.IntN(rng, 13) + 1}
}

// Hand is an ordered list of cards.
type Hand []Card

// Total returns the best total not above 21 when possible, and whether an
// ace is being counted as 11.
func (h Hand) Total() (total int, soft bool) {
	aces := 0
	for _, c := range h {
		total += c.Points()
		if c.Rank == 1 {
			aces++
		}
	}
	if aces > 0 && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}

// Natural is a two-card 21.
func (h Hand) Natural() bool {
	t, _ := h.Total()
	return len(h) == 2 && t == 21
}

// Bust reports a total above 21.
func (h Hand) Bust() bool {
	t, _ := h.Total()
	return t > 21
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	t, _ := h.Total()
	return fmt.Sprintf("%s (%d)", strings.Join(parts, " "), t)
}

func (h Hand) with(c Card) Hand {
	out := make(Hand, len(h), len(h)+1)
	copy(out, h)
	return append(out, c)
}

// BlackjackResult is how a finished hand compares to the dealer.
type BlackjackResult string

const (
	BlackjackPending BlackjackResult = ""
	BlackjackNatural BlackjackResult = "natural"
	BlackjackWin     BlackjackResult = "win"
	BlackjackPush    BlackjackResult = "push"
	BlackjackLose    BlackjackResult = "lose"
	BlackjackBust    BlackjackResult = "bust"
)

// Blackjack is one hand. The stake is committed when the hand is dealt;
// Bet always holds the total stake at risk (doubled after DoubleDown).
type Blackjack struct {
	ID      string `json:"id"`
	Bet     int    `json:"bet"`
	Player  Hand   `json:"player"`
	Dealer  Hand   `json:"dealer"`
	Doubled bool   `json:"doubled"`
	Done    bool   `json:"done"`
}

// DealBlackjack validates the stake against balance and deals two cards
// each. A natural on either side finishes the hand immediately.
func DealBlackjack(bet, balance int, rng roll.RandomSource) (Blackjack, error) {
	if err := Validate(KindBlackjack, bet, balance); err != nil {
		return Blackjack{}, err
	}
	b := Blackjack{ID: uuid.NewString(), Bet: bet}
	b.Player = b.Player.with(DrawCard(rng))
	b.Dealer = b.Dealer.with(DrawCard(rng))
	b.Player = b.Player.with(DrawCard(rng))
	b.Dealer = b.Dealer.with(DrawCard(rng))
	if b.Player.Natural() || b.Dealer.Natural() {
		b.Done = true
	}
	return b, nil
}

func (b Blackjack) guard() error {
	if b.Done {
		return apperr.New(apperr.CodeIllegalTransition, "blackjack hand already finished")
	}
	return nil
}

// Hit draws a card for the player; a bust ends the hand.
func (b Blackjack) Hit(rng roll.RandomSource) (Blackjack, error) {
	if err := b.guard(); err != nil {
		return b, err
	}
	b.Player = b.Player.with(DrawCard(rng))
	if b.Player.Bust() {
		b.Done = true
	} else if t, _ := b.Player.Total(); t == 21 {
		return b.Stand(rng)
	}
	return b, nil
}

// Stand plays out the dealer, who draws to 17 and stands on soft 17.
func (b Blackjack) Stand(rng roll.RandomSource) (Blackjack, error) {
	if err := b.guard(); err != nil {
		return b, err
	}
	for {
		t, _ := b.Dealer.Total()
		if t >= DealerStandsOn {
			break
		}
		b.Dealer = b.Dealer.with(DrawCard(rng))
	}
	b.Done = true
	return b, nil
}

// DoubleDown doubles the stake, draws exactly one card and stands. balance
// is what the player holds after the original stake was committed; the
// extra stake is re-validated against it and the table ceiling.
func (b Blackjack) DoubleDown(balance int, rng roll.RandomSource) (Blackjack, error) {
	if err := b.guard(); err != nil {
		return b, err
	}
	if b.Doubled || len(b.Player) != 2 {
		return b, apperr.New(apperr.CodeIllegalTransition, "double down only on the first two cards")
	}
	spec, _ := KindBlackjack.Spec()
	if spec.Limits.Max > 0 && b.Bet*2 > spec.Limits.Max {
		return b, apperr.WithMetadata(apperr.CodeInvalidWager, "doubled bet above table ceiling",
			map[string]string{"reason": "Doubling would exceed the table maximum."})
	}
	if b.Bet > balance {
		return b, apperr.WithMetadata(apperr.CodeInvalidWager, "cannot cover double down",
			map[string]string{"reason": "Not enough cash to double."})
	}
	b.Bet *= 2
	b.Doubled = true
	b.Player = b.Player.with(DrawCard(rng))
	if b.Player.Bust() {
		b.Done = true
		return b, nil
	}
	return b.Stand(rng)
}

// Result compares the finished hands.
func (b Blackjack) Result() BlackjackResult {
	if !b.Done {
		return BlackjackPending
	}
	if b.Player.Bust() {
		return BlackjackBust
	}
	pn, dn := b.Player.Natural(), b.Dealer.Natural()
	switch {
	case pn && dn:
		return BlackjackPush
	case pn:
		return BlackjackNatural
	case dn:
		return BlackjackLose
	}
	if b.Dealer.Bust() {
		return BlackjackWin
	}
	pt, _ := b.Player.Total()
	dt, _ := b.Dealer.Total()
	switch {
	case pt > dt:
		return BlackjackWin
	case pt == dt:
		return BlackjackPush
	default:
		return BlackjackLose
	}
}

// BlackjackBase is the gross payout for a result. A push returns the stake.
func BlackjackBase(r BlackjackResult, bet int) int {
	switch r {
	case BlackjackNatural:
		return mulPct(bet, NaturalPayoutPct)
	case BlackjackWin:
		return mulPct(bet, WinPayoutPct)
	case BlackjackPush:
		return mulPct(bet, PushPayoutPct)
	default:
		return 0
	}
}

// Settle prices a finished hand.
func (b Blackjack) Settle(bonusPct int) (Settlement, error) {
	if !b.Done {
		return Settlement{}, apperr.New(apperr.CodeIllegalTransition, "blackjack hand still in play")
	}
	return Settle(KindBlackjack, b.Bet, BlackjackBase(b.Result(), b.Bet), bonusPct), nil
}
