package authority

import (
	"context"
	"fmt"
	"sync"

	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/roll"
)

// Chambers in the revolver; one is loaded.
const Chambers = 6

// RoundPayoutPct pays by rounds survived, in percent of the bet. Each rung
// keeps the house edge: (5/6)^n × m < 1.
var RoundPayoutPct = []int{115, 140, 165, 195, 235}

// MaxRounds is the longest streak a request may attempt.
func MaxRounds() int { return len(RoundPayoutPct) }

// House is a reference authority with an in-memory ledger. It backs the
// dev authority binary and tests.
type House struct {
	// Opening is the balance credited to a player the house has not seen.
	Opening int

	mu     sync.Mutex
	rng    roll.RandomSource
	ledger map[string]int
	seen   map[string]Response
}

// NewHouse creates a house drawing from rng.
func NewHouse(rng roll.RandomSource) *House {
	if rng == nil {
		rng = roll.DefaultRNG()
	}
	return &House{rng: rng, ledger: make(map[string]int), seen: make(map[string]Response)}
}

// Deposit sets a player's balance.
func (h *House) Deposit(player string, balance int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ledger[player] = balance
}

// Balance returns a player's balance.
func (h *House) Balance(player string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ledger[player]
}

// Resolve plays russian roulette for RoundsAttempted pulls. Repeated
// request ids replay the first verdict.
func (h *House) Resolve(_ context.Context, req Request) (Response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.seen[req.RequestID]; ok && req.RequestID != "" {
		return prev, nil
	}
	reject := func(format string, a ...any) (Response, error) {
		return Response{Success: false, Message: fmt.Sprintf(format, a...), UpdatedBalance: h.ledger[req.PlayerID]}, nil
	}
	if req.GameKind != casino.KindRussianRoulette {
		return reject("unsupported game %q", req.GameKind)
	}
	if req.RoundsAttempted < 1 || req.RoundsAttempted > MaxRounds() {
		return reject("rounds must be 1-%d", MaxRounds())
	}
	bal, ok := h.ledger[req.PlayerID]
	if !ok {
		bal = h.Opening
	}
	if err := casino.Validate(req.GameKind, req.Bet, bal); err != nil {
		return reject("%v", err)
	}

	resp := Response{Success: true, Outcome: OutcomeSurvived}
	for i := 0; i < req.RoundsAttempted; i++ {
		if roll.IntN(h.rng, Chambers) == 0 {
			resp.Outcome = OutcomeDead
			break
		}
	}
	if resp.Outcome == OutcomeSurvived {
		pct := RoundPayoutPct[req.RoundsAttempted-1]
		resp.Multiplier = float64(pct) / 100
		resp.NetResult = req.Bet*pct/100 - req.Bet
	} else {
		resp.NetResult = -req.Bet
	}
	h.ledger[req.PlayerID] = bal + resp.NetResult
	resp.UpdatedBalance = h.ledger[req.PlayerID]
	if req.RequestID != "" {
		h.seen[req.RequestID] = resp
	}
	return resp, nil
}
