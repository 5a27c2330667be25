package casino

import (
	"fmt"
	"math"
	"sort"

	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// SimParams describes one house-edge simulation.
type SimParams struct {
	Kind     Kind
	Bet      int
	BonusPct int

	// Roulette pick; defaults to red.
	Pick RoulettePick
	// High-low: cash out after this many correct guesses; defaults to 3.
	CashOutAt int
	// Skill games: the player context the chance is resolved from.
	Context stats.Context
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64 // mean final payout per wager
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	RTP    float64 // return to player: mean final / bet
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// simulateOne plays a single wager with a bottomless balance and returns
// the final payout.
func simulateOne(p SimParams, jp *Jackpot, rng roll.RandomSource) (int, error) {
	const balance = math.MaxInt32
	switch p.Kind {
	case KindRoulette:
		pick := p.Pick
		if pick.Bet == "" {
			pick = RoulettePick{Bet: BetRed}
		}
		spin, err := PlayRoulette(pick, p.Bet, balance, p.BonusPct, rng)
		return spin.Settlement.Final, err

	case KindSlots:
		spin, err := PlaySlots(p.Bet, balance, p.BonusPct, *jp, rng)
		if err != nil {
			return 0, err
		}
		*jp = spin.Jackpot
		return spin.Settlement.Final, nil

	case KindBlackjack:
		b, err := DealBlackjack(p.Bet, balance, rng)
		if err != nil {
			return 0, err
		}
		// mimic the dealer: hit below 17
		for !b.Done {
			if t, _ := b.Player.Total(); t < DealerStandsOn {
				b, err = b.Hit(rng)
			} else {
				b, err = b.Stand(rng)
			}
			if err != nil {
				return 0, err
			}
		}
		s, err := b.Settle(p.BonusPct)
		return s.Final, err

	case KindHighLow:
		target := p.CashOutAt
		if target <= 0 {
			target = 3
		}
		h, err := StartHighLow(p.Bet, balance, nil, rng)
		if err != nil {
			return 0, err
		}
		for !h.Done && h.Streak < target {
			g := GuessHigher
			if h.Card.Rank > 7 {
				g = GuessLower
			}
			if h, err = h.Guess(g, rng); err != nil {
				return 0, err
			}
		}
		if h.Lost {
			return 0, nil
		}
		_, s, err := h.CashOut(p.BonusPct)
		return s.Final, err

	case KindRace:
		r, err := PlayRace(p.Bet, balance, p.BonusPct, p.Context, nil, rng)
		return r.Settlement.Final, err

	case KindArmWrestle:
		r, err := PlayArmWrestle(p.Bet, balance, p.BonusPct, 0, p.Context, nil, rng)
		return r.Settlement.Final, err
	}
	return 0, fmt.Errorf("simulate %q: not a locally settled game", p.Kind)
}

// SimulateEdge repeats trials and returns payout stats with the RTP.
func SimulateEdge(p SimParams, trials int, rng roll.RandomSource) (Stats, error) {
	if trials <= 0 || p.Bet <= 0 {
		return Stats{}, nil
	}
	if rng == nil {
		rng = roll.DefaultRNG()
	}
	jp := NewJackpot(JackpotFloor)
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		v, err := simulateOne(p, &jp, rng)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	st := calcStats(samples)
	st.RTP = st.Mean / float64(p.Bet)
	return st, nil
}
