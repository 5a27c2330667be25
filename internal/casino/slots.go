package casino

import (
	"github.com/xtding233/underworld-engine/internal/roll"
)

// Slots payouts.
const (
	TriplePayoutPct = 800
	PairPayoutPct   = 120
)

// Symbol is a reel symbol.
type Symbol string

const (
	SymCherry  Symbol = "cherry"
	SymLemon   Symbol = "lemon"
	SymBell    Symbol = "bell"
	SymBar     Symbol = "bar"
	SymDiamond Symbol = "diamond"
	SymSeven   Symbol = "seven"
)

// TopSymbol pays the jackpot pool on a triple.
const TopSymbol = SymSeven

// JackpotBetMultiple bounds the pool a stake can claim: a top triple takes
// the pool only while it is at most this many times the bet, and pays the
// plain triple otherwise.
const JackpotBetMultiple = 100

type weightedSymbol struct {
	sym    Symbol
	weight int
}

var reelStrip = []weightedSymbol{
	{SymCherry, 20},
	{SymLemon, 20},
	{SymBell, 18},
	{SymBar, 16},
	{SymDiamond, 14},
	{SymSeven, 12},
}

func pickSymbol(rng roll.RandomSource) Symbol {
	total := 0
	for _, w := range reelStrip {
		total += w.weight
	}
	n := roll.IntN(rng, total)
	for _, w := range reelStrip {
		if n < w.weight {
			return w.sym
		}
		n -= w.weight
	}
	return reelStrip[len(reelStrip)-1].sym
}

// Reels is one spin result.
type Reels [3]Symbol

// SpinReels draws three independent reels.
func SpinReels(rng roll.RandomSource) Reels {
	return Reels{pickSymbol(rng), pickSymbol(rng), pickSymbol(rng)}
}

// Triple reports three matching symbols.
func (r Reels) Triple() bool { return r[0] == r[1] && r[1] == r[2] }

// Pair reports exactly two matching symbols.
func (r Reels) Pair() bool {
	return !r.Triple() && (r[0] == r[1] || r[1] == r[2] || r[0] == r[2])
}

// SlotsBase is the gross payout for reels; jackpot is true when the top
// symbol triple claims the pool.
func SlotsBase(r Reels, bet, pool int) (base int, jackpot bool) {
	switch {
	case r.Triple() && r[0] == TopSymbol && pool <= bet*JackpotBetMultiple:
		return pool, true
	case r.Triple():
		return mulPct(bet, TriplePayoutPct), false
	case r.Pair():
		return mulPct(bet, PairPayoutPct), false
	default:
		return 0, false
	}
}

// SlotsSpin is a resolved spin and the pool it leaves behind.
type SlotsSpin struct {
	Reels      Reels      `json:"reels"`
	Settlement Settlement `json:"settlement"`
	Jackpot    Jackpot    `json:"jackpot"`
}

// PlaySlots validates, feeds the pool, spins and settles. The bet's
// contribution lands in the pool before the reels are read.
func PlaySlots(bet, balance, bonusPct int, jp Jackpot, rng roll.RandomSource) (SlotsSpin, error) {
	if err := Validate(KindSlots, bet, balance); err != nil {
		return SlotsSpin{}, err
	}
	jp = jp.Contribute(bet)
	reels := SpinReels(rng)
	base, hit := SlotsBase(reels, bet, jp.Pool)
	if hit {
		base, jp = jp.Win()
	}
	s := Settle(KindSlots, bet, base, bonusPct)
	s.Jackpot = hit
	return SlotsSpin{Reels: reels, Settlement: s, Jackpot: jp}, nil
}
