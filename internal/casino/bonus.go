package casino

import "sort"

// MaxBonusPct caps the summed VIP/ownership bonus.
const MaxBonusPct = 15

// Bonus is one named percentage source (casino ownership, reputation...).
type Bonus struct {
	Name string `json:"name" yaml:"name"`
	Pct  int    `json:"pct" yaml:"pct"`
}

// BonusSet is every bonus that applies to a wager.
type BonusSet []Bonus

// Uncapped is the raw sum of positive sources.
func (s BonusSet) Uncapped() int {
	sum := 0
	for _, b := range s {
		if b.Pct > 0 {
			sum += b.Pct
		}
	}
	return sum
}

// Total is the applied percentage, never above MaxBonusPct.
func (s BonusSet) Total() int {
	return ClampBonus(s.Uncapped())
}

// Sorted returns the sources largest first, for breakdown screens.
func (s BonusSet) Sorted() BonusSet {
	out := append(BonusSet(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pct > out[j].Pct })
	return out
}

// ClampBonus bounds pct to [0, MaxBonusPct].
func ClampBonus(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > MaxBonusPct {
		return MaxBonusPct
	}
	return pct
}

// BonusProfit is the extra paid on top of base: a percentage of net profit
// only, floored. Break-even and losing outcomes get nothing.
func BonusProfit(base, bet, pct int) int {
	profit := base - bet
	if profit <= 0 {
		return 0
	}
	return profit * ClampBonus(pct) / 100
}

// ApplyBonus returns the final payout for base.
func ApplyBonus(base, bet, pct int) int {
	return base + BonusProfit(base, bet, pct)
}
