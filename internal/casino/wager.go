package casino

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/xtding233/underworld-engine/internal/apperr"
)

// Limits bound a single stake.
type Limits struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"` // 0 means no ceiling
}

// Validate rejects a bet against the catalogue limits before any state is
// touched.
func Validate(k Kind, bet, balance int) error {
	spec, ok := k.Spec()
	if !ok {
		return apperr.WithMetadata(apperr.CodeInvalidWager, "unknown game", map[string]string{"game": string(k)})
	}
	return ValidateLimits(k, spec.Limits, bet, balance)
}

// ValidateLimits is Validate with explicit (e.g. tuned) limits.
func ValidateLimits(k Kind, l Limits, bet, balance int) error {
	meta := func(reason string) map[string]string {
		return map[string]string{"reason": reason, "game": string(k), "bet": strconv.Itoa(bet)}
	}
	switch {
	case bet <= 0 || bet < l.Min:
		return apperr.WithMetadata(apperr.CodeInvalidWager, "bet below minimum",
			meta("Minimum is "+humanize.Comma(int64(l.Min))+"."))
	case l.Max > 0 && bet > l.Max:
		return apperr.WithMetadata(apperr.CodeInvalidWager, "bet above table ceiling",
			meta("Maximum is "+humanize.Comma(int64(l.Max))+"."))
	case bet > balance:
		return apperr.WithMetadata(apperr.CodeInvalidWager, "bet above balance",
			meta("You only have "+humanize.Comma(int64(balance))+"."))
	}
	return nil
}

// Settlement is the resolved money outcome of one wager.
type Settlement struct {
	Kind        Kind `json:"kind"`
	Bet         int  `json:"bet"`          // total stake at risk
	Base        int  `json:"base"`         // gross payout before bonus
	BonusPct    int  `json:"bonus_pct"`    // applied (capped) percentage
	BonusProfit int  `json:"bonus_profit"` // extra from the bonus
	Final       int  `json:"final"`        // gross amount returned to the player
	Jackpot     bool `json:"jackpot,omitempty"`
}

// Net is the balance change of the whole wager.
func (s Settlement) Net() int { return s.Final - s.Bet }

// Won reports a strictly positive net.
func (s Settlement) Won() bool { return s.Net() > 0 }

// Settle applies the bonus to a base payout.
func Settle(k Kind, bet, base, bonusPct int) Settlement {
	if base < 0 {
		base = 0
	}
	pct := ClampBonus(bonusPct)
	bp := BonusProfit(base, bet, pct)
	return Settlement{
		Kind:        k,
		Bet:         bet,
		Base:        base,
		BonusPct:    pct,
		BonusProfit: bp,
		Final:       base + bp,
	}
}

// Forfeit settles an abandoned session: the committed stake is lost.
func Forfeit(k Kind, bet int) Settlement {
	return Settlement{Kind: k, Bet: bet}
}

// mulPct returns floor(bet * pct / 100) for non-negative inputs.
func mulPct(bet, pct int) int {
	return bet * pct / 100
}
