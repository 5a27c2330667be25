package casino

import (
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Skill-game payouts and side effects.
const (
	RacePayoutPct       = 250
	RaceHeat            = 2
	ArmWrestlePayoutPct = 200

	// Ceilings on the rolled chance. Together with the payout and the
	// largest bonus they keep a fully buffed player below even money.
	RaceChanceCap       = 36
	ArmWrestleChanceCap = 45
)

// SkillBet is a single-shot wager decided by a skill check.
type SkillBet struct {
	Check      roll.Result     `json:"check"`
	Effective  stats.Effective `json:"effective"`
	Settlement Settlement      `json:"settlement"`
	Heat       int             `json:"heat"`
}

func playSkill(k Kind, payoutPct, chanceCap, heat, bet, balance, bonusPct int, eff stats.Effective, forced *roll.Forced, rng roll.RandomSource) (SkillBet, error) {
	if err := Validate(k, bet, balance); err != nil {
		return SkillBet{}, err
	}
	res, err := roll.Resolve(roll.Check{Chance: eff.Capped(chanceCap)}, forced, rng)
	if err != nil {
		return SkillBet{}, err
	}
	base := 0
	if res.Outcome == roll.OutcomeSuccess {
		base = mulPct(bet, payoutPct)
	}
	return SkillBet{
		Check:      res,
		Effective:  eff,
		Settlement: Settle(k, bet, base, bonusPct),
		Heat:       heat,
	}, nil
}

// PlayRace bets on the player's own car. Every race draws heat.
func PlayRace(bet, balance, bonusPct int, ctx stats.Context, forced *roll.Forced, rng roll.RandomSource) (SkillBet, error) {
	return playSkill(KindRace, RacePayoutPct, RaceChanceCap, RaceHeat, bet, balance, bonusPct, stats.RaceChance(ctx), forced, rng)
}

// PlayArmWrestle bets on beating an opponent. A tap-contest result may be
// passed as forced.
func PlayArmWrestle(bet, balance, bonusPct, opponent int, ctx stats.Context, forced *roll.Forced, rng roll.RandomSource) (SkillBet, error) {
	return playSkill(KindArmWrestle, ArmWrestlePayoutPct, ArmWrestleChanceCap, 0, bet, balance, bonusPct, stats.ArmWrestleChance(opponent, ctx), forced, rng)
}
