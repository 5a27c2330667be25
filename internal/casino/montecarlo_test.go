package casino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/stats"
)

func TestHouseKeepsEdgeWithoutBonus(t *testing.T) {
	cases := []SimParams{
		{Kind: KindRoulette, Bet: 100, Pick: RoulettePick{Bet: BetRed}},
		{Kind: KindRoulette, Bet: 100, Pick: RoulettePick{Bet: BetGreen}},
		{Kind: KindSlots, Bet: 1000},
		{Kind: KindBlackjack, Bet: 100},
		{Kind: KindHighLow, Bet: 100, CashOutAt: 2},
		{Kind: KindRace, Bet: 100},
		{Kind: KindArmWrestle, Bet: 100},
	}
	for _, p := range cases {
		t.Run(string(p.Kind), func(t *testing.T) {
			st, err := SimulateEdge(p, 100000, roll.NewSeededRNG(7))
			require.NoError(t, err)
			assert.Less(t, st.RTP, 1.0)
			assert.GreaterOrEqual(t, st.P50, 0.0)
		})
	}
}

func TestSlotsKeepEdgeAtEveryStake(t *testing.T) {
	for _, bet := range []int{5, 10, 20, 50, 100, 250, 1000, 5000} {
		for _, bonus := range []int{0, MaxBonusPct} {
			st, err := SimulateEdge(SimParams{Kind: KindSlots, Bet: bet, BonusPct: bonus}, 100000, roll.NewSeededRNG(11))
			require.NoError(t, err)
			assert.Less(t, st.RTP, 1.0, "bet %d bonus %d", bet, bonus)
		}
	}
}

func TestBonusRaisesRTPOnlyThroughProfit(t *testing.T) {
	plain, err := SimulateEdge(SimParams{Kind: KindHighLow, Bet: 100, CashOutAt: 1}, 20000, roll.NewSeededRNG(3))
	require.NoError(t, err)
	boosted, err := SimulateEdge(SimParams{Kind: KindHighLow, Bet: 100, CashOutAt: 1, BonusPct: 40}, 20000, roll.NewSeededRNG(3))
	require.NoError(t, err)

	// same seed, same outcomes: every win pays 130 + floor(30*15/100) = 134
	assert.Greater(t, boosted.RTP, plain.RTP)
	assert.InDelta(t, plain.RTP*134/130, boosted.RTP, 1e-9)
	assert.Less(t, boosted.RTP, 1.0)
}

func TestSkillGamesKeepEdgeForStrongPlayers(t *testing.T) {
	ctx := stats.Context{Stats: stats.PlayerStats{Muscle: 20, Brains: 20, Charm: 20}}
	require.Greater(t, stats.RaceChance(ctx).Chance(), RaceChanceCap)
	require.Greater(t, stats.ArmWrestleChance(0, ctx).Chance(), ArmWrestleChanceCap)

	for _, k := range []Kind{KindRace, KindArmWrestle} {
		t.Run(string(k), func(t *testing.T) {
			st, err := SimulateEdge(SimParams{Kind: k, Bet: 100, BonusPct: MaxBonusPct, Context: ctx}, 100000, roll.NewSeededRNG(5))
			require.NoError(t, err)
			assert.Less(t, st.RTP, 1.0)
		})
	}

	r, err := PlayRace(100, 1000, 0, ctx, nil, roll.NewScriptedRNG(0.5))
	require.NoError(t, err)
	assert.Equal(t, RaceChanceCap, r.Check.Chance)
	assert.Equal(t, roll.OutcomeFail, r.Check.Outcome)
}

func TestSimulateEdgeRejectsRemoteGame(t *testing.T) {
	_, err := SimulateEdge(SimParams{Kind: KindRussianRoulette, Bet: 100}, 1, nil)
	assert.Error(t, err)
}

func TestSkillGamesRespectForcedResult(t *testing.T) {
	ctx := stats.Context{Stats: stats.PlayerStats{Muscle: 1}}
	r, err := PlayArmWrestle(100, 1000, 0, 20, ctx, roll.ForceSuccess(), nil)
	require.NoError(t, err)
	assert.Equal(t, roll.OutcomeSuccess, r.Check.Outcome)
	assert.Equal(t, 200, r.Settlement.Final)

	race, err := PlayRace(100, 1000, 0, ctx, roll.ForceFail(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, race.Settlement.Final)
	assert.Equal(t, RaceHeat, race.Heat)
}

func TestCalcStatsPercentiles(t *testing.T) {
	st := calcStats([]int{0, 0, 100, 200})
	assert.InDelta(t, 75, st.Mean, 1e-9)
	assert.InDelta(t, 50, st.P50, 1e-9)
	assert.Equal(t, Stats{}, calcStats(nil))
}
