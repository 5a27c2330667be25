package casino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
)

func TestHighLowCashOutAtRung(t *testing.T) {
	// first card 5, then 9 (higher), 3 (lower)
	rng := roll.NewScriptedRNG(rank(5), rank(9), rank(3))
	h, err := StartHighLow(100, 1000, nil, rng)
	require.NoError(t, err)
	assert.Equal(t, 5, h.Card.Rank)

	h, err = h.Guess(GuessHigher, rng)
	require.NoError(t, err)
	h, err = h.Guess(GuessLower, rng)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Streak)
	assert.False(t, h.Done)

	h, s, err := h.CashOut(0)
	require.NoError(t, err)
	assert.True(t, h.Done)
	assert.Equal(t, LadderPayout(100, DefaultLadder, 2), s.Base)
	assert.Equal(t, 180, s.Final)
}

func TestHighLowLadderPayoutMatchesTable(t *testing.T) {
	for r := range DefaultLadder {
		assert.Equal(t, 1000*DefaultLadder[r]/100, LadderPayout(1000, DefaultLadder, r))
	}
	for r := 1; r < len(DefaultLadder); r++ {
		assert.Greater(t, DefaultLadder[r], DefaultLadder[r-1], "ladder must rise")
	}
}

func TestHighLowTieLoses(t *testing.T) {
	rng := roll.NewScriptedRNG(rank(7), rank(7))
	h, err := StartHighLow(100, 1000, nil, rng)
	require.NoError(t, err)
	h, err = h.Guess(GuessHigher, rng)
	require.NoError(t, err)
	assert.True(t, h.Lost)
	assert.True(t, h.Done)
	assert.Equal(t, 0, h.Streak)

	_, _, err = h.CashOut(0)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)

	s, err := h.Settle()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Final)
	assert.Equal(t, -100, s.Net())
}

func TestHighLowLossAfterStreakResets(t *testing.T) {
	rng := roll.NewScriptedRNG(rank(2), rank(8), rank(12))
	h, _ := StartHighLow(100, 1000, nil, rng)
	h, _ = h.Guess(GuessHigher, rng)
	require.Equal(t, 1, h.Streak)
	h, _ = h.Guess(GuessLower, rng)
	assert.True(t, h.Lost)
	assert.Equal(t, 0, h.Streak)
	assert.Equal(t, DefaultLadder[0], h.Multiplier())
}

func TestHighLowCashOutBeforeGuessIsIllegal(t *testing.T) {
	h, err := StartHighLow(100, 1000, nil, roll.NewScriptedRNG(rank(4)))
	require.NoError(t, err)
	_, _, err = h.CashOut(0)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestHighLowTopRungEndsSession(t *testing.T) {
	ladder := []int{100, 150, 200}
	rng := roll.NewScriptedRNG(rank(1), rank(5), rank(13))
	h, err := StartHighLow(100, 1000, ladder, rng)
	require.NoError(t, err)
	h, _ = h.Guess(GuessHigher, rng)
	h, _ = h.Guess(GuessHigher, rng)
	assert.True(t, h.Done)
	assert.False(t, h.Lost)

	_, err = h.Guess(GuessHigher, rng)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)

	_, s, err := h.CashOut(10)
	require.NoError(t, err)
	assert.Equal(t, 200, s.Base)
	assert.Equal(t, 210, s.Final)
}
