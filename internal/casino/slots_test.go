package casino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/roll"
)

func TestSlotsBaseTable(t *testing.T) {
	base, jp := SlotsBase(Reels{SymBell, SymBell, SymBell}, 100, 5000)
	assert.Equal(t, 800, base)
	assert.False(t, jp)

	base, jp = SlotsBase(Reels{SymSeven, SymSeven, SymSeven}, 100, 5000)
	assert.Equal(t, 5000, base)
	assert.True(t, jp)

	base, _ = SlotsBase(Reels{SymCherry, SymLemon, SymCherry}, 100, 5000)
	assert.Equal(t, 120, base)

	base, _ = SlotsBase(Reels{SymSeven, SymSeven, SymBar}, 100, 5000)
	assert.Equal(t, 120, base)

	base, _ = SlotsBase(Reels{SymCherry, SymLemon, SymBar}, 100, 5000)
	assert.Equal(t, 0, base)
}

func TestPlaySlotsJackpotPaysPoolAndResets(t *testing.T) {
	// draws at the very end of the strip land on seven
	rng := roll.NewScriptedRNG(0.99, 0.99, 0.99)
	jp := Jackpot{Pool: 20000, Floor: 10000}

	spin, err := PlaySlots(250, 1000, 0, jp, rng)
	require.NoError(t, err)
	assert.Equal(t, Reels{SymSeven, SymSeven, SymSeven}, spin.Reels)
	assert.True(t, spin.Settlement.Jackpot)
	assert.Equal(t, 20012, spin.Settlement.Base)
	assert.Equal(t, 10000, spin.Jackpot.Pool)
}

func TestSmallStakeCannotClaimPool(t *testing.T) {
	rng := roll.NewScriptedRNG(0.99, 0.99, 0.99)
	jp := Jackpot{Pool: 20000, Floor: 10000}

	spin, err := PlaySlots(5, 1000, 0, jp, rng)
	require.NoError(t, err)
	assert.Equal(t, Reels{SymSeven, SymSeven, SymSeven}, spin.Reels)
	assert.False(t, spin.Settlement.Jackpot)
	assert.Equal(t, 40, spin.Settlement.Base)
	assert.Equal(t, 20000, spin.Jackpot.Pool, "pool carries over")

	base, hit := SlotsBase(Reels{SymSeven, SymSeven, SymSeven}, 100, 10001)
	assert.False(t, hit)
	assert.Equal(t, 800, base)
}

func TestPlaySlotsFeedsPoolOnLoss(t *testing.T) {
	// cherry, lemon, bar
	rng := roll.NewScriptedRNG(0.05, 0.25, 0.65)
	spin, err := PlaySlots(200, 1000, 15, NewJackpot(10000), rng)
	require.NoError(t, err)
	assert.Equal(t, 0, spin.Settlement.Final)
	assert.Equal(t, 10010, spin.Jackpot.Pool)
}
