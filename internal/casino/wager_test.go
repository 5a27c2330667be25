package casino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
)

func TestValidateRejectsBeforeMutation(t *testing.T) {
	cases := []struct {
		name         string
		kind         Kind
		bet, balance int
	}{
		{"below minimum", KindRoulette, 5, 1000},
		{"zero", KindSlots, 0, 1000},
		{"above balance", KindRoulette, 500, 499},
		{"above ceiling", KindSlots, 6000, 100000},
		{"unknown game", Kind("craps"), 100, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.kind, tc.bet, tc.balance)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrInvalidWager)
		})
	}
	assert.NoError(t, Validate(KindRoulette, 100, 100))
}

func TestCatalogueIsExhaustive(t *testing.T) {
	for _, k := range Kinds() {
		spec, ok := k.Spec()
		require.True(t, ok, k)
		assert.NotEmpty(t, spec.Label)
		assert.NotEmpty(t, spec.Rule)
		assert.Positive(t, spec.Limits.Min)
	}
	spec, _ := KindRussianRoulette.Spec()
	assert.True(t, spec.Remote)
}

func TestJackpotContributeAndReset(t *testing.T) {
	jp := NewJackpot(1000)
	jp = jp.Contribute(100).Contribute(50).Contribute(-10)
	assert.Equal(t, 1000+5+2, jp.Pool)

	paid, next := jp.Win()
	assert.Equal(t, 1007, paid)
	assert.Equal(t, 1000, next.Pool)
	assert.Equal(t, 1000, next.Floor)
}

func TestForfeitLosesWholeStake(t *testing.T) {
	s := Forfeit(KindHighLow, 300)
	assert.Equal(t, 0, s.Final)
	assert.Equal(t, -300, s.Net())
	assert.False(t, s.Won())
}

func TestRouletteGreenScenario(t *testing.T) {
	// IntN(15) == 0 for draws below 1/15
	spin, err := PlayRoulette(RoulettePick{Bet: BetGreen}, 100, 1000, 0, roll.NewScriptedRNG(0.01))
	require.NoError(t, err)
	assert.Equal(t, 0, spin.Pocket)
	assert.Equal(t, Green, spin.Color)
	assert.Equal(t, 1400, spin.Settlement.Base)
	assert.Equal(t, 1400, spin.Settlement.Final)
	assert.Equal(t, 1300, spin.Settlement.Net())
}

func TestRoulettePayoutTable(t *testing.T) {
	for n := 0; n < Pockets; n++ {
		for _, bt := range []RouletteBet{BetRed, BetBlack, BetEven, BetOdd, BetLow, BetHigh} {
			base := RouletteBase(RoulettePick{Bet: bt}, n, 100)
			if n == 0 {
				assert.Equal(t, 0, base, "%s on zero", bt)
				continue
			}
			assert.Contains(t, []int{0, 200}, base)
		}
		green := RouletteBase(RoulettePick{Bet: BetGreen}, n, 100)
		if n == 0 {
			assert.Equal(t, 1400, green)
		} else {
			assert.Equal(t, 0, green)
		}
	}
	assert.Equal(t, 1400, RouletteBase(RoulettePick{Bet: BetNumber, Number: 9}, 9, 100))
	assert.Equal(t, 200, RouletteBase(RoulettePick{Bet: BetRed}, 1, 100))
	assert.Equal(t, 200, RouletteBase(RoulettePick{Bet: BetBlack}, 14, 100))
	assert.Equal(t, 200, RouletteBase(RoulettePick{Bet: BetHigh}, 8, 100))
	assert.Equal(t, 0, RouletteBase(RoulettePick{Bet: BetLow}, 8, 100))
}

func TestRouletteColorsBalanced(t *testing.T) {
	red, black := 0, 0
	for n := 1; n < Pockets; n++ {
		switch PocketColor(n) {
		case Red:
			red++
		case Black:
			black++
		}
	}
	assert.Equal(t, 7, red)
	assert.Equal(t, 7, black)
}

func TestRouletteRejectsBadPick(t *testing.T) {
	_, err := PlayRoulette(RoulettePick{Bet: "corner"}, 100, 1000, 0, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidWager)
	_, err = PlayRoulette(RoulettePick{Bet: BetNumber, Number: 15}, 100, 1000, 0, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidWager)
}
