package casino

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBonusSetCappedAtFifteen(t *testing.T) {
	set := BonusSet{
		{Name: "casino owner", Pct: 10},
		{Name: "reputation", Pct: 8},
		{Name: "district boss", Pct: 5},
	}
	assert.Equal(t, 23, set.Uncapped())
	assert.Equal(t, MaxBonusPct, set.Total())
	assert.Equal(t, "casino owner", set.Sorted()[0].Name)

	assert.Equal(t, 0, BonusSet{{Name: "curse", Pct: -4}}.Total())
	assert.Equal(t, 0, BonusSet(nil).Total())
}

func TestBonusOnlyOnNetProfit(t *testing.T) {
	cases := []struct {
		name           string
		base, bet, pct int
		wantFinal      int
	}{
		{"blackjack natural scenario", 250, 100, 10, 265},
		{"loss pays nothing", 0, 100, 15, 0},
		{"push returns stake only", 100, 100, 15, 100},
		{"floor on odd profit", 130, 100, 15, 134},
		{"cap enforced", 200, 100, 90, 215},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			final := ApplyBonus(tc.base, tc.bet, tc.pct)
			assert.Equal(t, tc.wantFinal, final)
		})
	}
}

func TestBonusPropertyHoldsAcrossGrid(t *testing.T) {
	for bet := 10; bet <= 1000; bet += 37 {
		for mult := 0; mult <= 1500; mult += 35 {
			base := bet * mult / 100
			for pct := -5; pct <= 40; pct += 5 {
				s := Settle(KindRoulette, bet, base, pct)
				assert.GreaterOrEqual(t, s.Base, 0)
				assert.LessOrEqual(t, s.BonusPct, MaxBonusPct)
				if base > bet {
					assert.Equal(t, (base-bet)*ClampBonus(pct)/100, s.Final-s.Base)
				} else {
					assert.Equal(t, s.Base, s.Final)
				}
			}
		}
	}
}

func TestBonusOnProfitBeatsBonusOnGrossForHouse(t *testing.T) {
	// green: 14x on 1 of 15 pockets
	bet := 100
	base := 1400
	onProfit := ApplyBonus(base, bet, MaxBonusPct)
	onGross := base + base*MaxBonusPct/100
	assert.Equal(t, 1595, onProfit)
	assert.Less(t, onProfit, onGross)
}
