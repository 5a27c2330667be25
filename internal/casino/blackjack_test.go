package casino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
)

// rank returns a scripted draw that DrawCard maps to rank r.
func rank(r int) float64 {
	return (float64(r-1) + 0.5) / 13
}

func deal(t *testing.T, bet, balance int, ranks ...int) Blackjack {
	t.Helper()
	draws := make([]float64, len(ranks))
	for i, r := range ranks {
		draws[i] = rank(r)
	}
	b, err := DealBlackjack(bet, balance, roll.NewScriptedRNG(draws...))
	require.NoError(t, err)
	return b
}

func TestHandTotals(t *testing.T) {
	tot, soft := Hand{{1}, {13}}.Total()
	assert.Equal(t, 21, tot)
	assert.True(t, soft)

	tot, soft = Hand{{1}, {1}, {9}}.Total()
	assert.Equal(t, 21, tot)
	assert.True(t, soft)

	tot, soft = Hand{{10}, {9}, {5}}.Total()
	assert.Equal(t, 24, tot)
	assert.False(t, soft)
	assert.True(t, Hand{{10}, {9}, {5}}.Bust())
	assert.False(t, Hand{{7}, {7}, {7}}.Natural())
}

func TestNaturalScenarioWithVIPBonus(t *testing.T) {
	// deal order: player, dealer, player, dealer
	b := deal(t, 100, 1000, 1, 9, 12, 7)
	require.True(t, b.Done)
	assert.Equal(t, BlackjackNatural, b.Result())

	s, err := b.Settle(10)
	require.NoError(t, err)
	assert.Equal(t, 250, s.Base)
	assert.Equal(t, 150, s.Base-s.Bet)
	assert.Equal(t, 15, s.BonusProfit)
	assert.Equal(t, 265, s.Final)
}

func TestBothNaturalsPush(t *testing.T) {
	b := deal(t, 100, 1000, 1, 1, 13, 11)
	assert.Equal(t, BlackjackPush, b.Result())
	s, err := b.Settle(15)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Final)
	assert.Equal(t, 0, s.Net())
}

func TestDealerNaturalLoses(t *testing.T) {
	b := deal(t, 100, 1000, 10, 1, 9, 13)
	assert.True(t, b.Done)
	assert.Equal(t, BlackjackLose, b.Result())
}

func TestStandWinPaysDouble(t *testing.T) {
	// player 10+9, dealer 10+6 then draws 10 -> bust
	b := deal(t, 100, 1000, 10, 10, 9, 6, 10)
	require.False(t, b.Done)
	b, err := b.Stand(roll.NewScriptedRNG(rank(10)))
	require.NoError(t, err)
	assert.Equal(t, BlackjackWin, b.Result())

	s, err := b.Settle(10)
	require.NoError(t, err)
	assert.Equal(t, 200, s.Base)
	assert.Equal(t, 210, s.Final)
}

func TestEqualTotalsPushReturnsStake(t *testing.T) {
	b := deal(t, 100, 1000, 10, 10, 8, 8)
	b, err := b.Stand(nil)
	require.NoError(t, err)
	assert.Equal(t, BlackjackPush, b.Result())
	s, _ := b.Settle(15)
	assert.Equal(t, 100, s.Final)
	assert.Equal(t, 0, s.BonusProfit)
}

func TestHitBustEndsHand(t *testing.T) {
	b := deal(t, 100, 1000, 10, 10, 6, 7)
	b, err := b.Hit(roll.NewScriptedRNG(rank(12)))
	require.NoError(t, err)
	assert.True(t, b.Done)
	assert.Equal(t, BlackjackBust, b.Result())

	_, err = b.Hit(nil)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestDoubleDownRevalidatesFunds(t *testing.T) {
	b := deal(t, 100, 1000, 5, 10, 6, 7)

	_, err := b.DoubleDown(99, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidWager)

	// player 5+6+10 = 21, dealer 10+7 stands
	d, err := b.DoubleDown(100, roll.NewScriptedRNG(rank(10)))
	require.NoError(t, err)
	assert.True(t, d.Doubled)
	assert.Equal(t, 200, d.Bet)
	assert.Equal(t, BlackjackWin, d.Result())

	s, _ := d.Settle(0)
	assert.Equal(t, 400, s.Final)
	// a doubled 21 is not a natural
	assert.Equal(t, 200, s.Net())
}

func TestDoubleDownOnlyOnTwoCards(t *testing.T) {
	b := deal(t, 100, 1000, 2, 10, 3, 7)
	b, err := b.Hit(roll.NewScriptedRNG(rank(2)))
	require.NoError(t, err)
	_, err = b.DoubleDown(1000, nil)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestSettleBeforeDoneIsIllegal(t *testing.T) {
	b := deal(t, 100, 1000, 10, 10, 6, 7)
	_, err := b.Settle(0)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestDealRejectsUnaffordableBet(t *testing.T) {
	_, err := DealBlackjack(500, 100, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidWager)
}
