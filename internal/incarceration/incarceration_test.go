package incarceration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/stats"
)

var t0 = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

func invariant(t *testing.T, r Record) {
	t.Helper()
	assert.Equal(t, r.Total, r.Served()+r.Remaining)
	assert.GreaterOrEqual(t, r.Remaining, 0)
}

func TestFiveDaySentenceTick(t *testing.T) {
	rules := DefaultRules()
	r, err := Admit(KindPrison, 5, Holdings{}, 0, rules, t0)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Remaining)
	assert.Equal(t, 0, r.Served())
	invariant(t, r)

	r = r.Tick(t0.Add(30 * time.Minute))
	assert.Equal(t, 4, r.Remaining)
	assert.Equal(t, 1, r.Served())
	invariant(t, r)
}

func TestCountdownIsPure(t *testing.T) {
	tick := 30 * time.Minute
	assert.Equal(t, 150*time.Minute, Countdown(t0, t0, 5, tick))
	assert.Equal(t, 140*time.Minute, Countdown(t0.Add(10*time.Minute), t0, 5, tick))
	assert.Zero(t, Countdown(t0.Add(10*time.Hour), t0, 5, tick))

	r, _ := Admit(KindPrison, 2, Holdings{}, 0, DefaultRules(), t0)
	_ = r.Countdown(t0.Add(time.Minute), tick)
	assert.Equal(t, 2, r.Remaining)
}

func TestTickUntilRelease(t *testing.T) {
	r, _ := Admit(KindHospital, 2, Holdings{}, 0, DefaultRules(), t0)
	r = r.Tick(t0.Add(time.Minute))
	r = r.Tick(t0.Add(2 * time.Minute))
	assert.True(t, r.Released())
	invariant(t, r)
	r = r.Tick(t0.Add(3 * time.Minute))
	assert.Equal(t, 0, r.Remaining)
	assert.Equal(t, 2, r.Served())
	assert.Contains(t, r.Log[len(r.Log)-1], "Released")
}

func TestCatchUpAfterReload(t *testing.T) {
	tick := 30 * time.Minute
	r, _ := Admit(KindPrison, 5, Holdings{}, 0, DefaultRules(), t0)
	r = r.CatchUp(t0.Add(95*time.Minute), tick)
	assert.Equal(t, 2, r.Remaining)
	assert.Equal(t, t0.Add(90*time.Minute), r.LastTick)
	invariant(t, r)
	assert.Equal(t, 55*time.Minute, r.Countdown(t0.Add(95*time.Minute), tick))
}

func TestConfiscationAtAdmission(t *testing.T) {
	rules := DefaultRules()
	r, err := Admit(KindPrison, 3, Holdings{Clean: 10000, Dirty: 4000, Goods: 7}, 0, rules, t0)
	require.NoError(t, err)
	assert.Equal(t, Confiscation{Clean: 2500, Dirty: 4000, Goods: 7}, r.Confiscation)
	assert.Contains(t, r.Log[0], "$2,500 clean")

	h, err := Admit(KindHospital, 4, Holdings{Clean: 10000}, 0, rules, t0)
	require.NoError(t, err)
	assert.Zero(t, h.Confiscation)
	assert.Equal(t, 800, h.MedicalBill)
}

func TestAdmissionLimitIsGameOver(t *testing.T) {
	rules := DefaultRules()
	_, err := Admit(KindPrison, 3, Holdings{}, 4, rules, t0)
	require.NoError(t, err)
	_, err = Admit(KindPrison, 3, Holdings{}, 5, rules, t0)
	assert.ErrorIs(t, err, apperr.ErrGameOver)
	assert.NoError(t, CheckAdmission(KindHospital, 5, rules))
}

func TestAdmitRejectsBadInput(t *testing.T) {
	_, err := Admit("morgue", 3, Holdings{}, 0, DefaultRules(), t0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = Admit(KindPrison, 0, Holdings{}, 0, DefaultRules(), t0)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestRateCost(t *testing.T) {
	r := Rate{PerDay: 500, PerWeek: 3000}
	assert.Equal(t, 0, r.Cost(0))
	assert.Equal(t, 3000, r.Cost(6))
	assert.Equal(t, 3000, r.Cost(7))
	assert.Equal(t, 4000, r.Cost(9))
	assert.Equal(t, 900, Rate{PerDay: 300}.Cost(3))
}

func TestPayment(t *testing.T) {
	rules := DefaultRules()
	r, _ := Admit(KindPrison, 4, Holdings{}, 0, rules, t0)
	assert.Equal(t, 2000, r.PaymentCost(rules, false))
	assert.Equal(t, 1500, r.PaymentCost(rules, true))

	_, _, err := r.Pay(1000, rules, false)
	assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
	assert.Equal(t, 4, r.Remaining)

	paid, cost, err := r.Pay(1500, rules, true)
	require.NoError(t, err)
	assert.Equal(t, 1500, cost)
	assert.True(t, paid.Released())
	invariant(t, paid)

	_, _, err = paid.Pay(10000, rules, false)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestEscapeChanceScenario(t *testing.T) {
	ctx := stats.Context{
		Stats: stats.PlayerStats{Brains: 10},
		Crew:  []stats.CrewMember{{ID: "h", Role: stats.RoleHacker, HitPoints: 5}},
	}
	eff := EscapeChance(ctx)
	assert.Equal(t, 70, eff.Chance())
	assert.Equal(t, 70, eff.Capped(stats.EscapeChanceCap))
	_, ok := eff.Find(stats.SourceFacility)
	assert.False(t, ok)

	ctx.Facilities = []stats.Facility{stats.FacilityTunnel}
	ctx.Stats.Brains = 20
	assert.Equal(t, 95, EscapeChance(ctx).Capped(stats.EscapeChanceCap))
}

func TestEscapeSuccess(t *testing.T) {
	rules := DefaultRules()
	r, _ := Admit(KindPrison, 6, Holdings{}, 0, rules, t0)
	r = r.Tick(t0.Add(time.Minute))
	out, res, err := r.Escape(stats.Context{}, rules, nil, roll.NewScriptedRNG(0.1))
	require.NoError(t, err)
	assert.True(t, res.Escaped)
	assert.Equal(t, rules.EscapeHeatPenalty, res.HeatGained)
	assert.True(t, out.Released())
	assert.True(t, out.EscapeAttempted)
	invariant(t, out)
}

func TestEscapeFailureAddsDaysOnce(t *testing.T) {
	rules := DefaultRules()
	r, _ := Admit(KindPrison, 5, Holdings{}, 0, rules, t0)
	out, res, err := r.Escape(stats.Context{}, rules, roll.ForceFail(), nil)
	require.NoError(t, err)
	assert.False(t, res.Escaped)
	assert.Equal(t, 8, out.Remaining)
	assert.Equal(t, 8, out.Total)
	invariant(t, out)

	again, _, err := out.Escape(stats.Context{}, rules, roll.ForceSuccess(), nil)
	assert.ErrorIs(t, err, apperr.ErrExhaustedAttempt)
	assert.Equal(t, out.Remaining, again.Remaining)
	assert.Equal(t, out.Total, again.Total)
	assert.Equal(t, out.Log, again.Log)
}

func TestNoEscapeFromHospital(t *testing.T) {
	r, _ := Admit(KindHospital, 2, Holdings{}, 0, DefaultRules(), t0)
	_, _, err := r.Escape(stats.Context{}, DefaultRules(), nil, nil)
	assert.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestComputeLegacy(t *testing.T) {
	lr := DefaultLegacyRules()
	assert.Equal(t, Legacy{Coffer: 5000, XPBonus: 500}, ComputeLegacy(50000, 10, lr))
	assert.Equal(t, Legacy{Coffer: 0, XPBonus: 1000}, ComputeLegacy(-20, 40, lr))
}

func TestSentence(t *testing.T) {
	rules := DefaultRules()
	_, arrested := rules.Sentence(79)
	assert.False(t, arrested)
	days, arrested := rules.Sentence(80)
	assert.True(t, arrested)
	assert.Equal(t, 4, days)
	days, _ = rules.Sentence(150)
	assert.Equal(t, 7, days)

	rules.HeatPerDay = 0
	days, _ = rules.Sentence(500)
	assert.Equal(t, rules.MinSentence, days)
}
