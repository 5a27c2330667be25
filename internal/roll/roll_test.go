package roll

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	require.NoError(t, err)
	assert.False(t, got, "p=0 should never hit")

	got, err = Draw(1, NewSeededRNG(1))
	require.NoError(t, err)
	assert.True(t, got, "p=1 should always hit")

	_, err = Draw(-0.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
	_, err = Draw(1.1, nil)
	assert.ErrorIs(t, err, ErrInvalidProb)
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Draw(p, rng)
		require.NoError(t, err)
		if ok {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	assert.InDelta(t, p, freq, 0.01)
}

func TestResolveTiers(t *testing.T) {
	c := Check{Chance: 50, PartialBand: 20}

	cases := []struct {
		draw float64
		want Outcome
	}{
		{0.00, OutcomeSuccess},
		{0.499, OutcomeSuccess},
		{0.50, OutcomePartial},
		{0.69, OutcomePartial},
		{0.71, OutcomeFail},
		{0.99, OutcomeFail},
	}
	for _, tc := range cases {
		res, err := Resolve(c, nil, NewScriptedRNG(tc.draw))
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Outcome, "draw %.3f", tc.draw)
		assert.False(t, res.Forced)
	}
}

func TestResolveBinaryWithoutBand(t *testing.T) {
	res, err := Resolve(Check{Chance: 40}, nil, NewScriptedRNG(0.45))
	require.NoError(t, err)
	assert.Equal(t, OutcomeFail, res.Outcome)
}

func TestForcedOverrideWinsAndSkipsDraw(t *testing.T) {
	rng := NewScriptedRNG(0.0, 0.99)

	res, err := Resolve(Check{Chance: 0}, ForceSuccess(), rng)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.True(t, res.Forced)

	res, err = Resolve(Check{Chance: 100}, ForceFail(), rng)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFail, res.Outcome)

	// the scripted source was never consumed
	assert.InDelta(t, 0.0, rng.Float64(), 1e-9)
}

func TestResolveRejectsBadBand(t *testing.T) {
	_, err := Resolve(Check{Chance: 10, PartialBand: 120}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidChance)
}

func TestSymbolRoundTrip(t *testing.T) {
	for _, o := range []Outcome{OutcomeSuccess, OutcomePartial, OutcomeFail} {
		assert.Equal(t, o, OutcomeFromSymbol(o.Symbol()))
	}
	assert.Equal(t, OutcomeUnspecified, OutcomeFromSymbol("x"))
	assert.Equal(t, OutcomePartial, OutcomeSuccess.Downgrade())
	assert.Equal(t, OutcomeFail, OutcomePartial.Downgrade())
}

func TestOutcomeEncodesByName(t *testing.T) {
	b, err := json.Marshal(struct {
		Outcome Outcome `json:"outcome"`
	}{OutcomeSuccess})
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"success"}`, string(b))

	var got struct {
		Outcome Outcome `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"outcome":"partial"}`), &got))
	assert.Equal(t, OutcomePartial, got.Outcome)

	assert.Error(t, json.Unmarshal([]byte(`{"outcome":"maybe"}`), &got))
}

func TestIntNRange(t *testing.T) {
	assert.Equal(t, 0, IntN(nil, 0))
	assert.Equal(t, 4, IntN(NewScriptedRNG(0.9999999), 5))
	assert.Equal(t, 0, IntN(NewScriptedRNG(0), 5))
}
