package margin

import (
	"testing"

	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func r(t *testing.T, s string) rate.Rate {
	t.Helper()
	v, err := rate.FromString(s)
	require.NoError(t, err)
	return v
}

func excessFloat(t *testing.T, res Result) float64 {
	t.Helper()
	require.NotNil(t, res.Excess)
	f, _ := res.Excess.Float64()
	return f
}

func TestEvaluate_EqualityIsWithinLimit(t *testing.T) {
	res := Evaluate(r(t, "100"), r(t, "130"), DefaultMargin)

	assert.True(t, res.Ceiling.Equal(r(t, "130")), "ceiling = %s, want 130", res.Ceiling)
	assert.False(t, res.Exceeds)
	assert.Nil(t, res.Excess)
	assert.Equal(t, "", res.ExcessLabel())
}

func TestEvaluate_JustAboveCeiling(t *testing.T) {
	res := Evaluate(r(t, "100"), r(t, "130.01"), DefaultMargin)

	assert.True(t, res.Ceiling.Equal(r(t, "130")))
	assert.True(t, res.Exceeds)
	assert.InDelta(t, 0.0077, excessFloat(t, res), 0.0001)
	assert.Equal(t, "+0,01%", res.ExcessLabel())
}

func TestEvaluate_Scenarios(t *testing.T) {
	within := Evaluate(r(t, "5.47"), r(t, "7.00"), DefaultMargin)
	assert.True(t, within.Ceiling.Equal(r(t, "7.111")), "ceiling = %s", within.Ceiling)
	assert.False(t, within.Exceeds)

	above := Evaluate(r(t, "5.47"), r(t, "8.00"), DefaultMargin)
	assert.True(t, above.Ceiling.Equal(r(t, "7.111")))
	assert.True(t, above.Exceeds)
	assert.InDelta(t, 12.50, excessFloat(t, above), 0.02)
	assert.Equal(t, "+12,50%", above.ExcessLabel())
}

func TestEvaluate_Idempotent(t *testing.T) {
	a := Evaluate(r(t, "5.47"), r(t, "8.00"), DefaultMargin)
	b := Evaluate(r(t, "5.47"), r(t, "8.00"), DefaultMargin)

	assert.Equal(t, a.Exceeds, b.Exceeds)
	assert.True(t, a.Ceiling.Equal(b.Ceiling))
	assert.True(t, a.Excess.Equal(*b.Excess))
}

func TestEvaluate_ZeroBase(t *testing.T) {
	res := Evaluate(rate.Zero, rate.Zero, DefaultMargin)
	assert.True(t, res.Ceiling.IsZero())
	assert.False(t, res.Exceeds)
	assert.Nil(t, res.Excess)

	res = Evaluate(rate.Zero, r(t, "0.01"), DefaultMargin)
	assert.True(t, res.Exceeds)
	assert.True(t, res.ExcessUnbounded)
	assert.Nil(t, res.Excess)
	assert.Equal(t, "N/A", res.ExcessLabel())
}

func TestEvaluate_CustomMargin(t *testing.T) {
	res := Evaluate(r(t, "10"), r(t, "10.5"), rate.Zero)
	assert.True(t, res.Ceiling.Equal(r(t, "10")))
	assert.True(t, res.Exceeds)
	assert.InDelta(t, 5.0, excessFloat(t, res), 1e-9)

	res = Evaluate(r(t, "10"), r(t, "12.75"), r(t, "27.5"))
	assert.True(t, res.Ceiling.Equal(r(t, "12.75")))
	assert.False(t, res.Exceeds)
	assert.Equal(t, "Limite (27,50%)", res.CeilingLabel())
	assert.Equal(t, "Acima do limite de 27,50%", Evaluate(r(t, "10"), r(t, "13"), r(t, "27.5")).Verdict().Detail)
}

func TestVerdict_ClaimMapping(t *testing.T) {
	within := Evaluate(r(t, "100"), r(t, "130"), DefaultMargin).Verdict()
	assert.Equal(t, ClaimUnfounded, within.Claim)
	assert.Equal(t, "Revisional improcedente", within.Headline)
	assert.Equal(t, "Dentro do limite permitido", within.Detail)

	above := Evaluate(r(t, "100"), r(t, "131"), DefaultMargin).Verdict()
	assert.Equal(t, ClaimWellFounded, above.Claim)
	assert.Equal(t, "Revisional procedente", above.Headline)
	assert.Equal(t, "Acima do limite de 30%", above.Detail)
}
