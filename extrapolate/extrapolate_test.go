package extrapolate_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/extrapolate"
)

var ref = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func baseCurve(t *testing.T, maxTenor float64) *curve.DiscreteCurve {
	t.Helper()
	tenors := []float64{1, 2, 5, 10}
	if maxTenor > 10 {
		tenors = append(tenors, maxTenor)
	}
	dfs := make([]float64, len(tenors))
	for i, tau := range tenors {
		dfs[i] = math.Exp(-(0.025 + 0.0005*tau) * tau)
	}
	c, err := curve.NewDiscountCurve(ref, tenors, dfs, curve.LogLinear)
	require.NoError(t, err)
	return c
}

func TestSmithWilsonLimits(t *testing.T) {
	sw := extrapolate.EUR()
	const last, zL = 20.0, 0.03

	assert.Equal(t, zL, sw.ZeroRate(last, last, zL, 0.031))
	assert.Equal(t, zL, sw.ZeroRate(10, last, zL, 0.031))

	// Just past the last liquid point the rate barely moves.
	assert.InDelta(t, zL, sw.ZeroRate(last+1e-6, last, zL, 0.031), 1e-9)

	// Far out the zero rate approaches the ultimate forward rate.
	assert.InDelta(t, sw.UFR, sw.ZeroRate(500, last, zL, 0.031), 5e-4)

	// Monotone approach from below.
	prev := zL
	for _, tau := range []float64{25, 30, 40, 60, 100} {
		z := sw.ZeroRate(tau, last, zL, 0.031)
		assert.Greater(t, z, prev)
		assert.Less(t, z, sw.UFR)
		prev = z
	}
}

func TestPresets(t *testing.T) {
	for _, tc := range []struct {
		ccy   string
		alpha float64
		llp   float64
	}{
		{"EUR", 0.126, 20},
		{"gbp", 0.10, 50},
		{"USD", 0.10, 30},
		{" CHF ", 0.10, 25},
	} {
		sw, err := extrapolate.Preset(tc.ccy)
		require.NoError(t, err, tc.ccy)
		assert.Equal(t, 0.0345, sw.UFR)
		assert.Equal(t, tc.alpha, sw.Alpha)
		assert.Equal(t, tc.llp, sw.LastLiquidPoint())
	}
	_, err := extrapolate.Preset("JPY")
	assert.Error(t, err)
}

func TestSmithWilsonContract(t *testing.T) {
	assert.Panics(t, func() { extrapolate.NewSmithWilson(0.0345, 0, 20) })
	assert.Panics(t, func() { extrapolate.NewSmithWilson(0.0345, 0.1, -1) })
	assert.Contains(t, extrapolate.EUR().Name(), "smith-wilson")
}

func TestFlatForwardAndZero(t *testing.T) {
	var ff extrapolate.FlatForward
	z := ff.ZeroRate(20, 10, 0.03, 0.04)
	assert.InDelta(t, 0.035, z, 1e-15)

	var lz extrapolate.LinearZero
	assert.Equal(t, 0.03, lz.ZeroRate(50, 10, 0.03, 0.04))
}

func TestCurveMatchesBaseUpToLastLiquidPoint(t *testing.T) {
	base := baseCurve(t, 30)
	c, err := extrapolate.NewCurve(base, extrapolate.EUR(), 120)
	require.NoError(t, err)

	assert.Equal(t, 20.0, c.LastLiquidTenor())
	for _, tau := range []float64{0, 0.5, 3, 7.5, 15, 20} {
		assert.Equal(t, base.ValueAt(tau), c.ValueAt(tau), "tenor %g", tau)
	}

	// Continuous across the hand-over.
	assert.InDelta(t, c.ValueAt(20), c.ValueAt(20+1e-7), 1e-8)

	lo, hi := c.TenorBounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 120.0, hi)
	assert.Equal(t, curve.DiscountFactorType(), c.ValueType())

	df, err := curve.TryValueAt(c, 60)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-c.ZeroRateAt(60)*60), df, 1e-15)

	_, err = curve.TryValueAt(c, 150)
	assert.ErrorIs(t, err, curve.ErrTenorOutOfRange)

	d, ok := c.DerivativeAt(60)
	require.True(t, ok)
	assert.Less(t, d, 0.0)
}

func TestCurveHandsOverAtBaseEnd(t *testing.T) {
	base := baseCurve(t, 10)
	c, err := extrapolate.NewCurve(base, extrapolate.FlatForward{}, 50)
	require.NoError(t, err)
	assert.Equal(t, 10.0, c.LastLiquidTenor())

	// A shorter base than the LLP switches at the base end.
	sw, err := extrapolate.NewCurve(base, extrapolate.GBP(), 80)
	require.NoError(t, err)
	assert.Equal(t, 10.0, sw.LastLiquidTenor())
}

func TestCurveRejectsBadInput(t *testing.T) {
	base := baseCurve(t, 30)

	_, err := extrapolate.NewCurve(base, extrapolate.EUR(), 15)
	assert.ErrorIs(t, err, curve.ErrInvalidData)

	zero := curve.NewFlatCurve(ref, 0.03, curve.ZeroRateType(curve.Continuous, "ACT/365F"))
	_, err = extrapolate.NewCurve(zero, extrapolate.EUR(), 100)
	assert.ErrorIs(t, err, curve.ErrIncompatibleValueType)

	_, err = extrapolate.NewCurve(nil, extrapolate.EUR(), 100)
	assert.ErrorIs(t, err, curve.ErrInvalidData)
}
