package bond

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/solver"
	"github.com/meenmo/mocurve/utils"
)

var ref = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// fixedFlows returns per-100 flows of a bullet bond paying coupon (in
// percent per year) freq times a year for years years after ref.
func fixedFlows(coupon float64, freq, years int) []instrument.CashFlow {
	n := freq * years
	flows := make([]instrument.CashFlow, n)
	for i := 1; i <= n; i++ {
		flows[i-1] = instrument.CashFlow{
			Date:   utils.AddMonth(ref, i*12/freq),
			Amount: coupon / float64(freq),
			Kind:   instrument.FlowCoupon,
		}
	}
	flows[n-1].Amount += 100
	flows[n-1].Kind = instrument.FlowCouponAndPrincipal
	return flows
}

func flatCurve(t *testing.T, rate float64) *curve.DiscreteCurve {
	t.Helper()
	c, err := curve.NewFlatZeroCurve(ref, rate, curve.Continuous, curve.LogLinear)
	require.NoError(t, err)
	return c
}

func TestYieldAtParEqualsCoupon(t *testing.T) {
	res, err := YieldFromPrice(YieldInput{
		Settlement: ref,
		DirtyPrice: 100,
		Frequency:  1,
		Flows:      fixedFlows(3, 1, 5),
	}, solver.DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 0.03, res.Yield, 1e-10)
	assert.Equal(t, "newton", res.Solver)
	assert.Greater(t, res.Iterations, 0)
}

func TestYieldRoundTripSemiAnnual(t *testing.T) {
	in := YieldInput{
		Settlement: ref.AddDate(0, 2, 0),
		Frequency:  2,
		Flows:      fixedFlows(4, 2, 10),
	}
	price, err := PriceFromYield(0.0525, in)
	require.NoError(t, err)
	assert.Less(t, price, 100.0)

	in.DirtyPrice = price
	res, err := YieldFromPrice(in, solver.DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 0.0525, res.Yield, 1e-10)
}

func TestDirtyPriceDerivative(t *testing.T) {
	flows := fixedFlows(2.5, 1, 7)
	prev := ref
	settle := ref.AddDate(0, 4, 0)
	_, d := DirtyPriceAndDerivative(0.03, 1, settle, prev, remainingFlows(settle, flows))

	const h = 1e-6
	up, _ := DirtyPriceAndDerivative(0.03+h, 1, settle, prev, remainingFlows(settle, flows))
	dn, _ := DirtyPriceAndDerivative(0.03-h, 1, settle, prev, remainingFlows(settle, flows))
	assert.InDelta(t, (up-dn)/(2*h), d, 1e-4)
	assert.Less(t, d, 0.0)
}

func TestYieldInputValidation(t *testing.T) {
	cfg := solver.DefaultConfig()
	_, err := YieldFromPrice(YieldInput{DirtyPrice: 100, Frequency: 1, Flows: fixedFlows(3, 1, 2)}, cfg)
	assert.Error(t, err)

	_, err = YieldFromPrice(YieldInput{Settlement: ref, DirtyPrice: 100, Frequency: 5, Flows: fixedFlows(3, 1, 2)}, cfg)
	assert.Error(t, err)

	_, err = YieldFromPrice(YieldInput{Settlement: ref.AddDate(5, 0, 0), DirtyPrice: 100, Frequency: 1, Flows: fixedFlows(3, 1, 2)}, cfg)
	assert.Error(t, err)

	// No yield inside the search range reproduces a price of 10.
	_, err = YieldFromPrice(YieldInput{Settlement: ref, DirtyPrice: 10, Frequency: 1, Flows: fixedFlows(3, 1, 2)}, cfg)
	assert.ErrorIs(t, err, solver.ErrInvalidBracket)
	assert.ErrorIs(t, err, curve.ErrSolverConvergenceFailed)
	assert.Equal(t, curve.SolverConvergenceFailed, curve.KindOf(err))
}

func TestZSpreadRecoversShift(t *testing.T) {
	disc := flatCurve(t, 0.03)
	flows := fixedFlows(4, 1, 6)

	const spread = 0.0125
	price := 0.0
	for _, cf := range flows {
		df, err := curve.DiscountFactorAtDate(disc, cf.Date)
		require.NoError(t, err)
		tau := curve.YearsBetween(ref, cf.Date)
		assert.InDelta(t, math.Exp(-0.03*tau), df, 1e-14)
		price += cf.Amount * df * math.Exp(-spread*tau)
	}

	z, err := ZSpread(ref, price, flows, disc, solver.DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, spread, z, 1e-9)
}

func TestZSpreadErrors(t *testing.T) {
	disc := flatCurve(t, 0.03)
	_, err := ZSpread(ref, 100, nil, disc, solver.DefaultConfig())
	assert.Error(t, err)

	_, err = ZSpread(ref, 100, fixedFlows(3, 1, 2), nil, solver.DefaultConfig())
	assert.Error(t, err)

	// A price far above any spread in the bracket.
	_, err = ZSpread(ref, 1e6, fixedFlows(3, 1, 2), disc, solver.DefaultConfig())
	assert.ErrorIs(t, err, curve.ErrSolverConvergenceFailed)
}

func TestDiscountMargin(t *testing.T) {
	flat := flatCurve(t, 0.03)
	act365 := func(s, e time.Time) float64 { return utils.YearFraction(s, e, utils.ACT365F) }
	periods, err := FloatingPeriods(ref, utils.AddMonth(ref, 36), 3)
	require.NoError(t, err)
	require.Len(t, periods, 12)

	note := FloatingNote{Periods: periods, Notional: 100, DayCount: act365}

	// A zero-margin note projected and discounted on the same curve is at par.
	dm, err := DiscountMargin(ref, note, 100, flat, flat, solver.DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 0, dm, 1e-9)

	// Below par the discount margin is positive.
	dm, err = DiscountMargin(ref, note, 99, flat, flat, solver.DefaultConfig())
	require.NoError(t, err)
	assert.Greater(t, dm, 0.0)

	_, err = DiscountMargin(ref.AddDate(10, 0, 0), note, 100, flat, flat, solver.DefaultConfig())
	assert.Error(t, err)
}

func TestComputeASWSpread(t *testing.T) {
	disc := flatCurve(t, 0.025)
	flows := fixedFlows(3, 1, 5)

	at, err := ComputeASWSpread(ASWInput{
		Settlement:    ref,
		DirtyPrice:    0,
		Notional:      100,
		Flows:         flows,
		FloatMonths:   6,
		FloatDayCount: utils.ACT360,
		Discount:      disc,
	})
	require.NoError(t, err)
	require.Greater(t, at.PV01, 0.0)

	res, err := ComputeASWSpread(ASWInput{
		Settlement:    ref,
		DirtyPrice:    at.PVBondRF,
		Notional:      100,
		Flows:         flows,
		FloatMonths:   6,
		FloatDayCount: utils.ACT360,
		Discount:      disc,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, res.SpreadBP, 1e-9)

	cheap, err := ComputeASWSpread(ASWInput{
		Settlement:    ref,
		DirtyPrice:    at.PVBondRF - 1,
		Notional:      100,
		Flows:         flows,
		FloatMonths:   6,
		FloatDayCount: utils.ACT360,
		Discount:      disc,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1/cheap.PV01, cheap.SpreadBP, 1e-9)
	assert.Greater(t, cheap.SpreadBP, 0.0)

	_, err = ComputeASWSpread(ASWInput{Settlement: ref, Notional: 100, Flows: flows, FloatMonths: 6, FloatDayCount: "BAD", Discount: disc})
	assert.Error(t, err)
}

func TestComputeForwardYield(t *testing.T) {
	flows := fixedFlows(2.5, 1, 8)
	delivery := ref.AddDate(0, 3, 0)

	res, err := ComputeForwardYield(ForwardYieldInput{
		SettlementDate:   delivery,
		FuturesPrice:     98,
		ConversionFactor: 1,
		CouponRate:       2.5,
		CouponFrequency:  1,
		Cashflows:        flows,
	}, solver.DefaultConfig())
	require.NoError(t, err)

	expectedAI := 2.5 * float64(daysBetween(ref, delivery)) / float64(daysBetween(ref, flows[0].Date))
	assert.InDelta(t, expectedAI, res.AccruedInterest, 1e-12)
	assert.InDelta(t, 98+expectedAI, res.InvoicePrice, 1e-12)

	// Below par clean, the forward yield sits above the coupon.
	assert.Greater(t, res.ForwardYield, 2.5)

	price, err := PriceFromYield(res.ForwardYield/100, YieldInput{Settlement: delivery, Frequency: 1, Flows: flows})
	require.NoError(t, err)
	assert.InDelta(t, res.InvoicePrice, price, 1e-8)

	_, err = ComputeForwardYield(ForwardYieldInput{CouponFrequency: 1, Cashflows: flows}, solver.DefaultConfig())
	assert.Error(t, err)
}
