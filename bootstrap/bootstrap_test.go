package bootstrap_test

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/mocurve/bootstrap"
	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/utils"
)

var ref = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

var (
	act360  = func(s, e time.Time) float64 { return utils.YearFraction(s, e, utils.ACT360) }
	act365f = func(s, e time.Time) float64 { return utils.YearFraction(s, e, utils.ACT365F) }
)

func months(n int) time.Time { return utils.AddMonth(ref, n) }

// marketInstruments returns deposits out to one year and annual swaps beyond,
// deliberately out of maturity order.
func marketInstruments(t *testing.T) []instrument.Instrument {
	t.Helper()
	var out []instrument.Instrument
	for _, s := range []struct {
		years int
		rate  float64
	}{{10, 0.036}, {5, 0.034}, {2, 0.032}} {
		sw, err := instrument.NewSwapFromSchedule(ref, months(12*s.years), 12, s.rate, act365f, 1)
		require.NoError(t, err)
		out = append(out, sw)
	}
	for _, d := range []struct {
		m    int
		rate float64
	}{{12, 0.031}, {6, 0.0305}, {3, 0.03}} {
		dep, err := instrument.NewDeposit(ref, months(d.m), d.rate, act360, 1)
		require.NoError(t, err)
		out = append(out, dep)
	}
	return out
}

func TestBillPillarIsExact(t *testing.T) {
	bill, err := instrument.NewBill(months(6), 97.50, 100)
	require.NoError(t, err)

	b := bootstrap.New(ref, bootstrap.DefaultConfig())
	require.NoError(t, b.Add(bill))

	c, report, err := b.Bootstrap()
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, 0.975, c.ValueAt(curve.YearsBetween(ref, months(6))))
	assert.Equal(t, 1.0, c.ValueAt(0))
	assert.True(t, report.Converged)
	assert.Equal(t, 1, report.Iterations)
	require.Len(t, report.Instruments, 1)
	assert.Equal(t, 0.975, report.Instruments[0].DiscountFactor)
	assert.Equal(t, curve.DiscountFactorType(), c.ValueType())
}

func TestMixedInstrumentsReprice(t *testing.T) {
	b := bootstrap.New(ref, bootstrap.DefaultConfig())
	insts := marketInstruments(t)
	require.NoError(t, b.Add(insts...))

	c, report, err := b.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StateCalibrated, b.State())
	assert.True(t, report.Converged)
	assert.True(t, report.Monotonic)
	assert.Equal(t, 1, report.Iterations, "local interpolation settles in one sweep")
	assert.Less(t, report.SumSquaredError, 1e-12)

	for _, inst := range insts {
		pv, err := inst.PV(c)
		require.NoError(t, err)
		assert.InDelta(t, 0, pv, 1e-6, inst.Description())
	}

	// Report entries follow maturity order.
	for i := 1; i < len(report.Instruments); i++ {
		assert.True(t, report.Instruments[i-1].Maturity.Before(report.Instruments[i].Maturity))
	}

	// Zero rates land near the quoted levels.
	z, err := curve.ZeroRate(c, curve.YearsBetween(ref, months(60)), curve.Annual)
	require.NoError(t, err)
	assert.InDelta(t, 0.034, z, 0.002)

	published, rep := b.Result()
	assert.Same(t, c, published)
	assert.Same(t, report, rep)
}

func TestCubicSplineNeedsSeveralSweeps(t *testing.T) {
	cfg := bootstrap.DefaultConfig()
	cfg.Interpolation = curve.CubicSpline
	b := bootstrap.New(ref, cfg)
	insts := marketInstruments(t)
	require.NoError(t, b.Add(insts...))

	c, report, err := b.Bootstrap()
	require.NoError(t, err)
	assert.True(t, report.Converged)
	assert.Greater(t, report.Iterations, 1)
	for _, inst := range insts {
		pv, err := inst.PV(c)
		require.NoError(t, err)
		assert.InDelta(t, 0, pv, 1e-6, inst.Description())
	}
	assert.Equal(t, curve.CubicSpline, c.Interpolation())
}

func TestNonConvergenceIsReported(t *testing.T) {
	cfg := bootstrap.DefaultConfig()
	cfg.Interpolation = curve.CubicSpline
	cfg.MaxIterations = 1
	cfg.Tolerance = 1e-40
	b := bootstrap.New(ref, cfg)
	require.NoError(t, b.Add(marketInstruments(t)...))

	c, report, err := b.Bootstrap()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.False(t, report.Converged)
	assert.Equal(t, 1, report.Iterations)
	assert.Equal(t, bootstrap.StateCalibrated, b.State())
	assert.Len(t, report.Residuals(), 6)
}

func TestEmptyInstrumentSet(t *testing.T) {
	b := bootstrap.New(ref, bootstrap.DefaultConfig())
	assert.Equal(t, bootstrap.StateEmpty, b.State())

	c, report, err := b.Bootstrap()
	assert.Nil(t, c)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, curve.ErrEmptyCurve)
	assert.Equal(t, bootstrap.StateFailed, b.State())
}

func TestDuplicatePillarRejected(t *testing.T) {
	b1, err := instrument.NewBill(months(6), 97.5, 100)
	require.NoError(t, err)
	b2, err := instrument.NewBill(months(6), 97.4, 100)
	require.NoError(t, err)

	b := bootstrap.New(ref, bootstrap.DefaultConfig())
	require.NoError(t, b.Add(b1, b2))
	_, _, err = b.Bootstrap()
	assert.ErrorIs(t, err, curve.ErrInvalidData)
	assert.Equal(t, curve.InvalidData, curve.KindOf(err))
	assert.Equal(t, bootstrap.StateFailed, b.State())
}

func TestMaturityBeforeReferenceRejected(t *testing.T) {
	bill, err := instrument.NewBill(ref.AddDate(0, -1, 0), 99, 100)
	require.NoError(t, err)
	b := bootstrap.New(ref, bootstrap.DefaultConfig())
	require.NoError(t, b.Add(bill))
	_, _, err = b.Bootstrap()
	assert.ErrorIs(t, err, curve.ErrInvalidData)
}

func TestStateTransitions(t *testing.T) {
	b := bootstrap.New(ref, bootstrap.DefaultConfig())
	assert.Equal(t, "empty", b.State().String())

	assert.ErrorIs(t, b.Add(nil), curve.ErrInvalidData)
	assert.Equal(t, bootstrap.StateEmpty, b.State())

	bill, err := instrument.NewBill(months(3), 99.2, 100)
	require.NoError(t, err)
	require.NoError(t, b.Add(bill))
	assert.Equal(t, bootstrap.StateInstrumentsAdded, b.State())
	assert.Len(t, b.Instruments(), 1)

	_, _, err = b.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, bootstrap.StateCalibrated, b.State())

	// Adding after calibration reopens the set.
	bill2, err := instrument.NewBill(months(9), 97.6, 100)
	require.NoError(t, err)
	require.NoError(t, b.Add(bill2))
	assert.Equal(t, bootstrap.StateInstrumentsAdded, b.State())

	c, report, err := b.Bootstrap()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Len(t, report.Instruments, 2)
}

func TestPublishedCurveIsStable(t *testing.T) {
	bill, err := instrument.NewBill(months(6), 97.5, 100)
	require.NoError(t, err)
	b := bootstrap.New(ref, bootstrap.DefaultConfig())
	require.NoError(t, b.Add(bill))
	first, _, err := b.Bootstrap()
	require.NoError(t, err)
	before := first.Values()

	bill2, err := instrument.NewBill(months(12), 95, 100)
	require.NoError(t, err)
	require.NoError(t, b.Add(bill2))
	_, _, err = b.Bootstrap()
	require.NoError(t, err)

	assert.Equal(t, before, first.Values())
}

func TestLoggerReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	bill, err := instrument.NewBill(months(6), 97.5, 100)
	require.NoError(t, err)

	b := bootstrap.New(ref, bootstrap.DefaultConfig(), bootstrap.WithLogger(zerolog.New(&buf)))
	require.NoError(t, b.Add(bill))
	_, report, err := b.Bootstrap()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "bootstrap started")
	assert.Contains(t, buf.String(), "bootstrap converged")
	require.NotEmpty(t, report.RunID)
	assert.Contains(t, buf.String(), `"run_id":"`+report.RunID+`"`)
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, bootstrap.DefaultConfig().Validate())

	cfg := bootstrap.DefaultConfig()
	cfg.Tolerance = 0
	assert.Error(t, cfg.Validate())
	assert.Panics(t, func() { bootstrap.New(ref, cfg) })

	cfg = bootstrap.DefaultConfig()
	cfg.MinDiscountFactor = 2
	assert.Error(t, cfg.Validate())

	cfg = bootstrap.DefaultConfig()
	cfg.MaxIterations = -1
	assert.Error(t, cfg.Validate())

	cfg = bootstrap.DefaultConfig()
	cfg.DerivativeStep = math.NaN()
	assert.Error(t, cfg.Validate())
}
