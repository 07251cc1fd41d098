package bootstrap

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
)

// InstrumentResult is the repricing outcome of one instrument.
type InstrumentResult struct {
	Description    string
	Kind           instrument.Kind
	Maturity       time.Time
	Tenor          float64
	DiscountFactor float64
	Residual       float64
}

// Report describes one bootstrap call. It is read-only once returned.
type Report struct {
	// RunID tags the log events of the calibration that produced the report.
	RunID           string
	Instruments     []InstrumentResult
	MaxError        float64
	SumSquaredError float64
	// Iterations is the number of global sweeps performed.
	Iterations    int
	Converged     bool
	Monotonic     bool
	Interpolation curve.Interpolation
}

// Residuals returns the per-instrument residuals in maturity order.
func (r *Report) Residuals() []float64 {
	out := make([]float64, len(r.Instruments))
	for i, ir := range r.Instruments {
		out[i] = ir.Residual
	}
	return out
}

// errorMetrics returns the sum of squared residuals and the largest absolute one.
func errorMetrics(residuals []float64) (sse, maxAbs float64) {
	if len(residuals) == 0 {
		return 0, 0
	}
	sse = floats.Dot(residuals, residuals)
	abs := make([]float64, len(residuals))
	for i, r := range residuals {
		abs[i] = math.Abs(r)
	}
	return sse, floats.Max(abs)
}

// isMonotone samples the curve between pillars and checks that discount
// factors never increase and stay non-negative.
func isMonotone(c *curve.DiscreteCurve) bool {
	const samples = 8
	tenors := c.Tenors()
	prev := c.ValueAt(tenors[0])
	for i := 1; i < len(tenors); i++ {
		step := (tenors[i] - tenors[i-1]) / samples
		for k := 1; k <= samples; k++ {
			t := tenors[i-1] + float64(k)*step
			if k == samples {
				t = tenors[i]
			}
			v := c.ValueAt(t)
			if v > prev || v < 0 {
				return false
			}
			prev = v
		}
	}
	return true
}
