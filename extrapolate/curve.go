package extrapolate

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/mocurve/curve"
)

const derivativeStep = 1e-5

// liquidityBound is implemented by extrapolators that fix their own hand-over
// tenor.
type liquidityBound interface {
	LastLiquidPoint() float64
}

// Curve is a discount curve that follows its base up to the last liquid
// tenor and the extrapolator's zero rates from there to the horizon.
type Curve struct {
	base        curve.TermStructure
	ex          Extrapolator
	lastTenor   float64
	lastZero    float64
	lastForward float64
	horizon     float64
}

// NewCurve wraps a discount-factor curve. The hand-over tenor is the
// extrapolator's last liquid point, or the base's upper bound when that is
// shorter or the extrapolator has none.
func NewCurve(base curve.TermStructure, ex Extrapolator, horizon float64) (*Curve, error) {
	const op = "extrapolate.NewCurve"
	if base == nil || ex == nil {
		return nil, &curve.Error{Kind: curve.InvalidData, Op: op, Msg: "nil base curve or extrapolator"}
	}
	if vt := base.ValueType(); vt.Kind != curve.ValueDiscountFactor {
		return nil, &curve.Error{Kind: curve.IncompatibleValueType, Op: op, Msg: fmt.Sprintf("base must be a discount curve, got %s", vt)}
	}
	lo, hi := base.TenorBounds()
	last := hi
	if lb, ok := ex.(liquidityBound); ok && lb.LastLiquidPoint() < last {
		last = lb.LastLiquidPoint()
	}
	if !(last > lo) {
		return nil, &curve.Error{Kind: curve.InvalidData, Op: op, Msg: fmt.Sprintf("last liquid tenor %g not above curve start %g", last, lo)}
	}
	if !(horizon > last) {
		return nil, &curve.Error{Kind: curve.InvalidData, Op: op, Msg: fmt.Sprintf("horizon %g must exceed last liquid tenor %g", horizon, last)}
	}

	zero, err := curve.ZeroRate(base, last, curve.Continuous)
	if err != nil {
		return nil, err
	}
	step := math.Min(0.25, (last-lo)/2)
	fwd, err := curve.ForwardRate(base, last-step, last, curve.Continuous)
	if err != nil {
		return nil, err
	}
	return &Curve{
		base:        base,
		ex:          ex,
		lastTenor:   last,
		lastZero:    zero,
		lastForward: fwd,
		horizon:     horizon,
	}, nil
}

func (c *Curve) ReferenceDate() time.Time { return c.base.ReferenceDate() }

func (c *Curve) ValueType() curve.ValueType { return curve.DiscountFactorType() }

func (c *Curve) TenorBounds() (float64, float64) {
	lo, _ := c.base.TenorBounds()
	return lo, c.horizon
}

func (c *Curve) MaxDate() time.Time { return curve.TenorToDate(c, c.horizon) }

func (c *Curve) ValueAt(t float64) float64 {
	if t <= c.lastTenor {
		return c.base.ValueAt(t)
	}
	return math.Exp(-c.ZeroRateAt(t) * t)
}

// DerivativeAt is analytic on the base side and a central difference beyond
// the last liquid tenor.
func (c *Curve) DerivativeAt(t float64) (float64, bool) {
	if t <= c.lastTenor {
		return c.base.DerivativeAt(t)
	}
	h := math.Min(derivativeStep, (t-c.lastTenor)/2)
	return (c.ValueAt(t+h) - c.ValueAt(t-h)) / (2 * h), true
}

// ZeroRateAt returns the extrapolated continuous zero rate at t.
func (c *Curve) ZeroRateAt(t float64) float64 {
	return c.ex.ZeroRate(t, c.lastTenor, c.lastZero, c.lastForward)
}

// LastLiquidTenor is the hand-over tenor.
func (c *Curve) LastLiquidTenor() float64 { return c.lastTenor }

func (c *Curve) Extrapolator() Extrapolator { return c.ex }
