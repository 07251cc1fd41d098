package curve

import (
	"math"
	"time"

	"gonum.org/v1/gonum/interp"
)

// SpreadKind selects how a spread modifies base discount factors.
type SpreadKind int

const (
	// Additive applies DF(t) = base(t)·e^(−s(t)·t) with s a continuous rate.
	Additive SpreadKind = iota
	// Multiplicative applies DF(t) = base(t)·s(t).
	Multiplicative
)

func (k SpreadKind) String() string {
	if k == Multiplicative {
		return "multiplicative"
	}
	return "additive"
}

// SpreadCurve is a discount curve built from a discount-producing base and a
// constant or piecewise linear spread term structure. Its value at tenor 0
// is exactly 1.
type SpreadCurve struct {
	base TermStructure
	kind SpreadKind

	constant float64
	tenors   []float64
	spreads  []float64
	pl       *interp.PiecewiseLinear
	// extrapolate continues the end slopes of the spread pillars; otherwise
	// the first and last spreads are held flat.
	extrapolate bool
}

// NewConstantSpreadCurve applies the same spread at every tenor.
func NewConstantSpreadCurve(base TermStructure, spread float64, kind SpreadKind) (*SpreadCurve, error) {
	if err := checkSpreadBase(base); err != nil {
		return nil, err
	}
	if math.IsNaN(spread) || math.IsInf(spread, 0) {
		return nil, newError(InvalidData, "NewConstantSpreadCurve", "invalid spread %g", spread)
	}
	return &SpreadCurve{base: base, kind: kind, constant: spread}, nil
}

// NewSpreadCurve interpolates spreads linearly between pillar tenors.
func NewSpreadCurve(base TermStructure, tenors, spreads []float64, kind SpreadKind, extrapolate bool) (*SpreadCurve, error) {
	const op = "NewSpreadCurve"

	if err := checkSpreadBase(base); err != nil {
		return nil, err
	}
	if len(tenors) == 0 && len(spreads) == 0 {
		return nil, newError(EmptyCurve, op, "no spread pillars")
	}
	if len(tenors) != len(spreads) {
		return nil, newError(InvalidData, op, "%d tenors but %d spreads", len(tenors), len(spreads))
	}
	for i := range tenors {
		if math.IsNaN(spreads[i]) || math.IsInf(spreads[i], 0) || math.IsNaN(tenors[i]) {
			return nil, newError(InvalidData, op, "invalid pillar (%g, %g)", tenors[i], spreads[i])
		}
		if i > 0 && tenors[i] <= tenors[i-1] {
			return nil, newError(InvalidData, op, "spread tenors not strictly increasing at index %d", i)
		}
	}

	c := &SpreadCurve{
		base:        base,
		kind:        kind,
		constant:    spreads[0],
		extrapolate: extrapolate,
	}
	if len(tenors) > 1 {
		c.tenors = append([]float64(nil), tenors...)
		c.spreads = append([]float64(nil), spreads...)
		c.pl = &interp.PiecewiseLinear{}
		if err := c.pl.Fit(c.tenors, c.spreads); err != nil {
			return nil, &Error{Kind: InterpolationFailed, Op: op, Err: err}
		}
	}
	return c, nil
}

func checkSpreadBase(base TermStructure) error {
	if vt := base.ValueType(); !vt.CanConvertToDiscountFactor() {
		return newError(IncompatibleValueType, "SpreadCurve", "base %s curve cannot produce discount factors", vt)
	}
	return nil
}

func (c *SpreadCurve) Base() TermStructure { return c.base }

func (c *SpreadCurve) Kind() SpreadKind { return c.kind }

// SpreadAt returns the spread applied at tenor t.
func (c *SpreadCurve) SpreadAt(t float64) float64 {
	if c.pl == nil {
		return c.constant
	}
	n := len(c.tenors)
	if t < c.tenors[0] || t > c.tenors[n-1] {
		if !c.extrapolate {
			if t < c.tenors[0] {
				return c.spreads[0]
			}
			return c.spreads[n-1]
		}
		i := findBracket(c.tenors, t)
		return c.spreads[i] + c.slope(i)*(t-c.tenors[i])
	}
	return c.pl.Predict(t)
}

func (c *SpreadCurve) slope(i int) float64 {
	return (c.spreads[i+1] - c.spreads[i]) / (c.tenors[i+1] - c.tenors[i])
}

func (c *SpreadCurve) spreadDerivative(t float64) float64 {
	if c.pl == nil {
		return 0
	}
	n := len(c.tenors)
	if (t < c.tenors[0] || t > c.tenors[n-1]) && !c.extrapolate {
		return 0
	}
	return c.slope(findBracket(c.tenors, t))
}

func (c *SpreadCurve) ReferenceDate() time.Time { return c.base.ReferenceDate() }

func (c *SpreadCurve) ValueType() ValueType { return DiscountFactorType() }

func (c *SpreadCurve) TenorBounds() (float64, float64) { return c.base.TenorBounds() }

func (c *SpreadCurve) MaxDate() time.Time { return c.base.MaxDate() }

func (c *SpreadCurve) ValueAt(t float64) float64 {
	v, err := c.TryValueAt(t)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (c *SpreadCurve) TryValueAt(t float64) (float64, error) {
	if t <= 0 {
		return 1, nil
	}
	df, err := DiscountFactor(c.base, t)
	if err != nil {
		return math.NaN(), err
	}
	return c.adjust(df, t), nil
}

func (c *SpreadCurve) adjust(df, t float64) float64 {
	s := c.SpreadAt(t)
	if c.kind == Multiplicative {
		return df * s
	}
	return df * math.Exp(-s*t)
}

func (c *SpreadCurve) DerivativeAt(t float64) (float64, bool) {
	df, err := DiscountFactor(c.base, t)
	if err != nil {
		return math.NaN(), false
	}
	f, err := InstantaneousForward(c.base, t)
	if err != nil {
		return math.NaN(), false
	}
	dDF := -f * df

	s, ds := c.SpreadAt(t), c.spreadDerivative(t)
	if c.kind == Multiplicative {
		return dDF*s + df*ds, true
	}
	e := math.Exp(-s * t)
	return e * (dDF - df*(ds*t+s)), true
}
