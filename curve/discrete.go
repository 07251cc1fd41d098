package curve

import (
	"math"
	"time"
)

// DefaultMaxTenor is the horizon used when a curve has no natural upper bound.
const DefaultMaxTenor = 100.0

// Extrapolation is the out-of-bounds policy of a DiscreteCurve.
type Extrapolation int

const (
	// ExtrapolateFlat holds the first and last pillar values.
	ExtrapolateFlat Extrapolation = iota
	// ExtrapolateLinear continues the end slope in interpolation space.
	ExtrapolateLinear
	// ExtrapolateNone yields NaN from ValueAt and an error from TryValueAt.
	ExtrapolateNone
)

func (e Extrapolation) String() string {
	switch e {
	case ExtrapolateFlat:
		return "flat"
	case ExtrapolateLinear:
		return "linear"
	case ExtrapolateNone:
		return "none"
	}
	return "unknown"
}

// DiscreteCurve is a leaf curve defined by pillars and an interpolation method.
// It is immutable after construction.
type DiscreteCurve struct {
	ref           time.Time
	tenors        []float64
	values        []float64
	valueType     ValueType
	method        Interpolation
	extrapolation Extrapolation
	ip            *interpolator
}

// DiscreteOption customises a DiscreteCurve.
type DiscreteOption func(*DiscreteCurve)

// WithExtrapolation sets the out-of-bounds policy (default ExtrapolateFlat).
func WithExtrapolation(e Extrapolation) DiscreteOption {
	return func(c *DiscreteCurve) { c.extrapolation = e }
}

// NewDiscreteCurve builds a curve through (tenors[i], values[i]).
// Tenors must be non-negative and strictly increasing.
func NewDiscreteCurve(ref time.Time, tenors, values []float64, vt ValueType, method Interpolation, opts ...DiscreteOption) (*DiscreteCurve, error) {
	const op = "NewDiscreteCurve"

	if len(tenors) == 0 && len(values) == 0 {
		return nil, newError(EmptyCurve, op, "no pillars")
	}
	if len(tenors) != len(values) {
		return nil, newError(InvalidData, op, "%d tenors but %d values", len(tenors), len(values))
	}
	for i := range tenors {
		if math.IsNaN(tenors[i]) || math.IsInf(tenors[i], 0) || tenors[i] < 0 {
			return nil, newError(InvalidData, op, "invalid tenor %g at index %d", tenors[i], i)
		}
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return nil, newError(InvalidData, op, "invalid value %g at tenor %g", values[i], tenors[i])
		}
		if i > 0 && tenors[i] <= tenors[i-1] {
			return nil, newError(InvalidData, op, "tenors not strictly increasing at index %d (%g after %g)", i, tenors[i], tenors[i-1])
		}
	}

	c := &DiscreteCurve{
		ref:       ref,
		tenors:    append([]float64(nil), tenors...),
		values:    append([]float64(nil), values...),
		valueType: vt,
		method:    method,
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(c.tenors) > 1 {
		ip, err := newInterpolator(method, c.tenors, c.values)
		if err != nil {
			return nil, err
		}
		c.ip = ip
	}
	return c, nil
}

// NewDiscountCurve builds a discount-factor curve, adding the (0, 1) pillar
// when the first tenor is positive.
func NewDiscountCurve(ref time.Time, tenors, dfs []float64, method Interpolation, opts ...DiscreteOption) (*DiscreteCurve, error) {
	if len(tenors) > 0 && len(tenors) == len(dfs) && tenors[0] > 0 {
		tenors = append([]float64{0}, tenors...)
		dfs = append([]float64{1}, dfs...)
	}
	return NewDiscreteCurve(ref, tenors, dfs, DiscountFactorType(), method, opts...)
}

// NewFlatCurve returns a curve with the same value on [0, DefaultMaxTenor].
func NewFlatCurve(ref time.Time, value float64, vt ValueType) *DiscreteCurve {
	c, err := NewDiscreteCurve(ref, []float64{0, DefaultMaxTenor}, []float64{value, value}, vt, Linear)
	if err != nil {
		panic(err)
	}
	return c
}

// NewFlatZeroCurve returns a discount curve for a flat zero rate.
func NewFlatZeroCurve(ref time.Time, rate float64, c Compounding, method Interpolation) (*DiscreteCurve, error) {
	tenors := []float64{0, 0.25, 0.5, 1, 2, 3, 5, 7, 10, 15, 20, 30, 50, DefaultMaxTenor}
	dfs := make([]float64, len(tenors))
	for i, t := range tenors {
		dfs[i] = ZeroRateToDiscountFactor(rate, t, c)
	}
	return NewDiscreteCurve(ref, tenors, dfs, DiscountFactorType(), method)
}

func (c *DiscreteCurve) ReferenceDate() time.Time { return c.ref }

func (c *DiscreteCurve) ValueType() ValueType { return c.valueType }

func (c *DiscreteCurve) TenorBounds() (float64, float64) {
	return c.tenors[0], c.tenors[len(c.tenors)-1]
}

func (c *DiscreteCurve) MaxDate() time.Time {
	_, hi := c.TenorBounds()
	return tenorDate(c.ref, hi)
}

// ValueAt returns the stored value at a pillar, the interpolated value
// between pillars and applies the extrapolation policy outside them.
func (c *DiscreteCurve) ValueAt(t float64) float64 {
	if math.IsNaN(t) {
		return math.NaN()
	}
	if i, ok := findExact(c.tenors, t); ok {
		return c.values[i]
	}

	lo, hi := c.TenorBounds()
	if t < lo || t > hi {
		switch c.extrapolation {
		case ExtrapolateNone:
			return math.NaN()
		case ExtrapolateLinear:
			if c.ip != nil {
				return c.ip.extrapolateLinear(t)
			}
		}
		if t < lo {
			return c.values[0]
		}
		return c.values[len(c.values)-1]
	}
	return c.ip.value(t)
}

func (c *DiscreteCurve) TryValueAt(t float64) (float64, error) {
	lo, hi := c.TenorBounds()
	if c.extrapolation == ExtrapolateNone && (t < lo || t > hi) {
		return math.NaN(), &TenorOutOfRangeError{Tenor: t, Min: lo, Max: hi}
	}
	return c.ValueAt(t), nil
}

func (c *DiscreteCurve) DerivativeAt(t float64) (float64, bool) {
	if math.IsNaN(t) {
		return math.NaN(), false
	}
	if c.ip == nil {
		return 0, c.extrapolation != ExtrapolateNone || t == c.tenors[0]
	}

	lo, hi := c.TenorBounds()
	if t < lo || t > hi {
		switch c.extrapolation {
		case ExtrapolateFlat:
			return 0, true
		case ExtrapolateLinear:
			return c.ip.extrapolateLinearDerivative(t), true
		}
		return math.NaN(), false
	}
	return c.ip.derivative(t), true
}

// Tenors returns a copy of the pillar tenors.
func (c *DiscreteCurve) Tenors() []float64 { return append([]float64(nil), c.tenors...) }

// Values returns a copy of the pillar values.
func (c *DiscreteCurve) Values() []float64 { return append([]float64(nil), c.values...) }

func (c *DiscreteCurve) Len() int { return len(c.tenors) }

func (c *DiscreteCurve) Interpolation() Interpolation { return c.method }

func (c *DiscreteCurve) Extrapolation() Extrapolation { return c.extrapolation }
