package curve

import (
	"fmt"
	"math"
	"time"
)

// TransformKind enumerates the transforms a DerivedCurve can apply.
type TransformKind int

const (
	ParallelShift TransformKind = iota
	SpreadOver
	Scale
	TimeShift
	Twist
)

func (k TransformKind) String() string {
	switch k {
	case ParallelShift:
		return "parallel-shift"
	case SpreadOver:
		return "spread-over"
	case Scale:
		return "scale"
	case TimeShift:
		return "time-shift"
	case Twist:
		return "twist"
	}
	return "unknown"
}

// Transform describes a value map, and for TimeShift a tenor map.
type Transform struct {
	Kind TransformKind
	// Bps is the shift for ParallelShift and SpreadOver.
	Bps float64
	// Factor multiplies values for Scale.
	Factor float64
	// Days moves the evaluation tenor for TimeShift.
	Days float64
	// ShortBps applies at tenor 0 and LongBps at and beyond Pivot; the
	// shift is linear in between.
	ShortBps float64
	LongBps  float64
	Pivot    float64
}

func ParallelShiftBy(bps float64) Transform { return Transform{Kind: ParallelShift, Bps: bps} }

func SpreadOverBy(bps float64) Transform { return Transform{Kind: SpreadOver, Bps: bps} }

func ScaleBy(factor float64) Transform { return Transform{Kind: Scale, Factor: factor} }

func TimeShiftBy(days float64) Transform { return Transform{Kind: TimeShift, Days: days} }

func TwistAround(shortBps, longBps, pivot float64) Transform {
	return Transform{Kind: Twist, ShortBps: shortBps, LongBps: longBps, Pivot: pivot}
}

func (tr Transform) String() string {
	switch tr.Kind {
	case ParallelShift, SpreadOver:
		return fmt.Sprintf("%s(%gbp)", tr.Kind, tr.Bps)
	case Scale:
		return fmt.Sprintf("scale(%g)", tr.Factor)
	case TimeShift:
		return fmt.Sprintf("time-shift(%gd)", tr.Days)
	case Twist:
		return fmt.Sprintf("twist(%gbp, %gbp, pivot %gY)", tr.ShortBps, tr.LongBps, tr.Pivot)
	}
	return tr.Kind.String()
}

// twistShift is the decimal shift of a twist at tenor t.
func (tr Transform) twistShift(t float64) float64 {
	w := math.Min(math.Max(t, 0)/tr.Pivot, 1)
	return (tr.ShortBps + (tr.LongBps-tr.ShortBps)*w) / 1e4
}

func (tr Transform) tenorShift() float64 {
	if tr.Kind == TimeShift {
		return tr.Days / DaysPerYear
	}
	return 0
}

func (tr Transform) apply(t, v float64) float64 {
	switch tr.Kind {
	case ParallelShift, SpreadOver:
		return v + tr.Bps/1e4
	case Scale:
		return v * tr.Factor
	case Twist:
		return v + tr.twistShift(t)
	}
	return v
}

// DerivedCurve applies a Transform on top of a base curve without changing
// its declared value type.
type DerivedCurve struct {
	base TermStructure
	tr   Transform
	// norm divides time-shifted probability values so the curve starts at 1.
	norm float64
}

// NewDerivedCurve validates the transform against the base value type.
// Value transforms are rejected on discount-factor and survival curves;
// wrap those in a ZeroRateView first. A time shift of such a curve is the
// forward curve seen from the shifted date, base(t+s)/base(s), so it is
// still exactly 1 at tenor 0; the shift must not be negative.
func NewDerivedCurve(base TermStructure, tr Transform) (*DerivedCurve, error) {
	const op = "NewDerivedCurve"

	switch tr.Kind {
	case ParallelShift, SpreadOver, Scale, Twist:
		if vt := base.ValueType(); vt.IsProbabilityType() {
			return nil, newError(IncompatibleValueType, op, "%s cannot be applied to a %s curve", tr.Kind, vt)
		}
	case TimeShift:
	default:
		return nil, newError(InvalidData, op, "unknown transform %d", int(tr.Kind))
	}

	switch {
	case tr.Kind == Scale && (math.IsNaN(tr.Factor) || math.IsInf(tr.Factor, 0)):
		return nil, newError(InvalidData, op, "invalid scale factor %g", tr.Factor)
	case tr.Kind == Twist && !(tr.Pivot > 0):
		return nil, newError(InvalidData, op, "twist pivot must be positive, got %g", tr.Pivot)
	case tr.Kind == TimeShift && math.IsNaN(tr.Days):
		return nil, newError(InvalidData, op, "time shift is NaN")
	}

	c := &DerivedCurve{base: base, tr: tr, norm: 1}
	if tr.Kind == TimeShift && base.ValueType().IsProbabilityType() {
		if tr.Days < 0 {
			return nil, newError(InvalidData, op, "negative time shift %g days on a %s curve", tr.Days, base.ValueType())
		}
		anchor, err := TryValueAt(base, tr.tenorShift())
		if err != nil {
			return nil, err
		}
		if !(anchor > 0) {
			return nil, newError(MathError, op, "base value %g at the shifted origin", anchor)
		}
		c.norm = anchor
	}
	return c, nil
}

func (c *DerivedCurve) Base() TermStructure { return c.base }

func (c *DerivedCurve) Transform() Transform { return c.tr }

func (c *DerivedCurve) ReferenceDate() time.Time { return c.base.ReferenceDate() }

func (c *DerivedCurve) ValueType() ValueType { return c.base.ValueType() }

func (c *DerivedCurve) TenorBounds() (float64, float64) {
	lo, hi := c.base.TenorBounds()
	s := c.tr.tenorShift()
	return math.Max(0, lo-s), hi - s
}

func (c *DerivedCurve) MaxDate() time.Time {
	_, hi := c.TenorBounds()
	return tenorDate(c.base.ReferenceDate(), hi)
}

func (c *DerivedCurve) ValueAt(t float64) float64 {
	return c.tr.apply(t, c.base.ValueAt(t+c.tr.tenorShift())/c.norm)
}

func (c *DerivedCurve) TryValueAt(t float64) (float64, error) {
	v, err := TryValueAt(c.base, t+c.tr.tenorShift())
	if err != nil {
		return math.NaN(), err
	}
	return c.tr.apply(t, v/c.norm), nil
}

// DerivativeAt is unavailable for twists, whose shift has a kink at the pivot.
func (c *DerivedCurve) DerivativeAt(t float64) (float64, bool) {
	switch c.tr.Kind {
	case Twist:
		return math.NaN(), false
	case Scale:
		d, ok := c.base.DerivativeAt(t)
		return d * c.tr.Factor, ok
	}
	d, ok := c.base.DerivativeAt(t + c.tr.tenorShift())
	return d / c.norm, ok
}
