package curve

import (
	"math"
	"time"
)

// finiteDifferenceStep is the tenor step used when a curve has no analytic derivative.
const finiteDifferenceStep = 1e-4

// DiscountFactor returns the discount factor at t derived from the curve's
// declared value type. Discount-factor, zero-rate and survival curves are
// supported; any other type yields an incompatible-value-type error.
func DiscountFactor(ts TermStructure, t float64) (float64, error) {
	vt := ts.ValueType()
	if !vt.CanConvertToDiscountFactor() {
		return math.NaN(), newError(IncompatibleValueType, "DiscountFactor", "%s curve cannot produce discount factors", vt)
	}
	if t <= 0 {
		return 1, nil
	}
	v, err := TryValueAt(ts, t)
	if err != nil {
		return math.NaN(), err
	}
	if vt.Kind == ValueZeroRate {
		return ZeroRateToDiscountFactorChecked(v, t, vt.Compounding)
	}
	return v, nil
}

// DiscountFactorAtDate is DiscountFactor at a calendar date.
func DiscountFactorAtDate(ts TermStructure, date time.Time) (float64, error) {
	return DiscountFactor(ts, DateToTenor(ts, date))
}

// ZeroRate returns the zero rate to t under compounding c. At t = 0 a
// discount curve reports its short rate.
func ZeroRate(ts TermStructure, t float64, c Compounding) (float64, error) {
	vt := ts.ValueType()
	if vt.Kind == ValueZeroRate {
		r, err := TryValueAt(ts, t)
		if err != nil {
			return math.NaN(), err
		}
		return ConvertCompoundingChecked(r, vt.Compounding, c)
	}
	if !vt.CanConvertToDiscountFactor() {
		return math.NaN(), newError(IncompatibleValueType, "ZeroRate", "%s curve cannot produce zero rates", vt)
	}
	if t <= 0 {
		f, err := InstantaneousForward(ts, 0)
		if err != nil {
			return math.NaN(), err
		}
		return ConvertCompounding(f, Continuous, c), nil
	}
	df, err := DiscountFactor(ts, t)
	if err != nil {
		return math.NaN(), err
	}
	return DiscountFactorToZeroRateChecked(df, t, c)
}

// ForwardRate returns the rate for [t1, t2] under compounding c.
func ForwardRate(ts TermStructure, t1, t2 float64, c Compounding) (float64, error) {
	df1, err := DiscountFactor(ts, t1)
	if err != nil {
		return math.NaN(), err
	}
	df2, err := DiscountFactor(ts, t2)
	if err != nil {
		return math.NaN(), err
	}
	return ForwardRateFromDiscountFactorsChecked(df1, df2, t1, t2, c)
}

// ForwardRateBetween is ForwardRate between two dates.
func ForwardRateBetween(ts TermStructure, start, end time.Time, c Compounding) (float64, error) {
	return ForwardRate(ts, DateToTenor(ts, start), DateToTenor(ts, end), c)
}

// InstantaneousForward returns the continuously compounded instantaneous
// forward rate at t. Analytic derivatives are used when the curve has them,
// a central difference of ln DF otherwise.
func InstantaneousForward(ts TermStructure, t float64) (float64, error) {
	vt := ts.ValueType()
	switch vt.Kind {
	case ValueInstantaneousForward:
		return TryValueAt(ts, t)
	case ValueDiscountFactor, ValueSurvivalProbability:
		if d, ok := ts.DerivativeAt(t); ok {
			df, err := DiscountFactor(ts, t)
			if err != nil {
				return math.NaN(), err
			}
			return InstantaneousForwardFromDiscountFactor(df, d), nil
		}
	case ValueZeroRate:
		if vt.Compounding == Continuous {
			if d, ok := ts.DerivativeAt(t); ok {
				r, err := TryValueAt(ts, t)
				if err != nil {
					return math.NaN(), err
				}
				return InstantaneousForwardFromZeroRate(r, d, t), nil
			}
		}
	default:
		return math.NaN(), newError(IncompatibleValueType, "InstantaneousForward", "%s curve has no forward rates", vt)
	}
	return finiteDifferenceForward(ts, t)
}

func finiteDifferenceForward(ts TermStructure, t float64) (float64, error) {
	h := finiteDifferenceStep
	lo := math.Max(0, t-h)
	hi := t + h
	dfLo, err := DiscountFactor(ts, lo)
	if err != nil {
		return math.NaN(), err
	}
	dfHi, err := DiscountFactor(ts, hi)
	if err != nil {
		return math.NaN(), err
	}
	if !(dfLo > 0) || !(dfHi > 0) {
		return math.NaN(), newError(MathError, "InstantaneousForward", "non-positive discount factor near tenor %g", t)
	}
	return (math.Log(dfLo) - math.Log(dfHi)) / (hi - lo), nil
}

// ZeroRateView presents a discount-producing curve as a zero-rate curve so
// that rate transforms can be applied to it.
type ZeroRateView struct {
	base        TermStructure
	compounding Compounding
}

// NewZeroRateView fails when base cannot produce discount factors.
func NewZeroRateView(base TermStructure, c Compounding) (*ZeroRateView, error) {
	if vt := base.ValueType(); !vt.CanConvertToDiscountFactor() {
		return nil, newError(IncompatibleValueType, "NewZeroRateView", "%s curve cannot produce zero rates", vt)
	}
	return &ZeroRateView{base: base, compounding: c}, nil
}

func (v *ZeroRateView) ReferenceDate() time.Time { return v.base.ReferenceDate() }

func (v *ZeroRateView) ValueType() ValueType { return ZeroRateType(v.compounding, "ACT/365F") }

func (v *ZeroRateView) TenorBounds() (float64, float64) { return v.base.TenorBounds() }

func (v *ZeroRateView) MaxDate() time.Time { return v.base.MaxDate() }

func (v *ZeroRateView) ValueAt(t float64) float64 {
	r, err := ZeroRate(v.base, t, v.compounding)
	if err != nil {
		return math.NaN()
	}
	return r
}

func (v *ZeroRateView) TryValueAt(t float64) (float64, error) {
	return ZeroRate(v.base, t, v.compounding)
}

// DerivativeAt is available for continuous compounding only: r'(t) = (f(t) − r(t)) / t.
func (v *ZeroRateView) DerivativeAt(t float64) (float64, bool) {
	if v.compounding != Continuous || t <= 0 {
		return math.NaN(), false
	}
	if _, ok := v.base.DerivativeAt(t); !ok {
		return math.NaN(), false
	}
	f, err := InstantaneousForward(v.base, t)
	if err != nil {
		return math.NaN(), false
	}
	r, err := ZeroRate(v.base, t, Continuous)
	if err != nil {
		return math.NaN(), false
	}
	return (f - r) / t, true
}
