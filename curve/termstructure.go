// Package curve defines the term-structure contract shared by every curve,
// the conversions between value types, the discrete pillar curve and the
// composition wrappers built on top of the contract.
package curve

import (
	"math"
	"time"
)

// DaysPerYear converts between calendar days and curve tenors (ACT/365F).
const DaysPerYear = 365.0

// TermStructure is a time-indexed quantity anchored at a reference date.
// Tenors are year fractions from the reference date.
//
// ValueAt never fails: a tenor the curve cannot serve yields NaN. Use
// TryValueAt for a typed error instead.
type TermStructure interface {
	ReferenceDate() time.Time
	ValueAt(t float64) float64
	TenorBounds() (min, max float64)
	ValueType() ValueType
	// DerivativeAt returns dV/dt, or ok=false when the curve has none.
	DerivativeAt(t float64) (d float64, ok bool)
	MaxDate() time.Time
}

// checkedEvaluator is implemented by curves whose evaluation policy differs
// from a plain bounds check (extrapolating leaves, delegated and segmented curves).
type checkedEvaluator interface {
	TryValueAt(t float64) (float64, error)
}

// DateToTenor converts a date to a tenor on ts using ACT/365F.
func DateToTenor(ts TermStructure, date time.Time) float64 {
	return YearsBetween(ts.ReferenceDate(), date)
}

// YearsBetween is the ACT/365F year fraction used for curve tenors.
func YearsBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24 / DaysPerYear
}

// TenorToDate converts a tenor to the nearest calendar date.
func TenorToDate(ts TermStructure, t float64) time.Time {
	return tenorDate(ts.ReferenceDate(), t)
}

func tenorDate(ref time.Time, t float64) time.Time {
	if math.IsInf(t, 1) || t > 1000 {
		t = 1000
	}
	return ref.AddDate(0, 0, int(math.Round(t*DaysPerYear)))
}

// ValueAtDate evaluates ts at a calendar date.
func ValueAtDate(ts TermStructure, date time.Time) float64 {
	return ts.ValueAt(DateToTenor(ts, date))
}

// InRange reports whether t lies inside the curve's tenor bounds.
func InRange(ts TermStructure, t float64) bool {
	lo, hi := ts.TenorBounds()
	return t >= lo && t <= hi
}

// TryValueAt is the checked evaluation entry point. Curves with their own
// out-of-range policy apply it; all others reject tenors outside their bounds.
func TryValueAt(ts TermStructure, t float64) (float64, error) {
	if math.IsNaN(t) || t < 0 {
		return math.NaN(), newError(InvalidData, "TryValueAt", "tenor must be non-negative, got %g", t)
	}
	if ce, ok := ts.(checkedEvaluator); ok {
		return ce.TryValueAt(t)
	}
	if !InRange(ts, t) {
		lo, hi := ts.TenorBounds()
		return math.NaN(), &TenorOutOfRangeError{Tenor: t, Min: lo, Max: hi}
	}
	return ts.ValueAt(t), nil
}

// TryValueAtDate is TryValueAt for a calendar date.
func TryValueAtDate(ts TermStructure, date time.Time) (float64, error) {
	return TryValueAt(ts, DateToTenor(ts, date))
}

// TryDerivativeAt returns the derivative or a derivative-unavailable error.
func TryDerivativeAt(ts TermStructure, t float64) (float64, error) {
	d, ok := ts.DerivativeAt(t)
	if !ok {
		return math.NaN(), newError(DerivativeUnavailable, "TryDerivativeAt", "no derivative at tenor %g for %s curve", t, ts.ValueType().ShortName())
	}
	return d, nil
}

// HasDerivative tries the curve at the middle of its bounds.
func HasDerivative(ts TermStructure) bool {
	lo, hi := ts.TenorBounds()
	mid := lo + 0.5*(hi-lo)
	if math.IsInf(hi, 1) {
		mid = lo + 1
	}
	_, ok := ts.DerivativeAt(mid)
	return ok
}
