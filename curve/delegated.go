package curve

import (
	"math"
	"time"
)

// FallbackPolicy decides what a DelegatedCurve does outside its bounds.
type FallbackPolicy int

const (
	// Trust forwards every tenor to the base without a bounds check.
	Trust FallbackPolicy = iota
	// Strict rejects tenors outside the bounds.
	Strict
	// FlatExtrapolation returns the base value at the nearest bound.
	FlatExtrapolation
	// Clamp moves the tenor onto the nearest bound before evaluating.
	Clamp
)

func (p FallbackPolicy) String() string {
	switch p {
	case Trust:
		return "trust"
	case Strict:
		return "strict"
	case FlatExtrapolation:
		return "flat"
	case Clamp:
		return "clamp"
	}
	return "unknown"
}

// DelegatedCurve forwards evaluation to a base curve and applies a fallback
// policy outside its bounds. In Strict mode ValueAt returns NaN outside the
// bounds and TryValueAt returns a *TenorOutOfRangeError.
type DelegatedCurve struct {
	base     TermStructure
	policy   FallbackPolicy
	min, max float64
}

// NewDelegatedCurve wraps base with the given policy using the base bounds.
func NewDelegatedCurve(base TermStructure, policy FallbackPolicy) *DelegatedCurve {
	lo, hi := base.TenorBounds()
	return &DelegatedCurve{base: base, policy: policy, min: lo, max: hi}
}

// NewDelegatedCurveWithBounds overrides the bounds the policy is applied to.
func NewDelegatedCurveWithBounds(base TermStructure, policy FallbackPolicy, min, max float64) (*DelegatedCurve, error) {
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		return nil, newError(InvalidData, "NewDelegatedCurveWithBounds", "invalid bounds [%g, %g]", min, max)
	}
	return &DelegatedCurve{base: base, policy: policy, min: min, max: max}, nil
}

func (c *DelegatedCurve) Base() TermStructure { return c.base }

func (c *DelegatedCurve) Policy() FallbackPolicy { return c.policy }

func (c *DelegatedCurve) ReferenceDate() time.Time { return c.base.ReferenceDate() }

func (c *DelegatedCurve) ValueType() ValueType { return c.base.ValueType() }

func (c *DelegatedCurve) TenorBounds() (float64, float64) { return c.min, c.max }

func (c *DelegatedCurve) MaxDate() time.Time {
	return tenorDate(c.base.ReferenceDate(), c.max)
}

func (c *DelegatedCurve) inBounds(t float64) bool {
	return t >= c.min && t <= c.max
}

func (c *DelegatedCurve) clamp(t float64) float64 {
	return math.Max(c.min, math.Min(c.max, t))
}

func (c *DelegatedCurve) ValueAt(t float64) float64 {
	if c.policy == Trust || c.inBounds(t) {
		return c.base.ValueAt(t)
	}
	switch c.policy {
	case Strict:
		return math.NaN()
	case FlatExtrapolation:
		if t < c.min {
			return c.base.ValueAt(c.min)
		}
		return c.base.ValueAt(c.max)
	case Clamp:
		return c.base.ValueAt(c.clamp(t))
	}
	return math.NaN()
}

// TryValueAt applies the policy and evaluates the base through its own
// checked path, so a base that cannot serve the tenor reports an error.
func (c *DelegatedCurve) TryValueAt(t float64) (float64, error) {
	if c.policy == Trust || c.inBounds(t) {
		return TryValueAt(c.base, t)
	}
	switch c.policy {
	case Strict:
		return math.NaN(), &TenorOutOfRangeError{Tenor: t, Min: c.min, Max: c.max}
	case FlatExtrapolation:
		if t < c.min {
			return TryValueAt(c.base, c.min)
		}
		return TryValueAt(c.base, c.max)
	case Clamp:
		return TryValueAt(c.base, c.clamp(t))
	}
	return math.NaN(), newError(InvalidData, "TryValueAt", "unknown fallback policy %d", int(c.policy))
}

// DerivativeAt outside the bounds: Trust asks the base, Strict has none,
// FlatExtrapolation is flat and Clamp uses the base derivative at the bound.
func (c *DelegatedCurve) DerivativeAt(t float64) (float64, bool) {
	if c.inBounds(t) {
		return c.base.DerivativeAt(t)
	}
	switch c.policy {
	case Trust:
		return c.base.DerivativeAt(t)
	case FlatExtrapolation:
		return 0, true
	case Clamp:
		return c.base.DerivativeAt(c.clamp(t))
	}
	return math.NaN(), false
}
