package bootstrap

import (
	"fmt"

	"github.com/meenmo/mocurve/curve"
)

// Config holds the immutable calibration settings.
type Config struct {
	// Interpolation between pillar discount factors.
	Interpolation curve.Interpolation

	// MaxIterations bounds the number of global sweeps.
	MaxIterations int

	// Tolerance is the sum of squared repricing residuals below which the
	// curve counts as calibrated.
	Tolerance float64

	// MinDiscountFactor and MaxDiscountFactor bound every pillar and form
	// the bracket for the Brent fallback.
	MinDiscountFactor float64
	MaxDiscountFactor float64

	// DerivativeStep is the finite-difference step for Newton refinement of
	// a pillar discount factor.
	DerivativeStep float64

	// InitialRate seeds unsolved pillars with a flat continuous zero rate.
	InitialRate float64
}

// DefaultConfig provides production-ready default values.
func DefaultConfig() Config {
	return Config{
		Interpolation:     curve.LogLinear,
		MaxIterations:     100,
		Tolerance:         1e-12,
		MinDiscountFactor: 1e-9,
		MaxDiscountFactor: 2,
		DerivativeStep:    1e-7,
		InitialRate:       0.03,
	}
}

// Validate reports settings no bootstrapper can run with.
func (c Config) Validate() error {
	switch {
	case !(c.Tolerance > 0):
		return fmt.Errorf("bootstrap: tolerance must be positive, got %g", c.Tolerance)
	case c.MaxIterations <= 0:
		return fmt.Errorf("bootstrap: max iterations must be positive, got %d", c.MaxIterations)
	case !(c.MinDiscountFactor > 0) || !(c.MaxDiscountFactor > c.MinDiscountFactor):
		return fmt.Errorf("bootstrap: invalid discount factor bounds [%g, %g]", c.MinDiscountFactor, c.MaxDiscountFactor)
	case !(c.DerivativeStep > 0):
		return fmt.Errorf("bootstrap: derivative step must be positive, got %g", c.DerivativeStep)
	}
	return nil
}
