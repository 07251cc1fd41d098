// Package solver implements the one-dimensional root finders used by curve
// calibration and by bond yield and spread solving.
package solver

import "fmt"

const (
	// DefaultTolerance is the residual tolerance used when none is given.
	DefaultTolerance = 1e-10
	// DefaultMaxIterations bounds every solver loop.
	DefaultMaxIterations = 100

	// derivativeThreshold is the smallest |f'(x)| Newton-Raphson will divide by.
	derivativeThreshold = 1e-15
)

// Config holds the stopping rules shared by all solvers.
type Config struct {
	// Tolerance is the absolute residual (and step) below which a solver stops.
	Tolerance float64
	// MaxIterations is the iteration budget.
	MaxIterations int
}

// DefaultConfig returns the default tolerance and iteration budget.
func DefaultConfig() Config {
	return Config{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

// NewConfig builds a Config and panics when the tolerance or the iteration
// budget is not positive.
func NewConfig(tolerance float64, maxIterations int) Config {
	c := Config{Tolerance: tolerance, MaxIterations: maxIterations}
	c.mustValidate()
	return c
}

func (c Config) mustValidate() {
	if !(c.Tolerance > 0) {
		panic(fmt.Sprintf("solver: tolerance must be positive, got %g", c.Tolerance))
	}
	if c.MaxIterations <= 0 {
		panic(fmt.Sprintf("solver: max iterations must be positive, got %d", c.MaxIterations))
	}
}

// Result describes the outcome of a solve.
type Result struct {
	Root       float64
	Iterations int
	Residual   float64
	Converged  bool
}
