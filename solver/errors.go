package solver

import (
	"errors"
	"fmt"
)

// ErrConvergence matches every *ConvergenceError via errors.Is.
var ErrConvergence = errors.New("solver: convergence failed")

// ErrInvalidBracket matches every *BracketError via errors.Is.
var ErrInvalidBracket = errors.New("solver: invalid bracket")

// ConvergenceError reports a solver that stopped without meeting its tolerance.
type ConvergenceError struct {
	Solver     string
	Iterations int
	Residual   float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s after %d iterations (residual %g)", e.Solver, e.Reason, e.Iterations, e.Residual)
	}
	return fmt.Sprintf("%s: did not converge after %d iterations (residual %g)", e.Solver, e.Iterations, e.Residual)
}

func (e *ConvergenceError) Is(target error) bool {
	return target == ErrConvergence
}

// BracketError reports an interval whose endpoints do not straddle a root.
type BracketError struct {
	Solver string
	Low    float64
	High   float64
	FLow   float64
	FHigh  float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("%s: f(%g)=%g and f(%g)=%g do not bracket a root", e.Solver, e.Low, e.FLow, e.High, e.FHigh)
}

func (e *BracketError) Is(target error) bool {
	return target == ErrInvalidBracket
}
