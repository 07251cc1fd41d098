package solver

import "math"

const newtonName = "Newton-Raphson"

// NewtonRaphson finds a root of f starting from x0 using the derivative df.
//
// Iteration stops when |f(x)| falls below cfg.Tolerance. A step below
// cfg.Tolerance that leaves the residual above it, a derivative smaller than
// 1e-15 in magnitude, a non-finite iterate or an exhausted budget yields a
// *ConvergenceError.
func NewtonRaphson(f, df func(float64) float64, x0 float64, cfg Config) (Result, error) {
	cfg.mustValidate()

	x := x0
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		fx := f(x)
		if math.Abs(fx) < cfg.Tolerance {
			return Result{Root: x, Iterations: iter, Residual: math.Abs(fx), Converged: true}, nil
		}

		dfx := df(x)
		if math.Abs(dfx) < derivativeThreshold || math.IsNaN(dfx) {
			return Result{Root: x, Iterations: iter, Residual: math.Abs(fx)}, &ConvergenceError{
				Solver:     newtonName,
				Iterations: iter,
				Residual:   math.Abs(fx),
				Reason:     "derivative too close to zero",
			}
		}

		step := fx / dfx
		x -= step
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Result{Root: x, Iterations: iter + 1, Residual: math.Abs(fx)}, &ConvergenceError{
				Solver:     newtonName,
				Iterations: iter + 1,
				Residual:   math.Abs(fx),
				Reason:     "iterate is not finite",
			}
		}

		if math.Abs(step) < cfg.Tolerance {
			residual := math.Abs(f(x))
			if residual < cfg.Tolerance {
				return Result{Root: x, Iterations: iter + 1, Residual: residual, Converged: true}, nil
			}
			return Result{Root: x, Iterations: iter + 1, Residual: residual}, &ConvergenceError{
				Solver:     newtonName,
				Iterations: iter + 1,
				Residual:   residual,
				Reason:     "step below tolerance",
			}
		}
	}

	residual := math.Abs(f(x))
	return Result{Root: x, Iterations: cfg.MaxIterations, Residual: residual}, &ConvergenceError{
		Solver:     newtonName,
		Iterations: cfg.MaxIterations,
		Residual:   residual,
	}
}

// NumericalDerivative returns a central-difference approximation of f'.
func NumericalDerivative(f func(float64) float64, h float64) func(float64) float64 {
	return func(x float64) float64 {
		return (f(x+h) - f(x-h)) / (2 * h)
	}
}
