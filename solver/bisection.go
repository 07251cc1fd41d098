package solver

import "math"

const bisectionName = "Bisection"

// Bisection halves [low, high] until the bracket or the residual is within
// tolerance. It is slower than Brent but never leaves the bracket.
func Bisection(f func(float64) float64, low, high float64, cfg Config) (Result, error) {
	cfg.mustValidate()

	fl, fh := f(low), f(high)
	if fl == 0 {
		return Result{Root: low, Converged: true}, nil
	}
	if fh == 0 {
		return Result{Root: high, Converged: true}, nil
	}
	if fl*fh > 0 || math.IsNaN(fl) || math.IsNaN(fh) {
		return Result{}, &BracketError{Solver: bisectionName, Low: low, High: high, FLow: fl, FHigh: fh}
	}

	var mid, fm float64
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		mid = low + 0.5*(high-low)
		fm = f(mid)
		if math.Abs(fm) < cfg.Tolerance || 0.5*(high-low) < cfg.Tolerance {
			return Result{Root: mid, Iterations: iter, Residual: math.Abs(fm), Converged: true}, nil
		}
		if (fm < 0) == (fl < 0) {
			low, fl = mid, fm
		} else {
			high = mid
		}
	}

	return Result{Root: mid, Iterations: cfg.MaxIterations, Residual: math.Abs(fm)}, &ConvergenceError{
		Solver:     bisectionName,
		Iterations: cfg.MaxIterations,
		Residual:   math.Abs(fm),
	}
}
