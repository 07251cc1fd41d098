package solver

import "math"

const brentName = "Brent"

// Brent finds a root of f inside [low, high].
//
// f(low) and f(high) must have opposite signs; otherwise a *BracketError is
// returned before any iteration. Each step takes an inverse quadratic or
// secant step when it stays inside the bracket and shrinks fast enough, and
// bisects otherwise.
func Brent(f func(float64) float64, low, high float64, cfg Config) (Result, error) {
	cfg.mustValidate()

	a, b := low, high
	fa, fb := f(a), f(b)

	if fa == 0 {
		return Result{Root: a, Residual: 0, Converged: true}, nil
	}
	if fb == 0 {
		return Result{Root: b, Residual: 0, Converged: true}, nil
	}
	if fa*fb > 0 || math.IsNaN(fa) || math.IsNaN(fb) {
		return Result{}, &BracketError{Solver: brentName, Low: low, High: high, FLow: fa, FHigh: fb}
	}

	c, fc := b, fb
	var d, e float64

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*epsilon*math.Abs(b) + 0.5*cfg.Tolerance
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || math.Abs(fb) < cfg.Tolerance {
			return Result{Root: b, Iterations: iter, Residual: math.Abs(fb), Converged: true}, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			s := fb / fa
			if a == c {
				// secant
				p = 2 * xm * s
				q = 1 - s
			} else {
				// inverse quadratic interpolation
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return Result{Root: b, Iterations: cfg.MaxIterations, Residual: math.Abs(fb)}, &ConvergenceError{
		Solver:     brentName,
		Iterations: cfg.MaxIterations,
		Residual:   math.Abs(fb),
	}
}

const epsilon = 2.220446049250313e-16
