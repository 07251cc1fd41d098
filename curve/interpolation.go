package curve

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Interpolation selects how a discrete curve fills the space between pillars.
type Interpolation int

const (
	// Linear interpolates values linearly.
	Linear Interpolation = iota
	// LogLinear interpolates log-values linearly (piecewise flat forwards on a DF curve).
	LogLinear
	// CubicSpline is a natural cubic spline through the values.
	CubicSpline
	// MonotoneCubic is a Fritsch-Butland cubic through the log-values; it keeps
	// a monotone discount curve monotone.
	MonotoneCubic
	// Akima is an Akima spline through the values.
	Akima
)

func (m Interpolation) String() string {
	switch m {
	case Linear:
		return "linear"
	case LogLinear:
		return "log-linear"
	case CubicSpline:
		return "cubic-spline"
	case MonotoneCubic:
		return "monotone-cubic"
	case Akima:
		return "akima"
	}
	return fmt.Sprintf("Interpolation(%d)", int(m))
}

// IsLocal reports whether moving one pillar only changes the curve between
// its two neighbours.
func (m Interpolation) IsLocal() bool {
	return m == Linear || m == LogLinear
}

func (m Interpolation) logSpace() bool {
	return m == LogLinear || m == MonotoneCubic
}

// ParseInterpolation accepts the String form of a method.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return Linear, nil
	case "log-linear", "loglinear", "":
		return LogLinear, nil
	case "cubic-spline", "cubic", "natural-cubic":
		return CubicSpline, nil
	case "monotone-cubic", "monotone", "fritsch-butland":
		return MonotoneCubic, nil
	case "akima":
		return Akima, nil
	}
	return LogLinear, newError(InvalidData, "ParseInterpolation", "unknown interpolation %q", s)
}

type fitPredictor interface {
	Fit(xs, ys []float64) error
	Predict(x float64) float64
}

type derivativePredictor interface {
	PredictDerivative(x float64) float64
}

// interpolator fits a gonum predictor to the pillars, in log space when the
// method asks for it.
type interpolator struct {
	method Interpolation
	xs     []float64
	zs     []float64
	pred   fitPredictor
}

// newInterpolator expects at least two strictly increasing xs.
func newInterpolator(method Interpolation, xs, ys []float64) (*interpolator, error) {
	const op = "newInterpolator"

	zs := make([]float64, len(ys))
	for i, y := range ys {
		if method.logSpace() {
			if !(y > 0) {
				return nil, newError(InterpolationFailed, op, "%s requires positive values, got %g at tenor %g", method, y, xs[i])
			}
			zs[i] = math.Log(y)
			continue
		}
		zs[i] = y
	}

	var pred fitPredictor
	switch method {
	case Linear, LogLinear:
		pred = &interp.PiecewiseLinear{}
	case CubicSpline:
		pred = &interp.NaturalCubic{}
	case MonotoneCubic:
		pred = &interp.FritschButland{}
	case Akima:
		pred = &interp.AkimaSpline{}
	default:
		return nil, newError(InvalidData, op, "unsupported interpolation %s", method)
	}

	if err := pred.Fit(xs, zs); err != nil {
		return nil, &Error{Kind: InterpolationFailed, Op: op, Msg: method.String(), Err: err}
	}
	return &interpolator{method: method, xs: xs, zs: zs, pred: pred}, nil
}

func (ip *interpolator) raw(t float64) float64 {
	return ip.pred.Predict(t)
}

func (ip *interpolator) rawDerivative(t float64) float64 {
	if dp, ok := ip.pred.(derivativePredictor); ok {
		return dp.PredictDerivative(t)
	}
	i := findBracket(ip.xs, t)
	return (ip.zs[i+1] - ip.zs[i]) / (ip.xs[i+1] - ip.xs[i])
}

func (ip *interpolator) value(t float64) float64 {
	z := ip.raw(t)
	if ip.method.logSpace() {
		return math.Exp(z)
	}
	return z
}

func (ip *interpolator) derivative(t float64) float64 {
	dz := ip.rawDerivative(t)
	if ip.method.logSpace() {
		return math.Exp(ip.raw(t)) * dz
	}
	return dz
}

// extrapolateLinear continues the end slope (in interpolation space) past
// the outermost pillar.
func (ip *interpolator) extrapolateLinear(t float64) float64 {
	n := len(ip.xs)
	x0, z0 := ip.xs[n-1], ip.zs[n-1]
	if t < ip.xs[0] {
		x0, z0 = ip.xs[0], ip.zs[0]
	}
	z := z0 + ip.rawDerivative(x0)*(t-x0)
	if ip.method.logSpace() {
		return math.Exp(z)
	}
	return z
}

func (ip *interpolator) extrapolateLinearDerivative(t float64) float64 {
	n := len(ip.xs)
	x0 := ip.xs[n-1]
	if t < ip.xs[0] {
		x0 = ip.xs[0]
	}
	dz := ip.rawDerivative(x0)
	if ip.method.logSpace() {
		return ip.extrapolateLinear(t) * dz
	}
	return dz
}
