package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(y float64) float64 { return y - 0.05 }

func TestBrentLinear(t *testing.T) {
	t.Parallel()

	res, err := Brent(linear, -1, 1, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 0.05, res.Root, 1e-10)
	assert.Less(t, res.Iterations, 100)
}

func TestBrentNonlinear(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		f         func(float64) float64
		low, high float64
		want      float64
	}{
		{"cubic", func(x float64) float64 { return x*x*x - 2*x - 5 }, 2, 3, 2.0945514815423265},
		{"cosine", func(x float64) float64 { return math.Cos(x) - x }, 0, 1, 0.7390851332151607},
		{"exp", func(x float64) float64 { return math.Exp(-x) - 0.5 }, 0, 5, math.Ln2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Brent(tc.f, tc.low, tc.high, DefaultConfig())
			require.NoError(t, err)
			assert.InDelta(t, tc.want, res.Root, 1e-9)
		})
	}
}

func TestBrentInvalidBracket(t *testing.T) {
	t.Parallel()

	_, err := Brent(linear, 0.1, 1, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBracket))
	assert.False(t, errors.Is(err, ErrConvergence))

	var be *BracketError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 0.1, be.Low)
	assert.Equal(t, 1.0, be.High)
}

func TestBrentEndpointRoot(t *testing.T) {
	t.Parallel()

	res, err := Brent(linear, 0.05, 1, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.05, res.Root)
	assert.Equal(t, 0, res.Iterations)
}

func TestNewtonOneIteration(t *testing.T) {
	t.Parallel()

	res, err := NewtonRaphson(linear, func(float64) float64 { return 1 }, 0, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.InDelta(t, 0.05, res.Root, 1e-15)
}

func TestNewtonSquareRoot(t *testing.T) {
	t.Parallel()

	f := func(x float64) float64 { return x*x - 2 }
	df := func(x float64) float64 { return 2 * x }
	cfg := DefaultConfig()
	res, err := NewtonRaphson(f, df, 1, cfg)
	require.NoError(t, err)
	assert.Less(t, res.Residual, cfg.Tolerance)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-10)

	res, err = NewtonRaphson(f, df, 1, NewConfig(1e-14, 50))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-14)
}

func TestNewtonZeroDerivative(t *testing.T) {
	t.Parallel()

	f := func(x float64) float64 { return x*x + 1 }
	df := func(x float64) float64 { return 2 * x }
	_, err := NewtonRaphson(f, df, 0, DefaultConfig())
	require.Error(t, err)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Newton-Raphson", ce.Solver)
	assert.Equal(t, 0, ce.Iterations)
	assert.Equal(t, 1.0, ce.Residual)
	assert.True(t, errors.Is(err, ErrConvergence))
}

func TestNewtonBudgetExhausted(t *testing.T) {
	t.Parallel()

	// No real root: iterates oscillate forever.
	f := func(x float64) float64 { return x*x + 1 }
	df := func(x float64) float64 { return 2 * x }
	_, err := NewtonRaphson(f, df, 0.5, NewConfig(1e-12, 5))
	require.Error(t, err)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 5, ce.Iterations)
	assert.Greater(t, ce.Residual, 0.0)
}

func TestNewtonTinyStepWithLargeResidual(t *testing.T) {
	t.Parallel()

	// A grossly overstated derivative stalls the iterate far from the root.
	res, err := NewtonRaphson(linear, func(float64) float64 { return 1e14 }, 0, DefaultConfig())
	require.Error(t, err)
	assert.False(t, res.Converged)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "step below tolerance", ce.Reason)
	assert.Equal(t, 1, ce.Iterations)
	assert.InDelta(t, 0.05, ce.Residual, 1e-12)
	assert.ErrorIs(t, err, ErrConvergence)
}

func TestNumericalDerivative(t *testing.T) {
	t.Parallel()

	d := NumericalDerivative(math.Exp, 1e-6)
	assert.InDelta(t, math.Exp(1), d(1), 1e-8)
}

func TestBisection(t *testing.T) {
	t.Parallel()

	res, err := Bisection(linear, -1, 1, NewConfig(1e-12, 200))
	require.NoError(t, err)
	assert.InDelta(t, 0.05, res.Root, 1e-11)

	_, err = Bisection(linear, 0.5, 1, DefaultConfig())
	assert.True(t, errors.Is(err, ErrInvalidBracket))
}

func TestConfigContract(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewConfig(0, 10) })
	assert.Panics(t, func() { NewConfig(-1e-8, 10) })
	assert.Panics(t, func() { NewConfig(1e-8, 0) })
	assert.Panics(t, func() { _, _ = Brent(linear, -1, 1, Config{}) })
	assert.NotPanics(t, func() { NewConfig(1e-8, 1) })

	cfg := DefaultConfig()
	assert.Equal(t, 1e-10, cfg.Tolerance)
	assert.Equal(t, 100, cfg.MaxIterations)
}
