// Package bootstrap calibrates a discount curve so that a set of market
// instruments reprices to zero present value.
package bootstrap

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meenmo/mocurve/curve"
	"github.com/meenmo/mocurve/instrument"
	"github.com/meenmo/mocurve/solver"
)

// State is the lifecycle stage of a GlobalBootstrapper.
type State int

const (
	StateEmpty State = iota
	StateInstrumentsAdded
	StateBootstrapping
	StateCalibrated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInstrumentsAdded:
		return "instruments-added"
	case StateBootstrapping:
		return "bootstrapping"
	case StateCalibrated:
		return "calibrated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// GlobalBootstrapper solves one discount-factor pillar per instrument and
// sweeps over all pillars until the repricing error is within tolerance.
// It is not safe for concurrent use; the curves it publishes are.
type GlobalBootstrapper struct {
	ref         time.Time
	cfg         Config
	solverCfg   solver.Config
	log         zerolog.Logger
	instruments []instrument.Instrument
	state       State

	curve  *curve.DiscreteCurve
	report *Report
}

// Option customises a GlobalBootstrapper.
type Option func(*GlobalBootstrapper)

// WithLogger routes calibration events to l.
func WithLogger(l zerolog.Logger) Option {
	return func(b *GlobalBootstrapper) { b.log = l }
}

// WithSolverConfig sets the per-pillar root finder settings.
func WithSolverConfig(c solver.Config) Option {
	return func(b *GlobalBootstrapper) { b.solverCfg = c }
}

// New creates a bootstrapper for curves anchored at ref. It panics if cfg
// fails Validate.
func New(ref time.Time, cfg Config, opts ...Option) *GlobalBootstrapper {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	b := &GlobalBootstrapper{
		ref:       ref,
		cfg:       cfg,
		solverCfg: solver.DefaultConfig(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add registers calibration instruments.
func (b *GlobalBootstrapper) Add(insts ...instrument.Instrument) error {
	if b.state == StateBootstrapping {
		return &curve.Error{Kind: curve.InvalidData, Op: "Add", Msg: "bootstrap in progress"}
	}
	for i, inst := range insts {
		if inst == nil {
			return &curve.Error{Kind: curve.InvalidData, Op: "Add", Msg: fmt.Sprintf("instrument %d is nil", i)}
		}
	}
	if len(insts) == 0 {
		return nil
	}
	b.instruments = append(b.instruments, insts...)
	b.state = StateInstrumentsAdded
	return nil
}

// State returns the current lifecycle stage.
func (b *GlobalBootstrapper) State() State { return b.state }

// Instruments returns the registered instruments in insertion order.
func (b *GlobalBootstrapper) Instruments() []instrument.Instrument {
	return append([]instrument.Instrument(nil), b.instruments...)
}

// Result returns the last published curve and its report, or nils before
// the first successful calibration.
func (b *GlobalBootstrapper) Result() (*curve.DiscreteCurve, *Report) {
	return b.curve, b.report
}

// Bootstrap calibrates the curve. Failing to reach the tolerance within
// MaxIterations is not an error: the best curve is returned together with a
// report whose Converged flag is false. Degenerate input and numerical
// failures return an error and move the bootstrapper to StateFailed.
func (b *GlobalBootstrapper) Bootstrap() (*curve.DiscreteCurve, *Report, error) {
	const op = "Bootstrap"

	insts, tenors, err := b.prepare()
	if err != nil {
		b.state = StateFailed
		b.log.Error().Err(err).Msg("bootstrap rejected")
		return nil, nil, err
	}
	b.state = StateBootstrapping
	runID := uuid.NewString()
	log := b.log.With().Str("run_id", runID).Logger()
	log.Info().
		Int("instruments", len(insts)).
		Str("interpolation", b.cfg.Interpolation.String()).
		Time("reference_date", b.ref).
		Msg("bootstrap started")

	w, err := b.newWorkingCurve(tenors)
	if err != nil {
		return b.fail(op, err)
	}

	residuals := make([]float64, len(insts))
	var (
		sse       float64
		sweeps    int
		converged bool
	)
	for sweeps < b.cfg.MaxIterations {
		sweeps++
		for i, inst := range insts {
			if err := b.solvePillar(w, i+1, inst); err != nil {
				return b.fail(op, fmt.Errorf("%s: %w", inst.Description(), err))
			}
		}
		for i, inst := range insts {
			pv, err := inst.PV(w.curve)
			if err != nil {
				return b.fail(op, fmt.Errorf("%s: %w", inst.Description(), err))
			}
			residuals[i] = pv
		}
		sse, _ = errorMetrics(residuals)
		log.Debug().Int("sweep", sweeps).Float64("sse", sse).Msg("bootstrap sweep")
		if sse < b.cfg.Tolerance {
			converged = true
			break
		}
	}

	report := b.buildReport(insts, tenors, w, residuals, sweeps, converged)
	report.RunID = runID
	if converged {
		log.Info().
			Int("sweeps", sweeps).
			Float64("max_error", report.MaxError).
			Msg("bootstrap converged")
	} else {
		log.Warn().
			Int("sweeps", sweeps).
			Float64("sse", report.SumSquaredError).
			Float64("tolerance", b.cfg.Tolerance).
			Msg("bootstrap did not converge")
	}
	if !report.Monotonic {
		log.Warn().Msg("calibrated discount factors are not monotone")
	}

	b.curve, b.report = w.curve, report
	b.state = StateCalibrated
	return w.curve, report, nil
}

func (b *GlobalBootstrapper) fail(op string, err error) (*curve.DiscreteCurve, *Report, error) {
	b.state = StateFailed
	b.log.Error().Err(err).Msg("bootstrap failed")
	return nil, nil, fmt.Errorf("%s: %w", op, err)
}

// prepare sorts the instruments by maturity and rejects inputs that cannot
// form a strictly increasing pillar grid.
func (b *GlobalBootstrapper) prepare() ([]instrument.Instrument, []float64, error) {
	if len(b.instruments) == 0 {
		return nil, nil, &curve.Error{Kind: curve.EmptyCurve, Op: "Bootstrap", Msg: "no instruments"}
	}
	insts := append([]instrument.Instrument(nil), b.instruments...)
	sort.SliceStable(insts, func(i, j int) bool {
		return insts[i].Maturity().Before(insts[j].Maturity())
	})

	tenors := make([]float64, len(insts))
	for i, inst := range insts {
		t := curve.YearsBetween(b.ref, inst.Maturity())
		if !(t > 0) {
			return nil, nil, &curve.Error{
				Kind: curve.InvalidData,
				Op:   "Bootstrap",
				Msg:  fmt.Sprintf("%s matures on or before the reference date", inst.Description()),
			}
		}
		if i > 0 && t <= tenors[i-1] {
			return nil, nil, &curve.Error{
				Kind: curve.InvalidData,
				Op:   "Bootstrap",
				Msg: fmt.Sprintf("duplicate pillar at %s: %s and %s",
					inst.Maturity().Format("2006-01-02"), insts[i-1].Description(), inst.Description()),
			}
		}
		tenors[i] = t
	}
	return insts, tenors, nil
}

func (b *GlobalBootstrapper) extrapolation() curve.Extrapolation {
	switch b.cfg.Interpolation {
	case curve.LogLinear:
		return curve.ExtrapolateLinear
	}
	return curve.ExtrapolateFlat
}

// workingCurve is the mutable pillar set behind the immutable curve used for
// pricing. Each update publishes a fresh DiscreteCurve.
type workingCurve struct {
	ref    time.Time
	tenors []float64
	dfs    []float64
	method curve.Interpolation
	extrap curve.Extrapolation
	curve  *curve.DiscreteCurve
}

func (b *GlobalBootstrapper) newWorkingCurve(pillars []float64) (*workingCurve, error) {
	w := &workingCurve{
		ref:    b.ref,
		tenors: make([]float64, len(pillars)+1),
		dfs:    make([]float64, len(pillars)+1),
		method: b.cfg.Interpolation,
		extrap: b.extrapolation(),
	}
	w.dfs[0] = 1
	for i, t := range pillars {
		w.tenors[i+1] = t
		w.dfs[i+1] = math.Exp(-b.cfg.InitialRate * t)
	}
	return w, w.rebuild()
}

func (w *workingCurve) rebuild() error {
	c, err := curve.NewDiscreteCurve(w.ref, w.tenors, w.dfs, curve.DiscountFactorType(), w.method,
		curve.WithExtrapolation(w.extrap))
	if err != nil {
		return err
	}
	w.curve = c
	return nil
}

func (w *workingCurve) set(i int, df float64) error {
	w.dfs[i] = df
	return w.rebuild()
}

// solvePillar sets pillar idx so that inst reprices to zero against the
// current curve. The closed-form inversion is tried first, then Newton from
// that guess, then Brent over the configured discount factor bounds.
func (b *GlobalBootstrapper) solvePillar(w *workingCurve, idx int, inst instrument.Instrument) error {
	guess, err := inst.ImpliedDiscountFactor(w.curve, 0)
	if err != nil {
		return err
	}
	guess = b.clamp(guess)
	if err := w.set(idx, guess); err != nil {
		return err
	}
	pv, err := inst.PV(w.curve)
	if err != nil {
		return err
	}
	if math.Abs(pv) < b.solverCfg.Tolerance {
		return nil
	}

	f := func(df float64) float64 {
		if err := w.set(idx, df); err != nil {
			return math.NaN()
		}
		v, err := inst.PV(w.curve)
		if err != nil {
			return math.NaN()
		}
		return v
	}

	res, err := solver.NewtonRaphson(f, solver.NumericalDerivative(f, b.cfg.DerivativeStep), guess, b.solverCfg)
	if err == nil && res.Root >= b.cfg.MinDiscountFactor && res.Root <= b.cfg.MaxDiscountFactor {
		return w.set(idx, res.Root)
	}
	b.log.Debug().Err(err).Str("instrument", inst.Description()).Msg("newton refinement failed, falling back to brent")

	res, err = solver.Brent(f, b.cfg.MinDiscountFactor, b.cfg.MaxDiscountFactor, b.solverCfg)
	if err != nil {
		return curve.FromSolver("solvePillar", err)
	}
	return w.set(idx, res.Root)
}

func (b *GlobalBootstrapper) clamp(df float64) float64 {
	if math.IsNaN(df) {
		return math.Exp(-b.cfg.InitialRate)
	}
	return math.Min(math.Max(df, b.cfg.MinDiscountFactor), b.cfg.MaxDiscountFactor)
}

func (b *GlobalBootstrapper) buildReport(insts []instrument.Instrument, tenors []float64, w *workingCurve,
	residuals []float64, sweeps int, converged bool) *Report {
	sse, maxAbs := errorMetrics(residuals)
	r := &Report{
		Instruments:     make([]InstrumentResult, len(insts)),
		MaxError:        maxAbs,
		SumSquaredError: sse,
		Iterations:      sweeps,
		Converged:       converged,
		Monotonic:       isMonotone(w.curve),
		Interpolation:   b.cfg.Interpolation,
	}
	for i, inst := range insts {
		r.Instruments[i] = InstrumentResult{
			Description:    inst.Description(),
			Kind:           inst.Kind(),
			Maturity:       inst.Maturity(),
			Tenor:          tenors[i],
			DiscountFactor: w.dfs[i+1],
			Residual:       residuals[i],
		}
	}
	return r
}
