package curve

import (
	"errors"
	"fmt"

	"github.com/meenmo/mocurve/solver"
)

// ErrorKind classifies every error returned by curve construction and evaluation.
type ErrorKind int

const (
	EmptyCurve ErrorKind = iota + 1
	InvalidData
	TenorOutOfRange
	InterpolationFailed
	IncompatibleValueType
	SegmentOverlap
	SegmentGap
	DerivativeUnavailable
	SolverConvergenceFailed
	MathError
)

// Sentinels for errors.Is. Every *Error and typed error below matches the
// sentinel of its kind.
var (
	ErrEmptyCurve              = errors.New("empty curve")
	ErrInvalidData             = errors.New("invalid data")
	ErrTenorOutOfRange         = errors.New("tenor out of range")
	ErrInterpolationFailed     = errors.New("interpolation failed")
	ErrIncompatibleValueType   = errors.New("incompatible value type")
	ErrSegmentOverlap          = errors.New("segment overlap")
	ErrSegmentGap              = errors.New("segment gap")
	ErrDerivativeUnavailable   = errors.New("derivative unavailable")
	ErrSolverConvergenceFailed = errors.New("solver convergence failed")
	ErrMath                    = errors.New("math error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case EmptyCurve:
		return ErrEmptyCurve
	case InvalidData:
		return ErrInvalidData
	case TenorOutOfRange:
		return ErrTenorOutOfRange
	case InterpolationFailed:
		return ErrInterpolationFailed
	case IncompatibleValueType:
		return ErrIncompatibleValueType
	case SegmentOverlap:
		return ErrSegmentOverlap
	case SegmentGap:
		return ErrSegmentGap
	case DerivativeUnavailable:
		return ErrDerivativeUnavailable
	case SolverConvergenceFailed:
		return ErrSolverConvergenceFailed
	case MathError:
		return ErrMath
	}
	return nil
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the general error type of the package. Op names the failing
// operation, Err is an optional cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// TenorOutOfRangeError reports a tenor outside a curve's bounds.
type TenorOutOfRangeError struct {
	Tenor float64
	Min   float64
	Max   float64
}

func (e *TenorOutOfRangeError) Error() string {
	return fmt.Sprintf("tenor %g outside curve bounds [%g, %g]", e.Tenor, e.Min, e.Max)
}

func (e *TenorOutOfRangeError) Is(target error) bool { return target == ErrTenorOutOfRange }

// SegmentOverlapError reports two segments that both cover Tenor.
type SegmentOverlapError struct {
	Tenor float64
}

func (e *SegmentOverlapError) Error() string {
	return fmt.Sprintf("segments overlap at tenor %g", e.Tenor)
}

func (e *SegmentOverlapError) Is(target error) bool { return target == ErrSegmentOverlap }

// SegmentGapError reports an uncovered range (From, To) between two segments.
type SegmentGapError struct {
	From float64
	To   float64
}

func (e *SegmentGapError) Error() string {
	return fmt.Sprintf("gap between segments from tenor %g to %g", e.From, e.To)
}

func (e *SegmentGapError) Is(target error) bool { return target == ErrSegmentGap }

// FromSolver wraps a solver failure into the curve taxonomy. The solver error
// stays reachable through errors.As.
func FromSolver(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, solver.ErrConvergence) || errors.Is(err, solver.ErrInvalidBracket) {
		return &Error{Kind: SolverConvergenceFailed, Op: op, Err: err}
	}
	return err
}

// KindOf returns the kind of a curve error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	for k := EmptyCurve; k <= MathError; k++ {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	return 0
}
