package curve

import (
	"math"
	"time"
)

// Segment assigns the tenor range [Start, End) to a backing curve. An open
// segment has no end and must be the last one.
type Segment struct {
	Start float64
	End   float64
	Open  bool
	Curve TermStructure
}

// ClosedSegment covers [start, end).
func ClosedSegment(start, end float64, ts TermStructure) Segment {
	return Segment{Start: start, End: end, Curve: ts}
}

// OpenSegment covers [start, ∞).
func OpenSegment(start float64, ts TermStructure) Segment {
	return Segment{Start: start, End: math.Inf(1), Open: true, Curve: ts}
}

func (s Segment) covers(t float64) bool {
	return t >= s.Start && (s.Open || t < s.End)
}

// SegmentedCurve stitches curves of the same value type over adjacent tenor
// ranges. Tenors outside every segment are clamped to the nearest boundary.
type SegmentedCurve struct {
	ref      time.Time
	segments []Segment
	starts   []float64
	vt       ValueType
}

// NewSegmentedCurve validates that segments are sorted, contiguous and share
// one value type, with at most one open segment in last position.
func NewSegmentedCurve(segments []Segment) (*SegmentedCurve, error) {
	const op = "NewSegmentedCurve"

	if len(segments) == 0 {
		return nil, newError(EmptyCurve, op, "no segments")
	}

	first := segments[0].Curve
	if first == nil {
		return nil, newError(InvalidData, op, "segment 0 has no curve")
	}
	vt := first.ValueType()

	for i, s := range segments {
		switch {
		case s.Curve == nil:
			return nil, newError(InvalidData, op, "segment %d has no curve", i)
		case s.Curve.ValueType() != vt:
			return nil, newError(IncompatibleValueType, op, "segment %d is %s, expected %s", i, s.Curve.ValueType(), vt)
		case math.IsNaN(s.Start) || s.Start < 0:
			return nil, newError(InvalidData, op, "segment %d has invalid start %g", i, s.Start)
		case !s.Open && !(s.End > s.Start):
			return nil, newError(InvalidData, op, "segment %d ends at %g, not after its start %g", i, s.End, s.Start)
		case s.Open && i != len(segments)-1:
			return nil, newError(InvalidData, op, "open segment %d must be the last segment", i)
		}
		if i == 0 {
			continue
		}

		prev := segments[i-1]
		if s.Start < prev.Start {
			return nil, newError(InvalidData, op, "segments not sorted: start %g follows %g", s.Start, prev.Start)
		}
		if prev.End > s.Start {
			return nil, &SegmentOverlapError{Tenor: s.Start}
		}
		if prev.End < s.Start {
			return nil, &SegmentGapError{From: prev.End, To: s.Start}
		}
	}

	c := &SegmentedCurve{
		ref:      first.ReferenceDate(),
		segments: append([]Segment(nil), segments...),
		starts:   make([]float64, len(segments)),
		vt:       vt,
	}
	for i, s := range segments {
		c.starts[i] = s.Start
	}
	return c, nil
}

// Segments returns a copy of the segments.
func (c *SegmentedCurve) Segments() []Segment { return append([]Segment(nil), c.segments...) }

func (c *SegmentedCurve) ReferenceDate() time.Time { return c.ref }

func (c *SegmentedCurve) ValueType() ValueType { return c.vt }

// TenorBounds ends at the last segment's end, or at the backing curve's own
// upper bound for an open last segment.
func (c *SegmentedCurve) TenorBounds() (float64, float64) {
	last := c.segments[len(c.segments)-1]
	hi := last.End
	if last.Open {
		_, hi = last.Curve.TenorBounds()
		if math.IsInf(hi, 1) || math.IsNaN(hi) {
			hi = DefaultMaxTenor
		}
		hi = math.Max(hi, last.Start)
	}
	return c.segments[0].Start, hi
}

func (c *SegmentedCurve) MaxDate() time.Time {
	_, hi := c.TenorBounds()
	return tenorDate(c.ref, hi)
}

// locate returns the segment to evaluate and the tenor to evaluate it at.
func (c *SegmentedCurve) locate(t float64) (Segment, float64, bool) {
	first := c.segments[0]
	if t < first.Start {
		return first, first.Start, false
	}
	i := searchTenor(c.starts, t)
	if i == len(c.starts) || c.starts[i] > t {
		i--
	}
	s := c.segments[i]
	if s.covers(t) {
		return s, t, true
	}
	// past the end of a closed last segment
	return s, s.End, false
}

func (c *SegmentedCurve) ValueAt(t float64) float64 {
	s, at, _ := c.locate(t)
	return s.Curve.ValueAt(at)
}

func (c *SegmentedCurve) TryValueAt(t float64) (float64, error) {
	s, at, _ := c.locate(t)
	return TryValueAt(s.Curve, at)
}

// DerivativeAt is unavailable outside the segments.
func (c *SegmentedCurve) DerivativeAt(t float64) (float64, bool) {
	s, at, inside := c.locate(t)
	if !inside {
		return math.NaN(), false
	}
	return s.Curve.DerivativeAt(at)
}
