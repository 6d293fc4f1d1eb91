package linref

import "math"

// DefaultCollinearityTolerance is the cross-product magnitude below which a
// reference point counts as collinear with a segment. The value is in raw
// input coordinate units and is not scaled by segment length, so it is only
// meaningful for planar coordinates; with lat/lng input it has no metric
// interpretation. Kept configurable so callers can tighten or widen it, but
// the test itself is planar by contract.
const DefaultCollinearityTolerance = 0.1

// MeasureNotFound is the sentinel reported when the reference point does not
// lie on any segment of the path.
const MeasureNotFound float64 = -1

// PointOnSegmentSink walks a polyline event stream and reports the
// cumulative arc-length distance at which a reference point sits on the
// path. Unlike LocateAlongSink, an unmatched query is not an error: the
// measure simply stays at the MeasureNotFound sentinel, which is valid from
// construction onward even if the driver never reaches a terminal event.
type PointOnSegmentSink struct {
	pathWalker
	geom        SegmentGeometry
	ref         Point
	tolerance   float64
	accumulated float64
	measure     float64
}

// NewPointOnSegmentSink creates a sink that tests ref for membership on the
// path. Pass DefaultCollinearityTolerance unless the coordinate scale calls
// for something else. The distance metric geom is used only to accumulate
// segment lengths; the membership test itself is planar.
func NewPointOnSegmentSink(ref Point, tolerance float64, geom SegmentGeometry) *PointOnSegmentSink {
	s := &PointOnSegmentSink{
		geom:      geom,
		ref:       ref,
		tolerance: tolerance,
		measure:   MeasureNotFound,
	}
	s.step = s.testSegment
	return s
}

// testSegment either matches the reference point on this segment, fixing the
// measure, or adds the segment's full length to the running total.
func (s *PointOnSegmentSink) testSegment(from, to Vertex) bool {
	if !s.onSegment(from, to) {
		s.accumulated += s.geom.Distance(from, to)
		return false
	}
	s.measure = s.accumulated + s.geom.Distance(from, Vertex{X: s.ref.X, Y: s.ref.Y})
	return true
}

// onSegment tests collinearity via the cross product of (ref-from) and
// (to-from), then confirms the reference point lies within the segment's
// extent on whichever axis has the larger delta. Checking the dominant axis
// sidesteps degenerate comparisons on near-vertical and near-horizontal
// segments.
func (s *PointOnSegmentSink) onSegment(from, to Vertex) bool {
	dx := to.X - from.X
	dy := to.Y - from.Y

	// A zero-length segment has no direction: the cross product is always
	// zero and the extent collapses to a single coordinate, so the general
	// checks below would accept any point sharing one axis with the vertex.
	// Match only the vertex itself; an adjacent real segment still catches
	// nearby points.
	if dx == 0 && dy == 0 {
		return s.ref.X == from.X && s.ref.Y == from.Y
	}

	cross := (s.ref.X-from.X)*dy - (s.ref.Y-from.Y)*dx
	if math.Abs(cross) > s.tolerance {
		return false
	}

	if math.Abs(dx) >= math.Abs(dy) {
		return within(s.ref.X, from.X, to.X)
	}
	return within(s.ref.Y, from.Y, to.Y)
}

// EndPath is a no-op: "not found" is an answer, not a failure, and it is
// already recorded as the sentinel.
func (s *PointOnSegmentSink) EndPath() error {
	if s.state == stateWalking {
		s.state = stateClosed
	}
	return nil
}

// Measure returns the cumulative distance at which the reference point was
// found, or MeasureNotFound. Safe to call at any time.
func (s *PointOnSegmentSink) Measure() float64 {
	return s.measure
}

// Found reports whether the reference point matched a segment.
func (s *PointOnSegmentSink) Found() bool {
	return s.measure != MeasureNotFound
}

func within(v, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}
