package linref

import (
	"github.com/dpup/prefab/errors"
)

// LocateAlongSink walks a polyline event stream and locates the point at a
// fixed arc-length distance from the path's start. The located point is
// handed to a downstream GeometrySink as a single-vertex point geometry when
// the stream ends, which lets the result feed straight into another
// consumer (a serializer, a builder, another sink).
type LocateAlongSink struct {
	pathWalker
	geom      SegmentGeometry
	remaining float64
	out       GeometrySink
	result    *Vertex
}

// NewLocateAlongSink creates a sink that finds the point at distance along
// the path, measured by geom, and emits it to out at EndPath. The distance
// must be non-negative.
func NewLocateAlongSink(distance float64, geom SegmentGeometry, out GeometrySink) (*LocateAlongSink, error) {
	if distance < 0 {
		return nil, errors.New("linref: locate distance must be non-negative")
	}
	s := &LocateAlongSink{
		geom:      geom,
		remaining: distance,
		out:       out,
	}
	s.step = s.consumeSegment
	return s, nil
}

// consumeSegment spends the segment's length against the remaining distance.
// The comparison keeps consuming only while the segment is strictly shorter
// than what remains, so a distance landing exactly on a vertex interpolates
// to that vertex instead of falling off the end of the path. Zero-length
// segments (duplicate consecutive vertices) consume nothing.
func (s *LocateAlongSink) consumeSegment(from, to Vertex) bool {
	seg := s.geom.Distance(from, to)
	if seg < s.remaining {
		s.remaining -= seg
		return false
	}
	v := s.geom.Interpolate(from, to, s.remaining)
	s.result = &v
	return true
}

// EndPath finishes the walk. If the distance was consumed, the located point
// is emitted through the downstream sink's own event sequence, carrying the
// SRID recorded at the start of the stream. If the path ran out first, the
// query cannot be satisfied and ErrDistanceExceedsLength is returned.
func (s *LocateAlongSink) EndPath() error {
	if s.result == nil {
		return ErrDistanceExceedsLength
	}
	s.state = stateClosed

	s.out.SetReferenceFrame(s.srid)
	if err := s.out.BeginPath(ShapePoint); err != nil {
		return err
	}
	s.out.BeginFigure(*s.result)
	s.out.EndFigure()
	return s.out.EndPath()
}
