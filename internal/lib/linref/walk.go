package linref

import (
	"github.com/dpup/prefab/errors"
)

// WalkPath replays a vertex slice through a sink in the canonical event
// order: SetReferenceFrame, BeginPath, BeginFigure, AddVertex for each
// remaining vertex, EndFigure, EndPath. It is the in-memory driver used by
// the service and test harnesses; stored-path readers follow the same
// sequence.
//
// A single vertex is a valid stream (BeginFigure with no AddVertex) but
// describes a path with no segments: a locate over it cannot consume any
// distance and fails with ErrDistanceExceedsLength even at distance 0, and
// a measure over it never matches. Callers wanting a non-degenerate path
// must supply at least two vertices.
func WalkPath(sink GeometrySink, srid int32, vertices []Vertex) error {
	if len(vertices) == 0 {
		return errors.New("linref: path needs at least one vertex")
	}

	sink.SetReferenceFrame(srid)
	if err := sink.BeginPath(ShapeLineString); err != nil {
		return err
	}
	sink.BeginFigure(vertices[0])
	for _, v := range vertices[1:] {
		sink.AddVertex(v)
	}
	sink.EndFigure()
	return sink.EndPath()
}

// LocateAlong finds the point at arc-length dist along the path described by
// vertices. It wires a fresh LocateAlongSink to a PointBuilder and walks the
// path once.
func LocateAlong(vertices []Vertex, srid int32, dist float64, geom SegmentGeometry) (Point, error) {
	builder := NewPointBuilder()
	sink, err := NewLocateAlongSink(dist, geom, builder)
	if err != nil {
		return Point{}, err
	}
	if err := WalkPath(sink, srid, vertices); err != nil {
		return Point{}, err
	}
	p, ok := builder.Point()
	if !ok {
		return Point{}, errors.New("linref: locate walk finished without emitting a point")
	}
	return p, nil
}

// MeasureAlong reports the cumulative distance at which ref lies on the path
// described by vertices, or MeasureNotFound if it lies on no segment.
func MeasureAlong(vertices []Vertex, srid int32, ref Point, tolerance float64, geom SegmentGeometry) (float64, error) {
	sink := NewPointOnSegmentSink(ref, tolerance, geom)
	if err := WalkPath(sink, srid, vertices); err != nil {
		return MeasureNotFound, err
	}
	return sink.Measure(), nil
}

// PathLength sums the segment lengths of the path under geom.
func PathLength(vertices []Vertex, geom SegmentGeometry) float64 {
	var total float64
	for i := 0; i < len(vertices)-1; i++ {
		total += geom.Distance(vertices[i], vertices[i+1])
	}
	return total
}
