package linref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measureOn(t *testing.T, vertices []Vertex, ref Point) float64 {
	t.Helper()
	m, err := MeasureAlong(vertices, 4326, ref, DefaultCollinearityTolerance, NewPlanarGeometry())
	require.NoError(t, err)
	return m
}

func TestPointOnSegment_OnPath(t *testing.T) {
	m := measureOn(t, refPath(), Point{X: 0, Y: 5})
	assert.Equal(t, 5.0, m)
}

func TestPointOnSegment_OffPath(t *testing.T) {
	// (5,5) is well off both segments; the sentinel must survive the walk.
	m := measureOn(t, refPath(), Point{X: 5, Y: 5})
	assert.Equal(t, MeasureNotFound, m)
}

func TestPointOnSegment_VertexHit(t *testing.T) {
	// A reference point equal to a path vertex measures as the cumulative
	// length up to that vertex.
	assert.Equal(t, 0.0, measureOn(t, refPath(), Point{X: 0, Y: 0}))
	assert.Equal(t, 10.0, measureOn(t, refPath(), Point{X: 0, Y: 10}))
	assert.Equal(t, 20.0, measureOn(t, refPath(), Point{X: 10, Y: 10}))
}

func TestPointOnSegment_SecondSegment(t *testing.T) {
	m := measureOn(t, refPath(), Point{X: 7, Y: 10})
	assert.Equal(t, 17.0, m)
}

func TestPointOnSegment_SentinelBeforeEvents(t *testing.T) {
	// The sentinel is in place from construction, so a driver that dies
	// before the terminal event still leaves a deterministic result.
	sink := NewPointOnSegmentSink(Point{X: 1, Y: 2}, DefaultCollinearityTolerance, NewPlanarGeometry())
	assert.Equal(t, MeasureNotFound, sink.Measure())
	assert.False(t, sink.Found())
}

func TestPointOnSegment_IdempotentAfterFound(t *testing.T) {
	sink := NewPointOnSegmentSink(Point{X: 0, Y: 5}, DefaultCollinearityTolerance, NewPlanarGeometry())
	sink.SetReferenceFrame(4326)
	require.NoError(t, sink.BeginPath(ShapeLineString))
	sink.BeginFigure(Vertex{X: 0, Y: 0})
	sink.AddVertex(Vertex{X: 0, Y: 10})
	require.True(t, sink.Found())
	require.Equal(t, 5.0, sink.Measure())

	// A later segment passing through the reference point must not
	// re-measure it.
	sink.AddVertex(Vertex{X: 0, Y: 0})
	sink.AddVertex(Vertex{X: 0, Y: 10})
	sink.EndFigure()
	require.NoError(t, sink.EndPath())
	assert.Equal(t, 5.0, sink.Measure())
}

func TestPointOnSegment_ToleranceBoundary(t *testing.T) {
	path := []Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}}

	// Cross-product magnitude for a point offset by e above a horizontal
	// segment of length 10 is 10*e. Offset 0.005 -> 0.05, inside the
	// default tolerance; offset 0.05 -> 0.5, outside.
	m, err := MeasureAlong(path, 0, Point{X: 4, Y: 0.005}, DefaultCollinearityTolerance, NewPlanarGeometry())
	require.NoError(t, err)
	assert.NotEqual(t, MeasureNotFound, m)

	m, err = MeasureAlong(path, 0, Point{X: 4, Y: 0.05}, DefaultCollinearityTolerance, NewPlanarGeometry())
	require.NoError(t, err)
	assert.Equal(t, MeasureNotFound, m)

	// A tighter tolerance rejects the first point too.
	m, err = MeasureAlong(path, 0, Point{X: 4, Y: 0.005}, 0.01, NewPlanarGeometry())
	require.NoError(t, err)
	assert.Equal(t, MeasureNotFound, m)
}

func TestPointOnSegment_WithinExtentOnly(t *testing.T) {
	// Collinear with the first segment's line but beyond its extent: the
	// extent check must reject it, and it is nowhere near the second
	// segment.
	m := measureOn(t, refPath(), Point{X: 0, Y: -3})
	assert.Equal(t, MeasureNotFound, m)
}

func TestPointOnSegment_ZeroLengthSegments(t *testing.T) {
	// Duplicate consecutive vertices are legal path geometry, but a
	// zero-length segment must not match anything beyond the vertex
	// itself: sharing a single axis with the duplicated vertex is not
	// enough.
	path := []Vertex{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 10}}

	m := measureOn(t, path, Point{X: 0, Y: -50})
	assert.Equal(t, MeasureNotFound, m, "off-path point shares only X with the duplicated vertex")

	m = measureOn(t, path, Point{X: -50, Y: 0})
	assert.Equal(t, MeasureNotFound, m, "off-path point shares only Y with the duplicated vertex")

	// The duplicated vertex itself still matches, at measure 0.
	assert.Equal(t, 0.0, measureOn(t, path, Point{X: 0, Y: 0}))

	// Points on the real segment are unaffected.
	assert.Equal(t, 5.0, measureOn(t, path, Point{X: 0, Y: 5}))

	// A duplicated interior vertex measures as the cumulative length up
	// to it.
	interior := []Vertex{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 10}, {X: 10, Y: 10}}
	assert.Equal(t, 10.0, measureOn(t, interior, Point{X: 0, Y: 10}))
}

func TestPointOnSegment_RejectsNonLineString(t *testing.T) {
	sink := NewPointOnSegmentSink(Point{}, DefaultCollinearityTolerance, NewPlanarGeometry())
	assert.ErrorIs(t, sink.BeginPath(ShapeMultiPoint), ErrUnsupportedShapeKind)
}
