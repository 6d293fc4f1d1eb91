package linref

import (
	"github.com/dpup/prefab/errors"
)

// ShapeKind identifies the geometry class announced at the start of an event
// stream.
type ShapeKind int

const (
	ShapePoint ShapeKind = iota
	ShapeLineString
	ShapePolygon
	ShapeMultiPoint
)

// String returns a human-readable name for the shape kind
func (k ShapeKind) String() string {
	switch k {
	case ShapePoint:
		return "point"
	case ShapeLineString:
		return "linestring"
	case ShapePolygon:
		return "polygon"
	case ShapeMultiPoint:
		return "multipoint"
	default:
		return "unknown"
	}
}

// Vertex is the coordinate payload of a single path event. Z and M ride
// along for sources that carry elevation or measure values; neither
// participates in any computation here.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
	M float64 `json:"m,omitempty"`
}

// Point is a located coordinate tagged with its spatial reference. The SRID
// is opaque to this package and passed through unchanged.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	SRID int32   `json:"srid"`
}

// GeometrySink consumes a geometry as an ordered event stream. Drivers must
// call SetReferenceFrame first, then BeginPath, BeginFigure, zero or more
// AddVertex, EndFigure, and finally EndPath. Sinks are single-use and not
// safe for concurrent access; construct a fresh sink per query.
type GeometrySink interface {
	SetReferenceFrame(srid int32)
	BeginPath(kind ShapeKind) error
	BeginFigure(v Vertex)
	AddVertex(v Vertex)
	EndFigure()
	EndPath() error
}

// SegmentGeometry supplies the distance metric and interpolation rule used
// while walking a path. Distance must be symmetric and zero exactly when the
// two vertices are coordinate-equal. Interpolate must return the first
// vertex at distance 0 and the second vertex at the full segment distance,
// both exactly.
type SegmentGeometry interface {
	Distance(a, b Vertex) float64
	Interpolate(a, b Vertex, dist float64) Vertex
}

var (
	// ErrUnsupportedShapeKind is returned by BeginPath when the announced
	// geometry is anything other than an open polyline.
	ErrUnsupportedShapeKind = errors.New("linref: path must be a linestring")

	// ErrDistanceExceedsLength is returned by LocateAlongSink.EndPath when
	// the requested distance is longer than the path.
	ErrDistanceExceedsLength = errors.New("linref: distance exceeds path length")
)
