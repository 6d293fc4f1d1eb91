package linref

import (
	"github.com/dpup/prefab/errors"
)

// PointBuilder is the downstream GeometrySink handed to a LocateAlongSink.
// It captures the single point emitted at the end of a locate walk and makes
// it available as a value. The builder accepts only point geometry.
type PointBuilder struct {
	srid   int32
	vertex Vertex
	has    bool
}

// NewPointBuilder creates an empty builder.
func NewPointBuilder() *PointBuilder {
	return &PointBuilder{}
}

func (b *PointBuilder) SetReferenceFrame(srid int32) {
	b.srid = srid
}

func (b *PointBuilder) BeginPath(kind ShapeKind) error {
	if kind != ShapePoint {
		return errors.New("linref: point builder accepts only point geometry")
	}
	return nil
}

func (b *PointBuilder) BeginFigure(v Vertex) {
	b.vertex = v
	b.has = true
}

// AddVertex is ignored; a point geometry has exactly one vertex, delivered
// via BeginFigure.
func (b *PointBuilder) AddVertex(v Vertex) {}

func (b *PointBuilder) EndFigure() {}

func (b *PointBuilder) EndPath() error {
	return nil
}

// Point returns the captured point, tagged with the SRID from the stream,
// and whether one was emitted at all.
func (b *PointBuilder) Point() (Point, bool) {
	if !b.has {
		return Point{}, false
	}
	return Point{X: b.vertex.X, Y: b.vertex.Y, SRID: b.srid}, true
}
