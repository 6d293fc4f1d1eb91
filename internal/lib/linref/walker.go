package linref

// walkState tracks where a sink is in the event protocol.
type walkState int

const (
	stateIdle    walkState = iota // constructed, no geometry seen yet
	stateWalking                  // inside the path's single figure
	stateFound                    // result fixed; further events are no-ops
	stateClosed                   // terminal event consumed
)

// segmentFunc is invoked once per consecutive vertex pair. Returning true
// means the owning sink has fixed its result and no further segments should
// be processed.
type segmentFunc func(from, to Vertex) bool

// pathWalker is the event-dispatch skeleton shared by both sinks. It records
// the reference frame, validates the announced shape, tracks the previous
// vertex, and routes each segment to the owning sink's segment function.
//
// Exactly one figure per path is supported: the driver contract is a
// single-figure open polyline, and behavior with additional figures is
// undefined.
type pathWalker struct {
	srid  int32
	last  Vertex
	state walkState
	step  segmentFunc
}

// SetReferenceFrame records the spatial reference for the stream. Called
// once, before any coordinate event; the SRID never changes afterwards.
func (w *pathWalker) SetReferenceFrame(srid int32) {
	w.srid = srid
}

// BeginPath validates the announced geometry class. Only linestrings are
// accepted; everything else fails before any coordinate is consumed.
func (w *pathWalker) BeginPath(kind ShapeKind) error {
	if kind != ShapeLineString {
		return ErrUnsupportedShapeKind
	}
	return nil
}

// BeginFigure seeds the walk with the path's first vertex.
func (w *pathWalker) BeginFigure(v Vertex) {
	w.last = v
	if w.state == stateIdle {
		w.state = stateWalking
	}
}

// AddVertex consumes the segment from the previous vertex. Once a result has
// been fixed the stream keeps arriving (the driver cannot be interrupted
// mid-walk) but every remaining vertex is a no-op.
func (w *pathWalker) AddVertex(v Vertex) {
	if w.state != stateWalking {
		return
	}
	if w.step(w.last, v) {
		w.state = stateFound
	}
	w.last = v
}

// EndFigure is a no-op; all per-segment work happens in AddVertex.
func (w *pathWalker) EndFigure() {}
