package linref

import "math"

// planarGeometry measures segments with straight-line Euclidean distance on
// raw coordinate values.
type planarGeometry struct{}

// NewPlanarGeometry returns a SegmentGeometry for planar coordinate systems
// (projected coordinates, or lat/lng treated as a flat plane).
func NewPlanarGeometry() SegmentGeometry {
	return planarGeometry{}
}

func (planarGeometry) Distance(a, b Vertex) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func (g planarGeometry) Interpolate(a, b Vertex, dist float64) Vertex {
	return lerpAlong(a, b, dist, g.Distance(a, b))
}

// haversineGeometry measures segments with great-circle distance in meters,
// reading X as longitude and Y as latitude in degrees. Interpolation is
// linear in degrees, which is adequate for the short segments that make up
// road geometry.
type haversineGeometry struct{}

// NewHaversineGeometry returns a SegmentGeometry for lat/lng routes where
// distances should be meters rather than degrees.
func NewHaversineGeometry() SegmentGeometry {
	return haversineGeometry{}
}

func (haversineGeometry) Distance(a, b Vertex) float64 {
	if a.X == b.X && a.Y == b.Y {
		return 0
	}

	lat1 := a.Y * math.Pi / 180
	lon1 := a.X * math.Pi / 180
	lat2 := b.Y * math.Pi / 180
	lon2 := b.X * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	const earthRadius = 6371000
	return earthRadius * c
}

func (g haversineGeometry) Interpolate(a, b Vertex, dist float64) Vertex {
	return lerpAlong(a, b, dist, g.Distance(a, b))
}

// lerpAlong interpolates linearly between a and b at dist along a segment of
// the given total length. The endpoints are returned exactly: dist 0 yields
// a and dist >= total yields b, so callers relying on hitting a vertex are
// not exposed to float rounding.
func lerpAlong(a, b Vertex, dist, total float64) Vertex {
	if dist <= 0 || total == 0 {
		return a
	}
	if dist >= total {
		return b
	}
	t := dist / total
	return Vertex{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}
}
