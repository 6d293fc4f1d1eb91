package kmlroutes

import (
	"io"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
)

// WritePointKML writes a located point as a KML placemark, for handing
// locate results back to the mapping tools the route feeds come from.
func WritePointKML(w io.Writer, name string, p linref.Point) error {
	doc := kml.KML(
		kml.Document(
			kml.Placemark(
				kml.Name(name),
				kml.Point(
					kml.Coordinates(kml.Coordinate{Lon: p.X, Lat: p.Y}),
				),
			),
		),
	)
	return doc.WriteIndent(w, "", "  ")
}

// WriteRouteKML writes a route's geometry as a KML LineString placemark,
// useful for eyeballing a parsed or decoded route in an external viewer.
func WriteRouteKML(w io.Writer, name string, vertices []linref.Vertex) error {
	coords := make([]kml.Coordinate, len(vertices))
	for i, v := range vertices {
		coords[i] = kml.Coordinate{Lon: v.X, Lat: v.Y, Alt: v.Z}
	}
	doc := kml.KML(
		kml.Document(
			kml.Placemark(
				kml.Name(name),
				kml.LineString(
					kml.Coordinates(coords...),
				),
			),
		),
	)
	return doc.WriteIndent(w, "", "  ")
}
