package pathcodec

import (
	"github.com/dpup/prefab/errors"
	"github.com/twpayne/go-polyline"

	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
)

// Decode decodes a Google encoded polyline into route vertices. The encoded
// format carries (lat, lng) pairs; vertices store X as longitude and Y as
// latitude.
func Decode(encoded string) ([]linref.Vertex, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	vertices := make([]linref.Vertex, len(coords))
	for i, coord := range coords {
		vertices[i] = linref.Vertex{X: coord[1], Y: coord[0]}
		if !isValidCoordinate(coord[0], coord[1]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return vertices, nil
}

// Encode encodes route vertices back into the Google encoded polyline
// format.
func Encode(vertices []linref.Vertex) string {
	coords := make([][]float64, len(vertices))
	for i, v := range vertices {
		coords[i] = []float64{v.Y, v.X}
	}
	return string(polyline.EncodeCoords(coords))
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
