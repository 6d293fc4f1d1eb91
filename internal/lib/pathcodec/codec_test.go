package pathcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
)

func TestDecode(t *testing.T) {
	// The canonical encoded polyline example: three points in the western
	// US.
	vertices, err := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, vertices, 3)

	assert.InDelta(t, 38.5, vertices[0].Y, 1e-5)
	assert.InDelta(t, -120.2, vertices[0].X, 1e-5)
	assert.InDelta(t, 40.7, vertices[1].Y, 1e-5)
	assert.InDelta(t, -120.95, vertices[1].X, 1e-5)
	assert.InDelta(t, 43.252, vertices[2].Y, 1e-5)
	assert.InDelta(t, -126.453, vertices[2].X, 1e-5)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode("")
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	original := []linref.Vertex{
		{X: -120.2, Y: 38.5},
		{X: -120.95, Y: 40.7},
		{X: -126.453, Y: 43.252},
	}

	decoded, err := Decode(Encode(original))
	require.NoError(t, err)
	require.Len(t, decoded, len(original))
	for i := range original {
		assert.InDelta(t, original[i].X, decoded[i].X, 1e-5)
		assert.InDelta(t, original[i].Y, decoded[i].Y, 1e-5)
	}
}
