package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/linref.ersn.net/server/internal/cache"
	"github.com/dpup/linref.ersn.net/server/internal/clients/kmlroutes"
	"github.com/dpup/linref.ersn.net/server/internal/config"
	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
)

func testService(t *testing.T) *PathsService {
	t.Helper()
	cfg := &config.PathsConfig{
		RefreshInterval: time.Minute,
		Routes: []config.RouteConfig{{
			ID:   "l-path",
			Name: "L shaped test path",
			SRID: 4326,
			Coordinates: []config.CoordinateYAML{
				{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10},
			},
		}},
	}
	svc, err := NewPathsService(kmlroutes.NewClient(), cache.NewCache(), cfg)
	require.NoError(t, err)
	return svc
}

func get(t *testing.T, svc *PathsService, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	svc.HandlePaths(rec, req)
	return rec
}

func TestPathsService_List(t *testing.T) {
	rec := get(t, testService(t), "/api/v1/paths")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Paths []pathSummary `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Paths, 1)
	assert.Equal(t, "l-path", body.Paths[0].ID)
	assert.Equal(t, 3, body.Paths[0].VertexCount)
	assert.Equal(t, 20.0, body.Paths[0].Length)
	assert.Equal(t, "planar", body.Paths[0].Geometry)
}

func TestPathsService_Locate(t *testing.T) {
	svc := testService(t)

	rec := get(t, svc, "/api/v1/paths/l-path/locate?d=15")
	require.Equal(t, http.StatusOK, rec.Code)

	var body locateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5.0, body.Point.X)
	assert.Equal(t, 10.0, body.Point.Y)
	assert.Equal(t, int32(4326), body.Point.SRID)
}

func TestPathsService_LocateErrors(t *testing.T) {
	svc := testService(t)

	assert.Equal(t, http.StatusUnprocessableEntity, get(t, svc, "/api/v1/paths/l-path/locate?d=25").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, svc, "/api/v1/paths/l-path/locate?d=-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, svc, "/api/v1/paths/l-path/locate").Code)
	assert.Equal(t, http.StatusNotFound, get(t, svc, "/api/v1/paths/nope/locate?d=1").Code)
	assert.Equal(t, http.StatusNotFound, get(t, svc, "/api/v1/paths/l-path/bogus").Code)
}

func TestPathsService_LocateKML(t *testing.T) {
	rec := get(t, testService(t), "/api/v1/paths/l-path/locate?d=5&format=kml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "kml")
	assert.Contains(t, rec.Body.String(), "<Point>")
}

func TestPathsService_Measure(t *testing.T) {
	svc := testService(t)

	rec := get(t, svc, "/api/v1/paths/l-path/measure?x=0&y=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var body measureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Found)
	assert.Equal(t, 5.0, body.Measure)

	// Off-path points come back 200 with the sentinel, not an error.
	rec = get(t, svc, "/api/v1/paths/l-path/measure?x=5&y=5")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Found)
	assert.Equal(t, linref.MeasureNotFound, body.Measure)
}

func TestPathsService_MeasureErrors(t *testing.T) {
	svc := testService(t)
	assert.Equal(t, http.StatusBadRequest, get(t, svc, "/api/v1/paths/l-path/measure?x=abc&y=1").Code)
	assert.Equal(t, http.StatusNotFound, get(t, svc, "/api/v1/paths/nope/measure?x=1&y=1").Code)
}

func TestPathsService_RefreshFeeds(t *testing.T) {
	const feedKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>Feed route</name>
      <LineString>
        <coordinates>-120.5436,38.0675 -120.4561,38.1391</coordinates>
      </LineString>
    </Placemark>
  </Document>
</kml>`

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(feedKML))
	}))
	defer server.Close()

	cfg := &config.PathsConfig{
		RefreshInterval: time.Minute,
		KMLFeeds: []config.KMLFeedConfig{{
			ID:   "hwy4",
			Name: "Highway 4",
			URL:  server.URL,
			SRID: 4326,
		}},
	}
	svc, err := NewPathsService(kmlroutes.NewClient(), cache.NewCache(), cfg)
	require.NoError(t, err)

	require.NoError(t, svc.RefreshFeeds(context.Background()))
	routes := svc.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "hwy4-0", routes[0].ID)
	assert.Equal(t, "Feed route", routes[0].Name)
	assert.Equal(t, "haversine", routes[0].Geometry)

	// The second refresh inside the TTL is served from cache.
	require.NoError(t, svc.RefreshFeeds(context.Background()))
	assert.Equal(t, 1, hits)

	// Feed routes answer queries like static ones.
	m, err := svc.Measure("hwy4-0", -120.5436, 38.0675)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m)
}

func TestStaticRoute_Validation(t *testing.T) {
	_, err := NewPathsService(kmlroutes.NewClient(), cache.NewCache(), &config.PathsConfig{
		Routes: []config.RouteConfig{{ID: "empty"}},
	})
	assert.Error(t, err, "route with no geometry is rejected")

	_, err = NewPathsService(kmlroutes.NewClient(), cache.NewCache(), &config.PathsConfig{
		Routes: []config.RouteConfig{{
			ID:              "both",
			EncodedPolyline: "_p~iF~ps|U_ulLnnqC",
			Coordinates:     []config.CoordinateYAML{{X: 0, Y: 0}, {X: 1, Y: 1}},
		}},
	})
	assert.Error(t, err, "route with two geometry sources is rejected")

	svc, err := NewPathsService(kmlroutes.NewClient(), cache.NewCache(), &config.PathsConfig{
		Routes: []config.RouteConfig{{
			ID:              "encoded",
			SRID:            4326,
			EncodedPolyline: "_p~iF~ps|U_ulLnnqC",
		}},
	})
	require.NoError(t, err)
	routes := svc.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "haversine", routes[0].Geometry, "encoded polylines default to haversine")
}
