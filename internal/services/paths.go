package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/dpup/linref.ersn.net/server/internal/cache"
	"github.com/dpup/linref.ersn.net/server/internal/clients/kmlroutes"
	"github.com/dpup/linref.ersn.net/server/internal/config"
	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
	"github.com/dpup/linref.ersn.net/server/internal/lib/pathcodec"
)

// ErrRouteNotFound is returned for queries against an unknown route ID.
var ErrRouteNotFound = errors.New("route not found")

// Route is a path the service can answer locate and measure queries for.
type Route struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	SRID     int32           `json:"srid"`
	Geometry string          `json:"geometry"`
	Source   string          `json:"source"`
	Vertices []linref.Vertex `json:"-"`
}

// PathsService answers linear-referencing queries over a catalog of routes.
// Static routes come from configuration; feed routes are pulled from KML
// documents and refreshed periodically. Each query constructs a fresh sink,
// so the service is safe for concurrent requests.
type PathsService struct {
	config    *config.PathsConfig
	kmlClient *kmlroutes.Client
	cache     *cache.Cache

	mu     sync.RWMutex
	routes map[string]Route
	order  []string
}

// NewPathsService creates a PathsService and loads the statically configured
// routes. Feed routes are not fetched here; call RefreshFeeds.
func NewPathsService(kmlClient *kmlroutes.Client, cache *cache.Cache, cfg *config.PathsConfig) (*PathsService, error) {
	s := &PathsService{
		config:    cfg,
		kmlClient: kmlClient,
		cache:     cache,
		routes:    make(map[string]Route),
	}

	for _, rc := range cfg.Routes {
		route, err := staticRoute(rc)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", rc.ID, err)
		}
		s.putRoute(route)
	}

	return s, nil
}

// staticRoute builds a Route from its YAML form, decoding the encoded
// polyline or converting inline coordinates.
func staticRoute(rc config.RouteConfig) (Route, error) {
	route := Route{
		ID:       rc.ID,
		Name:     rc.Name,
		SRID:     rc.SRID,
		Geometry: rc.Geometry,
		Source:   "config",
	}
	if route.ID == "" {
		return Route{}, errors.New("route id is required")
	}

	switch {
	case rc.EncodedPolyline != "" && len(rc.Coordinates) > 0:
		return Route{}, errors.New("route has both encoded_polyline and coordinates")
	case rc.EncodedPolyline != "":
		vertices, err := pathcodec.Decode(rc.EncodedPolyline)
		if err != nil {
			return Route{}, err
		}
		route.Vertices = vertices
		if route.Geometry == "" {
			route.Geometry = "haversine"
		}
	case len(rc.Coordinates) > 0:
		route.Vertices = make([]linref.Vertex, len(rc.Coordinates))
		for i, c := range rc.Coordinates {
			route.Vertices[i] = c.ToVertex()
		}
		if route.Geometry == "" {
			route.Geometry = "planar"
		}
	default:
		return Route{}, errors.New("route has no geometry")
	}

	if len(route.Vertices) < 2 {
		return Route{}, errors.New("route needs at least 2 vertices")
	}
	return route, nil
}

func (s *PathsService) putRoute(route Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.routes[route.ID]; !exists {
		s.order = append(s.order, route.ID)
	}
	s.routes[route.ID] = route
}

func (s *PathsService) route(id string) (Route, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	route, ok := s.routes[id]
	return route, ok
}

// Routes returns the catalog in a stable order.
func (s *PathsService) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Route, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.routes[id])
	}
	return out
}

// RefreshFeeds fetches every configured KML feed and installs its LineString
// placemarks as routes. A feed that is fresh in cache is served from cache;
// a feed that fails to download falls back to stale cached data when that
// data is not yet past the stale threshold.
func (s *PathsService) RefreshFeeds(ctx context.Context) error {
	for _, feed := range s.config.KMLFeeds {
		if err := s.refreshFeed(ctx, feed); err != nil {
			log.Printf("Feed %s refresh failed: %v", feed.ID, err)
			return err
		}
	}
	return nil
}

func (s *PathsService) refreshFeed(ctx context.Context, feed config.KMLFeedConfig) error {
	cacheKey := "kml_feed:" + feed.URL

	var feedRoutes []kmlroutes.FeedRoute
	found, err := s.cache.Get(cacheKey, &feedRoutes)
	if err != nil {
		log.Printf("Cache error for feed %s: %v", feed.ID, err)
	}

	if !found {
		feedRoutes, err = s.kmlClient.FetchRoutes(ctx, feed.URL)
		if err != nil {
			// Serve stale cached routes while the feed is unreachable,
			// unless they are past the stale threshold.
			if !s.cache.IsVeryStale(cacheKey) {
				if _, ok, _ := s.cache.GetWithMetadata(cacheKey, &feedRoutes); ok {
					log.Printf("Feed %s unreachable, keeping stale routes: %v", feed.ID, err)
					s.installFeedRoutes(feed, feedRoutes)
					return nil
				}
			}
			return fmt.Errorf("failed to fetch feed %s: %w", feed.ID, err)
		}
		if err := s.cache.Set(cacheKey, feedRoutes, s.config.RefreshInterval, "kml_feed"); err != nil {
			log.Printf("Failed to cache feed %s: %v", feed.ID, err)
		}
	}

	s.installFeedRoutes(feed, feedRoutes)
	return nil
}

func (s *PathsService) installFeedRoutes(feed config.KMLFeedConfig, feedRoutes []kmlroutes.FeedRoute) {
	for i, fr := range feedRoutes {
		id := fmt.Sprintf("%s-%d", feed.ID, i)
		name := fr.Name
		if name == "" {
			name = fmt.Sprintf("%s #%d", feed.Name, i)
		}
		s.putRoute(Route{
			ID:       id,
			Name:     name,
			SRID:     feed.SRID,
			Geometry: "haversine",
			Source:   feed.ID,
			Vertices: fr.Vertices,
		})
	}
	log.Printf("Feed %s installed %d routes", feed.ID, len(feedRoutes))
}

// Locate returns the point at arc-length distance along the identified
// route. Distances are meters for haversine routes and coordinate units for
// planar routes.
func (s *PathsService) Locate(id string, distance float64) (linref.Point, error) {
	route, ok := s.route(id)
	if !ok {
		return linref.Point{}, ErrRouteNotFound
	}
	return linref.LocateAlong(route.Vertices, route.SRID, distance, geometryFor(route))
}

// Measure returns the cumulative distance at which the point (x, y) lies on
// the identified route, or linref.MeasureNotFound when it is off the route.
func (s *PathsService) Measure(id string, x, y float64) (float64, error) {
	route, ok := s.route(id)
	if !ok {
		return linref.MeasureNotFound, ErrRouteNotFound
	}
	ref := linref.Point{X: x, Y: y, SRID: route.SRID}
	return linref.MeasureAlong(route.Vertices, route.SRID, ref, s.config.Tolerance(), geometryFor(route))
}

// geometryFor picks the distance metric for a route. Measure queries always
// run their membership test in the plane; the metric only controls how
// distances are reported.
func geometryFor(route Route) linref.SegmentGeometry {
	if route.Geometry == "haversine" {
		return linref.NewHaversineGeometry()
	}
	return linref.NewPlanarGeometry()
}

// HTTP surface

type pathSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SRID        int32   `json:"srid"`
	Geometry    string  `json:"geometry"`
	Source      string  `json:"source"`
	VertexCount int     `json:"vertex_count"`
	Length      float64 `json:"length"`
}

type locateResponse struct {
	PathID   string       `json:"path_id"`
	Distance float64      `json:"distance"`
	Point    linref.Point `json:"point"`
}

type measureResponse struct {
	PathID  string       `json:"path_id"`
	Point   linref.Point `json:"point"`
	Measure float64      `json:"measure"`
	Found   bool         `json:"found"`
}

// HandlePaths serves the /api/v1/paths tree:
//
//	GET /api/v1/paths                      list routes
//	GET /api/v1/paths/{id}/locate?d=5      point at distance
//	GET /api/v1/paths/{id}/measure?x=&y=   distance of point
func (s *PathsService) HandlePaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "only GET is supported")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/paths"), "/")
	if rest == "" {
		s.handleList(w)
		return
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		writeError(w, http.StatusNotFound, "unknown paths endpoint")
		return
	}

	switch parts[1] {
	case "locate":
		s.handleLocate(w, r, parts[0])
	case "measure":
		s.handleMeasure(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "unknown paths endpoint")
	}
}

func (s *PathsService) handleList(w http.ResponseWriter) {
	routes := s.Routes()
	summaries := make([]pathSummary, len(routes))
	for i, route := range routes {
		summaries[i] = pathSummary{
			ID:          route.ID,
			Name:        route.Name,
			SRID:        route.SRID,
			Geometry:    route.Geometry,
			Source:      route.Source,
			VertexCount: len(route.Vertices),
			Length:      linref.PathLength(route.Vertices, geometryFor(route)),
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"paths": summaries})
}

func (s *PathsService) handleLocate(w http.ResponseWriter, r *http.Request, id string) {
	distance, err := strconv.ParseFloat(r.URL.Query().Get("d"), 64)
	if err != nil || distance < 0 {
		writeError(w, http.StatusBadRequest, "query parameter d must be a non-negative number")
		return
	}

	point, err := s.Locate(id, distance)
	switch {
	case errors.Is(err, ErrRouteNotFound):
		writeError(w, http.StatusNotFound, "unknown path: "+id)
		return
	case errors.Is(err, linref.ErrDistanceExceedsLength):
		writeError(w, http.StatusUnprocessableEntity, "distance exceeds path length")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "kml" {
		w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
		name := fmt.Sprintf("%s @ %g", id, distance)
		if err := kmlroutes.WritePointKML(w, name, point); err != nil {
			log.Printf("Failed to write KML response: %v", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, locateResponse{PathID: id, Distance: distance, Point: point})
}

func (s *PathsService) handleMeasure(w http.ResponseWriter, r *http.Request, id string) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "query parameters x and y must be numbers")
		return
	}

	measure, err := s.Measure(id, x, y)
	switch {
	case errors.Is(err, ErrRouteNotFound):
		writeError(w, http.StatusNotFound, "unknown path: "+id)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	route, _ := s.route(id)
	writeJSON(w, http.StatusOK, measureResponse{
		PathID:  id,
		Point:   linref.Point{X: x, Y: y, SRID: route.SRID},
		Measure: measure,
		Found:   measure != linref.MeasureNotFound,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
