package config

import (
	"time"

	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Paths  PathsConfig  `yaml:"paths"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CorsOrigins []string `yaml:"cors_origins"`
}

// PathsConfig holds the route catalog and query settings
type PathsConfig struct {
	// CollinearityTolerance bounds the cross-product test used by measure
	// queries, in raw coordinate units. Zero means the library default.
	CollinearityTolerance float64 `yaml:"collinearity_tolerance"`

	RefreshInterval time.Duration   `yaml:"refresh_interval"`
	StaleThreshold  time.Duration   `yaml:"stale_threshold"`
	KMLFeeds        []KMLFeedConfig `yaml:"kml_feeds"`
	Routes          []RouteConfig   `yaml:"routes"`
}

// KMLFeedConfig points at a KML document whose LineString placemarks become
// routes. Feed routes are lat/lng, so they are measured with haversine
// distances.
type KMLFeedConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	SRID int32  `yaml:"srid"`
}

// RouteConfig is a statically configured route. Geometry comes from either
// an encoded polyline (lat/lng) or inline coordinate pairs (any planar
// system).
type RouteConfig struct {
	ID              string           `yaml:"id"`
	Name            string           `yaml:"name"`
	SRID            int32            `yaml:"srid"`
	EncodedPolyline string           `yaml:"encoded_polyline"`
	Coordinates     []CoordinateYAML `yaml:"coordinates"`

	// Geometry selects the distance metric: "planar" (default for inline
	// coordinates) or "haversine" (default for encoded polylines).
	Geometry string `yaml:"geometry"`
}

// CoordinateYAML represents an x/y coordinate pair in YAML config
type CoordinateYAML struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ToVertex converts CoordinateYAML to a route vertex
func (c CoordinateYAML) ToVertex() linref.Vertex {
	return linref.Vertex{X: c.X, Y: c.Y}
}

// Tolerance returns the configured collinearity tolerance, falling back to
// the library default.
func (p PathsConfig) Tolerance() float64 {
	if p.CollinearityTolerance > 0 {
		return p.CollinearityTolerance
	}
	return linref.DefaultCollinearityTolerance
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CorsOrigins: []string{"*"},
		},
		Paths: PathsConfig{
			RefreshInterval: 15 * time.Minute,
			StaleThreshold:  30 * time.Minute,
		},
	}
}
