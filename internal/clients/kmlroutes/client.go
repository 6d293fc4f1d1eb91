package kmlroutes

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
)

// Client downloads KML documents and extracts LineString placemarks as
// route geometry.
type Client struct {
	httpClient *http.Client
}

// FeedRoute is a single LineString placemark pulled from a KML feed.
type FeedRoute struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Vertices    []linref.Vertex `json:"vertices"`
	LastFetched time.Time       `json:"last_fetched"`
}

// NewClient creates a KML route feed client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchRoutes downloads a KML feed and returns every LineString placemark it
// contains, in document order.
func (c *Client) FetchRoutes(ctx context.Context, url string) ([]FeedRoute, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download KML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d downloading KML from %s", resp.StatusCode, url)
	}

	routes, err := ParseRoutes(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KML from %s: %w", url, err)
	}
	return routes, nil
}

// ParseRoutes parses a KML document and extracts LineString placemarks from
// the document body and any nested folders. Placemarks with other geometry
// are skipped.
func ParseRoutes(r io.Reader) ([]FeedRoute, error) {
	var doc kmlFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse KML: %w", err)
	}

	now := time.Now()
	var routes []FeedRoute
	collectPlacemarks(doc.Document.Placemarks, now, &routes)
	collectFolders(doc.Document.Folders, now, &routes)
	return routes, nil
}

func collectFolders(folders []kmlFolder, fetchTime time.Time, routes *[]FeedRoute) {
	for _, folder := range folders {
		collectPlacemarks(folder.Placemarks, fetchTime, routes)
		collectFolders(folder.Folders, fetchTime, routes)
	}
}

func collectPlacemarks(placemarks []kmlPlacemark, fetchTime time.Time, routes *[]FeedRoute) {
	for _, placemark := range placemarks {
		if placemark.LineString == nil {
			continue
		}
		vertices, err := parseCoordinates(placemark.LineString.Coordinates)
		if err != nil || len(vertices) < 2 {
			// A route needs at least one segment; malformed or trivial
			// placemarks are dropped rather than failing the whole feed.
			continue
		}
		*routes = append(*routes, FeedRoute{
			Name:        strings.TrimSpace(placemark.Name),
			Description: strings.TrimSpace(placemark.Description),
			Vertices:    vertices,
			LastFetched: fetchTime,
		})
	}
}

// parseCoordinates parses the KML coordinate list format: whitespace
// separated tuples of "longitude,latitude[,altitude]".
func parseCoordinates(raw string) ([]linref.Vertex, error) {
	var vertices []linref.Vertex
	for _, tuple := range strings.Fields(raw) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed coordinate tuple %q", tuple)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed longitude in %q: %w", tuple, err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed latitude in %q: %w", tuple, err)
		}
		v := linref.Vertex{X: lon, Y: lat}
		if len(parts) >= 3 {
			if alt, err := strconv.ParseFloat(parts[2], 64); err == nil {
				v.Z = alt
			}
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

// kmlFile mirrors the subset of the KML schema needed to pull LineString
// placemarks. go-kml is a generation library, so parsing goes through plain
// encoding/xml.
type kmlFile struct {
	XMLName  xml.Name    `xml:"kml"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlFolder struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlPlacemark struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	LineString  *kmlLineString `xml:"LineString"`
}

type kmlLineString struct {
	Coordinates string `xml:"coordinates"`
}
