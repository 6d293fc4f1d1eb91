package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/dpup/prefab"

	"github.com/dpup/linref.ersn.net/server/internal/cache"
	"github.com/dpup/linref.ersn.net/server/internal/clients/kmlroutes"
	"github.com/dpup/linref.ersn.net/server/internal/config"
	"github.com/dpup/linref.ersn.net/server/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()

	// Initialize cache and feed client
	cacheInstance := cache.NewCache()
	kmlClient := kmlroutes.NewClient()

	// Initialize paths service with the static route catalog
	pathsService, err := services.NewPathsService(kmlClient, cacheInstance, &appConfig.Paths)
	if err != nil {
		log.Fatalf("Failed to load route catalog: %v", err)
	}

	log.Printf("Linear referencing API server starting")
	log.Printf("Static routes: %d", len(appConfig.Paths.Routes))
	log.Printf("KML feeds: %d", len(appConfig.Paths.KMLFeeds))

	ctx := context.Background()
	cacheInstance.StartPeriodicCleanup(ctx, time.Hour)

	// Keep feed-backed routes warm
	periodicRefresh := services.NewPeriodicRefreshService(pathsService, &appConfig.Paths)
	if err := periodicRefresh.StartPeriodicRefresh(ctx); err != nil {
		log.Printf("Failed to start periodic refresh: %v", err)
	}

	// Server configuration (port, etc.) is loaded from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc("/api/v1/paths", pathsService.HandlePaths),
		prefab.WithHTTPHandlerFunc("/api/v1/paths/", pathsService.HandlePaths),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system
// Configuration is loaded from prefab.yaml and environment variables with PF__ prefix
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("paths", &appConfig.Paths); err != nil {
		log.Fatalf("Failed to unmarshal paths section: %v", err)
	}

	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>linref.ersn.net</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">linref.ersn.net</span>

Linear referencing API server: mileposts in, coordinates out, and back
again, for a catalog of named routes.

<span class="header">API Endpoints:</span>

  <a href="/api/v1/paths">GET /api/v1/paths</a>                          - List known routes
  GET /api/v1/paths/{path_id}/locate?d=5        - Point at distance d along the route
  GET /api/v1/paths/{path_id}/measure?x=0&amp;y=5   - Distance of an on-route point

<span class="header">Notes:</span>
  • Distances are meters for haversine routes, coordinate units for planar ones
  • measure returns -1 when the point is not on the route
  • locate supports format=kml for a KML placemark response

<span class="header">Example Usage:</span>
  curl /api/v1/paths
  curl "/api/v1/paths/hwy4-0/locate?d=2500"
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
