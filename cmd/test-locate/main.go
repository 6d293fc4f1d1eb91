package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dpup/linref.ersn.net/server/internal/clients/kmlroutes"
	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
	"github.com/dpup/linref.ersn.net/server/internal/lib/pathcodec"
)

// Manual test harness for locate-along queries against an encoded polyline.
//
//	go run ./cmd/test-locate --polyline "_p~iF~ps|U_ulLnnqC" --d 50000
func main() {
	encoded := flag.String("polyline", "", "Google encoded polyline describing the route")
	distance := flag.Float64("d", 0, "Distance along the route")
	planar := flag.Bool("planar", false, "Measure in coordinate units instead of meters")
	asKML := flag.Bool("kml", false, "Print the located point as a KML placemark")
	flag.Parse()

	if *encoded == "" {
		fmt.Println("Example usage:")
		fmt.Println(`  test-locate --polyline "_p~iF~ps|U_ulLnnqC" --d 50000`)
		os.Exit(1)
	}

	vertices, err := pathcodec.Decode(*encoded)
	if err != nil {
		log.Fatalf("Failed to decode polyline: %v", err)
	}

	geom := linref.SegmentGeometry(linref.NewHaversineGeometry())
	if *planar {
		geom = linref.NewPlanarGeometry()
	}

	total := linref.PathLength(vertices, geom)
	fmt.Printf("Route: %d vertices, total length %.2f\n", len(vertices), total)

	point, err := linref.LocateAlong(vertices, 4326, *distance, geom)
	if err != nil {
		log.Fatalf("Locate failed: %v", err)
	}

	if *asKML {
		name := fmt.Sprintf("point @ %g", *distance)
		if err := kmlroutes.WritePointKML(os.Stdout, name, point); err != nil {
			log.Fatalf("Failed to write KML: %v", err)
		}
		return
	}

	fmt.Printf("Point at %.2f: x=%.6f y=%.6f (srid %d)\n", *distance, point.X, point.Y, point.SRID)
}
