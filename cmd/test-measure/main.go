package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dpup/linref.ersn.net/server/internal/lib/linref"
	"github.com/dpup/linref.ersn.net/server/internal/lib/pathcodec"
)

// Manual test harness for point-on-path measure queries against an encoded
// polyline.
//
//	go run ./cmd/test-measure --polyline "_p~iF~ps|U_ulLnnqC" --x -120.2 --y 38.5
func main() {
	encoded := flag.String("polyline", "", "Google encoded polyline describing the route")
	x := flag.Float64("x", 0, "Reference point X (longitude)")
	y := flag.Float64("y", 0, "Reference point Y (latitude)")
	tolerance := flag.Float64("tolerance", linref.DefaultCollinearityTolerance, "Collinearity tolerance in coordinate units")
	planar := flag.Bool("planar", false, "Report the measure in coordinate units instead of meters")
	flag.Parse()

	if *encoded == "" {
		fmt.Println("Example usage:")
		fmt.Println(`  test-measure --polyline "_p~iF~ps|U_ulLnnqC" --x -120.2 --y 38.5`)
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

	ref := linref.Point{X: *x, Y: *y, SRID: 4326}
	measure, err := linref.MeasureAlong(vertices, 4326, ref, *tolerance, geom)
	if err != nil {
		log.Fatalf("Measure failed: %v", err)
	}

	if measure == linref.MeasureNotFound {
		fmt.Printf("Point (%.6f, %.6f) is not on the route\n", *x, *y)
		return
	}
	fmt.Printf("Point (%.6f, %.6f) is at measure %.2f\n", *x, *y, measure)
}
