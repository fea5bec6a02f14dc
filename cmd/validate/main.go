// Command validate loads a unified watershed dataset file and prints summary
// statistics: record counts by country and data source, total area, and the
// collection's bounding extent. Exits non-zero when the file fails to load.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/cascadiahydro/watershed-lookup/internal/dataset"
	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

func main() {
	path := flag.String("dataset", "data/cascadia_watersheds.geojson", "path to the unified watershed dataset")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	collection, err := dataset.Load(*path, domain.CountryCAN, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dataset failed to load: %v\n", err)
		os.Exit(1)
	}

	records := collection.Records()

	byCountry := map[domain.Country]int{}
	bySource := map[string]int{}
	var totalArea float64

	for _, rec := range records {
		byCountry[rec.Country]++
		source := rec.DataSource
		if source == "" {
			source = "(unknown)"
		}
		bySource[source]++
		totalArea += rec.AreaSqKm
	}

	fmt.Printf("dataset: %s\n", *path)
	fmt.Printf("watersheds: %d\n", len(records))
	fmt.Printf("total area: %.0f km²\n", totalArea)
	if minLon, minLat, maxLon, maxLat, ok := extent(records); ok {
		fmt.Printf("extent: %.3f,%.3f to %.3f,%.3f (lon,lat)\n", minLon, minLat, maxLon, maxLat)
	}

	fmt.Println("by country:")
	for _, c := range []domain.Country{domain.CountryUSA, domain.CountryCAN, domain.CountryUnknown} {
		if n, ok := byCountry[c]; ok {
			label := string(c)
			if label == "" {
				label = "(unknown)"
			}
			fmt.Printf("  %s: %d\n", label, n)
		}
	}

	fmt.Println("by data source:")
	for source, n := range bySource {
		fmt.Printf("  %s: %d\n", source, n)
	}
}

// extent returns the bounding box over all record geometries. ok is false
// for an empty dataset, where no extent exists.
func extent(records []domain.WatershedRecord) (minLon, minLat, maxLon, maxLat float64, ok bool) {
	if len(records) == 0 {
		return 0, 0, 0, 0, false
	}

	minLon, minLat = math.Inf(1), math.Inf(1)
	maxLon, maxLat = math.Inf(-1), math.Inf(-1)
	for _, rec := range records {
		b := rec.Geometry.Bound()
		minLon = math.Min(minLon, b.Min[0])
		minLat = math.Min(minLat, b.Min[1])
		maxLon = math.Max(maxLon, b.Max[0])
		maxLat = math.Max(maxLat, b.Max[1])
	}
	return minLon, minLat, maxLon, maxLat, true
}
