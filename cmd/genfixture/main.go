// Command genfixture writes a small unified watershed GeoJSON file for local
// development and testing. The fixture mimics the real dataset's shape:
// Seattle-area HUC12 polygons, BC FWA assessment polygons (including one over
// Victoria), and a deliberately overlapping US/CAN pair on the 49th parallel
// to exercise the border tie-break.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

type fixtureWatershed struct {
	name      string
	country   string
	huc12     string
	fwaCode   string
	fwaGroup  string
	fwaAssess string
	sdac      string
	centerLon float64
	centerLat float64
	halfSize  float64 // degrees
}

var fixtures = []fixtureWatershed{
	// US side: Puget Sound HUC12s around Seattle.
	{name: "Lake Union-Puget Sound", country: "USA", huc12: "171100130501", centerLon: -122.33, centerLat: 47.61, halfSize: 0.25},
	{name: "Lower Cedar River", country: "USA", huc12: "171100120303", centerLon: -122.05, centerLat: 47.40, halfSize: 0.15},
	{name: "Whatcom Creek-Frontal Bellingham Bay", country: "USA", huc12: "171100040204", centerLon: -122.47, centerLat: 48.76, halfSize: 0.12},

	// BC side: FWA assessment watersheds.
	{name: "Lower Fraser", country: "CAN", fwaCode: "100-000000-000000-000000-000000-000000-0001", fwaGroup: "100", fwaAssess: "AW_100_0001", centerLon: -122.80, centerLat: 49.20, halfSize: 0.20},
	{name: "Victoria Harbour", country: "CAN", fwaCode: "920-000000-000000-000000-000000-000000-0001", fwaGroup: "920", fwaAssess: "AW_920_0001", centerLon: -123.35, centerLat: 48.43, halfSize: 0.08},
	{name: "Squamish River", country: "CAN", fwaCode: "900-000000-000000-000000-000000-000000-0001", fwaGroup: "900", fwaAssess: "AW_900_0001", centerLon: -123.15, centerLat: 49.75, halfSize: 0.20},

	// Legacy SDAC record without FWA codes.
	{name: "Okanagan", country: "CAN", sdac: "08NM", centerLon: -119.50, centerLat: 49.50, halfSize: 0.20},

	// Border overlap pair: both contain (49.002, -122.50); the Canadian
	// record must win under the default tie-break.
	{name: "Sumas River", country: "USA", huc12: "171100040101", centerLon: -122.50, centerLat: 48.95, halfSize: 0.10},
	{name: "Lower Sumas", country: "CAN", fwaCode: "100-000000-000000-000000-000000-000000-0002", fwaGroup: "100", fwaAssess: "AW_100_0002", centerLon: -122.50, centerLat: 49.05, halfSize: 0.10},
}

func main() {
	out := flag.String("out", "data/cascadia_watersheds.geojson", "output path for the fixture dataset")
	flag.Parse()

	fc := geojson.NewFeatureCollection()
	for i, fw := range fixtures {
		poly := squarePolygon(fw.centerLon, fw.centerLat, fw.halfSize)
		f := geojson.NewFeature(poly)

		props := f.Properties
		props["watershed_name"] = fw.name
		props["country"] = fw.country
		// Spherical area, not degree-based: the loader trusts this value.
		props["area_sqkm"] = geo.Area(poly) / 1e6
		if fw.country == "USA" {
			props["casc_id"] = "US-" + fw.huc12
			props["huc12_code"] = fw.huc12
			props["datasource"] = "WBD"
			props["province_state"] = "US"
		} else {
			props["datasource"] = "BC-FWA"
			props["province_state"] = "BC"
			if fw.fwaCode != "" {
				props["casc_id"] = fmt.Sprintf("BC-%s-%s", fw.fwaGroup, fw.fwaAssess)
				props["fwa_watershed_code"] = fw.fwaCode
				props["fwa_principal_drainage"] = fw.fwaGroup
				props["fwa_assessment_id"] = fw.fwaAssess
			} else {
				props["casc_id"] = fmt.Sprintf("BC-SDAC-%04d", i+1)
				props["sdac_ssda_code"] = fw.sdac
			}
		}

		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal fixture: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d fixture watersheds to %s\n", len(fixtures), *out)
}

func squarePolygon(lon, lat, half float64) orb.Polygon {
	return orb.Polygon{
		{
			{lon - half, lat - half},
			{lon + half, lat - half},
			{lon + half, lat + half},
			{lon - half, lat + half},
			{lon - half, lat - half},
		},
	}
}
