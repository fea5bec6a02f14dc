package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

// Load reads the unified watershed GeoJSON file and builds the collection
// and its spatial index. A missing, unreadable, or corrupt file returns an
// error wrapping ErrUnavailable; callers run degraded rather than crash.
//
// The unified file exists in a few schema revisions with inconsistent key
// casing (watershed_name vs Watershed_Name, country vs Country, ...). All
// variants are folded into the canonical record here, once, so downstream
// components never branch on key names.
func Load(path string, prefer domain.Country, logger *slog.Logger) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}

	if err := checkCRS(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, path, err)
	}

	records := make([]domain.WatershedRecord, 0, len(fc.Features))
	skipped := 0
	for i, feature := range fc.Features {
		if feature.Geometry == nil {
			skipped++
			continue
		}
		switch feature.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			skipped++
			continue
		}
		records = append(records, harmonize(feature.Properties, feature.Geometry, i))
	}
	if skipped > 0 {
		logger.Warn("skipped non-polygon features", "path", path, "count", skipped)
	}

	collection, err := New(records, prefer)
	if err != nil {
		return nil, fmt.Errorf("%w: index %s: %v", ErrUnavailable, path, err)
	}

	logger.Info("watershed dataset loaded",
		"path", path,
		"polygons", collection.Len(),
		"border_preference", string(prefer),
	)
	return collection, nil
}

// checkCRS rejects files that declare a legacy CRS member naming anything
// other than WGS84. GeoJSON per RFC 7946 is always WGS84 lon/lat; older
// exporters sometimes embedded a crs block, and spatial tests must never mix
// reference systems.
func checkCRS(data []byte) error {
	var envelope struct {
		CRS *struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parse: %v", err)
	}
	if envelope.CRS == nil {
		return nil
	}
	name := envelope.CRS.Properties.Name
	switch name {
	case "", "urn:ogc:def:crs:OGC:1.3:CRS84", "EPSG:4326", "urn:ogc:def:crs:EPSG::4326":
		return nil
	}
	return fmt.Errorf("collection CRS %q is not WGS84", name)
}

// harmonize maps one feature's properties onto the canonical record,
// tolerating the key-casing and spelling variants found across dataset
// revisions. A record with no identifier of its own gets a synthesized one
// from its country prefix and ordinal.
func harmonize(props map[string]any, geom orb.Geometry, ordinal int) domain.WatershedRecord {
	folded := make(map[string]any, len(props))
	for k, v := range props {
		folded[strings.ToLower(k)] = v
	}

	rec := domain.WatershedRecord{
		Name:                 propString(folded, "watershed_name", "gnis_name", "name"),
		Country:              domain.NormalizeCountry(propString(folded, "country")),
		AreaSqKm:             propFloat(folded, "area_sqkm"),
		HUC12:                propCode(folded, 12, "huc12", "huc12_code", "huc_code"),
		FWAWatershedCode:     propString(folded, "fwa_watershed_code", "fwa_code", "watershed_code"),
		FWAPrincipalDrainage: propString(folded, "fwa_principal_drainage", "watershed_group_code"),
		FWAAssessmentID:      propString(folded, "fwa_assessment_id", "assessment_watershed_id"),
		SDACCode:             propString(folded, "sdac_ssda_code"),
		DataSource:           propString(folded, "datasource", "data_source"),
		ProvinceState:        propString(folded, "province_state"),
		Geometry:             geom,
	}

	rec.ID = propString(folded, "casc_id", "unique_id", "native_id")
	if rec.ID == "" {
		rec.ID = synthesizeID(rec, ordinal)
	}
	return rec
}

func synthesizeID(rec domain.WatershedRecord, ordinal int) string {
	switch rec.Country {
	case domain.CountryUSA:
		if rec.HUC12 != "" {
			return "US-" + rec.HUC12
		}
		return fmt.Sprintf("US-%04d", ordinal+1)
	case domain.CountryCAN:
		if rec.FWAPrincipalDrainage != "" && rec.FWAAssessmentID != "" {
			return fmt.Sprintf("BC-%s-%s", rec.FWAPrincipalDrainage, rec.FWAAssessmentID)
		}
		return fmt.Sprintf("BC-%04d", ordinal+1)
	default:
		return fmt.Sprintf("XX-%04d", ordinal+1)
	}
}

// propString returns the first non-empty string value among the given
// lowercase keys. Numeric values are formatted, since some revisions store
// codes as numbers.
func propString(folded map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := folded[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// propCode returns the first fixed-width positional code among the given
// lowercase keys. Codes stored as JSON numbers have lost their leading
// zeros, so numeric values are zero-padded back to the code's width; string
// values are trusted as-is.
func propCode(folded map[string]any, width int, keys ...string) string {
	for _, key := range keys {
		switch v := folded[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%0*.0f", width, v)
		case int:
			return fmt.Sprintf("%0*d", width, v)
		}
	}
	return ""
}

// propFloat returns the first parseable numeric value among the given
// lowercase keys, tolerating string-encoded numbers.
func propFloat(folded map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := folded[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}
