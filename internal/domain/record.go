package domain

import "github.com/paulmach/orb"

// Country identifies which national dataset a record came from. Dataset
// revisions spell it several ways ("USA", "United States", "CAN", "Canada");
// NormalizeCountry folds them all into these two values at load time so
// nothing downstream branches on spelling.
type Country string

const (
	CountryUSA     Country = "USA"
	CountryCAN     Country = "CAN"
	CountryUnknown Country = ""
)

// NormalizeCountry maps the country spellings found across dataset revisions
// onto the canonical enum. Unrecognized values map to CountryUnknown.
func NormalizeCountry(s string) Country {
	switch s {
	case "USA", "US", "United States", "usa":
		return CountryUSA
	case "CAN", "CA", "Canada", "can":
		return CountryCAN
	default:
		return CountryUnknown
	}
}

// WatershedRecord is the canonical harmonized form of one watershed polygon.
// A record belongs to exactly one country; the coding fields for the other
// country are always empty. AreaSqKm was computed under an equal-area
// projection during the offline build and must never be recomputed from the
// geographic-degree coordinates.
type WatershedRecord struct {
	ID       string
	Name     string
	Country  Country
	AreaSqKm float64

	// US coding fields (empty on Canadian records).
	HUC12 string

	// Canadian coding fields (empty on US records).
	FWAWatershedCode     string
	FWAPrincipalDrainage string
	FWAAssessmentID      string
	SDACCode             string

	DataSource    string
	ProvinceState string

	// Geometry is a Polygon or MultiPolygon in WGS84 lon/lat, the single
	// reference system shared by the whole collection.
	Geometry orb.Geometry
}

// Attributes returns the record's scalar fields as a map suitable for
// serialization, omitting the geometry and empty values. This is the
// "sanitized" raw_data block lookup results carry.
func (r WatershedRecord) Attributes() map[string]any {
	attrs := map[string]any{
		"id":        r.ID,
		"country":   string(r.Country),
		"area_sqkm": r.AreaSqKm,
	}
	put := func(key, val string) {
		if val != "" {
			attrs[key] = val
		}
	}
	put("watershed_name", r.Name)
	put("huc12_code", r.HUC12)
	put("fwa_watershed_code", r.FWAWatershedCode)
	put("fwa_principal_drainage", r.FWAPrincipalDrainage)
	put("fwa_assessment_id", r.FWAAssessmentID)
	put("sdac_ssda_code", r.SDACCode)
	put("datasource", r.DataSource)
	put("province_state", r.ProvinceState)
	return attrs
}
