package domain

// principalDrainageNames maps BC FWA principal drainage codes to their
// human-readable basin names. Codes not listed here get a generic
// "Drainage <code>" label.
var principalDrainageNames = map[string]string{
	"100": "Fraser River",
	"200": "Skeena River",
	"300": "Columbia River",
	"900": "South Coast Rivers",
	"920": "Vancouver Island East",
	"930": "Vancouver Island West",
}

// ImmediateWatershed describes the resolved watershed itself.
type ImmediateWatershed struct {
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	AreaSqKm float64 `json:"area_sqkm"`
}

// USHierarchy carries the HUC lineage. Levels the source code is too short
// to provide are empty and omitted from serialization.
type USHierarchy struct {
	HUC12 string `json:"huc12"`
	HUC10 string `json:"huc10,omitempty"`
	HUC8  string `json:"huc8,omitempty"`
	HUC6  string `json:"huc6,omitempty"`
	HUC4  string `json:"huc4,omitempty"`
	HUC2  string `json:"huc2,omitempty"`
}

// CanadaHierarchy carries whichever Canadian coding fields the record has:
// FWA codes when present, otherwise the legacy SDAC truncation chain.
type CanadaHierarchy struct {
	FWAWatershedCode      string `json:"fwa_watershed_code,omitempty"`
	PrincipalDrainage     string `json:"principal_drainage,omitempty"`
	PrincipalDrainageName string `json:"principal_drainage_name,omitempty"`
	FWAAssessmentID       string `json:"fwa_assessment_id,omitempty"`
	SSDA                  string `json:"ssda,omitempty"`
	SDA                   string `json:"sda,omitempty"`
	MDA                   string `json:"mda,omitempty"`
}

// Hierarchy holds at most one national lineage. Both branches nil is a
// valid outcome for records with no recognized coding fields.
type Hierarchy struct {
	US     *USHierarchy     `json:"us,omitempty"`
	Canada *CanadaHierarchy `json:"canada,omitempty"`
}

// Lineage is the full hierarchical placement of a resolved watershed.
type Lineage struct {
	Immediate ImmediateWatershed `json:"immediate_watershed"`
	Hierarchy Hierarchy          `json:"hierarchy"`
}

// ExtractLineage derives the administrative lineage for a record. It is pure
// and never fails: missing fields degrade to defaults ("Unknown" country,
// synthesized names, absent hierarchy levels) rather than errors.
func ExtractLineage(rec WatershedRecord) Lineage {
	lineage := Lineage{
		Immediate: ImmediateWatershed{
			Name:     displayName(rec),
			Country:  countryLabel(rec.Country),
			AreaSqKm: rec.AreaSqKm,
		},
	}

	switch rec.Country {
	case CountryUSA:
		if rec.HUC12 != "" {
			lineage.Hierarchy.US = hucHierarchy(rec.HUC12)
		}
	case CountryCAN:
		if h := canadaHierarchy(rec); h != nil {
			lineage.Hierarchy.Canada = h
		}
	}

	return lineage
}

func hucHierarchy(huc12 string) *USHierarchy {
	h := &USHierarchy{HUC12: huc12}
	if len(huc12) >= 10 {
		h.HUC10 = huc12[:10]
	}
	if len(huc12) >= 8 {
		h.HUC8 = huc12[:8]
	}
	if len(huc12) >= 6 {
		h.HUC6 = huc12[:6]
	}
	if len(huc12) >= 4 {
		h.HUC4 = huc12[:4]
	}
	if len(huc12) >= 2 {
		h.HUC2 = huc12[:2]
	}
	return h
}

func canadaHierarchy(rec WatershedRecord) *CanadaHierarchy {
	if rec.FWAWatershedCode != "" || rec.FWAPrincipalDrainage != "" || rec.FWAAssessmentID != "" {
		h := &CanadaHierarchy{
			FWAWatershedCode:  rec.FWAWatershedCode,
			PrincipalDrainage: rec.FWAPrincipalDrainage,
			FWAAssessmentID:   rec.FWAAssessmentID,
		}
		if rec.FWAPrincipalDrainage != "" {
			h.PrincipalDrainageName = DrainageName(rec.FWAPrincipalDrainage)
		}
		return h
	}

	// Legacy SDAC records truncate positionally like HUCs.
	if rec.SDACCode != "" {
		h := &CanadaHierarchy{SSDA: rec.SDACCode}
		if len(rec.SDACCode) >= 3 {
			h.SDA = rec.SDACCode[:3]
		}
		if len(rec.SDACCode) >= 2 {
			h.MDA = rec.SDACCode[:2]
		}
		return h
	}

	return nil
}

// DrainageName returns the human-readable basin name for an FWA principal
// drainage code, or a generic label for codes outside the table.
func DrainageName(code string) string {
	if name, ok := principalDrainageNames[code]; ok {
		return name
	}
	return "Drainage " + code
}

func displayName(rec WatershedRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	for _, id := range []string{rec.ID, rec.HUC12, rec.FWAAssessmentID, rec.SDACCode} {
		if id != "" {
			return "Watershed " + id
		}
	}
	return "Unnamed Watershed"
}

func countryLabel(c Country) string {
	if c == CountryUnknown {
		return "Unknown"
	}
	return string(c)
}
