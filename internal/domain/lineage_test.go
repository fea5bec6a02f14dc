package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLineage_HUCTruncation(t *testing.T) {
	rec := WatershedRecord{
		ID:       "US-171100130501",
		Name:     "Lake Union-Puget Sound",
		Country:  CountryUSA,
		AreaSqKm: 102.5,
		HUC12:    "171100130501",
	}

	lineage := ExtractLineage(rec)

	assert.Equal(t, "Lake Union-Puget Sound", lineage.Immediate.Name)
	assert.Equal(t, "USA", lineage.Immediate.Country)
	assert.Equal(t, 102.5, lineage.Immediate.AreaSqKm)

	require.NotNil(t, lineage.Hierarchy.US)
	assert.Nil(t, lineage.Hierarchy.Canada)
	assert.Equal(t, "171100130501", lineage.Hierarchy.US.HUC12)
	assert.Equal(t, "1711001305", lineage.Hierarchy.US.HUC10)
	assert.Equal(t, "17110013", lineage.Hierarchy.US.HUC8)
	assert.Equal(t, "171100", lineage.Hierarchy.US.HUC6)
	assert.Equal(t, "1711", lineage.Hierarchy.US.HUC4)
	assert.Equal(t, "17", lineage.Hierarchy.US.HUC2)
}

func TestExtractLineage_ShortHUCOmitsDeepLevels(t *testing.T) {
	rec := WatershedRecord{Country: CountryUSA, HUC12: "17110013"}

	lineage := ExtractLineage(rec)

	require.NotNil(t, lineage.Hierarchy.US)
	assert.Equal(t, "17110013", lineage.Hierarchy.US.HUC12)
	assert.Empty(t, lineage.Hierarchy.US.HUC10)
	assert.Equal(t, "17110013", lineage.Hierarchy.US.HUC8)
	assert.Equal(t, "171100", lineage.Hierarchy.US.HUC6)
}

func TestExtractLineage_FWAHierarchy(t *testing.T) {
	rec := WatershedRecord{
		ID:                   "BC-920-AW_920_0001",
		Name:                 "Victoria Harbour",
		Country:              CountryCAN,
		AreaSqKm:             54.1,
		FWAWatershedCode:     "920-000000-000000-000000-000000-000000-0001",
		FWAPrincipalDrainage: "920",
		FWAAssessmentID:      "AW_920_0001",
	}

	lineage := ExtractLineage(rec)

	require.NotNil(t, lineage.Hierarchy.Canada)
	assert.Nil(t, lineage.Hierarchy.US)
	ca := lineage.Hierarchy.Canada
	assert.Equal(t, "920-000000-000000-000000-000000-000000-0001", ca.FWAWatershedCode)
	assert.Equal(t, "920", ca.PrincipalDrainage)
	assert.Equal(t, "Vancouver Island East", ca.PrincipalDrainageName)
	assert.Equal(t, "AW_920_0001", ca.FWAAssessmentID)
	assert.Empty(t, ca.SSDA)
}

func TestExtractLineage_UnknownDrainageGetsGenericLabel(t *testing.T) {
	rec := WatershedRecord{
		Country:              CountryCAN,
		FWAPrincipalDrainage: "555",
	}

	lineage := ExtractLineage(rec)

	require.NotNil(t, lineage.Hierarchy.Canada)
	assert.Equal(t, "Drainage 555", lineage.Hierarchy.Canada.PrincipalDrainageName)
}

func TestExtractLineage_SDACTruncation(t *testing.T) {
	rec := WatershedRecord{
		Country:  CountryCAN,
		SDACCode: "08GA",
	}

	lineage := ExtractLineage(rec)

	require.NotNil(t, lineage.Hierarchy.Canada)
	ca := lineage.Hierarchy.Canada
	assert.Equal(t, "08GA", ca.SSDA)
	assert.Equal(t, "08G", ca.SDA)
	assert.Equal(t, "08", ca.MDA)
	assert.Empty(t, ca.FWAWatershedCode)
}

func TestExtractLineage_FWATakesPriorityOverSDAC(t *testing.T) {
	rec := WatershedRecord{
		Country:              CountryCAN,
		FWAPrincipalDrainage: "100",
		SDACCode:             "08GA",
	}

	lineage := ExtractLineage(rec)

	require.NotNil(t, lineage.Hierarchy.Canada)
	assert.Equal(t, "100", lineage.Hierarchy.Canada.PrincipalDrainage)
	assert.Empty(t, lineage.Hierarchy.Canada.SSDA)
}

func TestExtractLineage_UnknownCountryYieldsEmptyHierarchy(t *testing.T) {
	rec := WatershedRecord{Name: "Mystery Basin", HUC12: "171100130501"}

	lineage := ExtractLineage(rec)

	assert.Equal(t, "Unknown", lineage.Immediate.Country)
	assert.Nil(t, lineage.Hierarchy.US)
	assert.Nil(t, lineage.Hierarchy.Canada)
}

func TestExtractLineage_NoCodingFieldsYieldsEmptyHierarchy(t *testing.T) {
	rec := WatershedRecord{Name: "Raw Polygon", Country: CountryCAN}

	lineage := ExtractLineage(rec)

	assert.Nil(t, lineage.Hierarchy.US)
	assert.Nil(t, lineage.Hierarchy.Canada)
}

func TestExtractLineage_NameFallbacks(t *testing.T) {
	assert.Equal(t, "Watershed US-17", ExtractLineage(WatershedRecord{ID: "US-17"}).Immediate.Name)
	assert.Equal(t, "Watershed 171100130501", ExtractLineage(WatershedRecord{HUC12: "171100130501"}).Immediate.Name)
	assert.Equal(t, "Unnamed Watershed", ExtractLineage(WatershedRecord{}).Immediate.Name)
}

func TestExtractLineage_Idempotent(t *testing.T) {
	rec := WatershedRecord{
		ID:      "US-171100130501",
		Country: CountryUSA,
		HUC12:   "171100130501",
	}

	first := ExtractLineage(rec)
	second := ExtractLineage(rec)

	assert.Equal(t, first, second)
}

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, CountryUSA, NormalizeCountry("USA"))
	assert.Equal(t, CountryUSA, NormalizeCountry("United States"))
	assert.Equal(t, CountryCAN, NormalizeCountry("CAN"))
	assert.Equal(t, CountryCAN, NormalizeCountry("Canada"))
	assert.Equal(t, CountryUnknown, NormalizeCountry("Mexico"))
	assert.Equal(t, CountryUnknown, NormalizeCountry(""))
}

func TestAttributes_StripsGeometryAndEmptyFields(t *testing.T) {
	rec := WatershedRecord{
		ID:       "US-171100130501",
		Name:     "Lake Union-Puget Sound",
		Country:  CountryUSA,
		AreaSqKm: 102.5,
		HUC12:    "171100130501",
	}

	attrs := rec.Attributes()

	assert.Equal(t, "US-171100130501", attrs["id"])
	assert.Equal(t, "171100130501", attrs["huc12_code"])
	assert.NotContains(t, attrs, "geometry")
	assert.NotContains(t, attrs, "fwa_watershed_code")
	assert.NotContains(t, attrs, "sdac_ssda_code")
}
