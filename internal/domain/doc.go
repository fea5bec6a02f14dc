// Package domain models cross-border watershed records and the pure logic
// that derives hierarchical lineage from their coding schemes.
//
// # Data Source
//
// Records come from a unified GeoJSON polygon dataset built offline from two
// independent government sources: the US Watershed Boundary Dataset (WBD) and
// the British Columbia Freshwater Atlas (FWA) assessment watersheds. The build
// pipeline harmonizes both into one schema, reprojects everything to WGS84,
// computes areas under an equal-area projection, and assigns each record a
// synthetic cross-border CASC_ID ("US-<huc12>", "BC-<group>-<assessment_id>").
//
// # Coding Schemes
//
// US Hydrologic Unit Codes (HUC) nest positionally: a 12-digit HUC12 contains
// its parents as left-substrings of lengths 10, 8, 6, 4 and 2.
//
//	"171100130501" → HUC10 "1711001305", HUC8 "17110013", HUC6 "171100",
//	                 HUC4 "1711", HUC2 "17"
//
// BC FWA codes are topological strings grouped under a numeric principal
// drainage ("100" Fraser River, "300" Columbia River, ...). They do not
// truncate; the hierarchy is the drainage basin plus the assessment polygon.
//
// Legacy Canadian SDAC codes (superseded by FWA, still present on some
// records) truncate like HUCs: a 4-character sub-sub-drainage ("08GA") yields
// the sub-drainage "08G" and major drainage "08".
//
// # Overlap At The Border
//
// The two national datasets were digitized independently, so polygons may
// legitimately overlap near the 49th parallel. That is tolerated data, not an
// error; disambiguation happens in the resolver, not here.
package domain
