package dataset

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDataset(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watersheds.geojson")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const squareGeometry = `{"type":"Polygon","coordinates":[[[-122.5,47.5],[-122.0,47.5],[-122.0,48.0],[-122.5,48.0],[-122.5,47.5]]]}`

func TestLoad_KeyCasingVariants(t *testing.T) {
	// Two schema revisions of the same fields: snake_case and the older
	// Title_Case export.
	path := writeDataset(t, `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {
					"casc_id": "US-171100130501",
					"watershed_name": "Lake Union-Puget Sound",
					"country": "USA",
					"huc12": "171100130501",
					"area_sqkm": 108.5,
					"datasource": "WBD"
				},
				"geometry": `+squareGeometry+`
			},
			{
				"type": "Feature",
				"properties": {
					"CASC_ID": "BC-920-12345",
					"Watershed_Name": "Victoria Harbour",
					"Country": "CAN",
					"FWA_Watershed_Code": "920-123456",
					"FWA_Principal_Drainage": "920",
					"FWA_Assessment_ID": "12345",
					"Area_SqKm": "54.2",
					"DataSource": "FWA"
				},
				"geometry": `+squareGeometry+`
			}
		]
	}`)

	c, err := Load(path, domain.CountryCAN, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	records := c.Records()

	assert.Equal(t, "US-171100130501", records[0].ID)
	assert.Equal(t, "Lake Union-Puget Sound", records[0].Name)
	assert.Equal(t, domain.CountryUSA, records[0].Country)
	assert.Equal(t, "171100130501", records[0].HUC12)
	assert.InDelta(t, 108.5, records[0].AreaSqKm, 1e-9)

	assert.Equal(t, "BC-920-12345", records[1].ID)
	assert.Equal(t, "Victoria Harbour", records[1].Name)
	assert.Equal(t, domain.CountryCAN, records[1].Country)
	assert.Equal(t, "920", records[1].FWAPrincipalDrainage)
	assert.InDelta(t, 54.2, records[1].AreaSqKm, 1e-9, "string-encoded area must parse")
}

func TestLoad_NumericHUCKeepsLeadingZeros(t *testing.T) {
	// A HUC12 starting with "0" stored as a JSON number arrives without its
	// leading zero; the loader must pad it back so positional truncation
	// still works.
	path := writeDataset(t, `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"country": "USA", "huc12": 60102070505},
				"geometry": `+squareGeometry+`
			}
		]
	}`)

	c, err := Load(path, domain.CountryCAN, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	rec := c.Records()[0]
	assert.Equal(t, "060102070505", rec.HUC12)
	assert.Equal(t, "US-060102070505", rec.ID)
}

func TestLoad_SynthesizesMissingIDs(t *testing.T) {
	path := writeDataset(t, `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"country": "USA", "huc12": "171100130501"},
				"geometry": `+squareGeometry+`
			},
			{
				"type": "Feature",
				"properties": {"country": "CAN", "fwa_principal_drainage": "100", "fwa_assessment_id": "777"},
				"geometry": `+squareGeometry+`
			},
			{
				"type": "Feature",
				"properties": {},
				"geometry": `+squareGeometry+`
			}
		]
	}`)

	c, err := Load(path, domain.CountryCAN, discardLogger())
	require.NoError(t, err)

	records := c.Records()
	assert.Equal(t, "US-171100130501", records[0].ID)
	assert.Equal(t, "BC-100-777", records[1].ID)
	assert.Equal(t, "XX-0003", records[2].ID)
}

func TestLoad_SkipsNonPolygonFeatures(t *testing.T) {
	path := writeDataset(t, `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"casc_id": "US-1", "country": "USA"},
				"geometry": {"type": "Point", "coordinates": [-122.3, 47.6]}
			},
			{
				"type": "Feature",
				"properties": {"casc_id": "US-2", "country": "USA"},
				"geometry": `+squareGeometry+`
			}
		]
	}`)

	c, err := Load(path, domain.CountryCAN, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "US-2", c.Records()[0].ID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.geojson"), domain.CountryCAN, discardLogger())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeDataset(t, `{"type": "FeatureCollection", "features": [`)

	_, err := Load(path, domain.CountryCAN, discardLogger())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestLoad_RejectsNonWGS84CRS(t *testing.T) {
	path := writeDataset(t, `{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "EPSG:3005"}},
		"features": []
	}`)

	_, err := Load(path, domain.CountryCAN, discardLogger())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "EPSG:3005")
}

func TestLoad_AcceptsExplicitCRS84(t *testing.T) {
	path := writeDataset(t, `{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:OGC:1.3:CRS84"}},
		"features": []
	}`)

	c, err := Load(path, domain.CountryCAN, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}
