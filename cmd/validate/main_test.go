package main

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

func TestExtent(t *testing.T) {
	records := []domain.WatershedRecord{
		{Geometry: orb.Polygon{{{-123.0, 47.0}, {-122.0, 47.0}, {-122.0, 48.0}, {-123.0, 48.0}, {-123.0, 47.0}}}},
		{Geometry: orb.Polygon{{{-120.5, 49.0}, {-120.0, 49.0}, {-120.0, 49.5}, {-120.5, 49.5}, {-120.5, 49.0}}}},
	}

	minLon, minLat, maxLon, maxLat, ok := extent(records)

	require.True(t, ok)
	assert.InDelta(t, -123.0, minLon, 1e-9)
	assert.InDelta(t, 47.0, minLat, 1e-9)
	assert.InDelta(t, -120.0, maxLon, 1e-9)
	assert.InDelta(t, 49.5, maxLat, 1e-9)
}

func TestExtent_EmptyDataset(t *testing.T) {
	_, _, _, _, ok := extent(nil)

	assert.False(t, ok)
}
