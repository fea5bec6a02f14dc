// Package service composes geocoding, point resolution, and lineage
// extraction into the address→watershed lookup operations the front end
// consumes. Component failures become sentinel "not found" results at each
// stage boundary; nothing propagates as a fault past this package except the
// explicit degraded-mode error.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cascadiahydro/watershed-lookup/internal/dataset"
	"github.com/cascadiahydro/watershed-lookup/internal/domain"
	"github.com/cascadiahydro/watershed-lookup/internal/observability"
)

// Lookup outcome labels, shared with metrics.
const (
	outcomeResolved      = "resolved"
	outcomeOutOfCoverage = "out_of_coverage"
	outcomeGeocodeFailed = "geocode_failed"
	outcomeUnavailable   = "unavailable"
)

// Service owns the immutable collection and the geocoding capabilities. It
// is stateless per request; concurrent use is safe because the collection
// never mutates after load.
type Service struct {
	collection *dataset.Collection // nil in degraded mode
	geocoder   domain.Geocoder
	suggester  domain.Suggester // nil when no enhanced provider is configured

	maxSuggestions int
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// New creates the lookup service. Pass a nil collection to start in degraded
// mode (every lookup reports unavailability) and a nil suggester to disable
// address suggestions.
func New(collection *dataset.Collection, geocoder domain.Geocoder, suggester domain.Suggester, maxSuggestions int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	svc := &Service{
		collection:     collection,
		geocoder:       geocoder,
		suggester:      suggester,
		maxSuggestions: maxSuggestions,
		logger:         logger,
		metrics:        metrics,
	}
	if collection != nil {
		metrics.DatasetLoaded.Set(1)
		metrics.DatasetPolygons.Set(float64(collection.Len()))
	} else {
		metrics.DatasetLoaded.Set(0)
	}
	return svc
}

// Coordinates is the lat/lon pair a lookup resolved to.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LookupResult is the full answer for a successfully resolved address.
// RawData carries only serializable scalar attributes; the geometry is
// stripped at this boundary.
type LookupResult struct {
	InputAddress  string         `json:"input_address"`
	Coordinates   Coordinates    `json:"coordinates"`
	WatershedInfo domain.Lineage `json:"watershed_info"`
	RawData       map[string]any `json:"raw_data"`
	LookedUpAt    time.Time      `json:"looked_up_at"`
}

// LookupWatershed geocodes an address and resolves it to a watershed.
// Returns (nil, nil) when the address could not be geocoded or lies outside
// dataset coverage — the two cases are distinguished in logs and metrics
// only. Returns dataset.ErrUnavailable in degraded mode.
func (s *Service) LookupWatershed(ctx context.Context, address string) (*LookupResult, error) {
	if s.collection == nil {
		s.metrics.Lookups.WithLabelValues(outcomeUnavailable).Inc()
		return nil, dataset.ErrUnavailable
	}

	coord, ok := s.geocode(ctx, address)
	if !ok {
		s.metrics.Lookups.WithLabelValues(outcomeGeocodeFailed).Inc()
		return nil, nil
	}

	rec, found := s.resolve(coord)
	if !found {
		s.logger.Info("coordinates outside dataset coverage",
			"address", address, "lat", coord.Lat, "lon", coord.Lon)
		s.metrics.Lookups.WithLabelValues(outcomeOutOfCoverage).Inc()
		return nil, nil
	}

	s.metrics.Lookups.WithLabelValues(outcomeResolved).Inc()
	return s.assembleResult(address, coord, rec), nil
}

// ParseAddressInput collapses a multi-line address into a single line.
func (s *Service) ParseAddressInput(raw string) string {
	return domain.ParseAddressInput(raw)
}

// CheckReadiness reports whether the service can answer lookups.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.collection == nil {
		return errors.New("watershed dataset is not loaded")
	}
	return nil
}

// DatasetStatus reports dataset availability and size for health reporting.
func (s *Service) DatasetStatus() (loaded bool, polygons int) {
	if s.collection == nil {
		return false, 0
	}
	return true, s.collection.Len()
}

// geocode runs the capability boundary: provider errors are logged and
// collapsed into a miss, never surfaced.
func (s *Service) geocode(ctx context.Context, address string) (domain.Coordinate, bool) {
	coord, found, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.Warn("geocoding failed", "address", address, "error", err)
		return domain.Coordinate{}, false
	}
	if !found {
		s.logger.Info("no geocoding results", "address", address)
		return domain.Coordinate{}, false
	}
	s.logger.Debug("geocoded address", "address", address, "lat", coord.Lat, "lon", coord.Lon)
	return coord, true
}

func (s *Service) resolve(coord domain.Coordinate) (domain.WatershedRecord, bool) {
	start := time.Now()
	rec, candidates, found := s.collection.ResolveWithStats(coord.Lat, coord.Lon)
	s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	s.metrics.CandidatePolygons.Observe(float64(candidates))
	return rec, found
}

func (s *Service) assembleResult(address string, coord domain.Coordinate, rec domain.WatershedRecord) *LookupResult {
	return &LookupResult{
		InputAddress:  address,
		Coordinates:   Coordinates{Latitude: coord.Lat, Longitude: coord.Lon},
		WatershedInfo: domain.ExtractLineage(rec),
		RawData:       rec.Attributes(),
		LookedUpAt:    domain.Now(),
	}
}

// newLookupID returns a ULID used to correlate one lookup's log lines and
// its validation result.
func newLookupID() string {
	return ulid.Make().String()
}
