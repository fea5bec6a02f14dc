package service

import (
	"context"
	"time"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

// State is the terminal state of a validation-aware lookup.
type State string

const (
	StateResolved         State = "resolved"          // geocoded and inside a watershed polygon
	StateOutOfCoverage    State = "out_of_coverage"   // geocoded, no polygon contains the point
	StateNoMatch          State = "no_match"          // geocoding failed, no suggestions either
	StateSuggestionsFound State = "suggestions_found" // geocoding failed, alternatives offered
	StateUnavailable      State = "unavailable"       // dataset not loaded
)

// Suggestion is one alternate address candidate with the coordinates it
// would resolve to, when those could be determined.
type Suggestion struct {
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Validation describes what the address-correction flow did with the input.
type Validation struct {
	IsValid         bool         `json:"is_valid"`
	OriginalAddress string       `json:"original_address"`
	ParsedAddress   string       `json:"parsed_address"`
	MatchedAddress  string       `json:"matched_address,omitempty"` // rewrite that geocoded, when not the parsed input
	Suggestions     []Suggestion `json:"suggestions"`
}

// ValidationLookupResult is the always-non-nil answer of the validation-aware
// lookup. WatershedInfo and RawData are present only in StateResolved.
type ValidationLookupResult struct {
	LookupID      string          `json:"lookup_id"`
	Success       bool            `json:"success"`
	State         State           `json:"state"`
	InputAddress  string          `json:"input_address"`
	Validation    Validation      `json:"validation"`
	Coordinates   *Coordinates    `json:"coordinates,omitempty"`
	WatershedInfo *domain.Lineage `json:"watershed_info,omitempty"`
	RawData       map[string]any  `json:"raw_data,omitempty"`
	LookedUpAt    time.Time       `json:"looked_up_at"`
}

// ValidationResult is the answer of the validation-only operation.
type ValidationResult struct {
	IsValid          bool         `json:"is_valid"`
	OriginalAddress  string       `json:"original_address"`
	ValidatedAddress string       `json:"validated_address,omitempty"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	Suggestions      []Suggestion `json:"suggestions"`
}

// LookupWatershedWithValidation is the validation-aware variant of
// LookupWatershed. Instead of giving up on a geocoding failure it tries a
// fixed sequence of address rewrites, and when all of those fail it offers
// up to maxSuggestions alternate addresses from the autocomplete capability.
// It always returns a structured result, never nil.
func (s *Service) LookupWatershedWithValidation(ctx context.Context, rawAddress string) *ValidationLookupResult {
	lookupID := newLookupID()
	parsed := domain.ParseAddressInput(rawAddress)

	result := &ValidationLookupResult{
		LookupID:     lookupID,
		InputAddress: rawAddress,
		Validation: Validation{
			OriginalAddress: rawAddress,
			ParsedAddress:   parsed,
			Suggestions:     []Suggestion{},
		},
		LookedUpAt: domain.Now(),
	}

	if s.collection == nil {
		s.metrics.Lookups.WithLabelValues(outcomeUnavailable).Inc()
		result.State = StateUnavailable
		return result
	}

	coord, matched, ok := s.geocodeWithRewrites(ctx, lookupID, parsed)
	if !ok {
		result.Validation.Suggestions = s.collectSuggestions(ctx, lookupID, parsed)
		if len(result.Validation.Suggestions) > 0 {
			result.State = StateSuggestionsFound
		} else {
			result.State = StateNoMatch
		}
		s.metrics.Lookups.WithLabelValues(outcomeGeocodeFailed).Inc()
		return result
	}

	result.Validation.IsValid = true
	if matched != parsed {
		result.Validation.MatchedAddress = matched
	}
	result.Coordinates = &Coordinates{Latitude: coord.Lat, Longitude: coord.Lon}

	rec, found := s.resolve(coord)
	if !found {
		s.logger.Info("validated address outside dataset coverage",
			"lookup_id", lookupID, "address", matched, "lat", coord.Lat, "lon", coord.Lon)
		s.metrics.Lookups.WithLabelValues(outcomeOutOfCoverage).Inc()
		result.State = StateOutOfCoverage
		return result
	}

	lineage := domain.ExtractLineage(rec)
	result.Success = true
	result.State = StateResolved
	result.WatershedInfo = &lineage
	result.RawData = rec.Attributes()
	s.metrics.Lookups.WithLabelValues(outcomeResolved).Inc()
	return result
}

// ValidateAndSuggestAddress runs the address-correction flow without the
// watershed resolution step. Always returns a structured result.
func (s *Service) ValidateAndSuggestAddress(ctx context.Context, address string) *ValidationResult {
	lookupID := newLookupID()
	parsed := domain.ParseAddressInput(address)

	coord, matched, ok := s.geocodeWithRewrites(ctx, lookupID, parsed)
	if ok {
		return &ValidationResult{
			IsValid:          true,
			OriginalAddress:  address,
			ValidatedAddress: matched,
			Coordinates:      &Coordinates{Latitude: coord.Lat, Longitude: coord.Lon},
			Suggestions:      []Suggestion{},
		}
	}

	return &ValidationResult{
		OriginalAddress: address,
		Suggestions:     s.collectSuggestions(ctx, lookupID, parsed),
	}
}

// geocodeWithRewrites tries the parsed address first, then the fixed rewrite
// sequence, returning the first form that geocodes.
func (s *Service) geocodeWithRewrites(ctx context.Context, lookupID, parsed string) (domain.Coordinate, string, bool) {
	candidates := append([]string{parsed}, domain.AddressRewrites(parsed)...)
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return domain.Coordinate{}, "", false
		}
		if coord, ok := s.geocode(ctx, candidate); ok {
			if candidate != parsed {
				s.logger.Info("address rewrite geocoded",
					"lookup_id", lookupID, "original", parsed, "rewrite", candidate)
			}
			return coord, candidate, true
		}
	}
	return domain.Coordinate{}, "", false
}

// collectSuggestions asks the enhanced provider for alternate addresses and
// geocodes each so the caller can show where a suggestion would land.
func (s *Service) collectSuggestions(ctx context.Context, lookupID, address string) []Suggestion {
	if s.suggester == nil {
		return []Suggestion{}
	}

	candidates, err := s.suggester.Suggest(ctx, address, s.maxSuggestions)
	if err != nil {
		s.logger.Warn("address suggestion lookup failed",
			"lookup_id", lookupID, "address", address, "error", err)
		return []Suggestion{}
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		sugg := Suggestion{Address: candidate}
		if coord, ok := s.geocode(ctx, candidate); ok {
			sugg.Coordinates = &Coordinates{Latitude: coord.Lat, Longitude: coord.Lon}
		}
		suggestions = append(suggestions, sugg)
	}
	if len(suggestions) > 0 {
		s.metrics.SuggestionsReturned.Add(float64(len(suggestions)))
	}
	return suggestions
}
