package domain

import "context"

// Coordinate is a WGS84 latitude/longitude pair returned by a geocoder.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Geocoder converts a free-text street address to coordinates. The second
// return value reports whether a result was found; "no match" is an expected
// outcome, not an error. Errors are reserved for provider faults (network
// failure, bad status, malformed body) and callers are free to treat them
// the same as a miss.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinate, bool, error)
}

// Suggester returns alternate address candidates for input that failed to
// geocode, typically from an autocomplete-style API. Optional capability:
// the validation flow degrades to no suggestions when none is configured.
type Suggester interface {
	Suggest(ctx context.Context, address string, limit int) ([]string, error)
}
