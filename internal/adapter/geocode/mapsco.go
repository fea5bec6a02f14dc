// Package geocode implements the geocoding capability consumed by the lookup
// service: concrete HTTP provider clients, an ordered fallback chain, and an
// LRU cache decorator. Every provider collapses network failure, bad status,
// empty result sets, and malformed bodies into "not found or error" — nothing
// here ever panics into the core's control flow.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

// Provider is one geocoding backend in the fallback chain.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (domain.Coordinate, bool, error)
}

// MapsCoClient geocodes through the geocode.maps.co API. The free tier is
// generous enough for the primary provider slot; an API key raises rate
// limits but is optional.
type MapsCoClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewMapsCoClient creates a geocode.maps.co client. Pass an empty apiKey to
// use the keyless free tier.
func NewMapsCoClient(apiKey string, timeout time.Duration, logger *slog.Logger) *MapsCoClient {
	return &MapsCoClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://geocode.maps.co/search",
		logger:  logger,
	}
}

func (c *MapsCoClient) Name() string { return "maps.co" }

// Geocode resolves an address to coordinates. An empty result set is a miss,
// not an error.
func (c *MapsCoClient) Geocode(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	results, err := fetchNominatimStyle(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("%s geocode: %w", c.Name(), err)
	}
	return firstCoordinate(results)
}

// nominatimResult is the response row shared by geocode.maps.co and
// Nominatim itself: coordinates arrive as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func fetchNominatimStyle(ctx context.Context, client *http.Client, fullURL string, headers map[string]string) ([]nominatimResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: status %d: %s", resp.StatusCode, body)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return results, nil
}

func firstCoordinate(results []nominatimResult) (domain.Coordinate, bool, error) {
	if len(results) == 0 {
		return domain.Coordinate{}, false, nil
	}
	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return domain.Coordinate{}, false, fmt.Errorf("malformed coordinates %q,%q", results[0].Lat, results[0].Lon)
	}
	return domain.Coordinate{Lat: lat, Lon: lon}, true, nil
}
