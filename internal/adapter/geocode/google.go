package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

// GoogleClient geocodes through the Google Maps Geocoding API and also
// implements domain.Suggester via the Places Autocomplete API. Only wired in
// when GOOGLE_MAPS_API_KEY is configured; it is the enhanced capability the
// validation flow uses for address suggestions.
type GoogleClient struct {
	apiKey          string
	httpClient      *http.Client
	geocodeURL      string
	autocompleteURL string
	logger          *slog.Logger
}

// NewGoogleClient creates a Google Maps client.
func NewGoogleClient(apiKey string, timeout time.Duration, logger *slog.Logger) *GoogleClient {
	return &GoogleClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		geocodeURL:      "https://maps.googleapis.com/maps/api/geocode/json",
		autocompleteURL: "https://maps.googleapis.com/maps/api/place/autocomplete/json",
		logger:          logger,
	}
}

func (c *GoogleClient) Name() string { return "google" }

// Geocode resolves an address to coordinates. ZERO_RESULTS is a miss, not
// an error.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}

	var resp googleGeocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL+"?"+params.Encode(), &resp); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("%s geocode: %w", c.Name(), err)
	}

	if len(resp.Results) == 0 {
		return domain.Coordinate{}, false, nil
	}
	loc := resp.Results[0].Geometry.Location
	return domain.Coordinate{Lat: loc.Lat, Lon: loc.Lng}, true, nil
}

// Suggest returns up to limit autocomplete candidates for an address that
// failed to geocode.
func (c *GoogleClient) Suggest(ctx context.Context, address string, limit int) ([]string, error) {
	params := url.Values{
		"input": {address},
		"key":   {c.apiKey},
	}

	var resp googleAutocompleteResponse
	if err := c.getJSON(ctx, c.autocompleteURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("%s autocomplete: %w", c.Name(), err)
	}

	suggestions := make([]string, 0, limit)
	for _, p := range resp.Predictions {
		if len(suggestions) == limit {
			break
		}
		if p.Description != "" {
			suggestions = append(suggestions, p.Description)
		}
	}
	return suggestions, nil
}

func (c *GoogleClient) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Google API response types.

type googleGeocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

type googleAutocompleteResponse struct {
	Predictions []struct {
		Description string `json:"description"`
	} `json:"predictions"`
	Status string `json:"status"`
}
