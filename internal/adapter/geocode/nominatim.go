package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

// nominatimUserAgent identifies this service per the OSM Nominatim usage
// policy, which rejects requests without a descriptive User-Agent.
const nominatimUserAgent = "watershed-lookup/1.0 (cascadia watershed service)"

// NominatimClient geocodes through the public OpenStreetMap Nominatim
// instance. Used as the fallback provider when maps.co fails or misses.
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewNominatimClient creates an OSM Nominatim client.
func NewNominatimClient(timeout time.Duration, logger *slog.Logger) *NominatimClient {
	return &NominatimClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://nominatim.openstreetmap.org/search",
		logger:  logger,
	}
}

func (c *NominatimClient) Name() string { return "nominatim" }

// Geocode resolves an address to coordinates. An empty result set is a miss,
// not an error.
func (c *NominatimClient) Geocode(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}

	headers := map[string]string{"User-Agent": nominatimUserAgent}
	results, err := fetchNominatimStyle(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), headers)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("%s geocode: %w", c.Name(), err)
	}
	return firstCoordinate(results)
}
