package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath     string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Border overlap disambiguation. Kept configurable because the default
	// preference for the Canadian dataset at the border is a property of the
	// sources used in this deployment, not a hydrological rule.
	BorderPreference domain.Country

	// Geocoding configuration.
	GeocoderTimeout      time.Duration // per provider call
	GeocoderTotalTimeout time.Duration // across the whole fallback chain
	GeocoderCacheSize    int
	MapsCoAPIKey         string
	NominatimEnabled     bool
	GoogleMapsAPIKey     string
	MaxSuggestions       int
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	totalTimeout, err := parseDuration("GEOCODER_TOTAL_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	pref, err := parseBorderPreference()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetPath:     envOrDefault("DATASET_PATH", "data/cascadia_watersheds.geojson"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BorderPreference: pref,

		GeocoderTimeout:      geocoderTimeout,
		GeocoderTotalTimeout: totalTimeout,
		GeocoderCacheSize:    parsePositiveInt("GEOCODER_CACHE_SIZE", 1000),
		MapsCoAPIKey:         os.Getenv("GEOCODE_MAPSCO_KEY"),
		NominatimEnabled:     envOrDefault("NOMINATIM_ENABLED", "true") == "true",
		GoogleMapsAPIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		MaxSuggestions:       parsePositiveInt("MAX_SUGGESTIONS", 3),
	}

	if cfg.DatasetPath == "" {
		return nil, errors.New("DATASET_PATH is required")
	}
	if cfg.GeocoderTotalTimeout < cfg.GeocoderTimeout {
		return nil, errors.New("GEOCODER_TOTAL_TIMEOUT must be at least GEOCODER_TIMEOUT")
	}

	return cfg, nil
}

// parseBorderPreference maps BORDER_PREFERENCE onto the country enum.
// "NONE" disables the overlap preference entirely.
func parseBorderPreference() (domain.Country, error) {
	switch v := envOrDefault("BORDER_PREFERENCE", "CAN"); v {
	case "CAN":
		return domain.CountryCAN, nil
	case "USA":
		return domain.CountryUSA, nil
	case "NONE":
		return domain.CountryUnknown, nil
	default:
		return domain.CountryUnknown, fmt.Errorf("invalid BORDER_PREFERENCE %q (want CAN, USA, or NONE)", v)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
