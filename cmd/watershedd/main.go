package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cascadiahydro/watershed-lookup/internal/adapter/geocode"
	httpadapter "github.com/cascadiahydro/watershed-lookup/internal/adapter/http"
	"github.com/cascadiahydro/watershed-lookup/internal/config"
	"github.com/cascadiahydro/watershed-lookup/internal/dataset"
	"github.com/cascadiahydro/watershed-lookup/internal/domain"
	"github.com/cascadiahydro/watershed-lookup/internal/observability"
	"github.com/cascadiahydro/watershed-lookup/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// A missing or corrupt dataset is a recoverable startup condition: the
	// service runs degraded and reports unavailability per lookup.
	collection, err := dataset.Load(cfg.DatasetPath, cfg.BorderPreference, logger)
	if err != nil {
		logger.Warn("starting in degraded mode", "error", err)
		collection = nil
	}

	geocoder, suggester := buildGeocoder(cfg, metrics, logger)

	svc := service.New(collection, geocoder, suggester, cfg.MaxSuggestions, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// buildGeocoder assembles the provider fallback chain from configuration:
// maps.co first, Nominatim when enabled, Google when a key is present.
// Google also supplies the suggestion capability for the validation flow.
func buildGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, domain.Suggester) {
	providers := []geocode.Provider{
		geocode.NewMapsCoClient(cfg.MapsCoAPIKey, cfg.GeocoderTimeout, logger),
	}
	if cfg.NominatimEnabled {
		providers = append(providers, geocode.NewNominatimClient(cfg.GeocoderTimeout, logger))
	}

	var suggester domain.Suggester
	if cfg.GoogleMapsAPIKey != "" {
		google := geocode.NewGoogleClient(cfg.GoogleMapsAPIKey, cfg.GeocoderTimeout, logger)
		providers = append(providers, google)
		suggester = google
		logger.Info("google geocoding and suggestions enabled")
	}

	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	logger.Info("geocoding providers configured",
		"providers", names,
		"per_call_timeout", cfg.GeocoderTimeout,
		"total_timeout", cfg.GeocoderTotalTimeout,
		"cache_size", cfg.GeocoderCacheSize,
	)

	chain := geocode.NewChain(providers, cfg.GeocoderTimeout, cfg.GeocoderTotalTimeout, metrics, logger)
	return geocode.NewCachedGeocoder(chain, cfg.GeocoderCacheSize), suggester
}
