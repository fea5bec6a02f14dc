package geocode

import (
	"context"
	"log/slog"
	"time"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
	"github.com/cascadiahydro/watershed-lookup/internal/observability"
)

// Chain implements domain.Geocoder over an ordered list of providers. Each
// provider gets a bounded slice of time; a provider fault or empty result
// advances to the next, and the first hit wins. The whole chain runs under
// an overall deadline so a sequence of hung providers cannot pin a request.
// All-providers-failed is a miss, not an error.
type Chain struct {
	providers []Provider
	perCall   time.Duration
	total     time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewChain creates a provider fallback chain.
func NewChain(providers []Provider, perCall, total time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Chain {
	return &Chain{
		providers: providers,
		perCall:   perCall,
		total:     total,
		metrics:   metrics,
		logger:    logger,
	}
}

// Geocode tries each provider in order until one returns coordinates.
func (ch *Chain) Geocode(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, ch.total)
	defer cancel()

	for _, provider := range ch.providers {
		if ctx.Err() != nil {
			break
		}

		callCtx, callCancel := context.WithTimeout(ctx, ch.perCall)
		start := time.Now()
		coord, found, err := provider.Geocode(callCtx, address)
		callCancel()

		ch.metrics.GeocodeDuration.WithLabelValues(provider.Name()).Observe(time.Since(start).Seconds())

		if err != nil {
			ch.metrics.GeocodeRequests.WithLabelValues(provider.Name(), "error").Inc()
			ch.logger.Warn("geocode provider failed, trying next",
				"provider", provider.Name(),
				"error", err,
			)
			continue
		}
		if !found {
			ch.metrics.GeocodeRequests.WithLabelValues(provider.Name(), "empty").Inc()
			continue
		}

		ch.metrics.GeocodeRequests.WithLabelValues(provider.Name(), "success").Inc()
		return coord, true, nil
	}

	return domain.Coordinate{}, false, nil
}
