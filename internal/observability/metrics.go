package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// watershed lookup service.
type Metrics struct {
	Lookups             *prometheus.CounterVec // labels: outcome={resolved,out_of_coverage,geocode_failed,unavailable}
	SuggestionsReturned prometheus.Counter
	ResolveDuration     prometheus.Histogram
	CandidatePolygons   prometheus.Histogram
	DatasetLoaded       prometheus.Gauge
	DatasetPolygons     prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec   // labels: provider, outcome={success,empty,error}
	GeocodeDuration *prometheus.HistogramVec // labels: provider
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watershed",
			Name:      "lookups_total",
			Help:      "Address lookups by terminal outcome.",
		}, []string{"outcome"}),
		SuggestionsReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watershed",
			Name:      "suggestions_returned_total",
			Help:      "Alternate addresses offered by the validation flow.",
		}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "watershed",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of point-in-polygon resolution against the spatial index.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		CandidatePolygons: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "watershed",
			Name:      "candidate_polygons",
			Help:      "Bounding-box candidates returned by the index per resolve.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "watershed",
			Name:      "dataset_loaded",
			Help:      "1 when the unified polygon dataset is loaded, 0 in degraded mode.",
		}),
		DatasetPolygons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "watershed",
			Name:      "dataset_polygons",
			Help:      "Number of watershed records in the loaded collection.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watershed",
			Name:      "geocode_requests_total",
			Help:      "Geocoding provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "watershed",
			Name:      "geocode_duration_seconds",
			Help:      "Geocoding provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}

	prometheus.MustRegister(
		m.Lookups,
		m.SuggestionsReturned,
		m.ResolveDuration,
		m.CandidatePolygons,
		m.DatasetLoaded,
		m.DatasetPolygons,
		m.GeocodeRequests,
		m.GeocodeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Lookups:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "watershed", Name: "lookups_total"}, []string{"outcome"}),
		SuggestionsReturned: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "watershed", Name: "suggestions_returned_total"}),
		ResolveDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "watershed", Name: "resolve_duration_seconds"}),
		CandidatePolygons:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "watershed", Name: "candidate_polygons"}),
		DatasetLoaded:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "watershed", Name: "dataset_loaded"}),
		DatasetPolygons:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "watershed", Name: "dataset_polygons"}),
		GeocodeRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "watershed", Name: "geocode_requests_total"}, []string{"provider", "outcome"}),
		GeocodeDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "watershed", Name: "geocode_duration_seconds"}, []string{"provider"}),
	}
}
