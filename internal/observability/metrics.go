package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scene card construction pipeline.
type Metrics struct {
	CardsBuilt    prometheus.Counter
	CardsFailed   *prometheus.CounterVec // labels: reason={input,validation,cancelled}
	BuildDuration prometheus.Histogram

	// Provider adapter metrics.
	ProviderRequests *prometheus.CounterVec   // labels: provider={geocoder,map_context,sun,weather}, outcome={success,timeout,cancelled,provider_error}
	ProviderDuration *prometheus.HistogramVec // labels: provider
	ProviderRetries  *prometheus.CounterVec   // labels: provider

	// Geocode cache metrics.
	GeocodeCache *prometheus.CounterVec // labels: result={hit,miss}

	// Card publishing metrics.
	CardsPublished prometheus.Counter
	PublishErrors  prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CardsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scene_card",
			Name:      "cards_built_total",
			Help:      "Total scene cards successfully constructed and validated.",
		}),
		CardsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scene_card",
			Name:      "cards_failed_total",
			Help:      "Card construction failures by reason.",
		}, []string{"reason"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scene_card",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete card construction, fan-out included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scene_card",
			Name:      "provider_requests_total",
			Help:      "Provider adapter calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scene_card",
			Name:      "provider_duration_seconds",
			Help:      "Provider adapter call duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		ProviderRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scene_card",
			Name:      "provider_retries_total",
			Help:      "Provider adapter retries issued by the orchestrator.",
		}, []string{"provider"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scene_card",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		CardsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scene_card",
			Name:      "cards_published_total",
			Help:      "Cards published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scene_card",
			Name:      "publish_errors_total",
			Help:      "Failed card publish attempts.",
		}),
	}

	prometheus.MustRegister(
		m.CardsBuilt,
		m.CardsFailed,
		m.BuildDuration,
		m.ProviderRequests,
		m.ProviderDuration,
		m.ProviderRetries,
		m.GeocodeCache,
		m.CardsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CardsBuilt:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "scene_card", Name: "cards_built_total"}),
		CardsFailed:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scene_card", Name: "cards_failed_total"}, []string{"reason"}),
		BuildDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "scene_card", Name: "build_duration_seconds"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scene_card", Name: "provider_requests_total"}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "scene_card", Name: "provider_duration_seconds"}, []string{"provider"}),
		ProviderRetries:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scene_card", Name: "provider_retries_total"}, []string{"provider"}),
		GeocodeCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scene_card", Name: "geocode_cache_total"}, []string{"result"}),
		CardsPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "scene_card", Name: "cards_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "scene_card", Name: "publish_errors_total"}),
	}
}
