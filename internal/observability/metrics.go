package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salary_map"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	Commands           *prometheus.CounterVec // labels: kind, outcome={applied,noop,rejected}
	ComparisonSize     prometheus.Gauge
	UniversitiesLoaded prometheus.Gauge

	// Event forwarding metrics.
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter
	EventsDropped      prometheus.Counter
	EventBatchSize     prometheus.Histogram
	ForwarderRunning   prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}
}

func newMetrics() *Metrics {
	return &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "User commands dispatched, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ComparisonSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "comparison_size",
			Help:      "Universities currently in the comparison set.",
		}),
		UniversitiesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "universities_loaded",
			Help:      "Records in the loaded dataset.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Interaction events written to the events topic.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Failed attempts to publish interaction events.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Interaction events discarded because the forwarding queue was full.",
		}),
		EventBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_batch_size",
			Help:      "Events per batch written to the events topic.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		ForwarderRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_forwarder_running",
			Help:      "Whether the event forwarding loop is running (1 = running, 0 = stopped).",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Commands,
		m.ComparisonSize,
		m.UniversitiesLoaded,
		m.EventsPublished,
		m.EventPublishErrors,
		m.EventsDropped,
		m.EventBatchSize,
		m.ForwarderRunning,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
