package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alerts core.
type Metrics struct {
	AlertsCreated   *prometheus.CounterVec // labels: origin={user,system}
	DedupDropped    prometheus.Counter
	SubtitleUpdates prometheus.Counter

	// Snapshot persistence metrics.
	SnapshotSaves  prometheus.Counter
	SnapshotErrors prometheus.Counter

	// Mock forecast generator metrics.
	GeneratorTicks    prometheus.Counter
	GeneratorFailures prometheus.Counter
	GeneratorRunning  prometheus.Gauge

	// Toast lifecycle metrics.
	ToastShown     *prometheus.CounterVec // labels: kind={user,system}
	ToastDismissed *prometheus.CounterVec // labels: kind, reason={auto,closed,tapped}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AlertsCreated,
		m.DedupDropped,
		m.SubtitleUpdates,
		m.SnapshotSaves,
		m.SnapshotErrors,
		m.GeneratorTicks,
		m.GeneratorFailures,
		m.GeneratorRunning,
		m.ToastShown,
		m.ToastDismissed,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "alerts_created_total",
			Help:      "Alerts created, by origin.",
		}, []string{"origin"}),
		DedupDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "dedup_dropped_total",
			Help:      "User alert submissions absorbed by the dedup window.",
		}),
		SubtitleUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "subtitle_updates_total",
			Help:      "Subtitle rewrites after address resolution.",
		}),
		SnapshotSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "snapshot_saves_total",
			Help:      "Debounced snapshot writes to local storage.",
		}),
		SnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "snapshot_errors_total",
			Help:      "Snapshot load/save failures (best effort, never fatal).",
		}),
		GeneratorTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "generator_ticks_total",
			Help:      "Mock forecast generator firings.",
		}),
		GeneratorFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "generator_failures_total",
			Help:      "Simulated forecast failures emitted.",
		}),
		GeneratorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "field_alerts",
			Name:      "generator_running",
			Help:      "1 when the mock forecast generator is active.",
		}),
		ToastShown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "toast_shown_total",
			Help:      "Toasts surfaced, by kind.",
		}, []string{"kind"}),
		ToastDismissed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "toast_dismissed_total",
			Help:      "Toast dismissals, by kind and reason.",
		}, []string{"kind", "reason"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "geocode_requests_total",
			Help:      "Reverse-geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_alerts",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "field_alerts",
			Name:      "geocode_api_duration_seconds",
			Help:      "Reverse-geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}
