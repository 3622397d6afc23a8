package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_map"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	Refreshes        *prometheus.CounterVec // labels: outcome={success,error,stale}
	RefreshDuration  prometheus.Histogram
	EventsFetched    prometheus.Gauge
	EventsDisplayed  prometheus.Gauge
	SchedulerRunning prometheus.Gauge

	// Feed client metrics.
	FeedRequests        *prometheus.CounterVec   // labels: feed={events,borders}, outcome={success,error}
	FeedRequestDuration *prometheus.HistogramVec // labels: feed={events,borders}

	BordersLoaded prometheus.Gauge
	ThemeToggles  prometheus.Counter

	// Kafka publisher metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Refreshes,
		m.RefreshDuration,
		m.EventsFetched,
		m.EventsDisplayed,
		m.SchedulerRunning,
		m.FeedRequests,
		m.FeedRequestDuration,
		m.BordersLoaded,
		m.ThemeToggles,
		m.EventsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-filter-render cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_fetched",
			Help:      "Events in the most recently applied feed response.",
		}),
		EventsDisplayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_displayed",
			Help:      "Markers currently in the event layer.",
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_running",
			Help:      "1 when the refresh scheduler is active, 0 when shut down.",
		}),
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Feed HTTP requests by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_request_duration_seconds",
			Help:      "Feed request duration in seconds, including body decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		BordersLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "borders_loaded",
			Help:      "1 once the border overlay has been loaded.",
		}),
		ThemeToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "theme_toggles_total",
			Help:      "Theme toggle actions.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish batches.",
		}),
	}
}
