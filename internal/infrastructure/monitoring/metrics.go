package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsActive   prometheus.Gauge
	SessionsAdded    prometheus.Counter
	SessionsRemoved  prometheus.Counter
	SessionsRestored prometheus.Counter

	// Snapshot metrics
	SnapshotsSaved  prometheus.Counter
	SnapshotsLoaded prometheus.Counter

	// Engine metrics
	EngineSessionsCreated prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSEvents      *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector on the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector on a custom registerer.
// Tests use this to avoid duplicate registration panics.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "browser_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "browser_sessions_active",
				Help: "Number of sessions currently held by the manager",
			},
		),
		SessionsAdded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "browser_sessions_added_total",
				Help: "Total number of sessions added",
			},
		),
		SessionsRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "browser_sessions_removed_total",
				Help: "Total number of sessions removed",
			},
		),
		SessionsRestored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "browser_sessions_restored_total",
				Help: "Total number of sessions restored from snapshots",
			},
		),

		SnapshotsSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "browser_snapshots_saved_total",
				Help: "Total number of snapshots written to storage",
			},
		),
		SnapshotsLoaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "browser_snapshots_loaded_total",
				Help: "Total number of snapshots read from storage",
			},
		),

		EngineSessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "browser_engine_sessions_created_total",
				Help: "Total number of engine sessions created",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "browser_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browser_ws_events_total",
				Help: "Total number of WebSocket events sent",
			},
			[]string{"type"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "browser_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records metrics for one HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
