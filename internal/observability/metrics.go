package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	StoreOps        *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec
	FeedSubscribers prometheus.Gauge
	FeedDropped     prometheus.Counter
	MemosCreated    prometheus.Counter
	MemosDeleted    prometheus.Counter

	window *latencyWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
		StoreOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Memo store operations by backend, operation and outcome.",
		}, []string{"backend", "op", "outcome"}),
		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_latency_ms",
			Help:      "Memo store operation latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"backend", "op"}),
		FeedSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_subscribers",
			Help:      "Number of connected memo feed websocket clients.",
		}),
		FeedDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_dropped_total",
			Help:      "Feed events dropped because a subscriber buffer was full.",
		}),
		MemosCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memos_created_total",
			Help:      "Memos created through the API.",
		}),
		MemosDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memos_deleted_total",
			Help:      "Memos deleted through the API.",
		}),
		window: newLatencyWindow(256),
	}
}

// ObserveStoreOp implements memo.OpRecorder.
func (m *Metrics) ObserveStoreOp(backend, op, outcome string, d time.Duration) {
	m.StoreOps.WithLabelValues(backend, op, outcome).Inc()
	ms := float64(d.Microseconds()) / 1000
	m.StoreLatency.WithLabelValues(backend, op).Observe(ms)
	m.window.Observe(backend, op, outcome, ms)
}

// SnapshotStoreLatency summarizes the recent store latency window.
func (m *Metrics) SnapshotStoreLatency() LatencySnapshot {
	return m.window.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
