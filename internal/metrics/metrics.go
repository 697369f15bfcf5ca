// Package metrics provides Prometheus metrics for tinyfeed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperations counts feed store operations by outcome.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyfeed",
			Name:      "store_operations_total",
			Help:      "Total number of feed store operations",
		},
		[]string{"operation", "outcome"},
	)

	// StoreDuration measures feed store operation duration.
	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tinyfeed",
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of feed store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// HTTPRequests counts served requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyfeed",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tinyfeed",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FeedRenders counts rendered feed documents by format.
	FeedRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tinyfeed",
			Name:      "feed_renders_total",
			Help:      "Total number of rendered feed documents",
		},
		[]string{"format"},
	)
)

// RecordStoreOperation records a store operation and its duration.
func RecordStoreOperation(operation, outcome string, duration float64) {
	StoreOperations.WithLabelValues(operation, outcome).Inc()
	StoreDuration.WithLabelValues(operation).Observe(duration)
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordRender records a rendered feed document.
func RecordRender(format string) {
	FeedRenders.WithLabelValues(format).Inc()
}
