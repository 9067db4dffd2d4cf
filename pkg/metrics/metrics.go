package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Database query latency in seconds
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	// MQ consume latency in milliseconds
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// Snapshot computation latency in seconds
	SnapshotComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "health_snapshot_compute_duration_seconds",
			Help:    "Project health snapshot computation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
		[]string{"stage"},
	)

	// Snapshot cache outcomes
	SnapshotCacheCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_snapshot_cache_total",
			Help: "Snapshot cache lookups by outcome",
		},
		[]string{"outcome"}, // outcome: hit, miss, error
	)
)

// RecordHTTPRequestDuration records one served HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration records one database query.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordMQConsumeLatency records one consumed MQ message.
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// RecordSnapshotCompute records one engine run.
func RecordSnapshotCompute(stage string, duration time.Duration) {
	SnapshotComputeDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// IncrementSnapshotCache counts a cache lookup outcome.
func IncrementSnapshotCache(outcome string) {
	SnapshotCacheCount.WithLabelValues(outcome).Inc()
}
