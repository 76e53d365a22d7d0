// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unfake_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheRequests counts cache lookups by cache name and result (hit, miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unfake_cache_requests_total",
		Help: "Total number of cache lookups by cache and result",
	}, []string{"cache", "result"})

	// DatabaseQueryLatency records store query latency by operation and collection.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unfake_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesTotal counts applied votes by direction.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unfake_votes_total",
		Help: "Total number of votes cast by direction",
	}, []string{"direction"})

	// ModerationActions counts administrative actions by audit tag.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unfake_moderation_actions_total",
		Help: "Total number of administrative actions by type",
	}, []string{"action"})

	// AuthEvents counts signup and login outcomes.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unfake_auth_events_total",
		Help: "Total number of authentication events by type and outcome",
	}, []string{"event", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
