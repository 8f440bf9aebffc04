// Package observability exposes Prometheus metrics for the forum backend.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agora_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ContentCreatedTotal counts created content rows by kind (topic, reply, message).
	ContentCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_content_created_total",
		Help: "Total number of content rows created by kind",
	}, []string{"kind"})

	// VotesCastTotal counts vote state transitions by outcome.
	VotesCastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_votes_cast_total",
		Help: "Total number of vote transitions by outcome",
	}, []string{"outcome"})

	// AuthAttemptsTotal counts login and registration attempts by action and result.
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_auth_attempts_total",
		Help: "Total number of authentication attempts by action and result",
	}, []string{"action", "result"})
)

// ObserveQueryLatency records the latency of a database query started at
// begin. Statements GORM cannot attribute to a table land in "unknown".
func ObserveQueryLatency(operation, table string, begin time.Time) {
	if table == "" {
		table = "unknown"
	}
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(begin).Seconds())
}

// RecordContentCreated increments the content creation counter for the kind.
func RecordContentCreated(kind string) {
	ContentCreatedTotal.WithLabelValues(kind).Inc()
}

// RecordVote increments the vote transition counter for the outcome.
func RecordVote(outcome string) {
	VotesCastTotal.WithLabelValues(outcome).Inc()
}

// RecordAuthAttempt increments the auth attempt counter.
func RecordAuthAttempt(action, result string) {
	AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}
