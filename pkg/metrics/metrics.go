package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradeboard_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// CacheLookups counts read-through cache lookups by outcome (hit|miss|error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradeboard_cache_lookups_total",
			Help: "Total number of student listing cache lookups",
		},
		[]string{"outcome"},
	)

	// CacheInvalidations counts whole-namespace invalidations triggered by writes.
	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gradeboard_cache_invalidations_total",
			Help: "Total number of cache namespace invalidations",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradeboard_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
