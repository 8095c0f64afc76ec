// Package metrics declares the Prometheus collectors for the reaction engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transition metrics
var (
	// TransitionsTotal tracks transition attempts by action and outcome.
	// Outcome is "applied", a business rejection reason, or "error".
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaction_transitions_total",
			Help: "Reaction transition attempts by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// EventsDropped counts transition events dropped because the dispatcher
	// buffer was full.
	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaction_events_dropped_total",
			Help: "Transition events dropped due to a full dispatcher buffer",
		},
	)
)

// Cache coherence metrics
var (
	// CacheHydrationsTotal counts hydrations of a target's membership sets.
	CacheHydrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaction_cache_hydrations_total",
			Help: "Hydrations of reaction membership sets from the store",
		},
	)

	// CacheHydrationSkips counts hydrate calls resolved by the double-check
	// under the per-target lock (another caller hydrated first).
	CacheHydrationSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaction_cache_hydration_skips_total",
			Help: "Hydrations skipped because the cache was already warm",
		},
	)

	// CacheFallbacksTotal counts reads answered by the authoritative store
	// because the cache tier failed.
	CacheFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaction_cache_fallbacks_total",
			Help: "Cache-tier failures degraded to direct store reads",
		},
		[]string{"operation"},
	)

	// EmptySentinelsWritten counts empty-verified sentinels written during
	// hydration (the cache-penetration guard).
	EmptySentinelsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaction_cache_empty_sentinels_total",
			Help: "Empty-verified sentinel keys written during hydration",
		},
	)
)

// Redis client metrics
var (
	// RedisOpsTotal tracks Redis operations by command and status.
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds.
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// CircuitBreakerStateChanges tracks breaker transitions by new state.
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)
)

// HTTP metrics
var (
	// HTTPErrorsTotal tracks HTTP errors by error type.
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error type",
		},
		[]string{"type"},
	)
)
