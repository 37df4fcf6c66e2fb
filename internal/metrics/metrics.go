// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the recommendation service:
// - API endpoint latency and throughput
// - Recommendation runs and hard-filter exclusions
// - Places API calls and circuit breaker state
// - Pool sources, sessions and votes
// - Cache and store efficiency

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablepick_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablepick_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Engine Metrics
	RecommendRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_recommend_runs_total",
			Help: "Total number of recommendation runs by outcome",
		},
		[]string{"outcome"}, // success, empty, invalid
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tablepick_recommend_duration_seconds",
			Help:    "Duration of recommendation runs in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	RecommendCandidatesExcluded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_recommend_candidates_excluded_total",
			Help: "Total number of candidates removed by the hard filter",
		},
		[]string{"reason"}, // closed, allergen, dietary, budget, distance
	)

	RecommendPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tablepick_recommend_pool_size",
			Help:    "Number of candidates per recommendation run",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Places API Metrics
	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_places_requests_total",
			Help: "Total number of places API calls by status",
		},
		[]string{"status"}, // ok, http_error, transport_error, decode_error, rejected
	)

	PlacesRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tablepick_places_request_duration_seconds",
			Help:    "Duration of places API calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablepick_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Pool Metrics
	PoolSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_pool_source_total",
			Help: "Total number of pools served by source",
		},
		[]string{"source"}, // cache, live, snapshot, static
	)

	// Session Metrics
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tablepick_sessions_created_total",
			Help: "Total number of sessions created",
		},
	)

	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_votes_cast_total",
			Help: "Total number of votes cast by type",
		},
		[]string{"type"}, // approve, veto, neutral
	)

	SessionsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_sessions_finalized_total",
			Help: "Total number of finalized sessions",
		},
		[]string{"via"}, // host, consensus
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tablepick_store_operation_duration_seconds",
			Help:    "Duration of session store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_store_operation_errors_total",
			Help: "Total number of session store errors",
		},
		[]string{"store", "operation", "error_type"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablepick_cache_entries",
			Help: "Current number of cache entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tablepick_cache_evictions_total",
			Help: "Total number of expired cache entries removed",
		},
		[]string{"cache_type"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tablepick_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tablepick_app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// maxErrorLabel bounds error_type label cardinality.
const maxErrorLabel = 50

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendRun records one engine run.
func RecordRecommendRun(outcome string, duration time.Duration, poolSize int) {
	RecommendRuns.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	RecommendPoolSize.Observe(float64(poolSize))
}

// RecordCandidateExcluded records a hard-filter exclusion
func RecordCandidateExcluded(reason string) {
	RecommendCandidatesExcluded.WithLabelValues(reason).Inc()
}

// RecordPlacesRequest records a places API call
func RecordPlacesRequest(status string, duration time.Duration) {
	PlacesRequests.WithLabelValues(status).Inc()
	PlacesRequestDuration.Observe(duration.Seconds())
}

// RecordCircuitBreakerTransition records a breaker state change and updates the
// state gauge. States use the gauge encoding 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordPoolSource records where a pool came from
func RecordPoolSource(source string) {
	PoolSource.WithLabelValues(source).Inc()
}

// RecordSessionCreated records a new session
func RecordSessionCreated() {
	SessionsCreated.Inc()
}

// RecordVote records a cast vote
func RecordVote(voteType string) {
	VotesCast.WithLabelValues(voteType).Inc()
}

// RecordSessionFinalized records a finalized session. via is "host" or "consensus".
func RecordSessionFinalized(via string) {
	SessionsFinalized.WithLabelValues(via).Inc()
}

// RecordStoreOperation records a session store operation
func RecordStoreOperation(store, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > maxErrorLabel {
			errorType = errorType[:maxErrorLabel]
		}
		StoreOperationErrors.WithLabelValues(store, operation, errorType).Inc()
	}
}

// RecordCacheHit records a cache hit
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// UpdateCacheStats sets the entry gauge and adds evicted entries.
func UpdateCacheStats(cacheType string, entries, evicted int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(entries))
	if evicted > 0 {
		CacheEvictions.WithLabelValues(cacheType).Add(float64(evicted))
	}
}
