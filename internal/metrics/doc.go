// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
carry the tablepick_ prefix. They are exposed at /metrics in Prometheus text
format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - tablepick_api_requests_total: Requests (counter)
    Labels: method, endpoint, status_code
  - tablepick_api_request_duration_seconds: Latency (histogram)
    Labels: method, endpoint
  - tablepick_api_active_requests: In-flight requests (gauge)
  - tablepick_api_rate_limit_hits_total: Rate limit rejections (counter)

Recommendation Metrics:
  - tablepick_recommend_runs_total: Engine runs (counter)
    Labels: outcome (success, empty, invalid)
  - tablepick_recommend_duration_seconds: Engine run time (histogram)
  - tablepick_recommend_candidates_excluded_total: Hard filter exclusions (counter)
    Labels: reason (closed, allergen, dietary, budget, distance)
  - tablepick_recommend_pool_size: Candidates per run (histogram)

Places and Pool Metrics:
  - tablepick_places_requests_total: Geoapify calls (counter)
    Labels: status
  - tablepick_places_request_duration_seconds: Geoapify latency (histogram)
  - tablepick_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - tablepick_circuit_breaker_transitions_total: State changes (counter)
    Labels: name, from, to
  - tablepick_pool_source_total: Pools served (counter)
    Labels: source (cache, live, snapshot, static)

Session Metrics:
  - tablepick_sessions_created_total (counter)
  - tablepick_votes_cast_total: Labels: type
  - tablepick_sessions_finalized_total: Labels: via (host, consensus)
  - tablepick_store_operation_duration_seconds, tablepick_store_operation_errors_total

Cache Metrics:
  - tablepick_cache_hits_total, tablepick_cache_misses_total,
    tablepick_cache_entries, tablepick_cache_evictions_total
    Labels: cache_type

# Usage

	start := time.Now()
	resp, err := engine.Recommend(ctx, req)
	metrics.RecordAPIRequest("POST", "/api/v1/recommendations", "200", time.Since(start))

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
