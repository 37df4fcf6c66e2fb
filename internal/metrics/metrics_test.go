// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Metrics are process-global, so tests assert on deltas and do not run in parallel.

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{"stateless recommendation", "POST", "/api/v1/recommendations", "200", 25 * time.Millisecond},
		{"session not found", "GET", "/api/v1/sessions/{id}", "404", 2 * time.Millisecond},
		{"invalid vote", "POST", "/api/v1/sessions/{id}/votes", "400", time.Millisecond},
		{"pool unavailable", "GET", "/api/v1/pool", "503", 10 * time.Second},
		{"rate limited", "POST", "/api/v1/sessions", "429", time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode)
			before := testutil.ToFloat64(counter)

			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("request counter delta = %v, want 1", got)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 2 {
		t.Errorf("active delta after two starts = %v, want 2", got)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestRecordRecommendRun(t *testing.T) {
	for _, outcome := range []string{"success", "empty", "invalid"} {
		counter := RecommendRuns.WithLabelValues(outcome)
		before := testutil.ToFloat64(counter)

		RecordRecommendRun(outcome, 3*time.Millisecond, 30)

		if got := testutil.ToFloat64(counter) - before; got != 1 {
			t.Errorf("%s delta = %v, want 1", outcome, got)
		}
	}
}

func TestRecordCandidateExcluded(t *testing.T) {
	for _, reason := range []string{"closed", "allergen", "dietary", "budget", "distance"} {
		counter := RecommendCandidatesExcluded.WithLabelValues(reason)
		before := testutil.ToFloat64(counter)

		RecordCandidateExcluded(reason)
		RecordCandidateExcluded(reason)

		if got := testutil.ToFloat64(counter) - before; got != 2 {
			t.Errorf("%s delta = %v, want 2", reason, got)
		}
	}
}

func TestRecordPlacesRequest(t *testing.T) {
	counter := PlacesRequests.WithLabelValues("http_error")
	before := testutil.ToFloat64(counter)

	RecordPlacesRequest("http_error", 120*time.Millisecond)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	name := "geoapify_test"

	RecordCircuitBreakerTransition(name, "closed", "open", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues(name)); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}

	RecordCircuitBreakerTransition(name, "open", "half-open", 1)
	RecordCircuitBreakerTransition(name, "half-open", "closed", 0)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues(name)); got != 0 {
		t.Errorf("state = %v, want 0", got)
	}
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues(name, "closed", "open")); got != 1 {
		t.Errorf("closed->open transitions = %v, want 1", got)
	}
}

func TestSessionMetrics(t *testing.T) {
	created := testutil.ToFloat64(SessionsCreated)
	approvals := testutil.ToFloat64(VotesCast.WithLabelValues("approve"))
	viaConsensus := testutil.ToFloat64(SessionsFinalized.WithLabelValues("consensus"))

	RecordSessionCreated()
	RecordVote("approve")
	RecordVote("approve")
	RecordSessionFinalized("consensus")

	if got := testutil.ToFloat64(SessionsCreated) - created; got != 1 {
		t.Errorf("created delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(VotesCast.WithLabelValues("approve")) - approvals; got != 2 {
		t.Errorf("approve delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(SessionsFinalized.WithLabelValues("consensus")) - viaConsensus; got != 1 {
		t.Errorf("finalized delta = %v, want 1", got)
	}
}

func TestRecordStoreOperation_ErrorTruncation(t *testing.T) {
	long := errors.New(strings.Repeat("x", 80))
	RecordStoreOperation("badger_test", "get_session", time.Millisecond, long)

	label := strings.Repeat("x", maxErrorLabel)
	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("badger_test", "get_session", label)); got != 1 {
		t.Errorf("truncated error counter = %v, want 1", got)
	}

	// Successful operations only observe duration.
	RecordStoreOperation("badger_test", "put_member", time.Millisecond, nil)
}

func TestCacheMetrics(t *testing.T) {
	cacheType := "pool_test"

	RecordCacheHit(cacheType)
	RecordCacheMiss(cacheType)
	UpdateCacheStats(cacheType, 7, 3)
	UpdateCacheStats(cacheType, 4, 0)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues(cacheType)); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues(cacheType)); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheSize.WithLabelValues(cacheType)); got != 4 {
		t.Errorf("entries = %v, want 4", got)
	}
	if got := testutil.ToFloat64(CacheEvictions.WithLabelValues(cacheType)); got != 3 {
		t.Errorf("evictions = %v, want 3", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	counter := PoolSource.WithLabelValues("static")
	before := testutil.ToFloat64(counter)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordPoolSource("static")
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(counter) - before; got != 50 {
		t.Errorf("pool source delta = %v, want 50", got)
	}
}

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		RecommendRuns,
		RecommendDuration,
		RecommendCandidatesExcluded,
		RecommendPoolSize,
		PlacesRequests,
		PlacesRequestDuration,
		CircuitBreakerState,
		CircuitBreakerTransitions,
		PoolSource,
		SessionsCreated,
		VotesCast,
		SessionsFinalized,
		StoreOperationDuration,
		StoreOperationErrors,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheEvictions,
		AppInfo,
		AppUptime,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for d := range ch {
			if !strings.Contains(d.String(), "tablepick_") {
				t.Errorf("metric %s is missing the tablepick_ prefix", d)
			}
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

func TestMetricGathering(t *testing.T) {
	RecordRecommendRun("success", time.Millisecond, 10)
	RecordAPIRequest("GET", "/health/live", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("POST", "/api/v1/recommendations", "200", 25*time.Millisecond)
	}
}

func BenchmarkRecordRecommendRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordRecommendRun("success", time.Millisecond, 30)
	}
}
