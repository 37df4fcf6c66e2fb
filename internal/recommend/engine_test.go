// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablepick/internal/hours"
	"github.com/tomtom215/tablepick/internal/profile"
)

func newTestEngine(t *testing.T, cfg *Config, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithMetrics(false)}, opts...)
	e, err := NewEngine(cfg, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative rating multiplier", func(c *Config) { c.Scoring.RatingMultiplier = -1 }, true},
		{"threshold above scale", func(c *Config) { c.Scoring.HighlyRatedThreshold = 6 }, true},
		{"neutral tier out of range", func(c *Config) { c.Scoring.NeutralPriceTier = 5 }, true},
		{"zero workers", func(c *Config) { c.Scoring.Workers = 0 }, true},
		{"zero top k", func(c *Config) { c.Ranking.TopK = 0 }, true},
		{"max k below top k", func(c *Config) { c.Ranking.MaxK = 10 }, true},
		{"unknown tie break", func(c *Config) { c.Ranking.TieBreak = "coin" }, true},
		{"random tie break", func(c *Config) { c.Ranking.TieBreak = TieBreakRandom }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			_, err := NewEngine(cfg, zerolog.Nop(), WithMetrics(false))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewEngine(nil, zerolog.Nop(), WithMetrics(false)); err != nil {
		t.Errorf("NewEngine(nil) error = %v", err)
	}
}

func TestEngine_ConfigIsCopied(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	e := newTestEngine(t, cfg)
	cfg.Ranking.TopK = 1

	if e.Config().Ranking.TopK != 25 {
		t.Error("engine shares config with caller")
	}
}

func TestEngine_Recommend_EndToEnd(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	italian := candidate("italian", []string{"Italian"}, 2, 4.0, north(0.4))
	mexican := candidate("mexican", []string{"Mexican"}, 4, 4.0, north(0.6))

	resp, err := e.Recommend(context.Background(), Request{
		Profiles: []profile.UserProfile{member([]string{"Italian"}, []int{2}, 5, 5, 5)},
		Pool:     []Candidate{mexican, italian},
		Context:  defaultGroupContext(),
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	first, second := resp.Results[0], resp.Results[1]
	if first.Candidate.ID != "italian" || second.Candidate.ID != "mexican" {
		t.Fatalf("order = [%s %s], want [italian mexican]", first.Candidate.ID, second.Candidate.ID)
	}

	// 50 cuisine + 45 price + 50 distance + 20 rating
	if first.RawScore != 165 {
		t.Errorf("italian raw = %v, want 165", first.RawScore)
	}
	// 0 cuisine + 15 price + 50 distance + 20 rating
	if second.RawScore != 85 {
		t.Errorf("mexican raw = %v, want 85", second.RawScore)
	}
	if first.Score != 52 || second.Score != 27 {
		t.Errorf("scores = %d, %d; want 52, 27", first.Score, second.Score)
	}
	if !hasReason(first, "Matches group preference for Italian") || !hasReason(first, ReasonPerfectPrice) {
		t.Errorf("italian reasons = %q", first.Reasons)
	}
	for _, r := range second.Reasons {
		if r == "Matches group preference for Mexican" {
			t.Error("mexican should have no cuisine reason")
		}
	}
	if second.Breakdown.Price >= first.Breakdown.Price {
		t.Errorf("mexican price %v should be below italian %v", second.Breakdown.Price, first.Breakdown.Price)
	}

	md := resp.Metadata
	if md.RequestID == "" || md.PoolSize != 2 || md.Eligible != 2 || md.MemberCount != 1 || md.TieBreak != "id" {
		t.Errorf("metadata = %+v", md)
	}
}

func TestEngine_Recommend_EmptyInputs(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	ctx := context.Background()

	resp, err := e.Recommend(ctx, Request{Profiles: []profile.UserProfile{profile.Default()}, Context: defaultGroupContext()})
	if err != nil {
		t.Fatalf("empty pool error = %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("empty pool results = %v, want empty slice", resp.Results)
	}

	pool := []Candidate{candidate("a", nil, 2, 4, nil), candidate("b", nil, 3, 4.6, nil)}
	resp, err = e.Recommend(ctx, Request{Pool: pool, Context: defaultGroupContext()})
	if err != nil {
		t.Fatalf("no profiles error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("no profiles kept %d, want 2 (unfiltered)", len(resp.Results))
	}
	if resp.Results[0].Candidate.ID != "b" {
		t.Errorf("no profiles should rank by rating, got %s first", resp.Results[0].Candidate.ID)
	}
}

func TestEngine_Recommend_OpenNow(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	closed := candidate("closed", nil, 2, 4, nil)
	closed.OpenHours = hours.ParseString("06:00-14:00")
	unknown := candidate("unknown", nil, 2, 4, nil)
	unknown.OpenHours = hours.Parse(nil)

	req := Request{
		Profiles: []profile.UserProfile{profile.Default()},
		Pool:     []Candidate{closed, unknown},
		Context:  defaultGroupContext(),
	}

	resp, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := resultIDs(resp.Results); !equalStrings(got, []string{"unknown"}) {
		t.Errorf("results = %v, want [unknown]", got)
	}
	if resp.Metadata.Excluded["closed"] != 1 {
		t.Errorf("excluded = %v, want closed:1", resp.Metadata.Excluded)
	}

	req.CheckOpenNow = ptrBool(false)
	resp, err = e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("override disabled open-now but got %d results", len(resp.Results))
	}
}

func TestEngine_Recommend_RequiresReferenceTime(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	_, err := e.Recommend(context.Background(), Request{
		Pool:    []Candidate{candidate("a", nil, 2, 4, nil)},
		Context: GroupContext{Location: &testCenter},
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
	if _, errs := e.Stats(); errs != 1 {
		t.Errorf("error count = %d, want 1", errs)
	}
}

func TestEngine_Recommend_CanceledContext(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Recommend(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEngine_Recommend_TopKOverrideIsCapped(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Ranking.TopK = 5
	cfg.Ranking.MaxK = 8
	e := newTestEngine(t, cfg)

	pool := make([]Candidate, 20)
	for i := range pool {
		pool[i] = candidate(fmt.Sprintf("c%02d", i), nil, 2, float64(i%5), nil)
	}

	for _, tt := range []struct{ topK, want int }{{0, 5}, {3, 3}, {50, 8}} {
		resp, err := e.Recommend(context.Background(), Request{Pool: pool, Context: defaultGroupContext(), TopK: tt.topK})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(resp.Results) != tt.want {
			t.Errorf("TopK %d returned %d, want %d", tt.topK, len(resp.Results), tt.want)
		}
	}
}

func TestEngine_Recommend_DeterministicWithInjectedRand(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Ranking.TieBreak = TieBreakRandom

	pool := make([]Candidate, 10)
	for i := range pool {
		pool[i] = candidate(fmt.Sprintf("tie%d", i), nil, 2, 4, nil)
	}
	req := Request{Pool: pool, Context: defaultGroupContext()}

	run := func() []string {
		e := newTestEngine(t, cfg, WithRand(rand.New(rand.NewSource(99)))) //nolint:gosec
		resp, err := e.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		return resultIDs(resp.Results)
	}

	if a, b := run(), run(); !equalStrings(a, b) {
		t.Errorf("same seed gave different orders:\n%v\n%v", a, b)
	}
}

func TestEngine_Recommend_Concurrent(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Ranking.TieBreak = TieBreakRandom
	e := newTestEngine(t, cfg)

	pool := []Candidate{candidate("a", nil, 2, 4, nil), candidate("b", nil, 2, 4, nil)}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Recommend(context.Background(), Request{Pool: pool, Context: defaultGroupContext()}); err != nil {
				t.Errorf("Recommend() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if reqs, _ := e.Stats(); reqs != 20 {
		t.Errorf("request count = %d, want 20", reqs)
	}
}

func TestEngine_Recommend_LatencyUsesInjectedClock(t *testing.T) {
	t.Parallel()

	ticks := []time.Time{testNow, testNow.Add(30 * time.Millisecond)}
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return now
	}

	e := newTestEngine(t, nil, WithClock(clock))
	resp, err := e.Recommend(context.Background(), Request{Context: defaultGroupContext()})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Metadata.LatencyMS != 30 {
		t.Errorf("LatencyMS = %d, want 30", resp.Metadata.LatencyMS)
	}
}
