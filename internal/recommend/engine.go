// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tablepick/internal/metrics"
)

// Engine runs the aggregate, filter, score and rank pipeline.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	scorer *Scorer

	// Random source for the random tie-break (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex

	recordMetrics bool
	clock         func() time.Time

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source used by the random tie-break.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithMetrics toggles Prometheus recording. Enabled by default.
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		e.recordMetrics = enabled
	}
}

// WithClock sets the clock used for latency and response timestamps. It is
// never used as the scoring reference time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Ranking.Seed
	if seed == 0 {
		seed = 42
	}

	e := &Engine{
		config:        cfg.Clone(),
		logger:        logger.With().Str("component", "recommend").Logger(),
		scorer:        NewScorer(cfg.Scoring),
		rng:           rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for tie-breaking
		recordMetrics: true,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend ranks the request's pool for the request's group.
//
// An empty pool yields an empty result. The context is only consulted
// before the run starts; the computation itself is not interruptible.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := e.clock()
	e.requestCount.Add(1)

	req, checkOpen := e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("members", len(req.Profiles)).
		Int("pool", len(req.Pool)).
		Logger()

	if checkOpen && req.Context.Now.IsZero() {
		e.errorCount.Add(1)
		e.observe("invalid", start, len(req.Pool))
		return nil, fmt.Errorf("%w: open-now check requires a reference time", ErrInvalidRequest)
	}

	if len(req.Pool) == 0 {
		logger.Debug().Msg("empty pool")
		e.observe("empty", start, 0)
		return e.buildResponse(req, nil, nil, checkOpen, start), nil
	}

	constraints := Aggregate(req.Profiles)
	eligible, excluded := Filter(req.Pool, constraints, FilterOptions{
		CheckOpenNow:     checkOpen,
		Now:              req.Context.Now,
		Reference:        req.Context.Location,
		NeutralPriceTier: e.config.Scoring.NeutralPriceTier,
	})

	scored := e.scorer.Score(eligible, req.Profiles, req.Context)
	ranked := e.rank(scored, len(req.Profiles), req.TopK)

	resp := e.buildResponse(req, ranked, excluded, checkOpen, start)
	e.observe("success", start, len(req.Pool))
	if e.recordMetrics {
		for _, ex := range excluded {
			metrics.RecordCandidateExcluded(ex.Reason.String())
		}
	}

	logger.Debug().
		Strs("allergies", constraints.AllergyList()).
		Strs("dietary", constraints.DietaryList()).
		Int("eligible", len(eligible)).
		Int("excluded", len(excluded)).
		Int("returned", len(ranked)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and resolves the open-now flag.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, bool) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.TopK <= 0 {
		req.TopK = e.config.Ranking.TopK
	}
	if req.TopK > e.config.Ranking.MaxK {
		req.TopK = e.config.Ranking.MaxK
	}

	checkOpen := e.config.Filter.CheckOpenNow
	if req.CheckOpenNow != nil {
		checkOpen = *req.CheckOpenNow
	}
	return req, checkOpen
}

func (e *Engine) rank(results []Result, memberCount, topK int) []Result {
	cfg := RankConfig{
		TopK:             topK,
		TieBreak:         e.config.Ranking.TieBreak,
		RatingMultiplier: e.config.Scoring.RatingMultiplier,
	}
	if cfg.TieBreak != TieBreakRandom {
		return Rank(results, memberCount, cfg)
	}

	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	cfg.Rand = e.rng
	return Rank(results, memberCount, cfg)
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, ranked []Result, excluded []Exclusion, checkOpen bool, start time.Time) *Response {
	if ranked == nil {
		ranked = []Result{}
	}
	var byReason map[string]int
	if len(excluded) > 0 {
		byReason = make(map[string]int)
		for _, ex := range excluded {
			byReason[ex.Reason.String()]++
		}
	}

	now := e.clock()
	return &Response{
		Results: ranked,
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			PoolSize:     len(req.Pool),
			Eligible:     len(req.Pool) - len(excluded),
			Excluded:     byReason,
			MemberCount:  len(req.Profiles),
			CheckOpenNow: checkOpen,
			TieBreak:     string(e.config.Ranking.TieBreak),
			LatencyMS:    now.Sub(start).Milliseconds(),
			Timestamp:    now,
		},
	}
}

func (e *Engine) observe(outcome string, start time.Time, poolSize int) {
	if !e.recordMetrics {
		return
	}
	metrics.RecordRecommendRun(outcome, e.clock().Sub(start), poolSize)
}

// Stats returns request and error counters since creation.
func (e *Engine) Stats() (requests, errors int64) {
	return e.requestCount.Load(), e.errorCount.Load()
}
