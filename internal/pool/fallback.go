// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package pool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablepick/internal/cache"
	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/metrics"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// Config controls the fallback policy.
type Config struct {
	// CacheTTL is how long a live pool is served from memory.
	// Default: 10m
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CellDegrees is the grid cell size used to key caches and snapshots.
	// Default: 0.01 (about 1.1 km)
	CellDegrees float64 `koanf:"cell_degrees"`

	// SnapshotTTL expires stored snapshots. Zero keeps them forever.
	// Default: 168h
	SnapshotTTL time.Duration `koanf:"snapshot_ttl"`

	// StaticFallback serves the seed pool when live and snapshot both fail.
	// Default: true
	StaticFallback bool `koanf:"static_fallback"`

	// DefaultRadiusKm is used when a query has no radius.
	// Default: 5
	DefaultRadiusKm float64 `koanf:"default_radius_km"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:        10 * time.Minute,
		CellDegrees:     0.01,
		SnapshotTTL:     7 * 24 * time.Hour,
		StaticFallback:  true,
		DefaultRadiusKm: 5,
	}
}

// FallbackProvider serves pools from cache, live, snapshot, then static.
type FallbackProvider struct {
	live      Provider
	cache     *cache.Cache[*PoolResult]
	snapshots SnapshotStore
	cfg       Config
	logger    zerolog.Logger
	now       func() time.Time
}

// NewFallbackProvider wires the chain. cache and snapshots may be nil to
// skip those stages.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFallbackProvider(live Provider, c *cache.Cache[*PoolResult], snapshots SnapshotStore, cfg Config, logger zerolog.Logger) *FallbackProvider {
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = DefaultConfig().DefaultRadiusKm
	}
	return &FallbackProvider{
		live:      live,
		cache:     c,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger.With().Str("component", "pool").Logger(),
		now:       time.Now,
	}
}

// Key identifies the area of a query: the grid cell of its center plus the
// radius rounded to 100 m.
func (p *FallbackProvider) Key(q PoolQuery) string {
	return fmt.Sprintf("%s:%.1f", geo.CellKey(q.Center, p.cfg.CellDegrees), math.Round(q.RadiusKm*10)/10)
}

// Pool acquires a pool. It only fails, with recommend.ErrPoolUnavailable,
// when live and snapshot fail and the static fallback is disabled.
func (p *FallbackProvider) Pool(ctx context.Context, q PoolQuery) (*PoolResult, error) {
	if q.RadiusKm <= 0 {
		q.RadiusKm = p.cfg.DefaultRadiusKm
	}
	key := p.Key(q)
	logger := p.logger.With().Str("pool_key", key).Logger()

	if p.cache != nil {
		if res, ok := p.cache.Get(key); ok {
			metrics.RecordPoolSource("cache")
			out := res.clone()
			out.Cached = true
			return out, nil
		}
	}

	res, err := p.live.Pool(ctx, q)
	if err == nil {
		metrics.RecordPoolSource(string(SourceLive))
		if p.snapshots != nil {
			if serr := p.snapshots.SaveSnapshot(ctx, key, res); serr != nil {
				logger.Warn().Err(serr).Msg("failed to save pool snapshot")
			}
		}
		if p.cache != nil {
			p.cache.Set(key, res.clone())
		}
		return res, nil
	}

	logger.Warn().Err(err).Msg("live pool unavailable, falling back")

	if p.snapshots != nil {
		snap, serr := p.snapshots.LoadSnapshot(ctx, key)
		switch {
		case serr == nil:
			metrics.RecordPoolSource(string(SourceSnapshot))
			snap.Source = SourceSnapshot
			snap.Cached = false
			return snap, nil
		case !errors.Is(serr, ErrSnapshotNotFound):
			logger.Warn().Err(serr).Msg("failed to load pool snapshot")
		}
	}

	if p.cfg.StaticFallback {
		metrics.RecordPoolSource(string(SourceStatic))
		return &PoolResult{
			Candidates: Static(),
			Source:     SourceStatic,
			FetchedAt:  p.now(),
		}, nil
	}

	if errors.Is(err, recommend.ErrPoolUnavailable) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", recommend.ErrPoolUnavailable, err)
}
