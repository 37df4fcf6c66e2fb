// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/places"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// PlacesFetcher is the subset of places.Client used by LiveProvider.
type PlacesFetcher interface {
	FetchNearby(ctx context.Context, center geo.Point) ([]places.Place, error)
}

// LiveProvider builds pools from the places API.
type LiveProvider struct {
	fetcher PlacesFetcher
	logger  zerolog.Logger
	now     func() time.Time
}

// NewLiveProvider creates a live provider.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLiveProvider(fetcher PlacesFetcher, logger zerolog.Logger) *LiveProvider {
	return &LiveProvider{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "pool_live").Logger(),
		now:     time.Now,
	}
}

// Pool fetches, maps, deduplicates, enriches and distance-filters places.
// Every failure wraps recommend.ErrPoolUnavailable.
func (p *LiveProvider) Pool(ctx context.Context, q PoolQuery) (*PoolResult, error) {
	found, err := p.fetcher.FetchNearby(ctx, q.Center)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recommend.ErrPoolUnavailable, err)
	}

	drafts := make([]places.Draft, 0, len(found))
	for i := range found {
		drafts = append(drafts, places.ToDraft(found[i]))
	}
	drafts = places.DedupDrafts(drafts)
	for i := range drafts {
		drafts[i] = places.Enrich(drafts[i], q.Center)
	}
	if q.RadiusKm > 0 {
		drafts = places.FilterByDistance(drafts, q.Center, q.RadiusKm)
	}

	candidates := make([]recommend.Candidate, 0, len(drafts))
	for i := range drafts {
		candidates = append(candidates, drafts[i].Candidate())
	}

	p.logger.Debug().
		Int("places", len(found)).
		Int("candidates", len(candidates)).
		Float64("radius_km", q.RadiusKm).
		Msg("live pool built")

	return &PoolResult{
		Candidates: candidates,
		Source:     SourceLive,
		FetchedAt:  p.now(),
	}, nil
}
