// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package pool acquires the restaurant pool a recommendation run scores.
//
// LiveProvider queries the places API. FallbackProvider wraps it with the
// caller-side policy: an in-memory cache, then live, then the last good
// snapshot for the same area, then the static seed pool.
package pool

import (
	"context"
	"time"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// Source reports where a pool came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceSnapshot Source = "snapshot"
	SourceStatic   Source = "static"
)

// PoolQuery describes the area to search.
//
//nolint:revive // pool.PoolQuery reads naturally at call sites
type PoolQuery struct {
	Center   geo.Point `json:"center"`
	RadiusKm float64   `json:"radius_km"`
}

// PoolResult is an acquired pool.
//
//nolint:revive // see PoolQuery
type PoolResult struct {
	Candidates []recommend.Candidate `json:"candidates"`
	Source     Source                `json:"source"`
	FetchedAt  time.Time             `json:"fetched_at"`

	// Cached is true when the result was served from the in-memory cache.
	Cached bool `json:"cached"`
}

// clone copies the result so callers can modify candidates freely.
func (r *PoolResult) clone() *PoolResult {
	out := *r
	out.Candidates = append([]recommend.Candidate(nil), r.Candidates...)
	return &out
}

// Provider acquires a pool. Failures after all fallbacks wrap
// recommend.ErrPoolUnavailable.
type Provider interface {
	Pool(ctx context.Context, q PoolQuery) (*PoolResult, error)
}
