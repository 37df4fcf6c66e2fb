// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"fmt"

	"github.com/tomtom215/tablepick/internal/profile"
)

// Per-factor scoring constants. The maxima feed score normalization.
const (
	// CuisinePoints is awarded (or deducted) per cuisine weight point.
	CuisinePoints = 10

	// PriceSteps is the number of tier steps before the price score hits zero.
	PriceSteps = 3

	// PricePointsPerStep scales each remaining price step.
	PricePointsPerStep = 3

	// MaxDistancePoints is the base score of the closest distance bucket.
	MaxDistancePoints = 10

	// MaxRating is the top of the rating scale.
	MaxRating = 5.0

	maxCuisinePerMember  = CuisinePoints * profile.MaxWeight
	maxPricePerMember    = PriceSteps * PricePointsPerStep * profile.MaxWeight
	maxDistancePerMember = MaxDistancePoints * profile.MaxWeight
)

// TieBreak selects how equal raw scores are ordered.
type TieBreak string

const (
	// TieBreakID orders ties by candidate id ascending.
	TieBreakID TieBreak = "id"
	// TieBreakRandom orders ties by a draw from the engine's random source.
	TieBreakRandom TieBreak = "random"
	// TieBreakNone keeps ties in pool order.
	TieBreakNone TieBreak = "none"
)

// Valid reports whether t is a known tie-break mode.
func (t TieBreak) Valid() bool {
	switch t {
	case TieBreakID, TieBreakRandom, TieBreakNone:
		return true
	default:
		return false
	}
}

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Filter controls the hard filter.
	Filter FilterConfig `json:"filter" koanf:"filter"`

	// Scoring controls the per-factor scoring.
	Scoring ScoringConfig `json:"scoring" koanf:"scoring"`

	// Ranking controls ordering, truncation and normalization.
	Ranking RankingConfig `json:"ranking" koanf:"ranking"`
}

// FilterConfig contains hard filter parameters.
type FilterConfig struct {
	// CheckOpenNow excludes venues closed at the reference time.
	// Default: true
	CheckOpenNow bool `json:"check_open_now" koanf:"check_open_now"`
}

// ScoringConfig contains scoring parameters.
type ScoringConfig struct {
	// RatingMultiplier converts a 0-5 rating into bonus points.
	// Default: 5
	RatingMultiplier float64 `json:"rating_multiplier" koanf:"rating_multiplier"`

	// HighlyRatedThreshold is the rating from which a "highly rated" reason is emitted.
	// Default: 4.5
	HighlyRatedThreshold float64 `json:"highly_rated_threshold" koanf:"highly_rated_threshold"`

	// VeryCloseKm is the distance under which a "very close" reason is emitted.
	// Default: 2
	VeryCloseKm float64 `json:"very_close_km" koanf:"very_close_km"`

	// NeutralPriceTier substitutes for an unknown price tier.
	// Default: 2
	NeutralPriceTier int `json:"neutral_price_tier" koanf:"neutral_price_tier"`

	// ParallelThreshold is the pool size from which candidates are scored
	// concurrently.
	// Default: 256
	ParallelThreshold int `json:"parallel_threshold" koanf:"parallel_threshold"`

	// Workers bounds concurrent scoring goroutines.
	// Default: 4
	Workers int `json:"workers" koanf:"workers"`
}

// RankingConfig contains ranking parameters.
type RankingConfig struct {
	// TopK is the maximum number of results.
	// Default: 25
	TopK int `json:"top_k" koanf:"top_k"`

	// MaxK caps per-request TopK overrides.
	// Default: 100
	MaxK int `json:"max_k" koanf:"max_k"`

	// TieBreak is "id", "random" or "none".
	// Default: "id"
	TieBreak TieBreak `json:"tie_break" koanf:"tie_break"`

	// Seed seeds the random tie-break source. Zero uses 42.
	Seed int64 `json:"seed" koanf:"seed"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Filter: FilterConfig{
			CheckOpenNow: true,
		},
		Scoring: ScoringConfig{
			RatingMultiplier:     5,
			HighlyRatedThreshold: 4.5,
			VeryCloseKm:          2,
			NeutralPriceTier:     2,
			ParallelThreshold:    256,
			Workers:              4,
		},
		Ranking: RankingConfig{
			TopK:     25,
			MaxK:     100,
			TieBreak: TieBreakID,
			Seed:     42,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Scoring.RatingMultiplier < 0 {
		return fmt.Errorf("scoring.rating_multiplier must be non-negative, got %f", c.Scoring.RatingMultiplier)
	}
	if c.Scoring.HighlyRatedThreshold < 0 || c.Scoring.HighlyRatedThreshold > MaxRating {
		return fmt.Errorf("scoring.highly_rated_threshold must be in [0, 5], got %f", c.Scoring.HighlyRatedThreshold)
	}
	if c.Scoring.VeryCloseKm < 0 {
		return fmt.Errorf("scoring.very_close_km must be non-negative, got %f", c.Scoring.VeryCloseKm)
	}
	if c.Scoring.NeutralPriceTier < profile.MinPriceTier || c.Scoring.NeutralPriceTier > profile.MaxPriceTier {
		return fmt.Errorf("scoring.neutral_price_tier must be in [1, 4], got %d", c.Scoring.NeutralPriceTier)
	}
	if c.Scoring.ParallelThreshold < 1 {
		return fmt.Errorf("scoring.parallel_threshold must be positive, got %d", c.Scoring.ParallelThreshold)
	}
	if c.Scoring.Workers < 1 {
		return fmt.Errorf("scoring.workers must be positive, got %d", c.Scoring.Workers)
	}

	if c.Ranking.TopK < 1 {
		return fmt.Errorf("ranking.top_k must be positive, got %d", c.Ranking.TopK)
	}
	if c.Ranking.MaxK < c.Ranking.TopK {
		return fmt.Errorf("ranking.max_k must be >= ranking.top_k, got %d < %d", c.Ranking.MaxK, c.Ranking.TopK)
	}
	if !c.Ranking.TieBreak.Valid() {
		return fmt.Errorf("ranking.tie_break must be one of id, random, none, got %q", c.Ranking.TieBreak)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// MaxRawScore is the theoretical maximum raw score for a group of the given
// size: every member at maximum weight with a cuisine match, a perfect price
// and the closest distance bucket, plus a perfect rating.
func MaxRawScore(memberCount int, ratingMultiplier float64) float64 {
	if memberCount < 0 {
		memberCount = 0
	}
	perMember := float64(maxCuisinePerMember + maxPricePerMember + maxDistancePerMember)
	return float64(memberCount)*perMember + MaxRating*ratingMultiplier
}
