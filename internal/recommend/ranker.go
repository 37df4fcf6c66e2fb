// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"math"
	"math/rand"
	"sort"
)

// RankConfig parameterizes Rank.
type RankConfig struct {
	// TopK truncates the output. Zero or negative means 25.
	TopK int

	// TieBreak orders equal raw scores.
	TieBreak TieBreak

	// Rand is required for TieBreakRandom and ignored otherwise. Rank is not
	// safe for concurrent use with a shared Rand.
	Rand *rand.Rand

	// RatingMultiplier must match the scorer's, for normalization.
	RatingMultiplier float64
}

// Rank sorts results by raw score descending, breaks ties, truncates to
// TopK and sets each result's display Score. The input slice is reordered
// in place and a prefix of it is returned.
func Rank(results []Result, memberCount int, cfg RankConfig) []Result {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 25
	}

	switch cfg.TieBreak {
	case TieBreakRandom:
		if cfg.Rand == nil {
			cfg.Rand = rand.New(rand.NewSource(42)) //nolint:gosec // tie-break only
		}
		keys := make([]float64, len(results))
		for i := range keys {
			keys[i] = cfg.Rand.Float64()
		}
		sort.Sort(byScoreThenKey{results: results, keys: keys})
	case TieBreakNone:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].RawScore > results[j].RawScore
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].RawScore != results[j].RawScore {
				return results[i].RawScore > results[j].RawScore
			}
			return results[i].Candidate.ID < results[j].Candidate.ID
		})
	}

	if len(results) > topK {
		results = results[:topK]
	}

	maxRaw := MaxRawScore(memberCount, cfg.RatingMultiplier)
	for i := range results {
		results[i].Score = NormalizeScore(results[i].RawScore, maxRaw)
	}

	return results
}

// NormalizeScore rescales a raw score onto 0-100.
func NormalizeScore(raw, maxRaw float64) int {
	if maxRaw <= 0 {
		return 0
	}
	pct := raw / maxRaw * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(pct))
}

// byScoreThenKey sorts results and their random keys together.
type byScoreThenKey struct {
	results []Result
	keys    []float64
}

func (s byScoreThenKey) Len() int { return len(s.results) }

func (s byScoreThenKey) Less(i, j int) bool {
	if s.results[i].RawScore != s.results[j].RawScore {
		return s.results[i].RawScore > s.results[j].RawScore
	}
	return s.keys[i] < s.keys[j]
}

func (s byScoreThenKey) Swap(i, j int) {
	s.results[i], s.results[j] = s.results[j], s.results[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}
