// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/tomtom215/tablepick/internal/profile"
)

func rawResults(scores map[string]float64, order []string) []Result {
	out := make([]Result, 0, len(order))
	for _, id := range order {
		out = append(out, Result{Candidate: Candidate{ID: id}, RawScore: scores[id]})
	}
	return out
}

func resultIDs(rs []Result) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].Candidate.ID
	}
	return out
}

func TestRank_SortsDescendingWithIDTieBreak(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{"a": 10, "b": 30, "c": 20, "d": 30}
	got := Rank(rawResults(scores, []string{"d", "a", "c", "b"}), 1, RankConfig{TieBreak: TieBreakID, RatingMultiplier: 5})

	if want := []string{"b", "d", "c", "a"}; !equalStrings(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

func TestRank_NoTieBreakKeepsInputOrder(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{"x": 5, "y": 5, "z": 5}
	got := Rank(rawResults(scores, []string{"z", "x", "y"}), 1, RankConfig{TieBreak: TieBreakNone})

	if want := []string{"z", "x", "y"}; !equalStrings(resultIDs(got), want) {
		t.Errorf("order = %v, want %v", resultIDs(got), want)
	}
}

func TestRank_RandomTieBreakIsSeededAndOnlyAffectsTies(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{"top": 100, "t1": 50, "t2": 50, "t3": 50, "t4": 50, "low": 1}
	order := []string{"low", "t1", "t2", "top", "t3", "t4"}

	run := func(seed int64) []string {
		cfg := RankConfig{TieBreak: TieBreakRandom, Rand: rand.New(rand.NewSource(seed))} //nolint:gosec
		return resultIDs(Rank(rawResults(scores, order), 1, cfg))
	}

	first := run(7)
	if !equalStrings(first, run(7)) {
		t.Errorf("same seed produced different orders: %v vs %v", first, run(7))
	}
	if first[0] != "top" || first[len(first)-1] != "low" {
		t.Errorf("random tie-break moved non-tied results: %v", first)
	}

	// Some seed must produce a different tie order.
	differs := false
	for seed := int64(1); seed < 50 && !differs; seed++ {
		differs = !equalStrings(first, run(seed))
	}
	if !differs {
		t.Error("random tie-break never changed the order of tied results")
	}
}

func TestRank_TruncatesToTopK(t *testing.T) {
	t.Parallel()

	results := make([]Result, 40)
	for i := range results {
		results[i] = Result{Candidate: Candidate{ID: fmt.Sprintf("r%02d", i)}, RawScore: float64(i)}
	}

	got := Rank(results, 1, RankConfig{RatingMultiplier: 5})
	if len(got) != 25 {
		t.Fatalf("len = %d, want default 25", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].RawScore < got[i].RawScore {
			t.Fatalf("not sorted at %d: %v < %v", i, got[i-1].RawScore, got[i].RawScore)
		}
	}

	if got := Rank(results, 1, RankConfig{TopK: 3}); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestNormalizeScore(t *testing.T) {
	t.Parallel()

	max1 := MaxRawScore(1, 5)
	if max1 != 315 {
		t.Fatalf("MaxRawScore(1, 5) = %v, want 315", max1)
	}

	tests := []struct {
		raw, max float64
		want     int
	}{
		{165, 315, 52},
		{85, 315, 27},
		{315, 315, 100},
		{400, 315, 100},
		{-50, 315, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := NormalizeScore(tt.raw, tt.max); got != tt.want {
			t.Errorf("NormalizeScore(%v, %v) = %d, want %d", tt.raw, tt.max, got, tt.want)
		}
	}

	if got := MaxRawScore(0, 5); got != 25 {
		t.Errorf("MaxRawScore(0, 5) = %v, want 25", got)
	}
	if got := MaxRawScore(10, 5); got != 2925 {
		t.Errorf("MaxRawScore(10, 5) = %v, want 2925", got)
	}
}

func TestRank_ScoreBoundAcrossGroupSizes(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 2, 10} {
		t.Run(fmt.Sprintf("members=%d", size), func(t *testing.T) {
			t.Parallel()

			fans := make([]profile.UserProfile, size)
			haters := make([]profile.UserProfile, size)
			for i := range fans {
				fans[i] = member([]string{"Italian"}, []int{2}, 10, 10, 10)
				haters[i] = member(nil, []int{4}, 10, 10, 1)
				haters[i].Soft.DislikedCuisines = []string{"italian"}
			}

			best := candidate("best", []string{"Italian"}, 2, 5, north(0.1))
			worst := candidate("worst", []string{"Italian"}, 1, 0, north(50))

			scorer := newTestScorer()
			for _, group := range [][]profile.UserProfile{fans, haters} {
				scored := scorer.Score([]Candidate{best, worst}, group, defaultGroupContext())
				for _, r := range Rank(scored, size, RankConfig{RatingMultiplier: 5}) {
					if r.Score < 0 || r.Score > 100 {
						t.Errorf("%s score %d out of [0,100]", r.Candidate.ID, r.Score)
					}
				}
			}

			scored := scorer.Score([]Candidate{best}, fans, defaultGroupContext())
			if got := Rank(scored, size, RankConfig{RatingMultiplier: 5})[0].Score; got != 100 {
				t.Errorf("perfect candidate score = %d, want 100", got)
			}
		})
	}
}
