// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tomtom215/tablepick/internal/profile"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultConfig().Scoring)
}

func scoreOne(t *testing.T, c Candidate, profiles []profile.UserProfile, gc GroupContext) Result {
	t.Helper()
	results := newTestScorer().Score([]Candidate{c}, profiles, gc)
	if len(results) != 1 {
		t.Fatalf("Score returned %d results, want 1", len(results))
	}
	return results[0]
}

func hasReason(r Result, reason string) bool {
	for _, got := range r.Reasons {
		if got == reason {
			return true
		}
	}
	return false
}

func TestScore_Cuisine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		liked      []string
		disliked   []string
		cuisines   []string
		wantScore  float64
		wantReason string
	}{
		{"liked match", []string{"Italian"}, nil, []string{"Italian", "Pizza"}, 50, "Matches group preference for Italian"},
		{"plural and prefix", []string{"burger"}, nil, []string{"American", "Burgers"}, 50, "Matches group preference for Burgers"},
		{"multiple matched cuisines", []string{"pizza", "italian"}, nil, []string{"Italian", "Pizza"}, 50, "Matches group preference for Italian, Pizza"},
		{"disliked only", nil, []string{"Mexican"}, []string{"Mexican"}, -50, ""},
		{"liked and disliked both apply", []string{"Tacos"}, []string{"Mexican"}, []string{"Mexican", "Tacos"}, 0, "Matches group preference for Tacos"},
		{"no match", []string{"Thai"}, nil, []string{"Italian"}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := member(tt.liked, nil, 5, 5, 5)
			m.Soft.DislikedCuisines = tt.disliked
			c := candidate("c", tt.cuisines, 2, 0, nil)

			r := scoreOne(t, c, []profile.UserProfile{m}, GroupContext{})

			if r.Breakdown.Cuisine != tt.wantScore {
				t.Errorf("cuisine = %v, want %v", r.Breakdown.Cuisine, tt.wantScore)
			}
			if tt.wantReason != "" && !hasReason(r, tt.wantReason) {
				t.Errorf("reasons = %q, want %q", r.Reasons, tt.wantReason)
			}
			if tt.wantReason == "" {
				for _, reason := range r.Reasons {
					if strings.HasPrefix(reason, "Matches group preference") {
						t.Errorf("unexpected cuisine reason %q", reason)
					}
				}
			}
		})
	}
}

func TestScore_CuisineWeightMonotonic(t *testing.T) {
	t.Parallel()

	c := candidate("c", []string{"Sushi"}, 2, 4, nil)
	prev := -1.0
	for w := profile.MinWeight; w <= profile.MaxWeight; w++ {
		r := scoreOne(t, c, []profile.UserProfile{member([]string{"sushi"}, nil, w, 5, 5)}, GroupContext{})
		if r.Breakdown.Cuisine < prev {
			t.Fatalf("cuisine score decreased at weight %d: %v < %v", w, r.Breakdown.Cuisine, prev)
		}
		if r.Breakdown.Cuisine <= prev {
			t.Errorf("cuisine score did not increase at weight %d", w)
		}
		prev = r.Breakdown.Cuisine
	}
}

func TestScore_Price(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tier    int
		targets []int
		weight  int
		want    float64
	}{
		{"perfect match is maximal", 2, []int{2}, 5, 3 * 3 * 5},
		{"perfect match max weight", 3, []int{1, 3}, 10, 90},
		{"one tier off", 3, []int{2}, 5, 2 * 3 * 5},
		{"two tiers off", 4, []int{2}, 5, 1 * 3 * 5},
		{"three tiers off scores zero", 4, []int{1}, 5, 0},
		{"no targets counts as minDiff 0", 4, nil, 5, 45},
		{"unknown tier uses neutral 2", 0, []int{2}, 5, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := candidate("c", nil, tt.tier, 0, nil)
			r := scoreOne(t, c, []profile.UserProfile{member(nil, tt.targets, 5, tt.weight, 5)}, GroupContext{})
			if r.Breakdown.Price != tt.want {
				t.Errorf("price = %v, want %v", r.Breakdown.Price, tt.want)
			}
		})
	}
}

func TestScore_PriceReasons(t *testing.T) {
	t.Parallel()

	c := candidate("c", nil, 2, 0, nil)

	all := scoreOne(t, c, []profile.UserProfile{
		member(nil, []int{2}, 5, 5, 5),
		member(nil, []int{1, 2}, 5, 5, 5),
	}, GroupContext{})
	if !hasReason(all, ReasonPerfectPrice) || hasReason(all, ReasonSomePrice) {
		t.Errorf("all matching reasons = %q", all.Reasons)
	}

	some := scoreOne(t, c, []profile.UserProfile{
		member(nil, []int{2}, 5, 5, 5),
		member(nil, []int{4}, 5, 5, 5),
	}, GroupContext{})
	if !hasReason(some, ReasonSomePrice) || hasReason(some, ReasonPerfectPrice) {
		t.Errorf("some matching reasons = %q", some.Reasons)
	}

	// A member without targets is never a perfect match.
	noTargets := scoreOne(t, c, []profile.UserProfile{
		member(nil, []int{2}, 5, 5, 5),
		member(nil, nil, 5, 5, 5),
	}, GroupContext{})
	if !hasReason(noTargets, ReasonSomePrice) {
		t.Errorf("member without targets reasons = %q", noTargets.Reasons)
	}

	none := scoreOne(t, c, []profile.UserProfile{member(nil, nil, 5, 5, 5)}, GroupContext{})
	if hasReason(none, ReasonSomePrice) || hasReason(none, ReasonPerfectPrice) {
		t.Errorf("no targets reasons = %q", none.Reasons)
	}
}

func TestDistancePoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		km   float64
		want int
	}{
		{0, 10}, {0.99, 10}, {1, 8}, {2.99, 8}, {3, 6}, {4.99, 6}, {5, 4}, {9.99, 4}, {10, 1}, {250, 1},
	}
	for _, tt := range tests {
		if got := DistancePoints(tt.km); got != tt.want {
			t.Errorf("DistancePoints(%v) = %d, want %d", tt.km, got, tt.want)
		}
	}
}

func TestScore_DistanceMonotonicDecay(t *testing.T) {
	t.Parallel()

	m := []profile.UserProfile{member(nil, nil, 5, 5, 7)}
	prev := 1e9
	for _, km := range []float64{0.2, 0.9, 1.5, 2.5, 3.5, 6, 9, 12, 40} {
		r := scoreOne(t, candidate("c", nil, 2, 0, north(km)), m, defaultGroupContext())
		if r.Breakdown.Distance > prev {
			t.Errorf("distance score rose at %v km: %v > %v", km, r.Breakdown.Distance, prev)
		}
		prev = r.Breakdown.Distance
	}
}

func TestScore_Distance(t *testing.T) {
	t.Parallel()

	group := []profile.UserProfile{member(nil, nil, 5, 5, 4), member(nil, nil, 5, 5, 6)}

	near := scoreOne(t, candidate("near", nil, 2, 0, north(0.5)), group, defaultGroupContext())
	if near.Breakdown.Distance != 10*4+10*6 {
		t.Errorf("near distance = %v, want 100", near.Breakdown.Distance)
	}
	if !hasReason(near, ReasonVeryClose) {
		t.Errorf("near reasons = %q, want very close", near.Reasons)
	}
	if near.DistanceKm == nil {
		t.Error("near.DistanceKm should be resolved")
	}

	mid := scoreOne(t, candidate("mid", nil, 2, 0, north(2.5)), group, defaultGroupContext())
	if mid.Breakdown.Distance != 8*10 || hasReason(mid, ReasonVeryClose) {
		t.Errorf("mid distance = %v reasons %q", mid.Breakdown.Distance, mid.Reasons)
	}

	// Missing geometry contributes zero instead of failing the run.
	noLoc := scoreOne(t, candidate("noloc", nil, 2, 0, nil), group, defaultGroupContext())
	if noLoc.Breakdown.Distance != 0 || noLoc.DistanceKm != nil {
		t.Errorf("no location distance = %v", noLoc.Breakdown.Distance)
	}

	// Without a group location the precomputed distance is used.
	pre := candidate("pre", nil, 2, 0, north(20))
	pre.DistanceKm = ptrFloat(1.2)
	r := scoreOne(t, pre, group, GroupContext{Now: testNow})
	if r.Breakdown.Distance != 8*10 {
		t.Errorf("precomputed distance score = %v, want 80", r.Breakdown.Distance)
	}
}

func TestScore_Rating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating     *float64
		wantBonus  float64
		wantReason string
	}{
		{ptrFloat(4.0), 20, ""},
		{ptrFloat(4.5), 22.5, "Highly rated (4.5 stars)"},
		{ptrFloat(5), 25, "Highly rated (5 stars)"},
		{ptrFloat(50), 25, "Highly rated (5 stars)"},
		{ptrFloat(-3), 0, ""},
		{nil, 0, ""},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.rating != nil {
			name = fmt.Sprint(*tt.rating)
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := candidate("c", nil, 2, 0, nil)
			c.Rating = tt.rating
			r := scoreOne(t, c, nil, GroupContext{})
			if r.Breakdown.Rating != tt.wantBonus {
				t.Errorf("rating bonus = %v, want %v", r.Breakdown.Rating, tt.wantBonus)
			}
			if tt.wantReason != "" && !hasReason(r, tt.wantReason) {
				t.Errorf("reasons = %q, want %q", r.Reasons, tt.wantReason)
			}
		})
	}
}

func TestScore_VerifyManuallyReason(t *testing.T) {
	t.Parallel()

	unknown := Candidate{ID: "u", Name: "Unknown", Cuisines: []string{"thai"}}
	known := candidate("k", []string{"thai"}, 2, 0, nil)

	vegan := member(nil, nil, 5, 5, 5)
	vegan.Hard.Dietary = []string{"vegan"}
	relaxed := member(nil, nil, 5, 5, 5)

	if r := scoreOne(t, unknown, []profile.UserProfile{vegan}, GroupContext{}); !hasReason(r, ReasonVerifyDietary) {
		t.Errorf("unknown data with constraints reasons = %q, want verify", r.Reasons)
	}
	if r := scoreOne(t, unknown, []profile.UserProfile{relaxed}, GroupContext{}); hasReason(r, ReasonVerifyDietary) {
		t.Error("verify reason emitted without group constraints")
	}
	if r := scoreOne(t, known, []profile.UserProfile{vegan}, GroupContext{}); hasReason(r, ReasonVerifyDietary) {
		t.Error("verify reason emitted for candidate with data")
	}
}

func TestScore_ExplanationAndBreakdown(t *testing.T) {
	t.Parallel()

	c := candidate("c", []string{"Italian"}, 2, 4.8, north(0.3))
	r := scoreOne(t, c, []profile.UserProfile{member([]string{"italian"}, []int{2}, 5, 5, 5)}, defaultGroupContext())

	want := "• Matches group preference for Italian\n• Perfect price match for everyone\n• Very close to you\n• Highly rated (4.8 stars)"
	if r.Explanation != want {
		t.Errorf("explanation =\n%s\nwant\n%s", r.Explanation, want)
	}
	if !r.Breakdown.HardPass || r.Breakdown.Consensus != 0 {
		t.Errorf("breakdown flags = %+v", r.Breakdown)
	}
	if r.RawScore != r.Breakdown.Total() {
		t.Errorf("RawScore %v != breakdown total %v", r.RawScore, r.Breakdown.Total())
	}

	plain := scoreOne(t, candidate("p", nil, 2, 3, nil), nil, GroupContext{})
	if plain.Explanation != FallbackExplanation {
		t.Errorf("fallback explanation = %q", plain.Explanation)
	}
	if plain.Reasons == nil {
		t.Error("Reasons should be an empty slice, not nil")
	}
}

func TestScore_ReasonsDeduplicated(t *testing.T) {
	t.Parallel()

	c := candidate("c", []string{"Italian"}, 2, 0, nil)
	group := []profile.UserProfile{
		member([]string{"Italian"}, nil, 5, 5, 5),
		member([]string{"italian"}, nil, 5, 5, 5),
	}
	r := scoreOne(t, c, group, GroupContext{})
	if len(r.Reasons) != 1 {
		t.Errorf("reasons = %q, want one cuisine reason", r.Reasons)
	}
	if r.Breakdown.Cuisine != 100 {
		t.Errorf("cuisine = %v, want 100 (summed across members)", r.Breakdown.Cuisine)
	}
}

func TestScore_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	pool := make([]Candidate, 600)
	for i := range pool {
		cuisine := []string{"Italian", "Thai", "Mexican"}[i%3]
		pool[i] = candidate(fmt.Sprintf("c%03d", i), []string{cuisine}, 1+i%4, float64(i%6), north(float64(i%12)))
	}
	group := []profile.UserProfile{
		member([]string{"thai"}, []int{2}, 7, 3, 9),
		member([]string{"italian"}, []int{1, 3}, 2, 8, 4),
	}

	seqCfg := DefaultConfig().Scoring
	seqCfg.ParallelThreshold = 10000
	parCfg := DefaultConfig().Scoring
	parCfg.ParallelThreshold = 1
	parCfg.Workers = 8

	seq := NewScorer(seqCfg).Score(pool, group, defaultGroupContext())
	par := NewScorer(parCfg).Score(pool, group, defaultGroupContext())

	for i := range seq {
		if seq[i].Candidate.ID != par[i].Candidate.ID || seq[i].RawScore != par[i].RawScore {
			t.Fatalf("result %d differs: %s/%v vs %s/%v", i,
				seq[i].Candidate.ID, seq[i].RawScore, par[i].Candidate.ID, par[i].RawScore)
		}
	}
}

func TestScore_OutOfRangeRatingDoesNotOutrankPreferences(t *testing.T) {
	t.Parallel()

	m := member([]string{"Italian"}, []int{2}, 5, 5, 5)

	italian := candidate("italian", []string{"Italian"}, 2, 4.0, north(0.5))
	inflated := candidate("inflated", []string{"Mexican"}, 4, 50, north(0.5))

	results := newTestScorer().Score([]Candidate{inflated, italian}, []profile.UserProfile{m}, GroupContext{Location: &testCenter})
	byID := map[string]Result{}
	for _, r := range results {
		byID[r.Candidate.ID] = r
	}
	if got := byID["inflated"].Breakdown.Rating; got != 25 {
		t.Errorf("inflated rating bonus = %v, want 25", got)
	}
	if byID["inflated"].RawScore >= byID["italian"].RawScore {
		t.Errorf("inflated raw %v >= italian raw %v", byID["inflated"].RawScore, byID["italian"].RawScore)
	}
}
