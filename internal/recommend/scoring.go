// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"sync"

	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/tags"
)

// Scorer computes per-candidate scores, breakdowns and explanations.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	cfg ScoringConfig
}

// NewScorer creates a scorer with the given parameters.
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score scores every candidate against every member. Results are in
// candidate order and unranked (Score is left at zero until Rank).
func (s *Scorer) Score(cands []Candidate, profiles []profile.UserProfile, gc GroupContext) []Result {
	results := make([]Result, len(cands))
	hasConstraints := false
	for i := range profiles {
		if profiles[i].HasHardConstraints() {
			hasConstraints = true
			break
		}
	}

	if len(cands) < s.cfg.ParallelThreshold || s.cfg.Workers <= 1 {
		for i := range cands {
			results[i] = s.scoreOne(&cands[i], profiles, gc, hasConstraints)
		}
		return results
	}

	// Candidates are independent; each worker writes only its own indexes.
	var wg sync.WaitGroup
	next := make(chan int)
	for w := 0; w < s.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				results[i] = s.scoreOne(&cands[i], profiles, gc, hasConstraints)
			}
		}()
	}
	for i := range cands {
		next <- i
	}
	close(next)
	wg.Wait()

	return results
}

func (s *Scorer) scoreOne(c *Candidate, profiles []profile.UserProfile, gc GroupContext, groupConstrained bool) Result {
	var (
		b       = Breakdown{HardPass: true}
		reasons reasonSet
	)

	// Cuisine
	for i := range profiles {
		p := &profiles[i]
		w := float64(p.Weights.Cuisine)
		if liked := tags.Matching(c.Cuisines, p.Soft.LikedCuisines); len(liked) > 0 {
			b.Cuisine += CuisinePoints * w
			reasons.add(CuisineReason(liked))
		}
		if tags.AnyMatch(c.Cuisines, p.Soft.DislikedCuisines) {
			b.Cuisine -= CuisinePoints * w
		}
	}

	// Price
	tier := effectivePriceTier(c, s.cfg.NeutralPriceTier)
	perfect := 0
	for i := range profiles {
		p := &profiles[i]
		diff := minPriceDiff(tier, p.Soft.TargetPrices)
		steps := PriceSteps - diff
		if steps < 0 {
			steps = 0
		}
		b.Price += float64(steps*PricePointsPerStep) * float64(p.Weights.Price)
		if diff == 0 && len(p.Soft.TargetPrices) > 0 {
			perfect++
		}
	}
	switch {
	case perfect > 0 && perfect == len(profiles):
		reasons.add(ReasonPerfectPrice)
	case perfect > 0:
		reasons.add(ReasonSomePrice)
	}

	// Distance
	dist, known := resolveDistance(c, gc.Location)
	if known {
		base := float64(DistancePoints(dist))
		for i := range profiles {
			b.Distance += base * float64(profiles[i].Weights.Distance)
		}
		if dist < s.cfg.VeryCloseKm {
			reasons.add(ReasonVeryClose)
		}
	}

	// Rating
	if c.Rating != nil {
		r := clampRating(*c.Rating)
		b.Rating = r * s.cfg.RatingMultiplier
		if r >= s.cfg.HighlyRatedThreshold {
			reasons.add(RatingReason(r))
		}
	}

	if groupConstrained && !c.HasDietaryData() {
		reasons.add(ReasonVerifyDietary)
	}

	res := Result{
		Candidate:   *c,
		RawScore:    b.Total(),
		Breakdown:   b,
		Reasons:     reasons.list(),
		Explanation: Explain(reasons.list()),
	}
	if known {
		d := dist
		res.DistanceKm = &d
	}
	return res
}

// DistancePoints maps a distance in km to its bucketed base score.
func DistancePoints(km float64) int {
	switch {
	case km < 1:
		return MaxDistancePoints
	case km < 3:
		return 8
	case km < 5:
		return 6
	case km < 10:
		return 4
	default:
		return 1
	}
}

// minPriceDiff is the smallest tier distance to any target, 0 without targets.
func minPriceDiff(tier int, targets []int) int {
	if len(targets) == 0 {
		return 0
	}
	best := -1
	for _, t := range targets {
		d := tier - t
		if d < 0 {
			d = -d
		}
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// clampRating bounds a rating to [0, MaxRating]. Negative and NaN ratings
// count as 0.
func clampRating(r float64) float64 {
	switch {
	case !(r > 0):
		return 0
	case r > MaxRating:
		return MaxRating
	}
	return r
}
