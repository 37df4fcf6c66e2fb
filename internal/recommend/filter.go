// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"time"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/hours"
	"github.com/tomtom215/tablepick/internal/tags"
)

// Dietary tag vocabulary with a known DietarySupport mapping.
const (
	DietVegan      = "vegan"
	DietVegetarian = "vegetarian"
	DietGlutenFree = "gluten-free"
	DietHalal      = "halal"
)

// dietSupport maps a lowercased dietary tag to the flag that satisfies it.
var dietSupport = map[string]func(DietarySupport) bool{
	DietVegan:      func(d DietarySupport) bool { return d.VeganFriendly },
	DietVegetarian: func(d DietarySupport) bool { return d.VegetarianFriendly },
	DietGlutenFree: func(d DietarySupport) bool { return d.GlutenFreeOptions },
	"gluten free":  func(d DietarySupport) bool { return d.GlutenFreeOptions },
	"glutenfree":   func(d DietarySupport) bool { return d.GlutenFreeOptions },
	DietHalal:      func(d DietarySupport) bool { return d.HalalOptions },
}

// FilterOptions parameterizes Filter.
type FilterOptions struct {
	// CheckOpenNow enables the open-now check against Now.
	CheckOpenNow bool

	// Now is the reference time for the open-now check.
	Now time.Time

	// Reference is the group location used to resolve distances for the
	// hard distance cap.
	Reference *geo.Point

	// NeutralPriceTier substitutes for unknown price tiers. Zero means 2.
	NeutralPriceTier int
}

// Filter returns the candidates that satisfy every hard constraint, in pool
// order, along with the reason each other candidate was dropped.
func Filter(pool []Candidate, c Constraints, opts FilterOptions) ([]Candidate, []Exclusion) {
	kept := make([]Candidate, 0, len(pool))
	var excluded []Exclusion

	for i := range pool {
		cand := &pool[i]
		if reason, detail, ok := check(cand, c, &opts); !ok {
			excluded = append(excluded, Exclusion{
				CandidateID: cand.ID,
				Reason:      reason,
				Detail:      detail,
			})
			continue
		}
		kept = append(kept, *cand)
	}

	return kept, excluded
}

// check runs the hard checks in order and reports the first failure.
func check(cand *Candidate, c Constraints, opts *FilterOptions) (ExclusionReason, string, bool) {
	if opts.CheckOpenNow && cand.OpenHours.Known() && !hours.IsOpenAt(cand.OpenHours, opts.Now) {
		return ExcludedClosed, opts.Now.Format("Mon 15:04"), false
	}

	if cand.HasDietaryData() {
		if allergen, hit := matchAllergen(cand.Allergens, c.Allergies); hit {
			return ExcludedAllergen, allergen, false
		}
		if diet, ok := unsupportedDiet(cand.DietarySupport, c.Dietary); !ok {
			return ExcludedDietary, diet, false
		}
	}

	if c.MaxBudget != nil && effectivePriceTier(cand, opts.NeutralPriceTier) > *c.MaxBudget {
		return ExcludedBudget, "", false
	}

	if c.MaxDistanceKm != nil {
		if d, known := resolveDistance(cand, opts.Reference); known && d > *c.MaxDistanceKm {
			return ExcludedDistance, "", false
		}
	}

	return 0, "", true
}

func matchAllergen(allergens []string, allergies map[string]struct{}) (string, bool) {
	if len(allergies) == 0 {
		return "", false
	}
	for _, a := range allergens {
		if _, hit := allergies[tags.Normalize(a)]; hit {
			return a, true
		}
	}
	return "", false
}

// unsupportedDiet returns the first required diet the venue cannot serve.
// Tags without a known mapping are ignored.
func unsupportedDiet(d DietarySupport, required map[string]struct{}) (string, bool) {
	for _, diet := range sortedKeys(required) {
		supports, known := dietSupport[diet]
		if known && !supports(d) {
			return diet, false
		}
	}
	return "", true
}

// effectivePriceTier substitutes the neutral tier for unknown or invalid tiers.
func effectivePriceTier(c *Candidate, neutral int) int {
	if c.PriceTier >= 1 && c.PriceTier <= 4 {
		return c.PriceTier
	}
	if neutral < 1 || neutral > 4 {
		return 2
	}
	return neutral
}

// resolveDistance prefers a haversine distance from the reference point and
// falls back to the candidate's precomputed distance.
func resolveDistance(c *Candidate, ref *geo.Point) (float64, bool) {
	if ref != nil && c.Location != nil {
		return geo.HaversineKm(*ref, *c.Location), true
	}
	if c.DistanceKm != nil {
		return *c.DistanceKm, true
	}
	return 0, false
}
