// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/tags"
)

// Constraints are the group-level hard constraints of one run.
type Constraints struct {
	// Allergies holds tags.Normalize'd allergy tags from every member.
	Allergies map[string]struct{}

	// Dietary holds lowercased dietary tags from every member.
	Dietary map[string]struct{}

	// MaxBudget is the lowest hard price cap of any member, nil if none set one.
	MaxBudget *int

	// MaxDistanceKm is the lowest hard distance cap of any member.
	MaxDistanceKm *float64
}

// Aggregate merges member hard constraints. Allergies and diets are unioned;
// caps take the most restrictive value. An empty profile list yields empty
// constraints.
func Aggregate(profiles []profile.UserProfile) Constraints {
	c := Constraints{
		Allergies: make(map[string]struct{}),
		Dietary:   make(map[string]struct{}),
	}

	for i := range profiles {
		p := &profiles[i]
		for _, a := range p.Hard.Allergies {
			if n := tags.Normalize(a); n != "" {
				c.Allergies[n] = struct{}{}
			}
		}
		for _, d := range p.Hard.Dietary {
			if n := strings.ToLower(strings.TrimSpace(d)); n != "" {
				c.Dietary[n] = struct{}{}
			}
		}
		if b := p.Hard.HardMaxBudget; b != nil && (c.MaxBudget == nil || *b < *c.MaxBudget) {
			v := *b
			c.MaxBudget = &v
		}
		if d := p.Hard.HardMaxDistance; d != nil && (c.MaxDistanceKm == nil || *d < *c.MaxDistanceKm) {
			v := *d
			c.MaxDistanceKm = &v
		}
	}

	return c
}

// Empty reports whether there is no allergy or dietary constraint.
func (c Constraints) Empty() bool {
	return len(c.Allergies) == 0 && len(c.Dietary) == 0
}

// AllergyList returns the allergy set sorted, for logging.
func (c Constraints) AllergyList() []string {
	return sortedKeys(c.Allergies)
}

// DietaryList returns the dietary set sorted, for logging.
func (c Constraints) DietaryList() []string {
	return sortedKeys(c.Dietary)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
