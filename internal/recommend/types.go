// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"time"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/hours"
	"github.com/tomtom215/tablepick/internal/profile"
)

// DietarySupport flags what a venue can accommodate.
type DietarySupport struct {
	VeganFriendly      bool `json:"vegan_friendly" bson:"vegan_friendly"`
	VegetarianFriendly bool `json:"vegetarian_friendly" bson:"vegetarian_friendly"`
	GlutenFreeOptions  bool `json:"gluten_free_options" bson:"gluten_free_options"`
	HalalOptions       bool `json:"halal_options" bson:"halal_options"`
}

// Any reports whether at least one flag is set.
func (d DietarySupport) Any() bool {
	return d.VeganFriendly || d.VegetarianFriendly || d.GlutenFreeOptions || d.HalalOptions
}

// Address is optional display data from the places provider.
type Address struct {
	Street   string `json:"street,omitempty" bson:"street,omitempty"`
	City     string `json:"city,omitempty" bson:"city,omitempty"`
	State    string `json:"state,omitempty" bson:"state,omitempty"`
	Postcode string `json:"postcode,omitempty" bson:"postcode,omitempty"`
	Country  string `json:"country,omitempty" bson:"country,omitempty"`
}

// Contact is optional display data from the places provider.
type Contact struct {
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Website string `json:"website,omitempty" bson:"website,omitempty"`
}

// Candidate is one restaurant in the pool.
type Candidate struct {
	ID       string   `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	Cuisines []string `json:"cuisines" bson:"cuisines"`

	// PriceTier is 1-4. Zero means unknown.
	PriceTier int `json:"price_tier,omitempty" bson:"price_tier,omitempty"`

	// Location is nil when the provider had no geometry.
	Location *geo.Point `json:"location,omitempty" bson:"location,omitempty"`

	// DistanceKm is a precomputed distance from the group center, used when
	// either side of a haversine computation is missing.
	DistanceKm *float64 `json:"distance_km,omitempty" bson:"distance_km,omitempty"`

	// OpenHours is nil when hours are unknown.
	OpenHours hours.Schedule `json:"open_hours,omitempty" bson:"open_hours,omitempty"`

	DietarySupport DietarySupport `json:"dietary_support" bson:"dietary_support"`
	Allergens      []string       `json:"allergens" bson:"allergens"`

	// Rating is 0-5, nil when unknown.
	Rating *float64 `json:"rating,omitempty" bson:"rating,omitempty"`

	Address *Address `json:"address,omitempty" bson:"address,omitempty"`
	Contact *Contact `json:"contact,omitempty" bson:"contact,omitempty"`
}

// HasDietaryData reports whether the candidate carries any dietary or
// allergen signal. All flags false with no allergens counts as no data.
func (c *Candidate) HasDietaryData() bool {
	return c.DietarySupport.Any() || len(c.Allergens) > 0
}

// GroupContext is the shared situation of a run.
type GroupContext struct {
	// Now is the reference time for open-now checks. Never defaulted to the
	// wall clock by the engine.
	Now time.Time `json:"now"`

	// Location is the group's reference point; nil disables haversine
	// distances.
	Location *geo.Point `json:"location,omitempty"`

	// RadiusKm is the search radius used by pool acquisition.
	RadiusKm float64 `json:"radius_km,omitempty"`

	// TimeOfDay is informational ("breakfast", "lunch", "dinner", "late").
	TimeOfDay string `json:"time_of_day,omitempty"`
}

// Breakdown keeps each factor's raw contribution, summed across members.
type Breakdown struct {
	HardPass  bool    `json:"hard_pass"`
	Cuisine   float64 `json:"cuisine"`
	Price     float64 `json:"price"`
	Distance  float64 `json:"distance"`
	Rating    float64 `json:"rating"`
	Consensus float64 `json:"consensus"`
}

// Total sums the factor contributions.
func (b Breakdown) Total() float64 {
	return b.Cuisine + b.Price + b.Distance + b.Rating + b.Consensus
}

// Result is one ranked candidate.
type Result struct {
	Candidate Candidate `json:"restaurant"`

	// Score is the display score, 0-100. Set by Rank.
	Score int `json:"score"`

	// RawScore is the unnormalized total used for ordering.
	RawScore float64 `json:"raw_score"`

	// DistanceKm is the resolved distance, nil when unknown.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	Breakdown   Breakdown `json:"breakdown"`
	Reasons     []string  `json:"reasons"`
	Explanation string    `json:"explanation"`
}

// ExclusionReason says why the hard filter dropped a candidate.
type ExclusionReason int

const (
	// ExcludedClosed means the schedule had no window covering the reference time.
	ExcludedClosed ExclusionReason = iota
	// ExcludedAllergen means an allergen matched a member's allergy.
	ExcludedAllergen
	// ExcludedDietary means a required diet is not supported.
	ExcludedDietary
	// ExcludedBudget means the price tier exceeds the group's hard budget.
	ExcludedBudget
	// ExcludedDistance means the venue is farther than the group's hard cap.
	ExcludedDistance
)

// String returns the metric/log label for the reason.
func (r ExclusionReason) String() string {
	switch r {
	case ExcludedClosed:
		return "closed"
	case ExcludedAllergen:
		return "allergen"
	case ExcludedDietary:
		return "dietary"
	case ExcludedBudget:
		return "budget"
	case ExcludedDistance:
		return "distance"
	default:
		return "unknown"
	}
}

// Exclusion records one filtered-out candidate.
type Exclusion struct {
	CandidateID string          `json:"candidate_id"`
	Reason      ExclusionReason `json:"-"`
	Detail      string          `json:"detail,omitempty"`
}

// Request is the input of Engine.Recommend.
type Request struct {
	// RequestID is propagated to logs; generated when empty.
	RequestID string

	// Profiles are normalized member snapshots.
	Profiles []profile.UserProfile

	// Pool is the already-acquired candidate pool.
	Pool []Candidate

	Context GroupContext

	// CheckOpenNow overrides Config.Filter.CheckOpenNow when set.
	CheckOpenNow *bool

	// TopK overrides Config.Ranking.TopK when positive.
	TopK int
}

// Response is the output of Engine.Recommend.
type Response struct {
	Results  []Result         `json:"results"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a run went.
type ResponseMetadata struct {
	RequestID    string         `json:"request_id"`
	PoolSize     int            `json:"pool_size"`
	Eligible     int            `json:"eligible"`
	Excluded     map[string]int `json:"excluded,omitempty"`
	MemberCount  int            `json:"member_count"`
	CheckOpenNow bool           `json:"check_open_now"`
	TieBreak     string         `json:"tie_break"`
	LatencyMS    int64          `json:"latency_ms"`
	Timestamp    time.Time      `json:"timestamp"`
}
