// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package profile defines the canonical food profile schema and the
// migration step that lifts every historical profile shape into it.
//
// Everything downstream of ingestion (the recommender, stores, the API
// responses) works on UserProfile only. RawProfile exists solely as the
// decode target for client payloads and legacy stored documents.
package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tablepick/internal/tags"
)

// Schema versions.
//
// Version 1 profiles carried weights on a 1-5 scale and a single target price.
// Version 2 profiles carry weights on a 1-10 scale and a set of target prices.
const (
	SchemaV1             = 1
	SchemaV2             = 2
	CurrentSchemaVersion = SchemaV2
)

// Weight and price tier bounds for the canonical schema.
const (
	MinWeight     = 1
	MaxWeight     = 10
	DefaultWeight = 5

	MinPriceTier = 1
	MaxPriceTier = 4

	legacyMaxWeight = 5
)

// Distance preferences. Stored and returned to clients; the scorer does not
// read them.
const (
	DistanceNear     = "near"
	DistanceBalanced = "balanced"
	DistanceFar      = "far"
)

// ErrUnsupportedSchema is returned for profiles written by a newer schema.
var ErrUnsupportedSchema = errors.New("unsupported profile schema version")

// HardConstraints are requirements that exclude a venue outright.
type HardConstraints struct {
	Allergies []string `json:"allergies" bson:"allergies"`
	Dietary   []string `json:"dietary" bson:"dietary"`

	// HardMaxBudget is the highest acceptable price tier.
	HardMaxBudget *int `json:"hard_max_budget,omitempty" bson:"hard_max_budget,omitempty"`

	// HardMaxDistance is the farthest acceptable distance in km.
	HardMaxDistance *float64 `json:"hard_max_distance,omitempty" bson:"hard_max_distance,omitempty"`
}

// SoftPreferences shift ranking but never exclude.
type SoftPreferences struct {
	LikedCuisines      []string `json:"liked_cuisines" bson:"liked_cuisines"`
	DislikedCuisines   []string `json:"disliked_cuisines" bson:"disliked_cuisines"`
	TargetPrices       []int    `json:"target_prices" bson:"target_prices"`
	DistancePreference string   `json:"distance_preference,omitempty" bson:"distance_preference,omitempty"`
}

// Weights are per-factor importance multipliers, each in [1,10].
type Weights struct {
	Cuisine  int `json:"cuisine" bson:"cuisine"`
	Price    int `json:"price" bson:"price"`
	Distance int `json:"distance" bson:"distance"`
}

// UserProfile is the canonical profile. Obtain one through Normalize.
type UserProfile struct {
	SchemaVersion int             `json:"schema_version" bson:"schema_version"`
	Hard          HardConstraints `json:"hard" bson:"hard"`
	Soft          SoftPreferences `json:"soft" bson:"soft"`
	Weights       Weights         `json:"weights" bson:"weights"`
}

// Default returns an empty profile with mid-scale weights.
func Default() UserProfile {
	return UserProfile{
		SchemaVersion: CurrentSchemaVersion,
		Weights: Weights{
			Cuisine:  DefaultWeight,
			Price:    DefaultWeight,
			Distance: DefaultWeight,
		},
	}
}

// Clone returns a deep copy so callers can snapshot a profile.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Hard.Allergies = cloneStrings(p.Hard.Allergies)
	out.Hard.Dietary = cloneStrings(p.Hard.Dietary)
	if p.Hard.HardMaxBudget != nil {
		v := *p.Hard.HardMaxBudget
		out.Hard.HardMaxBudget = &v
	}
	if p.Hard.HardMaxDistance != nil {
		v := *p.Hard.HardMaxDistance
		out.Hard.HardMaxDistance = &v
	}
	out.Soft.LikedCuisines = cloneStrings(p.Soft.LikedCuisines)
	out.Soft.DislikedCuisines = cloneStrings(p.Soft.DislikedCuisines)
	if p.Soft.TargetPrices != nil {
		out.Soft.TargetPrices = append([]int(nil), p.Soft.TargetPrices...)
	}
	return out
}

// HasHardConstraints reports whether the profile lists any allergy or diet.
func (p UserProfile) HasHardConstraints() bool {
	return len(p.Hard.Allergies) > 0 || len(p.Hard.Dietary) > 0
}

// PriceTargets decodes either a single tier or a list of tiers.
type PriceTargets []int

// UnmarshalJSON accepts null, a number, or an array of numbers.
func (pt *PriceTargets) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*pt = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var many []int
		if err := json.Unmarshal(data, &many); err != nil {
			return fmt.Errorf("decode target prices: %w", err)
		}
		*pt = many
		return nil
	}
	var one float64
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("decode target price: %w", err)
	}
	*pt = PriceTargets{int(math.Round(one))}
	return nil
}

// RawHard is the permissive decode shape of HardConstraints.
type RawHard struct {
	Allergies       []string `json:"allergies"`
	Dietary         []string `json:"dietary"`
	HardMaxBudget   *int     `json:"hard_max_budget,omitempty"`
	HardMaxDistance *float64 `json:"hard_max_distance,omitempty"`
}

// RawSoft is the permissive decode shape of SoftPreferences. TargetPrice is
// the legacy field and may hold a single tier or a list.
type RawSoft struct {
	LikedCuisines      []string     `json:"liked_cuisines"`
	DislikedCuisines   []string     `json:"disliked_cuisines"`
	TargetPrice        PriceTargets `json:"target_price,omitempty"`
	TargetPrices       []int        `json:"target_prices,omitempty"`
	DistancePreference string       `json:"distance_preference,omitempty"`
}

// RawProfile is the permissive wire shape covering every schema version.
type RawProfile struct {
	SchemaVersion int     `json:"schema_version,omitempty"`
	Hard          RawHard `json:"hard"`
	Soft          RawSoft `json:"soft"`
	Weights       Weights `json:"weights"`
}

// Normalize migrates a raw profile of any known schema version into the
// canonical schema. It is pure: the input is not modified.
//
// A missing schema version is treated as version 1.
func Normalize(raw RawProfile) (UserProfile, error) {
	version := raw.SchemaVersion
	if version == 0 {
		version = SchemaV1
	}
	if version > CurrentSchemaVersion {
		return UserProfile{}, fmt.Errorf("%w: %d", ErrUnsupportedSchema, raw.SchemaVersion)
	}

	out := UserProfile{SchemaVersion: CurrentSchemaVersion}

	out.Hard.Allergies = tags.Dedupe(raw.Hard.Allergies)
	out.Hard.Dietary = tags.Dedupe(raw.Hard.Dietary)
	if raw.Hard.HardMaxBudget != nil && *raw.Hard.HardMaxBudget > 0 {
		v := clamp(*raw.Hard.HardMaxBudget, MinPriceTier, MaxPriceTier)
		out.Hard.HardMaxBudget = &v
	}
	if raw.Hard.HardMaxDistance != nil && *raw.Hard.HardMaxDistance > 0 {
		v := *raw.Hard.HardMaxDistance
		out.Hard.HardMaxDistance = &v
	}

	out.Soft.LikedCuisines = tags.Dedupe(raw.Soft.LikedCuisines)
	out.Soft.DislikedCuisines = tags.Dedupe(raw.Soft.DislikedCuisines)
	out.Soft.TargetPrices = priceSet(raw.Soft.TargetPrices, raw.Soft.TargetPrice)
	out.Soft.DistancePreference = distancePreference(raw.Soft.DistancePreference)

	scale := 1
	if version == SchemaV1 {
		scale = MaxWeight / legacyMaxWeight
	}
	out.Weights = Weights{
		Cuisine:  weight(raw.Weights.Cuisine, scale),
		Price:    weight(raw.Weights.Price, scale),
		Distance: weight(raw.Weights.Distance, scale),
	}

	return out, nil
}

// FromCanonical wraps an already-canonical profile as a RawProfile, so
// re-normalizing it is a no-op.
func FromCanonical(p UserProfile) RawProfile {
	return RawProfile{
		SchemaVersion: CurrentSchemaVersion,
		Hard: RawHard{
			Allergies:       p.Hard.Allergies,
			Dietary:         p.Hard.Dietary,
			HardMaxBudget:   p.Hard.HardMaxBudget,
			HardMaxDistance: p.Hard.HardMaxDistance,
		},
		Soft: RawSoft{
			LikedCuisines:      p.Soft.LikedCuisines,
			DislikedCuisines:   p.Soft.DislikedCuisines,
			TargetPrices:       p.Soft.TargetPrices,
			DistancePreference: p.Soft.DistancePreference,
		},
		Weights: p.Weights,
	}
}

// NormalizeAll normalizes a batch, stopping at the first error.
func NormalizeAll(raws []RawProfile) ([]UserProfile, error) {
	out := make([]UserProfile, 0, len(raws))
	for i, r := range raws {
		p, err := Normalize(r)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func weight(v, scale int) int {
	if v <= 0 {
		return DefaultWeight
	}
	return clamp(v*scale, MinWeight, MaxWeight)
}

func priceSet(set []int, legacy PriceTargets) []int {
	seen := make(map[int]struct{}, len(set)+len(legacy))
	out := make([]int, 0, len(set)+len(legacy))
	for _, group := range [][]int{set, legacy} {
		for _, t := range group {
			if t < MinPriceTier || t > MaxPriceTier {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Ints(out)
	return out
}

func distancePreference(v string) string {
	switch p := strings.ToLower(strings.TrimSpace(v)); p {
	case DistanceNear, DistanceBalanced, DistanceFar:
		return p
	default:
		return ""
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
