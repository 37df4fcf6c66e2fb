// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/tablepick/internal/hours"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/recommend"
	"github.com/tomtom215/tablepick/internal/session"
)

// Request bodies. Field names in validation messages follow the json tags.

type createSessionRequest struct {
	UID         string              `json:"uid" validate:"required,max=128"`
	DisplayName string              `json:"display_name" validate:"max=64"`
	Profile     *profile.RawProfile `json:"profile,omitempty"`
}

type joinSessionRequest struct {
	Code        string              `json:"code" validate:"required,len=6,alphanum"`
	UID         string              `json:"uid" validate:"required,max=128"`
	DisplayName string              `json:"display_name" validate:"max=64"`
	Profile     *profile.RawProfile `json:"profile,omitempty"`
}

type updateContextRequest struct {
	UID       string     `json:"uid" validate:"required,max=128"`
	TimeOfDay *string    `json:"time_of_day,omitempty" validate:"omitempty,oneof=breakfast lunch dinner late"`
	Now       *time.Time `json:"now,omitempty"`
	Lat       *float64   `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lon       *float64   `json:"lon,omitempty" validate:"omitempty,longitude"`
	RadiusKm  *float64   `json:"radius_km,omitempty" validate:"omitempty,gt=0,lte=50"`
}

type voteRequest struct {
	UID          string `json:"uid" validate:"required,max=128"`
	RestaurantID string `json:"restaurant_id" validate:"required,max=256"`
	Vote         string `json:"vote" validate:"required,oneof=approve veto neutral"`
}

type finalizeRequest struct {
	UID          string               `json:"uid" validate:"required,max=128"`
	RestaurantID string               `json:"restaurant_id" validate:"required,max=256"`
	Restaurant   *recommend.Candidate `json:"restaurant,omitempty"`
}

type sessionRecommendRequest struct {
	TopK         int   `json:"top_k" validate:"gte=0,lte=100"`
	CheckOpenNow *bool `json:"check_open_now,omitempty"`
}

type saveProfileRequest struct {
	DisplayName string             `json:"display_name" validate:"max=64"`
	Profile     profile.RawProfile `json:"profile"`
}

// poolItem is a caller-supplied candidate. OpeningHours takes the raw
// opening_hours string of a places provider and wins over open_hours.
type poolItem struct {
	recommend.Candidate
	OpeningHours *string `json:"opening_hours,omitempty"`
}

func (p poolItem) candidate() recommend.Candidate {
	c := p.Candidate
	if p.OpeningHours != nil {
		c.OpenHours = hours.Parse(p.OpeningHours)
	}
	return c
}

// check reports the first invalid field of the i-th pool item. A rating
// must be in [0, 5] and a price tier in [1, 4], zero meaning unknown.
func (p poolItem) check(i int) (field, tag, msg string, ok bool) {
	if strings.TrimSpace(p.ID) == "" {
		field = fmt.Sprintf("pool[%d].id", i)
		return field, "required", field + " is required", false
	}
	if p.Rating != nil && !(*p.Rating >= 0 && *p.Rating <= recommend.MaxRating) {
		field = fmt.Sprintf("pool[%d].rating", i)
		return field, "range", fmt.Sprintf("%s must be between 0 and %g", field, recommend.MaxRating), false
	}
	if p.PriceTier != 0 && (p.PriceTier < profile.MinPriceTier || p.PriceTier > profile.MaxPriceTier) {
		field = fmt.Sprintf("pool[%d].price_tier", i)
		return field, "range", fmt.Sprintf("%s must be between %d and %d", field, profile.MinPriceTier, profile.MaxPriceTier), false
	}
	return "", "", "", true
}

type recommendContext struct {
	Lat       *float64   `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lon       *float64   `json:"lon,omitempty" validate:"omitempty,longitude"`
	RadiusKm  float64    `json:"radius_km" validate:"gte=0,lte=50"`
	TimeOfDay string     `json:"time_of_day" validate:"omitempty,oneof=breakfast lunch dinner late"`
	Now       *time.Time `json:"now,omitempty"`
}

// recommendationsRequest is a stateless engine run. A nil Pool means the
// pool provider is asked; an empty one is scored as is.
type recommendationsRequest struct {
	Profiles     []profile.RawProfile `json:"profiles" validate:"max=50"`
	Pool         []poolItem           `json:"pool,omitempty" validate:"omitempty,max=500"`
	Context      recommendContext     `json:"context"`
	CheckOpenNow *bool                `json:"check_open_now,omitempty"`
	TopK         int                  `json:"top_k" validate:"gte=0,lte=100"`
}

// Response payloads.

type recommendationsResponse struct {
	Results    []recommend.Result         `json:"results"`
	Metadata   recommend.ResponseMetadata `json:"metadata"`
	PoolSource pool.Source                `json:"pool_source"`
	PoolCached bool                       `json:"pool_cached"`
}

type sessionDetailResponse struct {
	Session *session.Session `json:"session"`
	Members []session.Member `json:"members"`
}

type votesResponse struct {
	Votes []session.Tally `json:"votes"`
}

// poolSourceRequest marks pools supplied in the request body.
const poolSourceRequest pool.Source = "request"
