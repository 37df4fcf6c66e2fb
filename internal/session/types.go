// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package session

import (
	"errors"
	"time"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// Sentinel errors returned by the service and stores.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionClosed      = errors.New("session is closed")
	ErrNotHost            = errors.New("only the host can do this")
	ErrNotMember          = errors.New("user is not a session member")
	ErrFinalizeNotAllowed = errors.New("finalize requires the host or consensus")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrCodeTaken          = errors.New("join code already in use")
	ErrCodeExhausted      = errors.New("could not allocate a unique join code")
	ErrInvalidVote        = errors.New("invalid vote type")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrConflict           = errors.New("concurrent update conflict")
)

// Status is the session lifecycle state.
type Status string

const (
	StatusOpen      Status = "open"
	StatusFinalized Status = "finalized"
)

// Context is the shared situation of a session.
type Context struct {
	TimeOfDay string `json:"time_of_day" bson:"time_of_day"`

	// Now pins the reference time for open-now checks. Zero means the
	// service clock at recommendation time.
	Now time.Time `json:"now,omitempty" bson:"now,omitempty"`

	Location geo.Point `json:"location" bson:"location"`
	RadiusKm float64   `json:"radius_km" bson:"radius_km"`
}

// ContextUpdate carries the fields a host may change. Nil fields are kept.
type ContextUpdate struct {
	TimeOfDay *string
	Now       *time.Time
	Location  *geo.Point
	RadiusKm  *float64
}

// Session is a group decision session.
type Session struct {
	ID         string   `json:"id" bson:"_id"`
	Code       string   `json:"code" bson:"code"`
	HostUID    string   `json:"host_uid" bson:"host_uid"`
	Status     Status   `json:"status" bson:"status"`
	Context    Context  `json:"context" bson:"context"`
	MemberUIDs []string `json:"member_uids" bson:"member_uids"`

	FinalizedRestaurantID string               `json:"finalized_restaurant_id,omitempty" bson:"finalized_restaurant_id,omitempty"`
	FinalizedRestaurant   *recommend.Candidate `json:"finalized_restaurant,omitempty" bson:"finalized_restaurant,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// Version increases on every update; MongoStore uses it for optimistic
	// concurrency.
	Version int64 `json:"version" bson:"version"`
}

// IsMember reports whether uid belongs to the session.
func (s *Session) IsMember(uid string) bool {
	for _, m := range s.MemberUIDs {
		if m == uid {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with s.
func (s *Session) Clone() *Session {
	out := *s
	out.MemberUIDs = append([]string(nil), s.MemberUIDs...)
	if s.FinalizedRestaurant != nil {
		c := *s.FinalizedRestaurant
		out.FinalizedRestaurant = &c
	}
	return &out
}

// Member is a session participant with the profile captured at join time.
type Member struct {
	SessionID       string              `json:"session_id" bson:"session_id"`
	UID             string              `json:"uid" bson:"uid"`
	DisplayName     string              `json:"display_name" bson:"display_name"`
	JoinedAt        time.Time           `json:"joined_at" bson:"joined_at"`
	ProfileSnapshot profile.UserProfile `json:"profile_snapshot" bson:"profile_snapshot"`
}

// UserRecord is a stored user profile.
type UserRecord struct {
	UID         string              `json:"uid" bson:"_id"`
	DisplayName string              `json:"display_name" bson:"display_name"`
	Profile     profile.UserProfile `json:"profile" bson:"profile"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}
