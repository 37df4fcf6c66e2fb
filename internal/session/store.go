// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package session

import (
	"context"
	"sort"
	"time"
)

// Store persists sessions, members, votes and profiles.
//
// Implementations must make UpdateSession and UpdateVote atomic with respect
// to concurrent callers on the same key.
type Store interface {
	// CreateSession stores a new session. It returns ErrCodeTaken when the
	// join code already belongs to another session.
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	GetSessionByCode(ctx context.Context, code string) (*Session, error)

	// UpdateSession loads the session, applies fn and stores the result. An
	// error from fn aborts the update and is returned unchanged.
	UpdateSession(ctx context.Context, id string, fn func(*Session) error) (*Session, error)

	// PutMember inserts or replaces a member of a session.
	PutMember(ctx context.Context, m *Member) error
	// ListMembers returns members ordered by join time.
	ListMembers(ctx context.Context, sessionID string) ([]Member, error)

	// UpdateVote applies a vote for uid on one restaurant, stamps the tally
	// with at and returns it.
	UpdateVote(ctx context.Context, sessionID, restaurantID, uid string, t VoteType, at time.Time) (Vote, error)
	ListVotes(ctx context.Context, sessionID string) (map[string]Vote, error)

	PutProfile(ctx context.Context, rec *UserRecord) error
	GetProfile(ctx context.Context, uid string) (*UserRecord, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

func sortMembers(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].UID < members[j].UID
	})
}
