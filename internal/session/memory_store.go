// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process maps. Values are cloned on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	codes    map[string]string
	members  map[string]map[string]Member
	votes    map[string]map[string]Vote
	profiles map[string]UserRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		codes:    make(map[string]string),
		members:  make(map[string]map[string]Member),
		votes:    make(map[string]map[string]Vote),
		profiles: make(map[string]UserRecord),
	}
}

// CreateSession stores a new session. A taken join code returns ErrCodeTaken.
func (m *MemoryStore) CreateSession(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.codes[s.Code]; taken {
		return ErrCodeTaken
	}
	m.sessions[s.ID] = s.Clone()
	m.codes[s.Code] = s.ID
	return nil
}

// GetSession returns a copy of the session.
func (m *MemoryStore) GetSession(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

// GetSessionByCode resolves a normalized join code to its session.
func (m *MemoryStore) GetSessionByCode(ctx context.Context, code string) (*Session, error) {
	m.mu.RLock()
	id, ok := m.codes[code]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.GetSession(ctx, id)
}

// UpdateSession applies fn to a copy of the session and bumps its version.
// The session is left untouched when fn fails.
func (m *MemoryStore) UpdateSession(_ context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Version = cur.Version + 1
	m.sessions[id] = next
	return next.Clone(), nil
}

// PutMember inserts or replaces a member.
func (m *MemoryStore) PutMember(_ context.Context, mem *Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bySession, ok := m.members[mem.SessionID]
	if !ok {
		bySession = make(map[string]Member)
		m.members[mem.SessionID] = bySession
	}
	cp := *mem
	cp.ProfileSnapshot = mem.ProfileSnapshot.Clone()
	bySession[mem.UID] = cp
	return nil
}

// ListMembers returns the members of a session ordered by join time.
func (m *MemoryStore) ListMembers(_ context.Context, sessionID string) ([]Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Member, 0, len(m.members[sessionID]))
	for _, mem := range m.members[sessionID] {
		mem.ProfileSnapshot = mem.ProfileSnapshot.Clone()
		out = append(out, mem)
	}
	sortMembers(out)
	return out, nil
}

// UpdateVote applies a vote to the tally under the store lock.
func (m *MemoryStore) UpdateVote(_ context.Context, sessionID, restaurantID, uid string, t VoteType, at time.Time) (Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bySession, ok := m.votes[sessionID]
	if !ok {
		bySession = make(map[string]Vote)
		m.votes[sessionID] = bySession
	}
	cur, ok := bySession[restaurantID]
	if !ok {
		cur = Vote{SessionID: sessionID, RestaurantID: restaurantID}
	}
	next := ApplyVote(cur, uid, t)
	next.UpdatedAt = at
	bySession[restaurantID] = next
	return cloneVote(next), nil
}

// ListVotes returns every tally of a session keyed by restaurant id.
func (m *MemoryStore) ListVotes(_ context.Context, sessionID string) (map[string]Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Vote, len(m.votes[sessionID]))
	for rid, v := range m.votes[sessionID] {
		out[rid] = cloneVote(v)
	}
	return out, nil
}

// PutProfile inserts or replaces a stored profile.
func (m *MemoryStore) PutProfile(_ context.Context, rec *UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	cp.Profile = rec.Profile.Clone()
	m.profiles[rec.UID] = cp
	return nil
}

// GetProfile returns a stored profile or ErrProfileNotFound.
func (m *MemoryStore) GetProfile(_ context.Context, uid string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.profiles[uid]
	if !ok {
		return nil, ErrProfileNotFound
	}
	rec.Profile = rec.Profile.Clone()
	return &rec, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

func cloneVote(v Vote) Vote {
	v.Approvals = append([]string{}, v.Approvals...)
	v.Vetoes = append([]string{}, v.Vetoes...)
	return v
}
