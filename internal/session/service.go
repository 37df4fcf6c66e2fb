// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/metrics"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// Recommender runs the recommendation engine. *recommend.Engine satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// Config holds session defaults.
type Config struct {
	DefaultTimeOfDay string  `koanf:"default_time_of_day"`
	DefaultLat       float64 `koanf:"default_lat"`
	DefaultLon       float64 `koanf:"default_lon"`
	DefaultRadiusKm  float64 `koanf:"default_radius_km"`
}

// DefaultConfig returns dinner in San Francisco within 5 km.
func DefaultConfig() Config {
	return Config{
		DefaultTimeOfDay: "dinner",
		DefaultLat:       37.7749,
		DefaultLon:       -122.4194,
		DefaultRadiusKm:  5,
	}
}

// Service implements session operations on top of a Store.
type Service struct {
	store  Store
	engine Recommender
	pools  pool.Provider
	cfg    Config
	logger zerolog.Logger

	now        func() time.Time
	codeSource io.Reader
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceClock injects the clock used for timestamps and default
// reference times.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCodeSource injects the random source for join codes.
func WithCodeSource(r io.Reader) ServiceOption {
	return func(s *Service) {
		s.codeSource = r
	}
}

// NewService creates a session service.
func NewService(store Store, engine Recommender, pools pool.Provider, cfg Config, logger zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		engine: engine,
		pools:  pools,
		cfg:    cfg,
		logger: logger.With().Str("component", "session").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the backing store, used by health checks.
func (s *Service) Store() Store {
	return s.store
}

// SaveProfile normalizes raw and stores it for uid.
func (s *Service) SaveProfile(ctx context.Context, uid, displayName string, raw profile.RawProfile) (*UserRecord, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidArgument)
	}
	p, err := profile.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	rec := &UserRecord{
		UID:         uid,
		DisplayName: displayName,
		Profile:     p,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.store.PutProfile(ctx, rec); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return rec, nil
}

// GetProfile returns the stored profile or ErrProfileNotFound.
func (s *Service) GetProfile(ctx context.Context, uid string) (*UserRecord, error) {
	return s.store.GetProfile(ctx, uid)
}

// resolveProfile returns p when given, else the stored profile, else the
// default profile.
func (s *Service) resolveProfile(ctx context.Context, uid string, p *profile.UserProfile) (profile.UserProfile, error) {
	if p != nil {
		return p.Clone(), nil
	}
	rec, err := s.store.GetProfile(ctx, uid)
	switch {
	case err == nil:
		return rec.Profile, nil
	case errors.Is(err, ErrProfileNotFound):
		return profile.Default(), nil
	default:
		return profile.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
}

// CreateSession opens a session hosted by hostUID, who becomes its first
// member. A nil profile falls back to the host's stored profile.
func (s *Service) CreateSession(ctx context.Context, hostUID, displayName string, p *profile.UserProfile) (*Session, error) {
	if strings.TrimSpace(hostUID) == "" {
		return nil, fmt.Errorf("%w: host uid is required", ErrInvalidArgument)
	}
	snapshot, err := s.resolveProfile(ctx, hostUID, p)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:      uuid.NewString(),
		HostUID: hostUID,
		Status:  StatusOpen,
		Context: Context{
			TimeOfDay: s.cfg.DefaultTimeOfDay,
			Location:  geo.Point{Lat: s.cfg.DefaultLat, Lon: s.cfg.DefaultLon},
			RadiusKm:  s.cfg.DefaultRadiusKm,
		},
		MemberUIDs: []string{hostUID},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created := false
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateCode(s.codeSource)
		if err != nil {
			return nil, fmt.Errorf("generate join code: %w", err)
		}
		sess.Code = code
		err = s.store.CreateSession(ctx, sess)
		if errors.Is(err, ErrCodeTaken) {
			s.logger.Debug().Str("code", code).Msg("join code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		created = true
		break
	}
	if !created {
		return nil, ErrCodeExhausted
	}

	if err := s.store.PutMember(ctx, &Member{
		SessionID:       sess.ID,
		UID:             hostUID,
		DisplayName:     displayName,
		JoinedAt:        now,
		ProfileSnapshot: snapshot,
	}); err != nil {
		return nil, fmt.Errorf("add host member: %w", err)
	}

	metrics.RecordSessionCreated()
	s.logger.Info().
		Str("session_id", sess.ID).
		Str("host_uid", hostUID).
		Msg("Session created")
	return sess, nil
}

// JoinSession adds uid to the session with the given code. Rejoining
// refreshes the member's profile snapshot.
func (s *Service) JoinSession(ctx context.Context, code, uid, displayName string, p *profile.UserProfile) (*Session, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidArgument)
	}
	found, err := s.store.GetSessionByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if found.Status == StatusFinalized {
		return nil, ErrSessionClosed
	}
	snapshot, err := s.resolveProfile(ctx, uid, p)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess, err := s.store.UpdateSession(ctx, found.ID, func(cur *Session) error {
		if cur.Status == StatusFinalized {
			return ErrSessionClosed
		}
		if !cur.IsMember(uid) {
			cur.MemberUIDs = append(cur.MemberUIDs, uid)
		}
		cur.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	joinedAt, err := s.joinedAt(ctx, found, uid, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutMember(ctx, &Member{
		SessionID:       sess.ID,
		UID:             uid,
		DisplayName:     displayName,
		JoinedAt:        joinedAt,
		ProfileSnapshot: snapshot,
	}); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("uid", uid).
		Int("members", len(sess.MemberUIDs)).
		Msg("Member joined session")
	return sess, nil
}

// joinedAt keeps the original join time of a returning member.
func (s *Service) joinedAt(ctx context.Context, sess *Session, uid string, now time.Time) (time.Time, error) {
	if !sess.IsMember(uid) {
		return now, nil
	}
	members, err := s.store.ListMembers(ctx, sess.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if m.UID == uid {
			return m.JoinedAt, nil
		}
	}
	return now, nil
}

// GetSession loads a session by ID.
func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.store.GetSession(ctx, id)
}

// ListMembers returns the members of a session in join order.
func (s *Service) ListMembers(ctx context.Context, id string) ([]Member, error) {
	if _, err := s.store.GetSession(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, id)
}

// UpdateContext changes the shared context. Only the host may do this.
func (s *Service) UpdateContext(ctx context.Context, id, uid string, upd ContextUpdate) (*Session, error) {
	if upd.Location != nil && !upd.Location.Valid() {
		return nil, fmt.Errorf("%w: location out of range", ErrInvalidArgument)
	}
	if upd.RadiusKm != nil && *upd.RadiusKm < 0 {
		return nil, fmt.Errorf("%w: radius must not be negative", ErrInvalidArgument)
	}

	now := s.now().UTC()
	return s.store.UpdateSession(ctx, id, func(cur *Session) error {
		if cur.HostUID != uid {
			return ErrNotHost
		}
		if cur.Status == StatusFinalized {
			return ErrSessionClosed
		}
		if upd.TimeOfDay != nil {
			cur.Context.TimeOfDay = *upd.TimeOfDay
		}
		if upd.Now != nil {
			cur.Context.Now = upd.Now.UTC()
		}
		if upd.Location != nil {
			cur.Context.Location = *upd.Location
		}
		if upd.RadiusKm != nil {
			cur.Context.RadiusKm = *upd.RadiusKm
		}
		cur.UpdatedAt = now
		return nil
	})
}

// CastVote records uid's stance on a restaurant.
func (s *Service) CastVote(ctx context.Context, sessionID, restaurantID, uid string, t VoteType) (Vote, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return Vote{}, fmt.Errorf("%w: restaurant id is required", ErrInvalidArgument)
	}
	if _, err := ParseVoteType(string(t)); err != nil {
		return Vote{}, err
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return Vote{}, err
	}
	if sess.Status == StatusFinalized {
		return Vote{}, ErrSessionClosed
	}
	if !sess.IsMember(uid) {
		return Vote{}, ErrNotMember
	}

	v, err := s.store.UpdateVote(ctx, sessionID, restaurantID, uid, t, s.now().UTC())
	if err != nil {
		return Vote{}, fmt.Errorf("cast vote: %w", err)
	}
	metrics.RecordVote(string(t))
	return v, nil
}

// Votes returns every tally of a session keyed by restaurant ID.
func (s *Service) Votes(ctx context.Context, sessionID string) (map[string]Vote, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListVotes(ctx, sessionID)
}

// Tally is a vote with its consensus state.
type Tally struct {
	Vote
	Consensus bool `json:"consensus"`
	Threshold int  `json:"threshold"`
}

// Tallies returns the votes of a session with consensus flags, ordered by
// restaurant ID.
func (s *Service) Tallies(ctx context.Context, sessionID string) ([]Tally, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	votes, err := s.store.ListVotes(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	n := len(sess.MemberUIDs)
	out := make([]Tally, 0, len(votes))
	for _, v := range votes {
		out = append(out, Tally{Vote: v, Consensus: HasConsensus(v, n), Threshold: ConsensusThreshold(n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RestaurantID < out[j].RestaurantID })
	return out, nil
}

// Finalize closes the session on restaurantID. The host may always
// finalize; other members need consensus on that restaurant.
func (s *Service) Finalize(ctx context.Context, sessionID, restaurantID, uid string, restaurant *recommend.Candidate) (*Session, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, fmt.Errorf("%w: restaurant id is required", ErrInvalidArgument)
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == StatusFinalized {
		return nil, ErrSessionClosed
	}

	isHost := sess.HostUID == uid
	via := "host"
	if !isHost {
		if !sess.IsMember(uid) {
			return nil, ErrNotMember
		}
		votes, err := s.store.ListVotes(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if !CanFinalize(false, votes[restaurantID], len(sess.MemberUIDs)) {
			return nil, ErrFinalizeNotAllowed
		}
		via = "consensus"
	}

	now := s.now().UTC()
	out, err := s.store.UpdateSession(ctx, sessionID, func(cur *Session) error {
		if cur.Status == StatusFinalized {
			return ErrSessionClosed
		}
		cur.Status = StatusFinalized
		cur.FinalizedRestaurantID = restaurantID
		if restaurant != nil {
			snap := *restaurant
			cur.FinalizedRestaurant = &snap
		}
		cur.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSessionFinalized(via)
	s.logger.Info().
		Str("session_id", sessionID).
		Str("restaurant_id", restaurantID).
		Str("via", via).
		Msg("Session finalized")
	return out, nil
}

// RecommendOptions tune a session recommendation run.
type RecommendOptions struct {
	RequestID    string
	TopK         int
	CheckOpenNow *bool
}

// Recommendation is the outcome of a session run.
type Recommendation struct {
	Response   *recommend.Response `json:"response"`
	PoolSource pool.Source         `json:"pool_source"`
	PoolCached bool                `json:"pool_cached"`
}

// Recommend scores the pool around the session location for its members.
func (s *Service) Recommend(ctx context.Context, sessionID string, opts RecommendOptions) (*Recommendation, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	res, err := s.pools.Pool(ctx, pool.PoolQuery{
		Center:   sess.Context.Location,
		RadiusKm: sess.Context.RadiusKm,
	})
	if err != nil {
		return nil, err
	}

	profiles := make([]profile.UserProfile, 0, len(members))
	for _, m := range members {
		profiles = append(profiles, m.ProfileSnapshot)
	}

	now := sess.Context.Now
	if now.IsZero() {
		now = s.now()
	}
	loc := sess.Context.Location

	resp, err := s.engine.Recommend(ctx, recommend.Request{
		RequestID: opts.RequestID,
		Profiles:  profiles,
		Pool:      res.Candidates,
		Context: recommend.GroupContext{
			Now:       now,
			Location:  &loc,
			RadiusKm:  sess.Context.RadiusKm,
			TimeOfDay: sess.Context.TimeOfDay,
		},
		CheckOpenNow: opts.CheckOpenNow,
		TopK:         opts.TopK,
	})
	if err != nil {
		return nil, err
	}

	return &Recommendation{Response: resp, PoolSource: res.Source, PoolCached: res.Cached}, nil
}
