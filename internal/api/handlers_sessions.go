// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/session"
)

// sessionIDParam reads the {id} path parameter.
func sessionIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" || len(id) > 64 {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "session id must be between 1 and 64 characters", map[string]interface{}{
			"field": "id",
		})
		return "", false
	}
	return id, true
}

// normalizeOptional migrates an optional inline profile. Nil stays nil so
// the service falls back to the stored profile.
func normalizeOptional(raw *profile.RawProfile) (*profile.UserProfile, error) {
	if raw == nil {
		return nil, nil
	}
	p, err := profile.Normalize(*raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateSession opens a session hosted by the caller.
//
// Method: POST
// Path: /api/v1/sessions
//
// Request Body:
//
//	{"uid": "alice", "display_name": "Alice", "profile": {...}}
//
// The profile is optional; the host's stored profile, or the default
// profile, is used instead.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	p, err := normalizeOptional(req.Profile)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	sess, err := h.sessions.CreateSession(r.Context(), req.UID, req.DisplayName, p)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, sess)
}

// JoinSession adds the caller to the session with the given join code.
//
// Method: POST
// Path: /api/v1/sessions/join
func (h *Handler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req joinSessionRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	p, err := normalizeOptional(req.Profile)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	sess, err := h.sessions.JoinSession(r.Context(), req.Code, req.UID, req.DisplayName, p)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sess)
}

// GetSession returns a session with its members.
//
// Method: GET
// Path: /api/v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	sess, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	members, err := h.sessions.ListMembers(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sessionDetailResponse{Session: sess, Members: members})
}

// UpdateContext lets the host change time of day, reference time, location
// or radius.
//
// Method: PUT
// Path: /api/v1/sessions/{id}/context
func (h *Handler) UpdateContext(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	var req updateContextRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "lat and lon must be provided together", nil)
		return
	}

	upd := session.ContextUpdate{
		TimeOfDay: req.TimeOfDay,
		Now:       req.Now,
		RadiusKm:  req.RadiusKm,
	}
	if req.Lat != nil {
		upd.Location = &geo.Point{Lat: *req.Lat, Lon: *req.Lon}
	}

	sess, err := h.sessions.UpdateContext(r.Context(), id, req.UID, upd)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sess)
}

// SessionRecommendations scores the pool around the session location for
// every member. The body is optional.
//
// Method: POST
// Path: /api/v1/sessions/{id}/recommendations
func (h *Handler) SessionRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	var req sessionRecommendRequest
	if !decodeAndValidate(w, r, &req, true) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	rec, err := h.sessions.Recommend(ctx, id, session.RecommendOptions{
		RequestID:    logging.RequestIDFromContext(r.Context()),
		TopK:         req.TopK,
		CheckOpenNow: req.CheckOpenNow,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, recommendationsResponse{
		Results:    rec.Response.Results,
		Metadata:   rec.Response.Metadata,
		PoolSource: rec.PoolSource,
		PoolCached: rec.PoolCached,
	})
}

// CastVote records a member's approve, veto or neutral vote.
//
// Method: POST
// Path: /api/v1/sessions/{id}/votes
//
// The response carries the updated tally with its consensus flag.
func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	var req voteRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	voteType, err := session.ParseVoteType(req.Vote)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	vote, err := h.sessions.CastVote(r.Context(), id, req.RestaurantID, req.UID, voteType)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	sess, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	n := len(sess.MemberUIDs)
	respondJSON(w, r, http.StatusOK, session.Tally{
		Vote:      vote,
		Consensus: session.HasConsensus(vote, n),
		Threshold: session.ConsensusThreshold(n),
	})
}

// ListVotes returns every tally of the session with consensus flags.
//
// Method: GET
// Path: /api/v1/sessions/{id}/votes
func (h *Handler) ListVotes(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	tallies, err := h.sessions.Tallies(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, votesResponse{Votes: tallies})
}

// Finalize closes the session on a restaurant. The host may always
// finalize; other members need consensus.
//
// Method: POST
// Path: /api/v1/sessions/{id}/finalize
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	var req finalizeRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	sess, err := h.sessions.Finalize(r.Context(), id, req.RestaurantID, req.UID, req.Restaurant)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, sess)
}
