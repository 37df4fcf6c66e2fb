// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// maxUIDLength matches the uid validators of the request bodies.
const maxUIDLength = 128

// uidParam reads and checks the {uid} path parameter.
func uidParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := strings.TrimSpace(chi.URLParam(r, "uid"))
	if uid == "" || len(uid) > maxUIDLength {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "uid must be between 1 and 128 characters", map[string]interface{}{
			"field": "uid",
		})
		return "", false
	}
	return uid, true
}

// SaveProfile stores a user's profile after migrating it to the current schema.
//
// Method: PUT
// Path: /api/v1/users/{uid}/profile
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}
	var req saveProfileRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	rec, err := h.sessions.SaveProfile(r.Context(), uid, req.DisplayName, req.Profile)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec)
}

// GetProfile returns a stored profile.
//
// Method: GET
// Path: /api/v1/users/{uid}/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}
	rec, err := h.sessions.GetProfile(r.Context(), uid)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec)
}
