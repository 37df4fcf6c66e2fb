// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// maxQueryRadiusKm caps radius_km on query strings, matching the body validators.
const maxQueryRadiusKm = 50

// Recommendations runs the engine on caller-supplied profiles.
//
// Method: POST
// Path: /api/v1/recommendations
//
// Request Body:
//
//	{
//	  "profiles": [{"schema_version": 2, "hard": {...}, "soft": {...}, "weights": {...}}],
//	  "pool": [{"id": "r1", "name": "...", "opening_hours": "11:00-22:00"}],
//	  "context": {"lat": 37.77, "lon": -122.42, "radius_km": 5, "now": "2026-03-01T19:00:00Z"},
//	  "check_open_now": true,
//	  "top_k": 10
//	}
//
// Without a pool the configured provider is asked around context.lat/lon,
// or the default location. context.now defaults to the server clock.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	profiles, err := profile.NormalizeAll(req.Profiles)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	center, hasLocation, err := h.resolveLocation(req.Context.Lat, req.Context.Lon)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	radius := req.Context.RadiusKm
	if radius <= 0 {
		radius = h.config.DefaultRadiusKm
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var (
		candidates []recommend.Candidate
		source     = poolSourceRequest
		cached     bool
	)
	if req.Pool == nil {
		res, err := h.acquirePool(r, center, radius)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		candidates, source, cached = res.Candidates, res.Source, res.Cached
		hasLocation = true
	} else {
		candidates = make([]recommend.Candidate, 0, len(req.Pool))
		for i, item := range req.Pool {
			if field, tag, msg, ok := item.check(i); !ok {
				respondError(w, r, http.StatusBadRequest, CodeValidation, msg, map[string]interface{}{
					"field": field,
					"tag":   tag,
				})
				return
			}
			candidates = append(candidates, item.candidate())
		}
	}

	gc := recommend.GroupContext{
		Now:       h.now(),
		RadiusKm:  radius,
		TimeOfDay: req.Context.TimeOfDay,
	}
	if req.Context.Now != nil {
		gc.Now = *req.Context.Now
	}
	if hasLocation {
		loc := center
		gc.Location = &loc
	}

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		RequestID:    logging.RequestIDFromContext(r.Context()),
		Profiles:     profiles,
		Pool:         candidates,
		Context:      gc,
		CheckOpenNow: req.CheckOpenNow,
		TopK:         req.TopK,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, recommendationsResponse{
		Results:    resp.Results,
		Metadata:   resp.Metadata,
		PoolSource: source,
		PoolCached: cached,
	})
}

// Pool returns the candidate pool around a location and reports its source.
//
// Method: GET
// Path: /api/v1/pool?lat=37.77&lon=-122.42&radius_km=3
func (h *Handler) Pool(w http.ResponseWriter, r *http.Request) {
	lat, latErr := optionalFloat(r, "lat")
	lon, lonErr := optionalFloat(r, "lon")
	radiusKm, radErr := optionalFloat(r, "radius_km")
	if err := errors.Join(latErr, lonErr, radErr); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	center, _, err := h.resolveLocation(lat, lon)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	radius := h.config.DefaultRadiusKm
	if radiusKm != nil {
		if !(*radiusKm > 0 && *radiusKm <= maxQueryRadiusKm) {
			respondError(w, r, http.StatusBadRequest, CodeValidation,
				fmt.Sprintf("radius_km must be greater than 0 and at most %d", maxQueryRadiusKm), nil)
			return
		}
		radius = *radiusKm
	}

	res, err := h.acquirePool(r, center, radius)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

// acquirePool asks the provider under the request timeout.
func (h *Handler) acquirePool(r *http.Request, center geo.Point, radiusKm float64) (*pool.PoolResult, error) {
	if h.pools == nil {
		return nil, fmt.Errorf("no pool provider configured: %w", recommend.ErrPoolUnavailable)
	}
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	return h.pools.Pool(ctx, pool.PoolQuery{Center: center, RadiusKm: radiusKm})
}

// resolveLocation returns the point given by lat and lon, or the default
// location when both are absent. The bool reports whether the caller
// supplied coordinates.
func (h *Handler) resolveLocation(lat, lon *float64) (geo.Point, bool, error) {
	switch {
	case lat == nil && lon == nil:
		return h.config.DefaultLocation, false, nil
	case lat == nil || lon == nil:
		return geo.Point{}, false, errors.New("lat and lon must be provided together")
	}
	p := geo.Point{Lat: *lat, Lon: *lon}
	if !p.Valid() {
		return geo.Point{}, false, fmt.Errorf("invalid coordinates %s", p)
	}
	return p, true, nil
}

// optionalFloat parses a float query parameter, nil when absent.
func optionalFloat(r *http.Request, key string) (*float64, error) {
	v, err := parseFloatParam(r, key)
	if errors.Is(err, errMissingParam) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}
