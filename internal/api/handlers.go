// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package api

import (
	"context"
	"time"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/middleware"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/session"
)

// HandlerConfig holds request-level settings for the handlers.
type HandlerConfig struct {
	// RequestTimeout bounds pool acquisition and engine runs.
	RequestTimeout time.Duration

	// DefaultLocation is used when a request carries no coordinates.
	DefaultLocation geo.Point

	// DefaultRadiusKm is used when a request carries no radius.
	DefaultRadiusKm float64

	// Version is reported by the readiness probe.
	Version string

	// ReadyTimeout bounds the store ping of the readiness probe.
	ReadyTimeout time.Duration
}

// DefaultHandlerConfig returns a 10s request timeout centered on San Francisco.
func DefaultHandlerConfig() HandlerConfig {
	sc := session.DefaultConfig()
	return HandlerConfig{
		RequestTimeout:  10 * time.Second,
		DefaultLocation: geo.Point{Lat: sc.DefaultLat, Lon: sc.DefaultLon},
		DefaultRadiusKm: sc.DefaultRadiusKm,
		Version:         "dev",
		ReadyTimeout:    2 * time.Second,
	}
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor
//   - handlers_helpers.go: envelope, decoding and validation helpers
//   - handlers_health.go: probes and performance stats
//   - handlers_recommend.go: stateless engine runs and pool lookups
//   - handlers_profiles.go: stored user profiles
//   - handlers_sessions.go: sessions, votes and finalization
type Handler struct {
	sessions  *session.Service
	engine    session.Recommender
	pools     pool.Provider
	perfMon   *middleware.PerformanceMonitor
	config    HandlerConfig
	startTime time.Time
	now       func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerClock injects the clock used as the default reference time of
// stateless runs.
func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(sessions, engine, pools, perfMon, api.DefaultHandlerConfig())
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":3857", router.SetupChi())
func NewHandler(sessions *session.Service, engine session.Recommender, pools pool.Provider, perfMon *middleware.PerformanceMonitor, cfg HandlerConfig, opts ...HandlerOption) *Handler {
	def := DefaultHandlerConfig()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = def.DefaultRadiusKm
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = def.ReadyTimeout
	}
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if perfMon == nil {
		perfMon = middleware.NewPerformanceMonitor(1000, time.Second)
	}

	h := &Handler{
		sessions:  sessions,
		engine:    engine,
		pools:     pools,
		perfMon:   perfMon,
		config:    cfg,
		startTime: time.Now(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PerformanceMonitor returns the monitor whose middleware the router installs.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// withTimeout bounds work that may reach the places provider.
func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}
