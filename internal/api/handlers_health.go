// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only when the session store answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.ReadyTimeout)
	defer cancel()

	status := models.HealthStatus{
		Status:        "ready",
		Version:       h.config.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Checks:        map[string]string{"store": "ok"},
	}

	if h.sessions == nil {
		status.Checks["store"] = "not configured"
		status.Status = "not_ready"
	} else if err := h.sessions.Store().Ping(ctx); err != nil {
		logger := logging.LoggerFromContext(r.Context())
		logger.Warn().Err(err).Msg("Readiness check failed")
		status.Checks["store"] = "unreachable"
		status.Status = "not_ready"
	}

	if status.Status != "ready" {
		respondError(w, r, http.StatusServiceUnavailable, CodeNotReady, "Service is not ready", map[string]interface{}{
			"checks": status.Checks,
		})
		return
	}
	respondJSON(w, r, http.StatusOK, status)
}

// PerformanceStats returns per-route latency percentiles over the recent window.
func (h *Handler) PerformanceStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"endpoints": h.perfMon.Stats(),
	})
}
