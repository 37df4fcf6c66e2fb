// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package models

import (
	"time"
)

// APIResponse is the envelope of every HTTP response.
//
// Example successful response:
//
//	{
//	  "success": true,
//	  "data": {"session": {...}, "members": [...]},
//	  "meta": {"timestamp": "2026-03-01T19:00:00Z", "request_id": "4f1c..."}
//	}
//
// Example error response:
//
//	{
//	  "success": false,
//	  "error": {
//	    "code": "NOT_HOST",
//	    "message": "only the host can do this"
//	  },
//	  "meta": {"timestamp": "2026-03-01T19:00:00Z", "request_id": "4f1c..."}
//	}
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is the error part of the envelope.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "SESSION_CLOSED")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, constraints, etc.)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the readiness probe.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks"`
}
