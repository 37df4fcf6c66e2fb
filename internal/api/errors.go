// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/tablepick/internal/profile"
	"github.com/tomtom215/tablepick/internal/recommend"
	"github.com/tomtom215/tablepick/internal/session"
)

// Error codes returned in the envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidJSON        = "INVALID_JSON"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeSessionClosed      = "SESSION_CLOSED"
	CodeConflict           = "CONFLICT"
	CodeNotHost            = "NOT_HOST"
	CodeNotMember          = "NOT_MEMBER"
	CodeFinalizeNotAllowed = "FINALIZE_NOT_ALLOWED"
	CodePoolUnavailable    = "POOL_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeNotReady           = "NOT_READY"
	CodeTimeout            = "TIMEOUT"
	CodeInternal           = "INTERNAL_ERROR"
)

// errorMapping ties a domain sentinel to its HTTP status and code.
type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{session.ErrInvalidArgument, http.StatusBadRequest, CodeValidation},
	{session.ErrInvalidVote, http.StatusBadRequest, CodeValidation},
	{recommend.ErrInvalidRequest, http.StatusBadRequest, CodeValidation},
	{profile.ErrUnsupportedSchema, http.StatusBadRequest, CodeValidation},
	{session.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound},
	{session.ErrProfileNotFound, http.StatusNotFound, CodeProfileNotFound},
	{session.ErrSessionClosed, http.StatusConflict, CodeSessionClosed},
	{session.ErrConflict, http.StatusConflict, CodeConflict},
	{session.ErrNotHost, http.StatusForbidden, CodeNotHost},
	{session.ErrNotMember, http.StatusForbidden, CodeNotMember},
	{session.ErrFinalizeNotAllowed, http.StatusForbidden, CodeFinalizeNotAllowed},
	{recommend.ErrPoolUnavailable, http.StatusServiceUnavailable, CodePoolUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout},
}

// classifyError maps err to a status, code and client-safe message.
// Unknown errors become 500 with a generic message.
func classifyError(err error) (status int, code, message string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, err.Error()
		}
	}
	return http.StatusInternalServerError, CodeInternal, "Internal server error"
}
