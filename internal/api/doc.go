// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package api provides the HTTP REST API layer for Tablepick.

It exposes stateless recommendation runs, pool lookups, stored user
profiles and group sessions (join codes, shared context, votes and
finalization) over a chi router.

Key Components:

  - Router: chi route table and middleware stack
  - Handler: request handlers backed by session.Service, the engine and a
    pool.Provider
  - Response formatting: every response uses the models.APIResponse
    envelope with a timestamp and the request id
  - Error handling: domain sentinel errors map to status codes and
    machine-readable codes in errors.go

Routes:

	GET  /health/live
	GET  /health/ready
	GET  /metrics
	POST /api/v1/recommendations
	GET  /api/v1/pool?lat=&lon=&radius_km=
	GET  /api/v1/stats/performance
	PUT  /api/v1/users/{uid}/profile
	GET  /api/v1/users/{uid}/profile
	POST /api/v1/sessions
	POST /api/v1/sessions/join
	GET  /api/v1/sessions/{id}
	PUT  /api/v1/sessions/{id}/context
	POST /api/v1/sessions/{id}/recommendations
	POST /api/v1/sessions/{id}/votes
	GET  /api/v1/sessions/{id}/votes
	POST /api/v1/sessions/{id}/finalize

Middleware Stack:

Global: request id and logger context, chi RealIP and Recoverer, go-chi/cors,
Prometheus request metrics and the performance monitor. The /api/v1 group
adds go-chi/httprate rate limiting, security headers, a request body limit
and gzip compression.

Error Codes:

	400 VALIDATION_ERROR, INVALID_JSON
	403 NOT_HOST, NOT_MEMBER, FINALIZE_NOT_ALLOWED
	404 SESSION_NOT_FOUND, PROFILE_NOT_FOUND, NOT_FOUND
	409 SESSION_CLOSED, CONFLICT
	413 PAYLOAD_TOO_LARGE
	429 RATE_LIMITED
	503 POOL_UNAVAILABLE, NOT_READY
	504 TIMEOUT
	500 INTERNAL_ERROR
*/
package api
