// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package middleware provides HTTP middleware components for the API router.

Key Components:

  - RequestID: request and correlation ids plus a request-scoped zerolog logger
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by route pattern
  - PerformanceMonitor: sliding-window latency percentiles and slow request warnings
  - Compression: gzip for clients that accept it

All components use the func(http.Handler) http.Handler shape and plug
directly into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.Compression)
	    // ...
	})

PrometheusMetrics and PerformanceMonitor read the chi route pattern after the
handler returns, so they must be installed on the router that performs the
match, or on one of its parents.
*/
package middleware
