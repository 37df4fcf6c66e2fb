// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package cache provides a thread-safe in-memory cache with TTL support.

The pool provider uses it to avoid repeated places API calls for the same
neighbourhood: results are keyed by a rounded location cell and radius and
kept for a configurable TTL (default 10 minutes).

# Expiration

Expiry is checked lazily on Get. Bulk removal happens in Cleanup, which the
cache janitor service in internal/supervisor/services runs on an interval, so
the cache itself never spawns goroutines and is trivially testable with an
injected clock:

	now := time.Now()
	c := cache.New[string]("test", time.Minute, cache.WithClock(func() time.Time { return now }))

# Metrics

Hits, misses, entry counts and evictions are exported with the cache name as
the cache_type label.

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
