// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package places fetches nearby restaurants from the Geoapify place-details API
and turns them into recommendation candidates.

# Pipeline

	Client.FetchNearby -> ToDraft -> DedupDrafts -> Enrich -> FilterByDistance -> Draft.Candidate

FetchNearby queries a (2g+1)x(2g+1) grid of points around the center because
each Geoapify call only covers a 500 m radius. Results are deduplicated by
place id with the first occurrence winning, so grid order is preserved.

# Resilience

Outbound calls go through a token-bucket limiter (golang.org/x/time/rate) and
a circuit breaker (sony/gobreaker). Every failure mode (missing API key,
transport error, non-2xx status, undecodable body, open breaker) is reported
as an error wrapping ErrUnavailable. There are no retries; the caller falls
back to a snapshot or the static pool.

# Missing data

Geoapify carries no dietary, allergen, rating or price data. Drafts leave
these unknown and the engine treats them neutrally.
*/
package places
