// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import "errors"

var (
	// ErrPoolUnavailable reports that the candidate pool could not be
	// acquired. The engine never returns it; pool providers wrap their
	// failures with it so callers can decide on a fallback.
	ErrPoolUnavailable = errors.New("candidate pool unavailable")

	// ErrInvalidRequest is returned for requests the engine cannot evaluate.
	ErrInvalidRequest = errors.New("invalid recommendation request")
)
