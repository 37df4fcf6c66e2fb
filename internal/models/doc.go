// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package models holds the HTTP envelope shared by the API handlers and
// their tests. Domain types live with their packages (recommend, session,
// profile).
package models
