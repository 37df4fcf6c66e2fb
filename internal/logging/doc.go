// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package logging provides the process-wide zerolog logger.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//
//	// With request context (request_id, correlation_id)
//	logging.Ctx(ctx).Info().Str("session_id", id).Msg("Session created")
//
// Components receive a zerolog.Logger and derive their own:
//
//	logger := logging.WithComponent("places")
//
// # Configuration
//
// Config is loaded by the config package from the logging section:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file and line (default: false)
//
// # slog bridge
//
// SlogHandler routes log/slog records to zerolog. The supervisor uses it to
// feed suture events through sutureslog.
//
// # Redaction
//
// RedactURL and SanitizeToken keep credentials such as the places API key
// out of log lines and error messages.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
