// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package main is the entry point for the Tablepick server.

Tablepick recommends restaurants that suit a whole group. Members join a
session with a short code, bring their taste profiles, and vote on the
ranked list until the group reaches consensus or the host decides.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("tablepick")
	├── DataSupervisor ("data-layer")
	│   └── Badger value-log GC (badger backend on disk only)
	├── BackgroundSupervisor ("background-layer")
	│   └── Pool cache janitor
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. .env file (godotenv), then configuration (Koanf v2)
 2. Logging: zerolog with JSON or console output
 3. Storage: Badger, MongoDB or in-memory session store
 4. Recommendation engine
 5. Pool chain: Geoapify client, live provider, TTL cache, snapshots, static seed
 6. Session service
 7. Chi router with middleware stack
 8. Supervisor tree

# Configuration

Settings come from built-in defaults, an optional config.yaml and
environment variables, in that order of precedence. Common variables:

	HTTP_PORT=8080
	STORAGE_BACKEND=badger        # badger, mongo or memory
	BADGER_PATH=/data/tablepick
	MONGO_URI=mongodb://localhost:27017
	GEOAPIFY_API_KEY=...          # empty serves snapshots or the static seed
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains in-flight requests within
SHUTDOWN_TIMEOUT, and storage is closed last.

# Example Usage

	export STORAGE_BACKEND=memory
	export LOG_FORMAT=console
	./tablepick
*/
package main
