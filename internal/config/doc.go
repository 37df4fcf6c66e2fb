// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package config loads and validates Tablepick configuration.

# Sources

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, or /etc/tablepick/config.yaml
 3. Environment variables mapped through an explicit table

cmd/server loads a local .env file with godotenv before calling
LoadWithKoanf, so .env values reach the environment layer.

# Sections

  - server: listen address, timeouts, body limit, environment
  - logging: zerolog level and format
  - recommend: filter, scoring and ranking parameters of the engine
  - places: Geoapify client (key, grid, rate limit, circuit breaker)
  - pool: cache, snapshot and static fallback policy
  - session: default group context for new sessions
  - storage: badger, mongo, or memory session store
  - security: rate limiting and CORS
  - supervisor: suture tree tuning and background intervals

# Environment Variables

Frequently used variables:

  - HTTP_PORT, HTTP_HOST, ENVIRONMENT
  - LOG_LEVEL, LOG_FORMAT
  - GEOAPIFY_API_KEY (an empty key disables live pool acquisition)
  - STORAGE_BACKEND, BADGER_PATH, MONGO_URI, MONGO_DATABASE
  - RECOMMEND_OPEN_NOW, RECOMMEND_TOP_K, RECOMMEND_TIE_BREAK, RECOMMEND_SEED
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS

Unmapped variables are ignored.

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
