// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/places"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/recommend"
	"github.com/tomtom215/tablepick/internal/session"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tablepick/config.yaml",
	"/etc/tablepick/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	logCfg := logging.DefaultConfig()
	logCfg.Output = nil

	return &Config{
		Server: ServerConfig{
			Port:           3857,
			Host:           "0.0.0.0",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			RequestTimeout: 10 * time.Second,
			MaxBodyBytes:   1 << 20,
			Environment:    "development",
		},
		Logging:   logCfg,
		Recommend: *recommend.DefaultConfig(),
		Places:    places.DefaultConfig(),
		Pool:      pool.DefaultConfig(),
		Session:   session.DefaultConfig(),
		Storage: StorageConfig{
			Backend:        BackendBadger,
			BadgerPath:     "/data/tablepick",
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
			MongoURI:       "",
			MongoDatabase:  "tablepick",
			MongoTimeout:   10 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Supervisor: SupervisorConfig{
			FailureThreshold:     5,
			FailureDecay:         30,
			FailureBackoff:       15 * time.Second,
			ShutdownTimeout:      10 * time.Second,
			CacheJanitorInterval: time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	"http_port":              "server.port",
	"http_host":              "server.host",
	"http_read_timeout":      "server.read_timeout",
	"http_write_timeout":     "server.write_timeout",
	"http_idle_timeout":      "server.idle_timeout",
	"http_request_timeout":   "server.request_timeout",
	"http_max_body_bytes":    "server.max_body_bytes",
	"environment":            "server.environment",
	"log_level":              "logging.level",
	"log_format":             "logging.format",
	"log_caller":             "logging.caller",
	"log_timestamp":          "logging.timestamp",
	"recommend_open_now":     "recommend.filter.check_open_now",
	"recommend_top_k":        "recommend.ranking.top_k",
	"recommend_max_k":        "recommend.ranking.max_k",
	"recommend_tie_break":    "recommend.ranking.tie_break",
	"recommend_seed":         "recommend.ranking.seed",
	"recommend_workers":      "recommend.scoring.workers",
	"rating_multiplier":      "recommend.scoring.rating_multiplier",
	"geoapify_api_key":       "places.api_key",
	"geoapify_base_url":      "places.base_url",
	"geoapify_grid_size":     "places.grid_size",
	"geoapify_step_meters":   "places.step_meters",
	"geoapify_timeout":       "places.timeout",
	"geoapify_rps":           "places.requests_per_second",
	"geoapify_burst":         "places.burst",
	"pool_cache_ttl":         "pool.cache_ttl",
	"pool_cell_degrees":      "pool.cell_degrees",
	"pool_snapshot_ttl":      "pool.snapshot_ttl",
	"pool_static_fallback":   "pool.static_fallback",
	"pool_radius_km":         "pool.default_radius_km",
	"session_time_of_day":    "session.default_time_of_day",
	"session_default_lat":    "session.default_lat",
	"session_default_lon":    "session.default_lon",
	"session_radius_km":      "session.default_radius_km",
	"storage_backend":        "storage.backend",
	"badger_path":            "storage.badger_path",
	"badger_in_memory":       "storage.badger_in_memory",
	"badger_gc_interval":     "storage.gc_interval",
	"badger_gc_ratio":        "storage.gc_discard_ratio",
	"mongo_uri":              "storage.mongo_uri",
	"mongo_database":         "storage.mongo_database",
	"mongo_timeout":          "storage.mongo_timeout",
	"rate_limit_requests":    "security.rate_limit_reqs",
	"rate_limit_window":      "security.rate_limit_window",
	"disable_rate_limit":     "security.rate_limit_disabled",
	"cors_origins":           "security.cors_origins",
	"supervisor_threshold":   "supervisor.failure_threshold",
	"supervisor_decay":       "supervisor.failure_decay",
	"supervisor_backoff":     "supervisor.failure_backoff",
	"shutdown_timeout":       "supervisor.shutdown_timeout",
	"cache_janitor_interval": "supervisor.cache_janitor_interval",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - GEOAPIFY_API_KEY -> places.api_key
//   - HTTP_PORT -> server.port
//   - MONGO_URI -> storage.mongo_uri
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so the process environment cannot
	// pollute the config tree.
	return ""
}
