// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/places"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/recommend"
	"github.com/tomtom215/tablepick/internal/session"
)

// Storage backends.
const (
	BackendBadger = "badger"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    logging.Config   `koanf:"logging"`
	Recommend  recommend.Config `koanf:"recommend"`
	Places     places.Config    `koanf:"places"`
	Pool       pool.Config      `koanf:"pool"`
	Session    session.Config   `koanf:"session"`
	Storage    StorageConfig    `koanf:"storage"`
	Security   SecurityConfig   `koanf:"security"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Host         string        `koanf:"host"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RequestTimeout bounds pool acquisition inside a handler.
	// Default: 10s
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// MaxBodyBytes limits request bodies.
	// Default: 1 MiB
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects and configures the session store.
type StorageConfig struct {
	// Backend is badger, mongo, or memory.
	// Default: badger
	Backend string `koanf:"backend"`

	// BadgerPath is the on-disk directory for sessions and pool snapshots.
	BadgerPath string `koanf:"badger_path"`

	// BadgerInMemory runs Badger without touching disk.
	BadgerInMemory bool `koanf:"badger_in_memory"`

	// GCInterval is how often the value log GC runs.
	// Default: 10m
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCDiscardRatio is passed to RunValueLogGC.
	// Default: 0.5
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`

	MongoURI      string        `koanf:"mongo_uri"`
	MongoDatabase string        `koanf:"mongo_database"`
	MongoTimeout  time.Duration `koanf:"mongo_timeout"`
}

// SecurityConfig holds request-level protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// SupervisorConfig tunes the suture tree and background services.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`

	// CacheJanitorInterval is how often expired pool cache entries are swept.
	// Default: 1m
	CacheJanitorInterval time.Duration `koanf:"cache_janitor_interval"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
