// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/tablepick/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if err := c.validatePlaces(); err != nil {
		return err
	}

	if err := c.validatePool(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateSupervisor()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must be positive, got %s", c.Server.RequestTimeout)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive, got %d", c.Server.MaxBodyBytes)
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, production, or test, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is invalid (use trace, debug, info, warn, error, fatal, panic)", c.Logging.Level)
	}
	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validatePlaces only checks the base URL when an API key is configured.
// Without a key the client is disabled and pools come from the fallbacks.
func (c *Config) validatePlaces() error {
	if c.Places.APIKey == "" {
		return nil
	}
	if err := validateHTTPURL(c.Places.BaseURL, "GEOAPIFY_BASE_URL"); err != nil {
		return fmt.Errorf("GEOAPIFY_BASE_URL is invalid: %w", err)
	}
	if c.Places.GridSize < 0 || c.Places.GridSize > 5 {
		return fmt.Errorf("GEOAPIFY_GRID_SIZE must be between 0 and 5, got %d", c.Places.GridSize)
	}
	if c.Places.StepMeters <= 0 {
		return fmt.Errorf("GEOAPIFY_STEP_METERS must be positive, got %f", c.Places.StepMeters)
	}
	if c.Places.RequestsPerSecond <= 0 || c.Places.Burst < 1 {
		return fmt.Errorf("GEOAPIFY_RPS and GEOAPIFY_BURST must be positive")
	}
	return nil
}

func (c *Config) validatePool() error {
	if c.Pool.CellDegrees <= 0 {
		return fmt.Errorf("POOL_CELL_DEGREES must be positive, got %f", c.Pool.CellDegrees)
	}
	if c.Pool.DefaultRadiusKm <= 0 {
		return fmt.Errorf("POOL_RADIUS_KM must be positive, got %f", c.Pool.DefaultRadiusKm)
	}
	if c.Pool.CacheTTL < 0 || c.Pool.SnapshotTTL < 0 {
		return fmt.Errorf("pool TTLs must not be negative")
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.DefaultLat < -90 || c.Session.DefaultLat > 90 {
		return fmt.Errorf("SESSION_DEFAULT_LAT must be between -90 and 90, got %f", c.Session.DefaultLat)
	}
	if c.Session.DefaultLon < -180 || c.Session.DefaultLon > 180 {
		return fmt.Errorf("SESSION_DEFAULT_LON must be between -180 and 180, got %f", c.Session.DefaultLon)
	}
	if c.Session.DefaultRadiusKm <= 0 {
		return fmt.Errorf("SESSION_RADIUS_KM must be positive, got %f", c.Session.DefaultRadiusKm)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendBadger:
		if c.Storage.BadgerPath == "" && !c.Storage.BadgerInMemory {
			return fmt.Errorf("BADGER_PATH is required when STORAGE_BACKEND=badger")
		}
		if c.Storage.GCDiscardRatio <= 0 || c.Storage.GCDiscardRatio >= 1 {
			return fmt.Errorf("BADGER_GC_RATIO must be between 0 and 1 exclusive, got %f", c.Storage.GCDiscardRatio)
		}
	case BackendMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORAGE_BACKEND=mongo")
		}
		if !strings.HasPrefix(c.Storage.MongoURI, "mongodb://") && !strings.HasPrefix(c.Storage.MongoURI, "mongodb+srv://") {
			return fmt.Errorf("MONGO_URI must use the mongodb:// or mongodb+srv:// scheme")
		}
		if c.Storage.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required when STORAGE_BACKEND=mongo")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be badger, mongo, or memory, got %q", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	// A wildcard origin is fine for development but must be explicit in production.
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * when ENVIRONMENT=production")
			}
		}
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	if c.Supervisor.FailureThreshold < 0 || c.Supervisor.FailureDecay < 0 {
		return fmt.Errorf("supervisor failure threshold and decay must not be negative")
	}
	if c.Supervisor.CacheJanitorInterval <= 0 {
		return fmt.Errorf("CACHE_JANITOR_INTERVAL must be positive, got %s", c.Supervisor.CacheJanitorInterval)
	}
	return nil
}
