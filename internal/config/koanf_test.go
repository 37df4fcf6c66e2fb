// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/tablepick/internal/recommend"
)

// isolateEnv points CONFIG_PATH at a missing file so only defaults and the
// variables set by the test apply.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	for env := range envMappings {
		t.Setenv(strings.ToUpper(env), "")
		os.Unsetenv(strings.ToUpper(env))
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := defaultConfig()

	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 10*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 10s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("Server.MaxBodyBytes = %d, want 1 MiB", cfg.Server.MaxBodyBytes)
	}
	if cfg.Storage.Backend != BackendBadger {
		t.Errorf("Storage.Backend = %q, want badger", cfg.Storage.Backend)
	}
	if !cfg.Recommend.Filter.CheckOpenNow {
		t.Error("Recommend.Filter.CheckOpenNow should default to true")
	}
	if cfg.Recommend.Ranking.TieBreak != recommend.TieBreakID {
		t.Errorf("Recommend.Ranking.TieBreak = %q, want id", cfg.Recommend.Ranking.TieBreak)
	}
	if cfg.Places.APIKey != "" {
		t.Error("Places.APIKey should be empty by default")
	}
	if !cfg.Pool.StaticFallback {
		t.Error("Pool.StaticFallback should default to true")
	}
	if cfg.Session.DefaultTimeOfDay != "dinner" {
		t.Errorf("Session.DefaultTimeOfDay = %q, want dinner", cfg.Session.DefaultTimeOfDay)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"GEOAPIFY_API_KEY", "places.api_key"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"MONGO_URI", "storage.mongo_uri"},
		{"STORAGE_BACKEND", "storage.backend"},
		{"RECOMMEND_TIE_BREAK", "recommend.ranking.tie_break"},
		{"RECOMMEND_OPEN_NOW", "recommend.filter.check_open_now"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"http_port", "server.port"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("server: {}"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if got := findConfigFile(); got != customPath {
			t.Errorf("findConfigFile() = %q, want %q", got, customPath)
		}
	})

	t.Run("CONFIG_PATH with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, filepath.Join(tmpDir, "nope.yaml"))

		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GEOAPIFY_API_KEY", "geo-key")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("RECOMMEND_TIE_BREAK", "random")
	t.Setenv("RECOMMEND_SEED", "7")
	t.Setenv("RECOMMEND_OPEN_NOW", "false")
	t.Setenv("POOL_CACHE_TTL", "2m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Places.APIKey != "geo-key" {
		t.Errorf("Places.APIKey = %q, want geo-key", cfg.Places.APIKey)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Recommend.Ranking.TieBreak != recommend.TieBreakRandom || cfg.Recommend.Ranking.Seed != 7 {
		t.Errorf("Ranking = %+v, want random/7", cfg.Recommend.Ranking)
	}
	if cfg.Recommend.Filter.CheckOpenNow {
		t.Error("Recommend.Filter.CheckOpenNow should be overridden to false")
	}
	if cfg.Pool.CacheTTL != 2*time.Minute {
		t.Errorf("Pool.CacheTTL = %v, want 2m", cfg.Pool.CacheTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}

	// Defaults survive for unset values.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Places.GridSize != 1 {
		t.Errorf("Places.GridSize = %d, want 1 (default)", cfg.Places.GridSize)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	configContent := `
server:
  port: 8888
  host: "127.0.0.1"
logging:
  level: warn
storage:
  backend: mongo
  mongo_uri: "mongodb://file.local:27017"
recommend:
  ranking:
    top_k: 10
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1 (from file)", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Storage.MongoURI != "mongodb://file.local:27017" {
		t.Errorf("Storage.MongoURI = %q", cfg.Storage.MongoURI)
	}
	if cfg.Recommend.Ranking.TopK != 10 {
		t.Errorf("Recommend.Ranking.TopK = %d, want 10", cfg.Recommend.Ranking.TopK)
	}
	if cfg.Recommend.Ranking.MaxK != 100 {
		t.Errorf("Recommend.Ranking.MaxK = %d, want 100 (default)", cfg.Recommend.Ranking.MaxK)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{
			name:    "invalid port",
			envVars: map[string]string{"HTTP_PORT": "70000"},
			errMsg:  "HTTP_PORT",
		},
		{
			name:    "invalid log level",
			envVars: map[string]string{"LOG_LEVEL": "chatty"},
			errMsg:  "LOG_LEVEL",
		},
		{
			name:    "unknown backend",
			envVars: map[string]string{"STORAGE_BACKEND": "postgres"},
			errMsg:  "STORAGE_BACKEND",
		},
		{
			name:    "mongo without uri",
			envVars: map[string]string{"STORAGE_BACKEND": "mongo"},
			errMsg:  "MONGO_URI",
		},
		{
			name:    "invalid tie break",
			envVars: map[string]string{"RECOMMEND_TIE_BREAK": "coin"},
			errMsg:  "tie_break",
		},
		{
			name: "bad geoapify url",
			envVars: map[string]string{
				"GEOAPIFY_API_KEY":  "k",
				"GEOAPIFY_BASE_URL": "ftp://api.geoapify.com",
			},
			errMsg: "GEOAPIFY_BASE_URL",
		},
		{
			name: "wildcard cors in production",
			envVars: map[string]string{
				"ENVIRONMENT": "production",
			},
			errMsg: "CORS_ORIGINS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want mention of %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://api.geoapify.com", false},
		{"http://localhost:8080/", false},
		{"ftp://api.geoapify.com", true},
		{"https://", true},
		{"https://api.geoapify.com/v2", true},
		{"https://api.geoapify.com?apiKey=x", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			err := validateHTTPURL(tt.url, "URL")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()
	s := ServerConfig{Host: "127.0.0.1", Port: 3857}
	if got := s.Addr(); got != "127.0.0.1:3857" {
		t.Errorf("Addr() = %q", got)
	}
}
