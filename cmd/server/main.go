// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tomtom215/tablepick/internal/api"
	"github.com/tomtom215/tablepick/internal/cache"
	"github.com/tomtom215/tablepick/internal/config"
	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/middleware"
	"github.com/tomtom215/tablepick/internal/places"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/recommend"
	"github.com/tomtom215/tablepick/internal/session"
	"github.com/tomtom215/tablepick/internal/supervisor"
	"github.com/tomtom215/tablepick/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Logging)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Backend).
		Str("places_api_key", logging.SanitizeToken(cfg.Places.APIKey)).
		Msg("Starting Tablepick with supervisor tree")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// === STORAGE ===
	st, err := openStorage(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer st.Close(context.Background())

	// === RECOMMENDATION PIPELINE ===
	engine, err := recommend.NewEngine(&cfg.Recommend, logging.WithComponent("recommend"))
	if err != nil {
		st.Close(context.Background())
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	placesClient := places.NewClient(cfg.Places, logging.WithComponent("places"))
	if !placesClient.Enabled() {
		logging.Warn().Msg("Places API key not set, pools come from snapshots or the static seed")
	}
	poolCache := cache.New[*pool.PoolResult]("pool", cfg.Pool.CacheTTL)
	pools := pool.NewFallbackProvider(
		pool.NewLiveProvider(placesClient, logging.Logger()),
		poolCache,
		st.snapshots,
		cfg.Pool,
		logging.Logger(),
	)

	sessions := session.NewService(st.sessions, engine, pools, cfg.Session, logging.WithComponent("session"))

	// === HTTP ===
	handler := api.NewHandler(sessions, engine, pools, middleware.NewPerformanceMonitor(1000, 0), api.HandlerConfig{
		RequestTimeout:  cfg.Server.RequestTimeout,
		DefaultLocation: geo.Point{Lat: cfg.Session.DefaultLat, Lon: cfg.Session.DefaultLon},
		DefaultRadiusKm: cfg.Session.DefaultRadiusKm,
		Version:         version,
	})

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mwCfg.MaxBodyBytes = cfg.Server.MaxBodyBytes

	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg))
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// === SUPERVISOR TREE ===
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		st.Close(context.Background())
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer
	if st.badger != nil && !cfg.Storage.BadgerInMemory {
		tree.AddDataService(services.NewBadgerGCService(st.badger, cfg.Storage.GCDiscardRatio, cfg.Storage.GCInterval, logging.Logger()))
		logging.Info().Dur("interval", cfg.Storage.GCInterval).Msg("Badger GC service added")
	}

	// Background layer
	tree.AddBackgroundService(services.NewCacheJanitorService(cfg.Supervisor.CacheJanitorInterval, logging.Logger(), poolCache))

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Supervisor.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	cancel()

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
