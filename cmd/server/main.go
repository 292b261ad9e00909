// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package main is the entry point for the Filmrank server.
//
// Filmrank is a self-hosted ranking engine for a film club's catalog of
// undervalued films. Members report whether they had heard of each film and
// rate the ones they have seen; the server scores every film from those
// community signals and serves a live ranked catalog with filtering and
// search, plus real-time updates over WebSocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config file, and environment (Koanf v2)
//  2. Database: DuckDB catalog and signal storage
//  3. Ranking: aggregate cache, concurrent score builder, ranking session
//  4. WebSocket Hub: real-time ranking and catalog broadcasts
//  5. Authentication: JWT sessions unlocked by the shared club password
//  6. HTTP Server: chi-routed REST API with Prometheus metrics
//
// All long-running components run under a suture supervisor tree and restart
// independently on failure.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (see envTransformFunc in internal/config)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Minimum production setup:
//   - JWT_SECRET: 32+ character secret for token signing
//   - ACCESS_PASSWORD: shared club password; login is disabled when empty
//   - DUCKDB_PATH: database file location (default /data/filmrank.duckdb)
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Stops the ranking refresher and WebSocket hub
//   - Closes the database connection
//
// # Example Usage
//
// Local development with mock data:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export ACCESS_PASSWORD=club-password
//	export SEED_MOCK_DATA=true
//	export DUCKDB_PATH=./filmrank.duckdb
//	./filmrank
//
// Docker:
//
//	docker run -d \
//	  -e JWT_SECRET=your-secret \
//	  -e ACCESS_PASSWORD=club-password \
//	  -v filmrank-data:/data \
//	  -p 8490:8490 \
//	  ghcr.io/undervaluedfilms/filmrank
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/undervaluedfilms/filmrank/internal/api"
	"github.com/undervaluedfilms/filmrank/internal/auth"
	"github.com/undervaluedfilms/filmrank/internal/cache"
	"github.com/undervaluedfilms/filmrank/internal/config"
	"github.com/undervaluedfilms/filmrank/internal/database"
	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/mutation"
	"github.com/undervaluedfilms/filmrank/internal/ranking"
	"github.com/undervaluedfilms/filmrank/internal/supervisor"
	"github.com/undervaluedfilms/filmrank/internal/supervisor/services"
	ws "github.com/undervaluedfilms/filmrank/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Filmrank with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Bool("websocket_enabled", cfg.WebSocket.Enabled).
		Msg("Configuration loaded")

	if cfg.Security.AccessPassword == "" {
		logging.Warn().Msg("ACCESS_PASSWORD is not set: login is disabled and mutation endpoints are unreachable")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	// Initialize database (seeds mock data when SEED_MOCK_DATA=true)
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Aggregate cache in front of the signal store; ranking reads go through
	// it, mutations invalidate per film.
	aggCache := cache.New(cfg.Ranking.CacheTTL)
	signals := cache.NewSignalStore(db, aggCache)

	// Ranking core: concurrent score builder behind a generation-tracking
	// session, plus the filter/search engine.
	builder := ranking.NewBuilder(signals, ranking.BuilderConfig{
		Concurrency:  cfg.Ranking.Concurrency,
		FetchTimeout: cfg.Ranking.FetchTimeout,
	})
	session := ranking.NewSession(db, builder)
	engine := ranking.NewEngine(signals)

	// WebSocket hub for real-time updates
	var wsHub *ws.Hub
	if cfg.WebSocket.Enabled {
		wsHub = ws.NewHub(cfg.WebSocket.BroadcastPerSecond)
	} else {
		logging.Info().Msg("WebSocket disabled (WEBSOCKET_ENABLED=false)")
	}

	// Mutation coordinator: persists signal writes, invalidates the cache,
	// and triggers the ranking rebuild.
	coordinatorCfg := mutation.Config{
		RefreshTimeout: cfg.Ranking.RefreshTimeout,
		AsyncRefresh:   true,
	}
	var coordinator *mutation.Coordinator
	if wsHub != nil {
		coordinator = mutation.NewCoordinator(db, db, aggCache, session, wsHub, coordinatorCfg)
	} else {
		coordinator = mutation.NewCoordinator(db, db, aggCache, session, nil, coordinatorCfg)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	logging.Info().Msg("JWT authentication enabled")

	handler := api.NewHandler(db, signals, session, engine, coordinator, jwtManager, wsHub, cfg, db, aggCache)
	middleware := api.NewChiMiddlewareFromConfig(&cfg.Security)
	router := api.NewRouter(handler, middleware, jwtManager)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer: periodic safety-net ranking rebuild
	if wsHub != nil {
		tree.AddDataService(services.NewRankingRefresherService(session, wsHub, cfg.Ranking.RefreshInterval))
	} else {
		tree.AddDataService(services.NewRankingRefresherService(session, nil, cfg.Ranking.RefreshInterval))
	}
	logging.Info().Dur("interval", cfg.Ranking.RefreshInterval).Msg("Ranking refresher added to supervisor tree")

	// Messaging layer services
	if wsHub != nil {
		tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
		logging.Info().Msg("WebSocket hub added to supervisor tree")
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
