// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

// Package main is the entry point for the DCS dashboard server.
//
// The server proxies a DCS data API (tag metadata and hourly time series),
// reshapes the wide rows it returns into per-tag series for the dashboard
// widgets, and stores saved selections, per-tag display settings and the
// unit catalog in DuckDB.
//
// # Startup Order
//
//  1. Configuration (Koanf v2: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. DuckDB store and the BadgerDB token revocation store
//  4. Data API client, metadata cache and view builder
//  5. Authentication, authorization and the admin account
//  6. Event bus, WebSocket hub and bridge
//  7. Supervisor tree with the storage, realtime and API layers
//
// # Configuration
//
// For JWT authentication (default):
//   - JWT_SECRET: 32+ character secret for token signing
//   - ADMIN_USERNAME / ADMIN_PASSWORD: created on first start
//
// The data API is configured with DATA_API_URL and DATA_API_KEY.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the API
// layer first, waits for in-flight requests, then stops the realtime and
// storage layers before the stores are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/dcsdash/internal/api"
	"github.com/tomtom215/dcsdash/internal/auth"
	"github.com/tomtom215/dcsdash/internal/authz"
	"github.com/tomtom215/dcsdash/internal/cache"
	"github.com/tomtom215/dcsdash/internal/config"
	"github.com/tomtom215/dcsdash/internal/dashboard"
	"github.com/tomtom215/dcsdash/internal/database"
	"github.com/tomtom215/dcsdash/internal/events"
	"github.com/tomtom215/dcsdash/internal/logging"
	"github.com/tomtom215/dcsdash/internal/metadata"
	"github.com/tomtom215/dcsdash/internal/metrics"
	"github.com/tomtom215/dcsdash/internal/supervisor"
	"github.com/tomtom215/dcsdash/internal/supervisor/services"
	"github.com/tomtom215/dcsdash/internal/upstream"
	ws "github.com/tomtom215/dcsdash/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("data_api", cfg.DataAPI.URL).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting DCS dashboard")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Server stopped")
}

//nolint:gocyclo // Sequential wiring of every component
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	revocations, err := auth.OpenRevocationStore(&cfg.KV)
	if err != nil {
		return err
	}
	defer func() {
		if err := revocations.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()

	bus := events.NewBus(events.DefaultBufferSize, events.NewLogger())
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	client := upstream.New(&cfg.DataAPI)
	metaCache := cache.New("metadata", cfg.Cache.MetadataTTL)
	defer metaCache.Close()
	metaSvc := metadata.NewService(client, db, metaCache, bus)
	views := dashboard.NewBuilder(client, db, metaSvc, nil)

	var authenticator api.Authenticator
	var validator auth.Validator
	switch cfg.Security.AuthMode {
	case auth.ModeJWT:
		jwtManager, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return err
		}
		lockout := auth.NewLockout(cfg.Security.LockoutAttempts, cfg.Security.LockoutDuration)
		svc := auth.NewService(db, jwtManager, revocations, lockout)
		authenticator, validator = svc, svc

		created, err := auth.EnsureAdmin(ctx, db, cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logging.Info().Str("username", cfg.Security.AdminUsername).Msg("Created admin account")
		}
		logging.Info().Msg("JWT authentication enabled")
	case auth.ModeNone:
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  Every request is served as the admin user.")
		logging.Warn().Msg("  Use only on isolated networks or for local development.")
		logging.Warn().Msg("============================================================")
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	hub := ws.NewHub()
	bridge := ws.NewBridge(bus, hub, events.AllTopics...)

	handler := api.NewHandler(api.Deps{
		Config:    cfg,
		Store:     db,
		Metadata:  metaSvc,
		DataAPI:   client,
		Views:     views,
		Auth:      authenticator,
		Publisher: bus,
		Hub:       hub,
	})
	router := api.NewRouter(handler, api.Middlewares{
		Authenticate: auth.NewMiddleware(validator, cfg.Security.AuthMode).Authenticate,
		Authorize:    authz.NewMiddleware(enforcer).AuthorizeRequest,
	})

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return err
	}

	tree.Add(supervisor.LayerStorage, revocations)
	tree.Add(supervisor.LayerRealtime, services.NewHubService(hub))
	tree.Add(supervisor.LayerRealtime, bridge)
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.Addr(), services.DefaultShutdownTimeout))

	// Warm the metadata cache without blocking startup.
	go func() {
		if _, err := metaSvc.Get(ctx, false); err != nil {
			logging.Warn().Err(err).Msg("Initial metadata fetch failed (will retry on demand)")
		}
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}
	return nil
}
