// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

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

	"github.com/tomtom215/nearbite/internal/api"
	"github.com/tomtom215/nearbite/internal/auth"
	"github.com/tomtom215/nearbite/internal/breaker"
	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/interactions"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/places"
	"github.com/tomtom215/nearbite/internal/profile"
	"github.com/tomtom215/nearbite/internal/recommend"
	"github.com/tomtom215/nearbite/internal/storage"
	"github.com/tomtom215/nearbite/internal/supervisor"
	"github.com/tomtom215/nearbite/internal/supervisor/services"
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

	logging.Info().
		Str("version", version).
		Str("db_driver", cfg.Database.Driver).
		Str("embedding_provider", cfg.Embedding.Provider).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Nearbite")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}

//nolint:gocyclo // sequential setup steps
func run(ctx context.Context, cfg *config.Config) error {
	db, err := storage.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("open interaction store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing interaction store")
		}
	}()

	var fetcher places.Fetcher = places.NewOverpassClient(places.OverpassConfig{
		Endpoint:  cfg.Geodata.Endpoint,
		Timeout:   cfg.Geodata.Timeout,
		UserAgent: cfg.Geodata.UserAgent,
	})
	if cfg.Geodata.CircuitBreaker {
		fetcher = places.NewCircuitBreakerFetcher(fetcher, breaker.DefaultConfig())
	}

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		return fmt.Errorf("configure embedding provider: %w", err)
	}
	defer func() {
		if err := embedder.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing embedding cache")
		}
	}()

	ranker, err := recommend.NewRanker(fetcher, embedder, profile.NewBuilder(db), db,
		recommend.FromConfig(&cfg.Recommend))
	if err != nil {
		return fmt.Errorf("create ranker: %w", err)
	}

	interactionSvc := interactions.NewService(db, embedder, interactions.Config{
		DefaultPageSize: cfg.API.DefaultPageSize,
		MaxPageSize:     cfg.API.MaxPageSize,
	})

	authMW, err := auth.NewMiddleware(&cfg.Security)
	if err != nil {
		return fmt.Errorf("configure authentication: %w", err)
	}
	warnInsecureSettings(cfg)

	handler := api.NewHandler(api.Dependencies{
		Recommender:  ranker,
		Interactions: interactionSvc,
		Embedder:     embedder,
		Store:        db,
		Version:      version,
	})
	router := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)), authMW)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Ranking may run for the full recommend timeout before writing.
		WriteTimeout: cfg.Server.Timeout + cfg.Recommend.Timeout,
		IdleTimeout:  2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewStoreHealthService(db, cfg.Database.Driver, cfg.Database.HealthInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	err = tree.Serve(ctx)
	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// warnInsecureSettings logs settings that are acceptable only in development.
func warnInsecureSettings(cfg *config.Config) {
	if cfg.Security.AuthMode == auth.ModeNone {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Str("dev_user_id", cfg.Security.DevUserID).Msg("  Every request is bound to the development user")
		logging.Warn().Msg("  NEVER use AUTH_MODE=none in production or on public networks!")
		logging.Warn().Msg("============================================================")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*). Set explicit origins in production")
			break
		}
	}
}
