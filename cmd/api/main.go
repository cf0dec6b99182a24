// Copyright (c) 2026 Parley. All rights reserved.
// Author: n.falco.dev@gmail.com

// Command api is the entry point for the Parley HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent) and seed roles.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nfalco/parley/internal/api"
	"github.com/nfalco/parley/internal/forum/activity"
	"github.com/nfalco/parley/internal/forum/board"
	"github.com/nfalco/parley/internal/forum/category"
	"github.com/nfalco/parley/internal/forum/dashboard"
	"github.com/nfalco/parley/internal/forum/post"
	"github.com/nfalco/parley/internal/forum/thread"
	"github.com/nfalco/parley/internal/platform/config"
	"github.com/nfalco/parley/internal/platform/constants"
	"github.com/nfalco/parley/internal/platform/migration"
	pgstore "github.com/nfalco/parley/internal/platform/postgres"
	redisstore "github.com/nfalco/parley/internal/platform/redis"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "parley"))
	slog.SetDefault(log)

	log.Info("[Parley] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "parley"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations + Role Seeding ──────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	userRepository := auth.NewUserRepository(pool)
	must(log, userRepository.SeedRoles(startupCtx), "seed roles")

	// ── 6. Token Service ──────────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, constants.AuthIssuer, cfg.AccessTokenTTL())
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	tracker := activity.NewTracker(rdb, log)

	sessionStore := auth.NewSessionStore(rdb)
	authService, err := auth.NewService(userRepository, sessionStore, sessionStore, tokenService, tracker, cfg.RefreshTokenTTL())
	must(log, err, "initialize auth service")
	authHandler := auth.NewHandler(authService)

	categoryService := category.NewService(category.NewPostgresRepository(pool), log)
	categoryHandler := category.NewHandler(categoryService)

	boardService := board.NewService(board.NewPostgresRepository(pool), categoryService, tracker, log)
	boardHandler := board.NewHandler(boardService)

	threadService := thread.NewService(thread.NewPostgresRepository(pool), boardService, tracker, log)
	threadHandler := thread.NewHandler(threadService)

	postService := post.NewService(post.NewPostgresRepository(pool), threadService, tracker, log)
	postHandler := post.NewHandler(postService)

	dashboardService := dashboard.NewService(dashboard.NewPostgresRepository(pool), tracker, log)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Category:  categoryHandler,
		Board:     boardHandler,
		Thread:    threadHandler,
		Post:      postHandler,
		Dashboard: dashboardHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, tokenService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
