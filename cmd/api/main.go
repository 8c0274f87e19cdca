// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Agora HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Apply embedded migrations unless MIGRATE_ON_START=false.
//  6. Build the token service, hasher, and metrics registry.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/taibuivan/agora/data/migrations"
	"github.com/taibuivan/agora/internal/api"
	"github.com/taibuivan/agora/internal/auth"
	"github.com/taibuivan/agora/internal/forum/category"
	"github.com/taibuivan/agora/internal/forum/post"
	"github.com/taibuivan/agora/internal/forum/tag"
	"github.com/taibuivan/agora/internal/forum/topic"
	"github.com/taibuivan/agora/internal/platform/config"
	"github.com/taibuivan/agora/internal/platform/constants"
	"github.com/taibuivan/agora/internal/platform/metrics"
	"github.com/taibuivan/agora/internal/platform/middleware"
	"github.com/taibuivan/agora/internal/platform/migration"
	pgstore "github.com/taibuivan/agora/internal/platform/postgres"
	"github.com/taibuivan/agora/internal/platform/ratelimit"
	redisstore "github.com/taibuivan/agora/internal/platform/redis"
	"github.com/taibuivan/agora/internal/platform/sec"
	"github.com/taibuivan/agora/internal/realtime"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	level := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		level.Set(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; background sweepers stop with it.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if cfg.MigrateOnStart {
		var files fs.FS = migrations.FS
		if cfg.MigrationPath != "" {
			files = os.DirFS(cfg.MigrationPath)
		}
		must(log, migration.RunUp(cfg.DatabaseURL, files, log), "run migrations")
	}

	// ── 6. Security & Observability ───────────────────────────────────────
	tokenService, err := sec.NewTokenService(sec.TokenConfig{
		Secret:    cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		AccessTTL: cfg.Auth.AccessTokenTTL(),
	})
	must(log, err, "initialize token service")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	limiter, err := ratelimit.New(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)
	must(log, err, "initialize login rate limiter")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService, err := auth.NewService(auth.Dependencies{
		Users:         auth.NewUserRepository(pool),
		RefreshTokens: auth.NewRefreshTokenStore(pool),
		Verifications: auth.NewVerificationTokenRepository(rdb),
		Hasher:        sec.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:        tokenService,
		Recorder:      recorder,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL(),
	})
	must(log, err, "initialize auth service")

	throttle := func(scope string) func(http.Handler) http.Handler {
		return ratelimit.Middleware(limiter, scope)
	}

	liveHandler := realtime.NewHandler(rdb, recorder, func(origin string) bool {
		return middleware.OriginAllowed(cfg, cfg.AllowedOriginSuffix, origin)
	})

	liveness, readiness := api.NewHealthHandlers(
		api.Probe{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		api.Probe{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, throttle),
		Category:  category.NewHandler(category.NewService(category.NewPostgresRepository(pool))),
		Tag:       tag.NewHandler(tag.NewService(tag.NewPostgresRepository(pool))),
		Topic:     topic.NewHandler(topic.NewService(topic.NewPostgresRepository(pool), nil)),
		Post: post.NewHandler(post.NewService(
			post.NewPostgresRepository(pool),
			realtime.NewPublisher(rdb),
			nil,
		)),
		Live: liveHandler,
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, tokenService, recorder, handlers)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		appCancel()
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
