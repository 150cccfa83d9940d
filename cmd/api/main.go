// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Biblioteca catalog API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (and an optional .env file).
//  3. Run catalog migrations (idempotent, when MIGRATE_ON_START is set).
//  4. Open the shared catalog store.
//  5. Connect to Redis when a cache URL is configured.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/biblioteca/internal/api"
	"github.com/taibuivan/biblioteca/internal/core/author"
	"github.com/taibuivan/biblioteca/internal/core/book"
	"github.com/taibuivan/biblioteca/internal/core/booklist"
	"github.com/taibuivan/biblioteca/internal/core/favorite"
	"github.com/taibuivan/biblioteca/internal/core/series"
	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/config"
	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/database"
	"github.com/taibuivan/biblioteca/internal/platform/migration"
	redisstore "github.com/taibuivan/biblioteca/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.Bool("cache_enabled", cfg.CacheEnabled()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	must(log, cfg.Database().EnsureDir(), "prepare catalog directory")
	if cfg.MigrateOnStart {
		must(log, migration.RunUp(cfg.Database(), log), "run migrations")
	}

	// ── 4. Catalog store ──────────────────────────────────────────────────
	_, err = database.Open(startupCtx, cfg.Database(), log)
	must(log, err, "open catalog store")
	defer func() {
		log.Info("closing catalog store")
		if cerr := database.CloseShared(); cerr != nil {
			log.Error("catalog store close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Cache ──────────────────────────────────────────────────────────
	var (
		catalogCache cache.Cache = cache.Noop{}
		checkCache   func(context.Context) error
	)
	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		catalogCache = cache.NewRedis(rdb, cfg.CacheTTL)
		checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			db, err := database.Shared()
			if err != nil {
				return err
			}
			return database.Ping(ctx, db)
		},
		CheckCache: checkCache,
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	handle := database.Handle(database.Shared)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Authors:   author.NewHandler(author.NewService(author.NewSQLRepository(handle), catalogCache, log)),
		Books:     book.NewHandler(book.NewService(book.NewSQLRepository(handle), catalogCache, log)),
		Lists:     booklist.NewHandler(booklist.NewService(booklist.NewSQLRepository(handle), catalogCache, log)),
		Series:    series.NewHandler(series.NewService(series.NewSQLRepository(handle), catalogCache, log)),
		Favorites: favorite.NewHandler(favorite.NewService(favorite.NewSQLRepository(handle), log)),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
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

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

func closeRedis(log *slog.Logger, rdb *goredis.Client) {
	log.Info("closing redis client")
	if cerr := rdb.Close(); cerr != nil {
		log.Error("redis close error", slog.Any("error", cerr))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
