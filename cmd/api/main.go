package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/cache"
	"github.com/Alikh-collab/TAZA-back/internal/config"
	"github.com/Alikh-collab/TAZA-back/internal/database"
	"github.com/Alikh-collab/TAZA-back/internal/handlers"
	"github.com/Alikh-collab/TAZA-back/internal/jobs"
	"github.com/Alikh-collab/TAZA-back/internal/log"
	"github.com/Alikh-collab/TAZA-back/internal/ratelimit"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
	"github.com/Alikh-collab/TAZA-back/internal/server"
	"github.com/Alikh-collab/TAZA-back/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Log.Level)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate schema")
		}
		logger.Info().Msg("schema migrated")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init file storage")
	}

	checks := []handlers.HealthCheck{{Name: "database", Ping: dbPool.Ping}}
	if redisClient != nil {
		checks = append(checks, handlers.HealthCheck{Name: "cache", Ping: cache.Pinger(redisClient)})
	}

	var (
		limiter ratelimit.Limiter
		sweeper jobs.Sweeper
	)
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	default:
		memory := ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		limiter, sweeper = memory, memory
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, handlers.Dependencies{
		Users:      repository.NewUserRepository(dbPool),
		Complaints: repository.NewComplaintRepository(dbPool, cfg.Region.Box()),
		Updates:    repository.NewUpdateRepository(dbPool),
		Files:      files,
		Limiter:    limiter,
		Checks:     checks,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, files)

	scheduler := jobs.NewScheduler(sweeper, cfg.RateLimit.Window, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduler did not stop in time")
	}

	db.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
