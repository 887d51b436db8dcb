package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authgate/authgate/internal/api"
	"github.com/authgate/authgate/internal/api/metrics"
	"github.com/authgate/authgate/internal/core/auth"
	"github.com/authgate/authgate/internal/infrastructure/config"
	mongodb "github.com/authgate/authgate/internal/infrastructure/db/mongo"
	redisdb "github.com/authgate/authgate/internal/infrastructure/db/redis"
	"github.com/authgate/authgate/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() {
			_ = rdb.Close()
		}()
	}

	sessions := newSessionStore(ctx, cfg, rdb, userRepo)

	e := api.NewRouter(cfg, db, rdb, sessions, log)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("auth_type", cfg.AuthType).
			Str("session_store", cfg.Session.Store).
			Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}

// newSessionStore selects the session binding configured by SESSION_STORE:
// "memory" (default) keeps a process-local registry, "redis" shares the
// registry across replicas, "user" writes the token onto the user row.
func newSessionStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, userRepo *mongodb.UserRepository) auth.SessionStore {
	switch cfg.Session.Store {
	case "redis":
		return redisdb.NewSessionStore(rdb, cfg.Session.TTL)
	case "user":
		return auth.NewUserRowStore(userRepo)
	default:
		store := auth.NewMemoryStore(cfg.Session.TTL)
		store.StartJanitor(ctx, janitorInterval)
		metrics.RegisterSessionsGauge(store.Len)
		return store
	}
}
