package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studiohub/onboarding-system/internal/api"
	mongodb "github.com/studiohub/onboarding-system/internal/infrastructure/db/mongo"
	redisdb "github.com/studiohub/onboarding-system/internal/infrastructure/db/redis"
	"github.com/studiohub/onboarding-system/internal/pkg/config"
	"github.com/studiohub/onboarding-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		// The postal-code cache is an optimisation; run without it.
		log.Warn().Err(err).Msg("redis unavailable, postal-code cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	store := mongodb.NewRegistrationStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure registration indexes")
	}
	if cfg.Identity.BaseURL == "" {
		if err := mongodb.NewIdentityRepository(db).EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure identity indexes")
		}
	}

	e := api.NewRouter(cfg, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("onboarding server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
