package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx := context.Background()

	db, err := database.New(cfg.Database, zlog.Named("database"))
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, zlog.Named("migrate")); err != nil {
		return err
	}

	var tokenCache cache.TokenCache = cache.NopTokenCache{}
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(cfg.Redis, zlog.Named("redis"))
		if err != nil {
			// the cache and rate limiter are optional
			zlog.Warn("continuing without Redis", zap.Error(err))
		} else {
			defer redisClient.Close()
			tokenCache = cache.NewRedisTokenCache(redisClient, cfg.Auth.TokenCacheTTL)
		}
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	services := service.NewServices(repository.NewRepository(db), tokenCache, store, service.Options{
		EnforceOwnership: cfg.Auth.EnforceOwnership,
		MaxUploadBytes:   cfg.Storage.MaxUploadBytes,
	}, zlog)

	handler := router.SetupRouter(router.Deps{
		Config:   cfg,
		Services: services,
		Ping:     func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
		Redis:    redisClient,
		Log:      zlog,
	})
	srv := server.New(cfg.Server, handler, zlog.Named("server"))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	zlog.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	zlog.Info("server stopped")
	return nil
}
