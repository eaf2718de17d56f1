package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/comment-board/config"
	"github.com/NomadCrew/comment-board/handlers"
	"github.com/NomadCrew/comment-board/internal/cache"
	"github.com/NomadCrew/comment-board/internal/mutation"
	"github.com/NomadCrew/comment-board/logger"
	"github.com/NomadCrew/comment-board/router"
	"github.com/NomadCrew/comment-board/services"
	"github.com/NomadCrew/comment-board/store/jsonfile"
	"github.com/NomadCrew/comment-board/types"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commentLog := jsonfile.New[string](cfg.Store.CommentsPath())
	feedbackLog := jsonfile.New[types.Feedback](cfg.Store.FeedbackPath())

	// Redis is optional; it backs invalidation broadcasting and rate limiting.
	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		if cfg.Redis.UseTLS || cfg.IsProduction() {
			redisOptions.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}
		redisClient = redis.NewClient(redisOptions)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warnw("Redis not reachable at startup", "address", cfg.Redis.Address, "error", err)
		}
		cancel()
	}

	var registryOpts []cache.Option
	if cfg.Cache.BroadcastEnabled {
		registryOpts = append(registryOpts, cache.WithBroadcaster(cache.NewRedisBroadcaster(redisClient, cfg.Cache.Channel)))
	}
	registry := cache.NewRegistry(registryOpts...)
	defer registry.Close()

	go func() {
		if err := registry.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("Cache invalidation listener stopped", "error", err)
		}
	}()

	submitter := mutation.NewHandler(commentLog, feedbackLog, registry)
	healthService := services.NewHealthService(map[string]services.StoreChecker{
		types.ComponentCommentsStore: commentLog,
		types.ComponentFeedbackStore: feedbackLog,
	}, redisClient, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		CommentHandler:  handlers.NewCommentHandler(submitter, commentLog, registry),
		FeedbackHandler: handlers.NewFeedbackHandler(submitter, feedbackLog, registry),
		HealthHandler:   handlers.NewHealthHandler(healthService),
		RedisClient:     redisClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"comments", cfg.Store.CommentsPath(),
			"broadcast", cfg.Cache.BroadcastEnabled)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
}
