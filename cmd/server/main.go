package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pulseworks/newspulse/internal/cache"
	"github.com/pulseworks/newspulse/internal/config"
	"github.com/pulseworks/newspulse/internal/database"
	"github.com/pulseworks/newspulse/internal/logging"
	"github.com/pulseworks/newspulse/internal/sentiment"
	"github.com/pulseworks/newspulse/internal/server"
	"github.com/pulseworks/newspulse/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "build", version.Get().String())

	pool := setupDB(cfg)
	defer pool.Close()

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient = setupRedis(cfg)
		defer func() { _ = redisClient.Close() }()
	}

	articleRepo := database.NewArticleRepo(pool)
	sentimentRepo := database.NewSentimentRepo(pool)

	// The model engine only exists when an API key is configured; without it
	// every classification uses the keyword engine.
	var modelEngine sentiment.Engine
	if cfg.OpenAIAPIKey != "" {
		modelEngine = sentiment.NewOpenAIEngine(sentiment.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.OpenAIMaxTokens,
			Temperature: cfg.OpenAITemperature,
			Timeout:     cfg.OpenAITimeout,
		})
		slog.Info("Model engine enabled", "model", cfg.OpenAIModel)
	} else {
		slog.Info("No OpenAI API key configured, using keyword engine only")
	}

	opts := []sentiment.ClassifierOption{
		sentiment.WithRetryOnce(cfg.OpenAIRetryOnce),
	}
	if redisClient != nil {
		opts = append(opts, sentiment.WithCache(cache.NewResultCache(redisClient, cfg.CacheTTL)))
	}

	classifier := sentiment.NewClassifier(
		modelEngine,
		sentiment.NewKeywordEngine(),
		articleRepo,
		sentimentRepo,
		cfg.MaxTextLength,
		opts...,
	)

	// Pass nil explicitly to avoid a typed-nil interface
	var srv *server.Server
	if redisClient != nil {
		srv = server.NewServer(cfg, classifier, articleRepo, sentimentRepo, pool, redisClient)
	} else {
		srv = server.NewServer(cfg, classifier, articleRepo, sentimentRepo, pool, nil)
	}

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
