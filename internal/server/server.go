package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pulseworks/newspulse/internal/config"
	"github.com/pulseworks/newspulse/internal/database"
	"github.com/pulseworks/newspulse/internal/domain"
	apperrors "github.com/pulseworks/newspulse/internal/errors"
)

// classifierService is the classification surface the handlers need.
type classifierService interface {
	Classify(ctx context.Context, text string, useModel bool) (domain.SentimentResult, error)
	ClassifyArticle(ctx context.Context, articleID uuid.UUID) (*domain.SentimentRecord, error)
	ClassifyBatch(ctx context.Context, texts []string, useModel bool) ([]domain.SentimentResult, error)
}

type articleStore interface {
	Create(ctx context.Context, params database.CreateArticleParams) (*domain.Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	List(ctx context.Context, limit, offset int) ([]domain.Article, error)
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type recordStore interface {
	Latest(ctx context.Context, articleID uuid.UUID) (*domain.SentimentRecord, error)
	History(ctx context.Context, articleID uuid.UUID) ([]domain.SentimentRecord, error)
	ListByLabel(ctx context.Context, label domain.Label, limit, offset int) ([]domain.SentimentRecord, error)
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

// redisHealthChecker is a minimal interface for Redis health checks
type redisHealthChecker interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	classifier  classifierService
	articles    articleStore
	records     recordStore
	postgres    postgresHealthChecker
	redis       redisHealthChecker // nil when no cache is configured
	rateLimiter *RateLimiter
	startTime   time.Time
}

func NewServer(cfg *config.Config, classifier classifierService, articles articleStore, records recordStore, pg postgresHealthChecker, redis redisHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(correlationMiddleware)
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:        e,
		config:      cfg,
		classifier:  classifier,
		articles:    articles,
		records:     records,
		postgres:    pg,
		redis:       redis,
		rateLimiter: NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		startTime:   time.Now(),
	}

	// Register routes
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
