package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api/v1")

	// Classification endpoints (rate limited, they may call the model)
	api.POST("/sentiment/quick", s.handleQuickClassify, s.rateLimiter.Middleware)
	api.POST("/sentiment/batch", s.handleBatchClassify, s.rateLimiter.Middleware)
	api.POST("/sentiment/articles/:id", s.handleClassifyArticle, s.rateLimiter.Middleware)

	// Stored analysis lookups
	api.GET("/sentiment", s.handleListByLabel)
	api.GET("/sentiment/articles/:id/latest", s.handleLatestRecord)
	api.GET("/sentiment/articles/:id/history", s.handleRecordHistory)

	// News article CRUD
	api.POST("/news", s.handleCreateArticle)
	api.GET("/news", s.handleListArticles)
	api.GET("/news/search", s.handleSearchArticles)
	api.GET("/news/:id", s.handleGetArticle)
	api.DELETE("/news/:id", s.handleDeleteArticle)
}
