package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pulseworks/newspulse/internal/database"
	"github.com/pulseworks/newspulse/internal/domain"
	apperrors "github.com/pulseworks/newspulse/internal/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type createArticleRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	Author      *string    `json:"author"`
	Category    *string    `json:"category"`
	PublishedAt *time.Time `json:"published_at"`
}

func (r *createArticleRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ValidationError("title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return apperrors.ValidationError("content is required")
	}
	if strings.TrimSpace(r.Source) == "" {
		return apperrors.ValidationError("source is required")
	}
	if strings.TrimSpace(r.URL) == "" {
		return apperrors.ValidationError("url is required")
	}
	return nil
}

func (s *Server) handleCreateArticle(c echo.Context) error {
	var req createArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	article, err := s.articles.Create(c.Request().Context(), database.CreateArticleParams{
		Title:       req.Title,
		Content:     req.Content,
		Source:      req.Source,
		URL:         req.URL,
		Author:      req.Author,
		Category:    req.Category,
		PublishedAt: req.PublishedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateArticle) {
			return apperrors.ConflictError("article with this URL already exists").WithField("url", req.URL)
		}
		return apperrors.InternalError("failed to create article", err)
	}

	return c.JSON(201, article)
}

func (s *Server) handleListArticles(c echo.Context) error {
	limit, offset := paginationParams(c)

	articles, err := s.articles.List(c.Request().Context(), limit, offset)
	if err != nil {
		return apperrors.InternalError("failed to list articles", err)
	}

	return c.JSON(200, map[string]any{
		"articles": articles,
		"count":    len(articles),
	})
}

func (s *Server) handleSearchArticles(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return apperrors.ValidationError("query parameter q is required")
	}

	limit, offset := paginationParams(c)

	articles, err := s.articles.Search(c.Request().Context(), query, limit, offset)
	if err != nil {
		return apperrors.InternalError("failed to search articles", err)
	}

	return c.JSON(200, map[string]any{
		"query":    query,
		"articles": articles,
		"count":    len(articles),
	})
}

func (s *Server) handleGetArticle(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid article ID format").WithField("id", c.Param("id"))
	}

	article, err := s.articles.GetByID(c.Request().Context(), articleID)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apperrors.NotFoundError("article not found").WithField("article_id", articleID.String())
		}
		return apperrors.InternalError("failed to load article", err).WithField("article_id", articleID.String())
	}

	return c.JSON(200, article)
}

func (s *Server) handleDeleteArticle(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid article ID format").WithField("id", c.Param("id"))
	}

	if err := s.articles.Delete(c.Request().Context(), articleID); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apperrors.NotFoundError("article not found").WithField("article_id", articleID.String())
		}
		return apperrors.InternalError("failed to delete article", err).WithField("article_id", articleID.String())
	}

	return c.NoContent(204)
}

// paginationParams reads limit/offset query parameters, clamping them to the
// allowed range.
func paginationParams(c echo.Context) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
