package server

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pulseworks/newspulse/internal/domain"
	apperrors "github.com/pulseworks/newspulse/internal/errors"
	"github.com/pulseworks/newspulse/internal/sentiment"
)

// quickRequest deliberately binds only the input fields. Any sentiment or
// model fields a client injects into the body are dropped on bind.
type quickRequest struct {
	Text     string `json:"text"`
	UseModel *bool  `json:"use_model"`
}

type batchRequest struct {
	Texts    []string `json:"texts"`
	UseModel *bool    `json:"use_model"`
}

func (s *Server) handleQuickClassify(c echo.Context) error {
	var req quickRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	useModel := true
	if req.UseModel != nil {
		useModel = *req.UseModel
	}

	result, err := s.classifier.Classify(c.Request().Context(), req.Text, useModel)
	if err != nil {
		if errors.Is(err, sentiment.ErrInvalidInput) {
			return apperrors.ValidationError(err.Error())
		}
		return apperrors.InternalError("failed to classify text", err)
	}

	return c.JSON(200, result)
}

func (s *Server) handleBatchClassify(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	useModel := true
	if req.UseModel != nil {
		useModel = *req.UseModel
	}

	results, err := s.classifier.ClassifyBatch(c.Request().Context(), req.Texts, useModel)
	if err != nil {
		if errors.Is(err, sentiment.ErrInvalidInput) {
			return apperrors.UnprocessableError(err.Error())
		}
		return apperrors.InternalError("failed to classify batch", err)
	}

	return c.JSON(200, results)
}

func (s *Server) handleClassifyArticle(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid article ID format").WithField("id", c.Param("id"))
	}

	record, err := s.classifier.ClassifyArticle(c.Request().Context(), articleID)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apperrors.NotFoundError("article not found").WithField("article_id", articleID.String())
		}
		if errors.Is(err, sentiment.ErrInvalidInput) {
			return apperrors.ValidationError(err.Error()).WithField("article_id", articleID.String())
		}
		return apperrors.InternalError("failed to analyze article", err).WithField("article_id", articleID.String())
	}

	return c.JSON(201, record)
}

func (s *Server) handleLatestRecord(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid article ID format").WithField("id", c.Param("id"))
	}
	ctx := c.Request().Context()

	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apperrors.NotFoundError("article not found").WithField("article_id", articleID.String())
		}
		return apperrors.InternalError("failed to load article", err).WithField("article_id", articleID.String())
	}

	record, err := s.records.Latest(ctx, articleID)
	if err != nil {
		if errors.Is(err, domain.ErrNoAnalysis) {
			return apperrors.NotFoundError("no sentiment analysis for article").WithField("article_id", articleID.String())
		}
		return apperrors.InternalError("failed to load sentiment record", err).WithField("article_id", articleID.String())
	}

	return c.JSON(200, record)
}

func (s *Server) handleRecordHistory(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid article ID format").WithField("id", c.Param("id"))
	}
	ctx := c.Request().Context()

	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apperrors.NotFoundError("article not found").WithField("article_id", articleID.String())
		}
		return apperrors.InternalError("failed to load article", err).WithField("article_id", articleID.String())
	}

	history, err := s.records.History(ctx, articleID)
	if err != nil {
		return apperrors.InternalError("failed to load sentiment history", err).WithField("article_id", articleID.String())
	}
	if history == nil {
		history = []domain.SentimentRecord{}
	}

	return c.JSON(200, history)
}

func (s *Server) handleListByLabel(c echo.Context) error {
	label, err := domain.ParseLabel(c.QueryParam("label"))
	if err != nil {
		return apperrors.ValidationError(err.Error()).WithField("label", c.QueryParam("label"))
	}

	limit, offset := paginationParams(c)

	records, err := s.records.ListByLabel(c.Request().Context(), label, limit, offset)
	if err != nil {
		return apperrors.InternalError("failed to list sentiment records", err)
	}

	return c.JSON(200, map[string]any{
		"label":   label,
		"records": records,
		"count":   len(records),
	})
}
