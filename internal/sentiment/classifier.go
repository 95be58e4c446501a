package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/pulseworks/newspulse/internal/domain"
	"github.com/pulseworks/newspulse/internal/metrics"
	"github.com/pulseworks/newspulse/internal/platform/retry"
)

// MaxBatchSize bounds a single batch classification call.
const MaxBatchSize = 10

// batchConcurrency bounds the fan-out of a batch; each text may still
// independently hit or miss the model engine.
const batchConcurrency = 4

// ErrInvalidInput marks client-fixable input problems (empty or oversized
// text, bad batch size).
var ErrInvalidInput = errors.New("invalid input")

// ArticleStore is the subset of article persistence the classifier needs.
type ArticleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

// RecordStore persists classification results against articles.
type RecordStore interface {
	Save(ctx context.Context, articleID uuid.UUID, result domain.SentimentResult) (*domain.SentimentRecord, error)
}

// ResultCache is an optional read-through cache for model-backed quick
// classifications. A nil cache disables it; cache failures are misses.
type ResultCache interface {
	Get(ctx context.Context, text string) (*domain.SentimentResult, error)
	Set(ctx context.Context, text string, result domain.SentimentResult) error
}

// Classifier orchestrates the model and keyword engines with a prefer-model,
// fail-open policy: model failures are absorbed silently, and the only
// caller-visible failure modes are bad input and missing articles.
type Classifier struct {
	model     Engine // nil when no API key is configured
	fallback  Engine
	articles  ArticleStore
	records   RecordStore
	cache     ResultCache
	clock     clockwork.Clock
	maxLength int
	retryOnce bool
}

type ClassifierOption func(*Classifier)

// WithCache attaches a result cache for model-backed classifications.
func WithCache(cache ResultCache) ClassifierOption {
	return func(c *Classifier) { c.cache = cache }
}

// WithClock overrides the clock, for tests.
func WithClock(clock clockwork.Clock) ClassifierOption {
	return func(c *Classifier) { c.clock = clock }
}

// WithRetryOnce enables a single immediate retry of the model engine before
// falling back.
func WithRetryOnce(enabled bool) ClassifierOption {
	return func(c *Classifier) { c.retryOnce = enabled }
}

func NewClassifier(model Engine, fallback Engine, articles ArticleStore, records RecordStore, maxLength int, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		model:     model,
		fallback:  fallback,
		articles:  articles,
		records:   records,
		clock:     clockwork.NewRealClock(),
		maxLength: maxLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify validates text and runs it through the selected engine. When
// useModel is true and the model engine is configured, it is tried first;
// any upstream failure falls back to the keyword engine without surfacing.
func (c *Classifier) Classify(ctx context.Context, text string, useModel bool) (domain.SentimentResult, error) {
	if err := c.validateText(text); err != nil {
		return domain.SentimentResult{}, err
	}

	if !useModel || c.model == nil {
		return c.classifyWith(ctx, c.fallback, text)
	}

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, text); err != nil {
			metrics.CacheHitsTotal.WithLabelValues("error").Inc()
			slog.Warn("Result cache lookup failed", "error", err)
		} else if cached != nil {
			metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
			return cached.Clamp(), nil
		} else {
			metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
		}
	}

	result, err := c.classifyWithModel(ctx, text)
	if err == nil {
		if c.cache != nil {
			if err := c.cache.Set(ctx, text, result); err != nil {
				slog.Warn("Result cache write failed", "error", err)
			}
		}
		return result, nil
	}

	// Fail open: the fallback is unconditional and silent to the caller.
	slog.Warn("Model engine failed, falling back to keyword engine", "error", err)
	metrics.FallbacksTotal.Inc()
	return c.classifyWith(ctx, c.fallback, text)
}

// ClassifyArticle resolves the article's text, classifies it, and appends a
// new sentiment record to the article's history. The text rules are the same
// as for ad-hoc classification: an article whose title and content exceed the
// length limit is rejected, not truncated.
func (c *Classifier) ClassifyArticle(ctx context.Context, articleID uuid.UUID) (*domain.SentimentRecord, error) {
	article, err := c.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	result, err := c.Classify(ctx, article.AnalysisText(), true)
	if err != nil {
		return nil, err
	}

	record, err := c.records.Save(ctx, articleID, result)
	if err != nil {
		return nil, fmt.Errorf("failed to persist sentiment record: %w", err)
	}

	metrics.RecordsSavedTotal.Inc()
	return record, nil
}

// ClassifyBatch classifies up to MaxBatchSize texts with bounded concurrency,
// returning results in input order. A single text's model failure falls back
// like any other and never aborts its siblings.
func (c *Classifier) ClassifyBatch(ctx context.Context, texts []string, useModel bool) ([]domain.SentimentResult, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: batch must contain at least one text", ErrInvalidInput)
	}
	if len(texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size %d exceeds maximum of %d", ErrInvalidInput, len(texts), MaxBatchSize)
	}
	for i, text := range texts {
		if err := c.validateText(text); err != nil {
			return nil, fmt.Errorf("text at index %d: %w", i, err)
		}
	}

	results := make([]domain.SentimentResult, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			result, err := c.Classify(gctx, text, useModel)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Only validation errors can surface from Classify, and those were
		// checked up front; this guards context cancellation.
		return nil, err
	}

	return results, nil
}

func (c *Classifier) validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidInput)
	}
	if len(text) > c.maxLength {
		return fmt.Errorf("%w: text length %d exceeds maximum of %d characters", ErrInvalidInput, len(text), c.maxLength)
	}
	return nil
}

func (c *Classifier) classifyWithModel(ctx context.Context, text string) (domain.SentimentResult, error) {
	attempts := 1
	if c.retryOnce {
		attempts = 2
	}

	policy := retry.Policy{
		MaxAttempts: attempts,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			slog.Debug("Retrying model engine", "attempt", attempt, "error", err)
		},
	}
	classify := func(err error) retry.Action {
		if IsUpstream(err) {
			return retry.Retry
		}
		return retry.Stop
	}

	start := c.clock.Now()
	result, err := retry.Do(ctx, policy, classify, func() (domain.SentimentResult, error) {
		return c.model.Classify(ctx, text)
	})
	if err != nil {
		return domain.SentimentResult{}, err
	}

	result = result.Clamp()

	metrics.ClassificationDuration.WithLabelValues(c.model.Name()).Observe(c.clock.Since(start).Seconds())
	metrics.ClassificationsTotal.WithLabelValues(c.model.Name(), string(result.Label)).Inc()

	return result, nil
}

func (c *Classifier) classifyWith(ctx context.Context, engine Engine, text string) (domain.SentimentResult, error) {
	start := c.clock.Now()
	result, err := engine.Classify(ctx, text)
	if err != nil {
		return domain.SentimentResult{}, err
	}

	result = result.Clamp()

	metrics.ClassificationDuration.WithLabelValues(engine.Name()).Observe(c.clock.Since(start).Seconds())
	metrics.ClassificationsTotal.WithLabelValues(engine.Name(), string(result.Label)).Inc()

	return result, nil
}
