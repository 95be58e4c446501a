package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/pulseworks/newspulse/internal/domain"
)

// CreateTestArticle is a helper that creates an article with default values
// for testing. The URL is derived from the slug to keep it unique.
func CreateTestArticle(t *testing.T, pool *pgxpool.Pool, slug string) *domain.Article {
	t.Helper()

	repo := NewArticleRepo(pool)
	ctx := context.Background()

	article, err := repo.Create(ctx, CreateArticleParams{
		Title:   "Test article " + slug,
		Content: "Bitcoin surges to new all-time high as institutional adoption grows.",
		Source:  "test-feed",
		URL:     fmt.Sprintf("https://example.com/articles/%s", slug),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, article.ID)

	return article
}

// CreateTestRecord saves a sentiment record for an article with the given
// label, returning the persisted row.
func CreateTestRecord(t *testing.T, pool *pgxpool.Pool, articleID uuid.UUID, label domain.Label, score float64) *domain.SentimentRecord {
	t.Helper()

	repo := NewSentimentRepo(pool)
	ctx := context.Background()

	record, err := repo.Save(ctx, articleID, domain.SentimentResult{
		Label:        label,
		Score:        score,
		Confidence:   0.8,
		ModelVersion: "test-model-v1",
		KeyFactors:   []string{"test"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, record.ID)

	return record
}
