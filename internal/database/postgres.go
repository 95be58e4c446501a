package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected", "min_conns", poolCfg.MinConns, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

// RunMigrations applies the schema. Statements are idempotent so repeated
// startup runs are safe.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS news_articles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			source TEXT NOT NULL,
			url TEXT UNIQUE NOT NULL,
			author TEXT,
			category TEXT,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_articles_url ON news_articles(url)`,
		`CREATE INDEX IF NOT EXISTS idx_news_articles_category ON news_articles(category)`,
		`CREATE TABLE IF NOT EXISTS sentiment_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			article_id UUID NOT NULL REFERENCES news_articles(id) ON DELETE CASCADE,
			seq BIGINT GENERATED ALWAYS AS IDENTITY,
			sentiment_label TEXT NOT NULL,
			sentiment_score DOUBLE PRECISION NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			model_version TEXT NOT NULL,
			key_factors TEXT[],
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_records_article_id ON sentiment_records(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_records_article_created ON sentiment_records(article_id, created_at DESC, seq DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_records_label ON sentiment_records(sentiment_label)`,
	}

	for _, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	slog.Info("Database migrations completed")
	return nil
}
