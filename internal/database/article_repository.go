package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseworks/newspulse/internal/domain"
)

// articleColumns must match the scan order in scanArticle.
const articleColumns = `id, title, content, source, url, author, category, published_at, created_at, updated_at`

// ArticleRepo stores news articles in PostgreSQL.
type ArticleRepo struct {
	pool *pgxpool.Pool
}

func NewArticleRepo(pool *pgxpool.Pool) *ArticleRepo {
	return &ArticleRepo{pool: pool}
}

// CreateArticleParams carries the caller-supplied fields for a new article.
type CreateArticleParams struct {
	Title       string
	Content     string
	Source      string
	URL         string
	Author      *string
	Category    *string
	PublishedAt *time.Time
}

func (r *ArticleRepo) Create(ctx context.Context, params CreateArticleParams) (*domain.Article, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO news_articles (title, content, source, url, author, category, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+articleColumns,
		params.Title, params.Content, params.Source, params.URL, params.Author, params.Category, params.PublishedAt,
	)

	article, err := scanArticle(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateArticle
		}
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return article, nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM news_articles
		WHERE id = $1`, id)

	article, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

func (r *ArticleRepo) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM news_articles
		WHERE url = $1`, url)

	article, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by URL: %w", err)
	}
	return article, nil
}

func (r *ArticleRepo) List(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+articleColumns+`
		FROM news_articles
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// Search matches the query case-insensitively against title and content.
func (r *ArticleRepo) Search(ctx context.Context, query string, limit, offset int) ([]domain.Article, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT `+articleColumns+`
		FROM news_articles
		WHERE title ILIKE $1 OR content ILIKE $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// Delete removes an article; its sentiment records cascade with it.
func (r *ArticleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM news_articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var article domain.Article
	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &article.Source, &article.URL,
		&article.Author, &article.Category, &article.PublishedAt,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func collectArticles(rows pgx.Rows) ([]domain.Article, error) {
	articles := make([]domain.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}
	return articles, nil
}
