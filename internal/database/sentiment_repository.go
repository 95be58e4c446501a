package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseworks/newspulse/internal/domain"
)

// recordColumns must match the scan order in scanRecord.
const recordColumns = `id, article_id, sentiment_label, sentiment_score, confidence, model_version, key_factors, created_at, updated_at`

// SentimentRepo stores classification records. The table is append-only:
// every analysis inserts a new row, and records for an article form its
// history. No update path exists.
type SentimentRepo struct {
	pool *pgxpool.Pool
}

func NewSentimentRepo(pool *pgxpool.Pool) *SentimentRepo {
	return &SentimentRepo{pool: pool}
}

func (r *SentimentRepo) Save(ctx context.Context, articleID uuid.UUID, result domain.SentimentResult) (*domain.SentimentRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sentiment_records (article_id, sentiment_label, sentiment_score, confidence, model_version, key_factors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+recordColumns,
		articleID, string(result.Label), result.Score, result.Confidence, result.ModelVersion, result.KeyFactors,
	)

	record, err := scanRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to save sentiment record: %w", err)
	}
	return record, nil
}

// Latest returns the most recent record for an article. Ties on created_at
// are broken by insertion order (the identity column), keeping the result
// deterministic under batch races.
func (r *SentimentRepo) Latest(ctx context.Context, articleID uuid.UUID) (*domain.SentimentRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM sentiment_records
		WHERE article_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`, articleID)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoAnalysis
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sentiment record: %w", err)
	}
	return record, nil
}

// History returns all records for an article, newest first.
func (r *SentimentRepo) History(ctx context.Context, articleID uuid.UUID) ([]domain.SentimentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM sentiment_records
		WHERE article_id = $1
		ORDER BY created_at DESC, seq DESC`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sentiment history: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListByLabel returns records with the given label, newest first.
func (r *SentimentRepo) ListByLabel(ctx context.Context, label domain.Label, limit, offset int) ([]domain.SentimentRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM sentiment_records
		WHERE sentiment_label = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3`, string(label), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sentiment records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func scanRecord(row pgx.Row) (*domain.SentimentRecord, error) {
	var record domain.SentimentRecord
	var label string
	err := row.Scan(
		&record.ID, &record.ArticleID, &label, &record.Score, &record.Confidence,
		&record.ModelVersion, &record.KeyFactors,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Label = domain.Label(label)
	return &record, nil
}

func collectRecords(rows pgx.Rows) ([]domain.SentimentRecord, error) {
	records := make([]domain.SentimentRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sentiment record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sentiment records: %w", err)
	}
	return records, nil
}
