package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propdocs/extractor/internal/common"
	"github.com/propdocs/extractor/internal/features"
)

// ResultRecord is one stored extraction run.
type ResultRecord struct {
	ID        int64                     `json:"id"`
	DocID     string                    `json:"doc_id"`
	Model     string                    `json:"model"`
	Result    features.ExtractionResult `json:"result"`
	CreatedAt time.Time                 `json:"created_at"`
}

// ResultRepository handles database operations for extraction results.
// Results are append-only; the latest run per document is the canonical one.
type ResultRepository struct {
	db *pgxpool.Pool
}

func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert stores a completed extraction run as JSONB.
func (r *ResultRepository) Insert(ctx context.Context, result *features.ExtractionResult) (int64, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to encode result for %s: %w", result.DocID, err)
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO extraction_results (doc_id, model, result)
		VALUES ($1, $2, $3)
		RETURNING id`,
		result.DocID, result.Metadata.Model, payload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result for %s: %w", result.DocID, err)
	}
	return id, nil
}

// Latest fetches the most recent run for a document. Missing results
// return common.ErrNotFound.
func (r *ResultRepository) Latest(ctx context.Context, docID string) (ResultRecord, error) {
	var rec ResultRecord
	var payload []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, doc_id, model, result, created_at
		FROM extraction_results
		WHERE doc_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		docID,
	).Scan(&rec.ID, &rec.DocID, &rec.Model, &payload, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ResultRecord{}, fmt.Errorf("result for %s: %w", docID, common.ErrNotFound)
	}
	if err != nil {
		return ResultRecord{}, fmt.Errorf("failed to fetch result for %s: %w", docID, err)
	}

	if err := json.Unmarshal(payload, &rec.Result); err != nil {
		return ResultRecord{}, fmt.Errorf("failed to decode result for %s: %w", docID, err)
	}
	return rec, nil
}
