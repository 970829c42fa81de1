package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propdocs/extractor/internal/chunking"
)

// ChunkRepository handles database operations for document chunks. Chunk
// text is kept here for audit and re-indexing; embeddings live only in the
// vector store.
type ChunkRepository struct {
	db *pgxpool.Pool
}

func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// InsertBatch stores all chunks of one ingestion in a single batch.
func (r *ChunkRepository) InsertBatch(ctx context.Context, chunks []chunking.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ch := range chunks {
		batch.Queue(`
			INSERT INTO chunks (chunk_id, doc_id, page_number, start_pos, end_pos, chunk_text)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (chunk_id) DO NOTHING`,
			ch.ChunkID, ch.DocID, ch.PageNumber, ch.StartPos, ch.EndPos, ch.Text,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunks: %w", err)
		}
	}
	return nil
}

// ListByDocument returns a document's chunks in page and position order.
func (r *ChunkRepository) ListByDocument(ctx context.Context, docID string) ([]chunking.Chunk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT chunk_id, doc_id, page_number, start_pos, end_pos, chunk_text
		FROM chunks
		WHERE doc_id = $1
		ORDER BY page_number, start_pos`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks for %s: %w", docID, err)
	}
	defer rows.Close()

	var chunks []chunking.Chunk
	for rows.Next() {
		var ch chunking.Chunk
		if err := rows.Scan(&ch.ChunkID, &ch.DocID, &ch.PageNumber, &ch.StartPos, &ch.EndPos, &ch.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, ch)
	}
	return chunks, rows.Err()
}

// DeleteByDocument removes all chunks of one document.
func (r *ChunkRepository) DeleteByDocument(ctx context.Context, docID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM chunks WHERE doc_id = $1`, docID); err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", docID, err)
	}
	return nil
}
