package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables if they do not exist. Intended for the
// daemon's startup path; production migrations can replace it without
// touching the repositories.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id      TEXT PRIMARY KEY,
			filename    TEXT NOT NULL,
			page_count  INTEGER NOT NULL DEFAULT 0,
			chunk_count INTEGER NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			chunk_id    TEXT PRIMARY KEY,
			doc_id      TEXT NOT NULL REFERENCES documents(doc_id) ON DELETE CASCADE,
			page_number INTEGER NOT NULL,
			start_pos   INTEGER NOT NULL,
			end_pos     INTEGER NOT NULL,
			chunk_text  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks (doc_id)`,
		`CREATE TABLE IF NOT EXISTS extraction_results (
			id          BIGSERIAL PRIMARY KEY,
			doc_id      TEXT NOT NULL REFERENCES documents(doc_id) ON DELETE CASCADE,
			model       TEXT NOT NULL,
			result      JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extraction_results_doc_id ON extraction_results (doc_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
