package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propdocs/extractor/internal/common"
)

// Document is the durable record of one ingested document.
type Document struct {
	DocID      string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	PageCount  int       `json:"page_count"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentRepository handles database operations for documents.
type DocumentRepository struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert inserts or replaces the document record.
func (r *DocumentRepository) Upsert(ctx context.Context, doc Document) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO documents (doc_id, filename, page_count, chunk_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (doc_id) DO UPDATE
		SET filename = EXCLUDED.filename,
		    page_count = EXCLUDED.page_count,
		    chunk_count = EXCLUDED.chunk_count`,
		doc.DocID, doc.Filename, doc.PageCount, doc.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document %s: %w", doc.DocID, err)
	}
	return nil
}

// Get fetches one document. Missing documents return common.ErrNotFound.
func (r *DocumentRepository) Get(ctx context.Context, docID string) (Document, error) {
	var doc Document
	err := r.db.QueryRow(ctx, `
		SELECT doc_id, filename, page_count, chunk_count, created_at
		FROM documents WHERE doc_id = $1`,
		docID,
	).Scan(&doc.DocID, &doc.Filename, &doc.PageCount, &doc.ChunkCount, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, fmt.Errorf("document %s: %w", docID, common.ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to fetch document %s: %w", docID, err)
	}
	return doc, nil
}

// List returns all documents, newest first.
func (r *DocumentRepository) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT doc_id, filename, page_count, chunk_count, created_at
		FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.DocID, &doc.Filename, &doc.PageCount, &doc.ChunkCount, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document; chunks and results cascade.
func (r *DocumentRepository) Delete(ctx context.Context, docID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE doc_id = $1`, docID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", docID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", docID, common.ErrNotFound)
	}
	return nil
}
