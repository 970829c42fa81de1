// Package ingest runs the ingestion pipeline: page text in, chunked and
// indexed document out.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/propdocs/extractor/internal/chunking"
	"github.com/propdocs/extractor/internal/common"
	"github.com/propdocs/extractor/internal/ocr"
	"github.com/propdocs/extractor/internal/repository"
	"github.com/propdocs/extractor/internal/vectorstore"
)

// Result summarizes one document's ingestion.
type Result struct {
	DocID  string `json:"doc_id"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`
}

// Service chunks page text and indexes it for retrieval. The Postgres
// repositories are optional; without them only the vector store is
// populated (the CLI path).
type Service struct {
	chunker   *chunking.Chunker
	store     vectorstore.Store
	documents *repository.DocumentRepository
	chunks    *repository.ChunkRepository
	logger    *slog.Logger
}

func NewService(
	chunker *chunking.Chunker,
	store vectorstore.Store,
	documents *repository.DocumentRepository,
	chunks *repository.ChunkRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		chunker:   chunker,
		store:     store,
		documents: documents,
		chunks:    chunks,
		logger:    logger,
	}
}

// IngestPages chunks every page, indexes the chunks, and records the
// document. A document with no extractable text is rejected.
func (s *Service) IngestPages(ctx context.Context, docID, filename string, pages []ocr.PageText) (Result, error) {
	if docID == "" {
		return Result{}, fmt.Errorf("doc id is empty: %w", common.ErrInvalidInput)
	}

	var all []chunking.Chunk
	for _, page := range pages {
		all = append(all, s.chunker.ChunkDocument(page.Text, docID, page.PageNumber)...)
	}
	if len(all) == 0 {
		return Result{}, fmt.Errorf("document %s has no extractable text: %w", docID, common.ErrInvalidInput)
	}

	if err := s.store.Index(ctx, all); err != nil {
		return Result{}, fmt.Errorf("indexing document %s: %w", docID, err)
	}

	if s.documents != nil {
		doc := repository.Document{
			DocID:      docID,
			Filename:   filename,
			PageCount:  len(pages),
			ChunkCount: len(all),
		}
		if err := s.documents.Upsert(ctx, doc); err != nil {
			return Result{}, err
		}
	}
	if s.chunks != nil {
		if err := s.chunks.InsertBatch(ctx, all); err != nil {
			return Result{}, err
		}
	}

	s.logger.Info("ingest.done",
		"doc_id", docID,
		"filename", filename,
		"pages", len(pages),
		"chunks", len(all),
	)
	return Result{DocID: docID, Pages: len(pages), Chunks: len(all)}, nil
}

// Delete removes a document from the vector store and, when repositories
// are configured, from Postgres.
func (s *Service) Delete(ctx context.Context, docID string) error {
	if err := s.store.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	if s.chunks != nil {
		if err := s.chunks.DeleteByDocument(ctx, docID); err != nil {
			return err
		}
	}
	if s.documents != nil {
		if err := s.documents.Delete(ctx, docID); err != nil {
			return err
		}
	}
	s.logger.Info("ingest.deleted", "doc_id", docID)
	return nil
}
