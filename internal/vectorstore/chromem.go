package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/propdocs/extractor/internal/chunking"
	"github.com/propdocs/extractor/internal/common"
)

// ChromemStore implements Store on chromem-go, an embedded pure-Go vector
// database with gob persistence. One collection holds every document;
// per-document scoping is done with a doc_id metadata filter.
//
// Chunk positions and page numbers are carried in string metadata so the
// original Chunk can be rebuilt from a query hit. The docID -> chunkIDs
// index lives in memory for the process lifetime; chromem offers no way to
// enumerate documents by metadata, so a fresh process starts with an empty
// index and documents must be re-indexed before extraction.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   Embedder
	logger     *slog.Logger

	mu     sync.RWMutex
	byDoc  map[string][]string // docID -> chunk IDs, insertion order
	counts map[string]int
}

// NewChromemStore opens (or creates) the persistent database at cfg.Path
// and binds the configured collection.
func NewChromemStore(cfg common.VectorStoreConfig, embedder Embedder, logger *slog.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, common.ConfigError("vector store requires an embedder")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Collection == "" {
		return nil, common.ConfigError("vector store collection name is empty")
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("creating vector store directory %s: %w", cfg.Path, err)
	}

	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("opening chromem db at %s: %w", cfg.Path, err)
	}

	embedFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", cfg.Collection, err)
	}

	logger.Info("vectorstore.open",
		"path", cfg.Path,
		"collection", cfg.Collection,
		"persisted_chunks", collection.Count(),
	)

	return &ChromemStore{
		db:         db,
		collection: collection,
		embedder:   embedder,
		logger:     logger,
		byDoc:      make(map[string][]string),
		counts:     make(map[string]int),
	}, nil
}

// Index embeds chunks in one batch and stores them. Partial failure leaves
// nothing recorded for the document.
func (s *ChromemStore) Index(ctx context.Context, chunks []chunking.Chunk) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}

	docID := chunks[0].DocID
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		if ch.DocID != docID {
			return fmt.Errorf("chunk %s belongs to document %q, batch targets %q", ch.ChunkID, ch.DocID, docID)
		}
		texts[i] = ch.Text
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks for %s: %w", len(chunks), docID, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	docs := make([]chromem.Document, len(chunks))
	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ChunkID
		docs[i] = chromem.Document{
			ID:        ch.ChunkID,
			Content:   ch.Text,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				"doc_id":      ch.DocID,
				"page_number": strconv.Itoa(ch.PageNumber),
				"start_pos":   strconv.Itoa(ch.StartPos),
				"end_pos":     strconv.Itoa(ch.EndPos),
			},
		}
	}

	// Embeddings are precomputed, so a concurrency of 1 costs nothing.
	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("storing %d chunks for %s: %w", len(chunks), docID, err)
	}

	s.mu.Lock()
	s.byDoc[docID] = append(s.byDoc[docID], ids...)
	s.counts[docID] += len(ids)
	s.mu.Unlock()

	s.logger.Debug("vectorstore.indexed", "doc_id", docID, "chunks", len(chunks))
	return nil
}

// Search runs doc-scoped similarity search. k is capped at the document's
// chunk count since chromem rejects nResults above the filtered set size.
func (s *ChromemStore) Search(ctx context.Context, docID, query string, k int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, k)
	}

	s.mu.RLock()
	count := s.counts[docID]
	s.mu.RUnlock()
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, docID)
	}
	if k > count {
		k = count
	}

	results, err := s.collection.Query(ctx, query, k, map[string]string{"doc_id": docID}, nil)
	if err != nil {
		return nil, fmt.Errorf("querying chunks for %s: %w", docID, err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Chunk: chunking.Chunk{
				Text:       r.Content,
				ChunkID:    r.ID,
				DocID:      r.Metadata["doc_id"],
				PageNumber: atoiOrZero(r.Metadata["page_number"]),
				StartPos:   atoiOrZero(r.Metadata["start_pos"]),
				EndPos:     atoiOrZero(r.Metadata["end_pos"]),
			},
			Score: r.Similarity,
		}
	}
	return out, nil
}

// HasDocument reports whether docID has indexed chunks.
func (s *ChromemStore) HasDocument(docID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[docID] > 0
}

// ChunkCount reports the number of indexed chunks for docID.
func (s *ChromemStore) ChunkCount(docID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[docID]
}

// DeleteDocument removes all chunks of docID. Unknown documents are a no-op.
func (s *ChromemStore) DeleteDocument(ctx context.Context, docID string) error {
	s.mu.Lock()
	ids := s.byDoc[docID]
	delete(s.byDoc, docID)
	delete(s.counts, docID)
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, map[string]string{"doc_id": docID}, nil); err != nil {
		return fmt.Errorf("deleting chunks for %s: %w", docID, err)
	}
	s.logger.Debug("vectorstore.deleted", "doc_id", docID, "chunks", len(ids))
	return nil
}

// Close flushes nothing: chromem persists on write.
func (s *ChromemStore) Close() error {
	return nil
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

var _ Store = (*ChromemStore)(nil)
