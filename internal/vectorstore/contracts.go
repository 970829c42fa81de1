// Package vectorstore persists embedded chunks and serves doc-scoped
// similarity search over them.
package vectorstore

import (
	"context"
	"errors"

	"github.com/propdocs/extractor/internal/chunking"
)

var (
	// ErrEmptyQuery is returned when a search query is empty after trimming.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrInvalidTopK is returned when k is not positive.
	ErrInvalidTopK = errors.New("top-k must be positive")
	// ErrDocumentNotFound is returned when no chunks are indexed for a document.
	ErrDocumentNotFound = errors.New("document not indexed")
	// ErrNoChunks is returned when an index call carries no chunks.
	ErrNoChunks = errors.New("no chunks to index")
)

// SearchResult is one retrieved chunk with its cosine similarity score.
type SearchResult struct {
	Chunk chunking.Chunk
	Score float32
}

// Embedder turns text into vectors. Query and document embeddings must come
// from the same model or similarity scores are meaningless.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is the retrieval surface the extraction engine depends on.
type Store interface {
	// Index embeds and stores chunks. All chunks must share one DocID.
	Index(ctx context.Context, chunks []chunking.Chunk) error

	// Search returns the top-k chunks of one document ranked by similarity
	// to the query. Fewer than k results are returned when the document has
	// fewer chunks.
	Search(ctx context.Context, docID, query string, k int) ([]SearchResult, error)

	// HasDocument reports whether any chunks are indexed for docID.
	HasDocument(docID string) bool

	// ChunkCount reports how many chunks are indexed for docID.
	ChunkCount(docID string) int

	// DeleteDocument removes every chunk of one document.
	DeleteDocument(ctx context.Context, docID string) error

	Close() error
}
