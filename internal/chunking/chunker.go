// Package chunking splits page text into ordered, position-tracked,
// overlapping chunks sized for semantic retrieval.
package chunking

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/propdocs/extractor/internal/common"
)

// Chunk is a bounded span of a document's stripped page text used as a
// retrieval unit. StartPos/EndPos are byte offsets into that stripped text.
type Chunk struct {
	Text       string    `json:"text"`
	ChunkID    string    `json:"chunk_id"`
	DocID      string    `json:"doc_id"`
	PageNumber int       `json:"page_number"`
	StartPos   int       `json:"start_pos"`
	EndPos     int       `json:"end_pos"`
	Embedding  []float32 `json:"embedding,omitempty"` // owned by the vector store, nil here
}

// Config holds segmentation parameters.
type Config struct {
	ChunkSize    int // maximum chunk length in characters
	ChunkOverlap int // trailing overlap carried into the next chunk
	MinChunkSize int // below this, the whole text becomes one chunk
}

// Validate checks the segmentation invariants. It must pass before any
// chunking runs; the overlap bound also guarantees window advance is
// positive in the character fallback.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return common.ConfigError("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return common.ConfigError("chunk overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return common.ConfigError("chunk overlap (%d) must be less than chunk size (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MinChunkSize > c.ChunkSize {
		return common.ConfigError("min chunk size (%d) must not exceed chunk size (%d)", c.MinChunkSize, c.ChunkSize)
	}
	return nil
}

// Chunker segments documents with sentence-aware splitting and a sliding
// overlap window.
type Chunker struct {
	cfg    Config
	logger *slog.Logger
}

// NewChunker validates cfg and returns a ready Chunker.
func NewChunker(cfg Config, logger *slog.Logger) (*Chunker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg, logger: logger}, nil
}

// ChunkDocument splits one page of text into chunks. Empty or
// whitespace-only input yields no chunks. Chunks are returned in
// non-decreasing StartPos order and every chunk satisfies
// 0 <= StartPos < EndPos <= len(stripped text).
func (c *Chunker) ChunkDocument(text, docID string, pageNumber int) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Very short documents become a single chunk covering everything.
	if len(text) < c.cfg.MinChunkSize {
		return []Chunk{c.newChunk(text, docID, pageNumber, 0, 0, len(text))}
	}

	sentences := splitSentences(text)

	if len(sentences) == 1 {
		sentence := sentences[0]
		if len(sentence) > c.cfg.ChunkSize {
			return c.chunkByCharacter(sentence, docID, pageNumber)
		}
		return []Chunk{c.newChunk(sentence, docID, pageNumber, 0, 0, len(sentence))}
	}

	chunks := c.packSentences(text, sentences, docID, pageNumber)
	c.logger.Debug("chunking.page_done",
		"doc_id", docID,
		"page", pageNumber,
		"sentences", len(sentences),
		"chunks", len(chunks),
	)
	return chunks
}

// packSentences accumulates consecutive sentences into chunks of at most
// ChunkSize characters, seeding each new chunk with trailing sentences of
// the previous one whose cumulative length fits within ChunkOverlap.
func (c *Chunker) packSentences(text string, sentences []string, docID string, pageNumber int) []Chunk {
	positions := sentencePositions(text, sentences)

	var chunks []Chunk
	var pending []string
	pendingLen := 0
	chunkIndex := 0
	// Set after seeding from an emitted chunk; emission requires at least
	// one fresh sentence so seeding alone can never loop.
	seeded := false

	i := 0
	for i < len(sentences) {
		sentence := sentences[i]

		wouldExceed := pendingLen+len(sentence) > c.cfg.ChunkSize
		if wouldExceed && len(pending) > 0 && !seeded {
			joined := strings.Join(pending, " ")
			start := positions[i-len(pending)]
			chunks = append(chunks, c.newChunk(joined, docID, pageNumber, chunkIndex, start, start+len(joined)))
			chunkIndex++

			// Seed the next chunk with trailing sentences that fit the
			// overlap budget; they are not re-consumed from the stream.
			var seed []string
			seedLen := 0
			for j := len(pending) - 1; j >= 0; j-- {
				if seedLen+len(pending[j]) > c.cfg.ChunkOverlap {
					break
				}
				seed = append([]string{pending[j]}, seed...)
				seedLen += len(pending[j]) + 1 // +1 for joining space
			}
			pending = seed
			pendingLen = seedLen
			seeded = len(seed) > 0
		} else {
			pending = append(pending, sentence)
			pendingLen += len(sentence) + 1
			seeded = false
			i++
		}
	}

	if len(pending) > 0 {
		joined := strings.Join(pending, " ")
		start := positions[len(sentences)-len(pending)]
		chunks = append(chunks, c.newChunk(joined, docID, pageNumber, chunkIndex, start, start+len(joined)))
	}

	return chunks
}

// chunkByCharacter is the fallback for single sentences longer than
// ChunkSize: fixed windows advancing by ChunkSize-ChunkOverlap. The
// configuration invariant keeps the advance positive, so this terminates.
func (c *Chunker) chunkByCharacter(text, docID string, pageNumber int) []Chunk {
	var chunks []Chunk
	chunkIndex := 0
	step := c.cfg.ChunkSize - c.cfg.ChunkOverlap

	for start := 0; start < len(text); start += step {
		end := start + c.cfg.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, c.newChunk(text[start:end], docID, pageNumber, chunkIndex, start, end))
		chunkIndex++
	}
	return chunks
}

func (c *Chunker) newChunk(text, docID string, pageNumber, chunkIndex, start, end int) Chunk {
	return Chunk{
		Text:       text,
		ChunkID:    generateChunkID(docID, chunkIndex),
		DocID:      docID,
		PageNumber: pageNumber,
		StartPos:   start,
		EndPos:     end,
	}
}

// generateChunkID derives an identifier from the document, the chunk index
// within it, and a random suffix so pages of the same document can be
// chunked concurrently without collisions.
func generateChunkID(docID string, chunkIndex int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_chunk_%d_%s", docID, chunkIndex, suffix)
}
