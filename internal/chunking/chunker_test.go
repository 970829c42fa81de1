package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdocs/extractor/internal/common"
)

func newTestChunker(t *testing.T, cfg Config) *Chunker {
	t.Helper()
	c, err := NewChunker(cfg, nil)
	require.NoError(t, err)
	return c
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{ChunkSize: 100, ChunkOverlap: 20, MinChunkSize: 10}, false},
		{"zero overlap", Config{ChunkSize: 100, ChunkOverlap: 0, MinChunkSize: 10}, false},
		{"overlap equals size", Config{ChunkSize: 100, ChunkOverlap: 100, MinChunkSize: 10}, true},
		{"overlap above size", Config{ChunkSize: 100, ChunkOverlap: 150, MinChunkSize: 10}, true},
		{"negative overlap", Config{ChunkSize: 100, ChunkOverlap: -1, MinChunkSize: 10}, true},
		{"min above size", Config{ChunkSize: 100, ChunkOverlap: 20, MinChunkSize: 150}, true},
		{"zero chunk size", Config{ChunkSize: 0, ChunkOverlap: 0, MinChunkSize: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.cfg, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChunkDocumentEmptyInput(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 100, ChunkOverlap: 20, MinChunkSize: 10})

	assert.Empty(t, c.ChunkDocument("", "doc-1", 1))
	assert.Empty(t, c.ChunkDocument("   \n\t  ", "doc-1", 1))
}

func TestChunkDocumentShortTextSingleChunk(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 100, ChunkOverlap: 20, MinChunkSize: 50})

	chunks := c.ChunkDocument("  Lot 7, Block 2.  ", "doc-1", 3)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Lot 7, Block 2.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartPos)
	assert.Equal(t, len("Lot 7, Block 2."), chunks[0].EndPos)
	assert.Equal(t, 3, chunks[0].PageNumber)
	assert.Equal(t, "doc-1", chunks[0].DocID)
}

func TestChunkDocumentLongSingleSentenceFallsBackToWindows(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 50, ChunkOverlap: 10, MinChunkSize: 5})
	text := strings.Repeat("abcde ", 30) // one "sentence", 180 chars
	text = strings.TrimSpace(text)

	chunks := c.ChunkDocument(text, "doc-1", 1)
	require.NotEmpty(t, chunks)

	step := 50 - 10
	for i, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Text), 50)
		assert.Equal(t, i*step, ch.StartPos)
		assert.Equal(t, text[ch.StartPos:ch.EndPos], ch.Text)
	}
	last := chunks[len(chunks)-1]
	assert.Equal(t, len(text), last.EndPos)
}

func sixSentences() string {
	return "The owner is John Smith. The property sits on Main Street. " +
		"It was sold in March. The sale price was high. " +
		"Zoning is residential. Taxes are due in April."
}

func TestChunkDocumentSentencePacking(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 100, ChunkOverlap: 20, MinChunkSize: 10})
	text := sixSentences()

	chunks := c.ChunkDocument(text, "doc-1", 1)
	require.NotEmpty(t, chunks)

	for _, ch := range chunks {
		// Chunks are whole sentences joined by single spaces.
		for _, sentence := range strings.Split(ch.Text, ". ") {
			assert.NotEmpty(t, strings.TrimSpace(sentence))
		}
		assert.True(t, strings.HasSuffix(ch.Text, "."))
	}
}

func TestChunkDocumentPositionInvariants(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 80, ChunkOverlap: 20, MinChunkSize: 10})
	text := sixSentences()

	chunks := c.ChunkDocument(text, "doc-1", 1)
	require.NotEmpty(t, chunks)

	prevStart := 0
	for _, ch := range chunks {
		assert.GreaterOrEqual(t, ch.StartPos, 0)
		assert.Less(t, ch.StartPos, ch.EndPos)
		assert.LessOrEqual(t, ch.EndPos, len(text))
		assert.GreaterOrEqual(t, ch.StartPos, prevStart, "start positions are non-decreasing")
		prevStart = ch.StartPos
	}
}

func TestChunkDocumentOverlapSharesSentence(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 60, ChunkOverlap: 30, MinChunkSize: 10})
	text := sixSentences()

	chunks := c.ChunkDocument(text, "doc-1", 1)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1].Text)
		curr := " " + chunks[i].Text + " "
		shared := false
		for _, w := range prevWords {
			if strings.Contains(curr, " "+w+" ") {
				shared = true
				break
			}
		}
		assert.True(t, shared, "adjacent chunks %d and %d share no word", i-1, i)
	}
}

func TestChunkDocumentOversizedSentenceMidStreamTerminates(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 60, ChunkOverlap: 30, MinChunkSize: 10})
	text := "Short one. " + strings.Repeat("Xy", 60) + " word. Another short sentence here."

	chunks := c.ChunkDocument(text, "doc-1", 1)
	assert.NotEmpty(t, chunks)
}

func TestChunkIDsUniqueAndPrefixed(t *testing.T) {
	c := newTestChunker(t, Config{ChunkSize: 60, ChunkOverlap: 10, MinChunkSize: 10})
	chunks := c.ChunkDocument(sixSentences(), "doc-1", 1)
	require.NotEmpty(t, chunks)

	seen := make(map[string]struct{})
	for _, ch := range chunks {
		assert.True(t, strings.HasPrefix(ch.ChunkID, "doc-1_chunk_"))
		_, dup := seen[ch.ChunkID]
		assert.False(t, dup, "duplicate chunk id %s", ch.ChunkID)
		seen[ch.ChunkID] = struct{}{}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple declaratives",
			text: "First sentence. Second sentence. Third one!",
			want: []string{"First sentence.", "Second sentence.", "Third one!"},
		},
		{
			name: "question and exclamation",
			text: "Is this the parcel? Yes it is! Good.",
			want: []string{"Is this the parcel?", "Yes it is!", "Good."},
		},
		{
			name: "no split before lowercase",
			text: "Approx. size is 2.5 acres.",
			want: []string{"Approx. size is 2.5 acres."},
		},
		{
			name: "decimal not split",
			text: "Price was 1.5 million. Next sentence.",
			want: []string{"Price was 1.5 million.", "Next sentence."},
		},
		{
			name: "no terminator",
			text: "just a fragment without punctuation",
			want: []string{"just a fragment without punctuation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.text))
		})
	}
}

func TestSentencePositionsForwardOnly(t *testing.T) {
	text := "Alpha beta. Gamma delta. Alpha beta."
	sentences := []string{"Alpha beta.", "Gamma delta.", "Alpha beta."}

	positions := sentencePositions(text, sentences)
	assert.Equal(t, []int{0, 12, 25}, positions)
}
