package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdocs/extractor/internal/chunking"
	"github.com/propdocs/extractor/internal/features"
	"github.com/propdocs/extractor/internal/vectorstore"
)

// fakeStore serves canned search results keyed by docID.
type fakeStore struct {
	docs      map[string][]vectorstore.SearchResult
	searchErr error
}

func (s *fakeStore) Index(_ context.Context, _ []chunking.Chunk) error { return nil }

func (s *fakeStore) Search(_ context.Context, docID, query string, k int) ([]vectorstore.SearchResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	results := s.docs[docID]
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *fakeStore) HasDocument(docID string) bool { _, ok := s.docs[docID]; return ok }
func (s *fakeStore) ChunkCount(docID string) int   { return len(s.docs[docID]) }
func (s *fakeStore) DeleteDocument(_ context.Context, docID string) error {
	delete(s.docs, docID)
	return nil
}
func (s *fakeStore) Close() error { return nil }

// fakeGenerator returns canned responses in order, then repeats the last.
type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
}

func (g *fakeGenerator) Complete(_ context.Context, _ string) (string, error) {
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	return g.responses[i], nil
}

func (g *fakeGenerator) Model() string { return "fake-model" }

func storeWithDoc(docID string) *fakeStore {
	return &fakeStore{docs: map[string][]vectorstore.SearchResult{
		docID: {
			{Chunk: chunking.Chunk{Text: "Owner: John Smith.", ChunkID: "c0", DocID: docID, PageNumber: 2}, Score: 0.9},
			{Chunk: chunking.Chunk{Text: "Sale price $500,000.", ChunkID: "c1", DocID: docID, PageNumber: 1}, Score: 0.8},
		},
	}}
}

func ownerSchema() *features.Schema {
	return features.NewSchema(features.FeatureDefinition{
		Name:        "owner_name",
		Description: "The name of the property owner",
		DataType:    features.TypeString,
	})
}

func newTestEngine(t *testing.T, store vectorstore.Store, gen *fakeGenerator) *Engine {
	t.Helper()
	engine, err := NewEngine(store, gen, Config{TopK: 5, ConfidenceThreshold: 0.5}, fastPolicy(), nil)
	require.NoError(t, err)
	return engine
}

func TestExtractFeaturesHappyPath(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{"value": "John Smith", "confidence": 0.95, "reasoning": "stated"}`}}
	engine := newTestEngine(t, storeWithDoc("doc-1"), gen)

	result, err := engine.ExtractFeatures(context.Background(), "doc-1", ownerSchema())
	require.NoError(t, err)

	assert.Equal(t, "doc-1", result.DocID)
	assert.Equal(t, "fake-model", result.Metadata.Model)
	assert.Equal(t, 5, result.Metadata.TopK)

	fv := result.Features["owner_name"]
	assert.Equal(t, "John Smith", fv.Value)
	assert.InDelta(t, 0.95, fv.Confidence, 1e-9)
	assert.Equal(t, []string{"Owner: John Smith.", "Sale price $500,000."}, fv.SourceChunks)
	assert.Equal(t, []int{1, 2}, fv.SourcePages)
}

func TestExtractFeaturesMissingDocumentIsFatal(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{}`}}
	engine := newTestEngine(t, storeWithDoc("doc-1"), gen)

	_, err := engine.ExtractFeatures(context.Background(), "missing", ownerSchema())
	assert.ErrorIs(t, err, ErrDocumentNotIndexed)
	assert.Zero(t, gen.calls)
}

func TestExtractFeaturesRetrievalErrorIsFatal(t *testing.T) {
	store := storeWithDoc("doc-1")
	store.searchErr = errors.New("backend down")
	gen := &fakeGenerator{responses: []string{`{}`}}
	engine := newTestEngine(t, store, gen)

	_, err := engine.ExtractFeatures(context.Background(), "doc-1", ownerSchema())
	assert.ErrorIs(t, err, ErrRetrieval)
}

func TestExtractFeaturesEmptyRetrievalYieldsNull(t *testing.T) {
	store := &fakeStore{docs: map[string][]vectorstore.SearchResult{"doc-1": {}}}
	gen := &fakeGenerator{responses: []string{`{"value": "x", "confidence": 1.0}`}}
	engine := newTestEngine(t, store, gen)

	result, err := engine.ExtractFeatures(context.Background(), "doc-1", ownerSchema())
	require.NoError(t, err)

	fv := result.Features["owner_name"]
	assert.Nil(t, fv.Value)
	assert.Zero(t, fv.Confidence)
	assert.Empty(t, fv.SourceChunks)
	assert.Empty(t, fv.SourcePages)
	assert.Zero(t, gen.calls, "no generation without retrieved context")
}

func TestExtractFeaturesBelowThresholdKeepsConfidence(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{"value": "X", "confidence": 0.3}`}}
	engine := newTestEngine(t, storeWithDoc("doc-1"), gen)

	result, err := engine.ExtractFeatures(context.Background(), "doc-1", ownerSchema())
	require.NoError(t, err)

	fv := result.Features["owner_name"]
	assert.Nil(t, fv.Value, "value below threshold is discarded")
	assert.InDelta(t, 0.3, fv.Confidence, 1e-9, "confidence is preserved")
	assert.NotEmpty(t, fv.SourceChunks)
}

func TestExtractFeaturesMalformedResponseYieldsNull(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"I could not find that field."}}
	engine := newTestEngine(t, storeWithDoc("doc-1"), gen)

	result, err := engine.ExtractFeatures(context.Background(), "doc-1", ownerSchema())
	require.NoError(t, err)

	fv := result.Features["owner_name"]
	assert.Nil(t, fv.Value)
	assert.Zero(t, fv.Confidence)
}

func TestExtractFeaturesGenerationFailureDegradesToNull(t *testing.T) {
	permanent := errors.New("invalid api key")
	gen := &fakeGenerator{errs: []error{permanent}, responses: []string{""}}
	engine := newTestEngine(t, storeWithDoc("doc-1"), gen)

	result, err := engine.ExtractFeatures(context.Background(), "doc-1", ownerSchema())
	require.NoError(t, err, "generation failure never aborts the batch")

	fv := result.Features["owner_name"]
	assert.Nil(t, fv.Value)
	assert.Zero(t, fv.Confidence)
}

func TestExtractFeaturesOneValuePerFeature(t *testing.T) {
	schema := features.NewSchema(
		features.FeatureDefinition{Name: "owner_name", Description: "owner", DataType: features.TypeString},
		features.FeatureDefinition{Name: "sale_price", Description: "price", DataType: features.TypeCurrency},
		features.FeatureDefinition{Name: "bedrooms", Description: "bedrooms", DataType: features.TypeNumber},
	)
	gen := &fakeGenerator{responses: []string{
		`{"value": "John Smith", "confidence": 0.9}`,
		`not json at all`,
		`{"value": "3", "confidence": 0.8}`,
	}}
	engine := newTestEngine(t, storeWithDoc("doc-1"), gen)

	result, err := engine.ExtractFeatures(context.Background(), "doc-1", schema)
	require.NoError(t, err)
	require.Len(t, result.Features, 3)

	assert.Equal(t, "John Smith", result.Features["owner_name"].Value)
	assert.Nil(t, result.Features["sale_price"].Value)
	assert.Equal(t, 3, result.Features["bedrooms"].Value)
}

func TestExtractFeaturesExpiredContextResolvesToNulls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &fakeGenerator{responses: []string{`{"value": "x", "confidence": 1.0}`}}
	engine := newTestEngine(t, storeWithDoc("doc-1"), gen)

	result, err := engine.ExtractFeatures(ctx, "doc-1", ownerSchema())
	require.NoError(t, err)
	assert.Nil(t, result.Features["owner_name"].Value)
	assert.Zero(t, gen.calls)
}
