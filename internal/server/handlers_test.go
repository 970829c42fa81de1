package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdocs/extractor/internal/common"
	"github.com/propdocs/extractor/internal/export"
	"github.com/propdocs/extractor/internal/extraction"
	"github.com/propdocs/extractor/internal/features"
	"github.com/propdocs/extractor/internal/ingest"
	"github.com/propdocs/extractor/internal/ocr"
	"github.com/propdocs/extractor/internal/repository"
)

// fakeEngine returns a canned result for indexed docs.
type fakeEngine struct {
	indexed map[string]bool
}

func (e *fakeEngine) ExtractFeatures(_ context.Context, docID string, schema *features.Schema) (*features.ExtractionResult, error) {
	if !e.indexed[docID] {
		return nil, fmt.Errorf("%w: %s", extraction.ErrDocumentNotIndexed, docID)
	}
	values := make(map[string]features.FeatureValue, schema.Len())
	for _, name := range schema.Names() {
		values[name] = features.FeatureValue{Value: "v-" + name, Confidence: 0.9, SourcePages: []int{1}, SourceChunks: []string{"chunk"}}
	}
	return &features.ExtractionResult{
		DocID:    docID,
		Features: values,
		Metadata: features.RunMetadata{Model: "fake-model", TopK: 5},
	}, nil
}

// fakeIngestor records ingested documents.
type fakeIngestor struct {
	engine  *fakeEngine
	deleted []string
}

func (i *fakeIngestor) IngestPages(_ context.Context, docID, _ string, pages []ocr.PageText) (ingest.Result, error) {
	if len(pages) == 1 && pages[0].Text == "" {
		return ingest.Result{}, fmt.Errorf("no text: %w", common.ErrInvalidInput)
	}
	i.engine.indexed[docID] = true
	return ingest.Result{DocID: docID, Pages: len(pages), Chunks: len(pages) * 2}, nil
}

func (i *fakeIngestor) Delete(_ context.Context, docID string) error {
	if !i.engine.indexed[docID] {
		return fmt.Errorf("document %s: %w", docID, common.ErrNotFound)
	}
	delete(i.engine.indexed, docID)
	i.deleted = append(i.deleted, docID)
	return nil
}

// fakeResults stores the latest result per document in memory.
type fakeResults struct {
	latest map[string]*features.ExtractionResult
}

func (r *fakeResults) Insert(_ context.Context, result *features.ExtractionResult) (int64, error) {
	r.latest[result.DocID] = result
	return 1, nil
}

func (r *fakeResults) Latest(_ context.Context, docID string) (repository.ResultRecord, error) {
	result, ok := r.latest[docID]
	if !ok {
		return repository.ResultRecord{}, fmt.Errorf("result for %s: %w", docID, common.ErrNotFound)
	}
	return repository.ResultRecord{ID: 1, DocID: docID, Model: result.Metadata.Model, Result: *result}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeEngine, *fakeResults) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := &fakeEngine{indexed: make(map[string]bool)}
	results := &fakeResults{latest: make(map[string]*features.ExtractionResult)}
	srv := NewServer(engine, &fakeIngestor{engine: engine}, results, nil, export.NewService(nil), nil, nil)
	return srv.Router(), engine, results
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIngestDocument(t *testing.T) {
	router, engine, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{
		"doc_id":   "doc-1",
		"filename": "deed.txt",
		"text":     "Owner: John Smith.",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, engine.indexed["doc-1"])

	var result ingest.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "doc-1", result.DocID)
}

func TestIngestDocumentRequiresText(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{"doc_id": "doc-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractDocument(t *testing.T) {
	router, engine, results := newTestRouter(t)
	engine.indexed["doc-1"] = true

	w := doJSON(t, router, http.MethodPost, "/v1/documents/doc-1/extract", gin.H{
		"features": []string{"owner_name", "sale_price"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		DocID    string `json:"doc_id"`
		Features []struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "doc-1", doc.DocID)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "owner_name", doc.Features[0].Name)
	assert.Equal(t, "v-owner_name", doc.Features[0].Value)

	_, err := results.Latest(context.Background(), "doc-1")
	assert.NoError(t, err, "result persisted after extraction")
}

func TestExtractDocumentNotIndexed(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/v1/documents/unknown/extract", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtractDocumentUnknownFeatures(t *testing.T) {
	router, engine, _ := newTestRouter(t)
	engine.indexed["doc-1"] = true

	w := doJSON(t, router, http.MethodPost, "/v1/documents/doc-1/extract", gin.H{
		"features": []string{"no_such_feature"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetResult(t *testing.T) {
	router, engine, _ := newTestRouter(t)
	engine.indexed["doc-1"] = true

	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/v1/documents/doc-1/extract", nil).Code)

	w := doJSON(t, router, http.MethodGet, "/v1/documents/doc-1/result", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "owner_name")

	w = doJSON(t, router, http.MethodGet, "/v1/documents/never-extracted/result", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportResultXLSX(t *testing.T) {
	router, engine, _ := newTestRouter(t)
	engine.indexed["doc-1"] = true
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/v1/documents/doc-1/extract", nil).Code)

	w := doJSON(t, router, http.MethodGet, "/v1/documents/doc-1/result/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, w.Body.Bytes())

	w = doJSON(t, router, http.MethodGet, "/v1/documents/doc-1/result/export?format=csv", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteDocument(t *testing.T) {
	router, engine, _ := newTestRouter(t)
	engine.indexed["doc-1"] = true

	w := doJSON(t, router, http.MethodDelete, "/v1/documents/doc-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, engine.indexed["doc-1"])

	w = doJSON(t, router, http.MethodDelete, "/v1/documents/doc-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDocumentsWithoutStore(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/v1/documents", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
