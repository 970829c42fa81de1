// Package embeddings provides text embedding clients for the vector store.
package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/propdocs/extractor/internal/llm"
	"github.com/propdocs/extractor/internal/vectorstore"
)

// OpenAIConfig for the embeddings client.
type OpenAIConfig struct {
	APIKey  string        // required
	BaseURL string        // default https://api.openai.com/v1
	Model   string        // e.g. "text-embedding-3-small"
	Timeout time.Duration // http client timeout
}

// OpenAIEmbedder calls the OpenAI embeddings endpoint. Batch requests are
// sent as one call; the API preserves input order in its output.
type OpenAIEmbedder struct {
	cfg    OpenAIConfig
	http   *http.Client
	logger *slog.Logger
}

func NewOpenAIEmbedder(cfg OpenAIConfig, logger *slog.Logger) *OpenAIEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIEmbedder{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// EmbedQuery embeds a single query string.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedDocuments embeds a batch of chunk texts.
func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.embed(ctx, texts)
}

func (e *OpenAIEmbedder) embed(ctx context.Context, inputs []string) ([][]float32, error) {
	body := map[string]any{
		"model": e.cfg.Model,
		"input": inputs,
	}
	endpoint := strings.TrimRight(e.cfg.BaseURL, "/") + "/embeddings"
	headers := map[string]string{"Authorization": "Bearer " + e.cfg.APIKey}

	raw, _, err := llm.SendJSON(ctx, e.http, endpoint, body, headers, e.logger)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}

	var resp struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(inputs))
	}

	// Order by index rather than trusting response order.
	out := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embeddings response index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

var _ vectorstore.Embedder = (*OpenAIEmbedder)(nil)
