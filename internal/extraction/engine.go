package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/propdocs/extractor/internal/features"
	"github.com/propdocs/extractor/internal/llm"
	"github.com/propdocs/extractor/internal/vectorstore"
)

var (
	// ErrDocumentNotIndexed aborts a whole extraction call: without indexed
	// chunks no grounding is possible.
	ErrDocumentNotIndexed = errors.New("document not indexed")
	// ErrRetrieval aborts a whole extraction call: a failing retriever
	// means no feature can be grounded.
	ErrRetrieval = errors.New("retrieval failed")
)

// Engine runs retrieval-augmented extraction of a feature schema against
// one indexed document at a time.
type Engine struct {
	store     vectorstore.Store
	generator llm.Generator
	cfg       Config
	retry     RetryPolicy
	logger    *slog.Logger
}

// NewEngine validates cfg and builds an engine. A zero RetryPolicy gets the
// default backoff.
func NewEngine(store vectorstore.Store, generator llm.Generator, cfg Config, retry RetryPolicy, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy()
	}
	return &Engine{
		store:     store,
		generator: generator,
		cfg:       cfg,
		retry:     retry,
		logger:    logger,
	}, nil
}

// ExtractFeatures extracts every feature of the schema from one document,
// in schema order. Exactly one FeatureValue is produced per feature: any
// failure inside a single feature degrades to a null value, while a missing
// document or a failing retriever aborts the whole call.
func (e *Engine) ExtractFeatures(ctx context.Context, docID string, schema *features.Schema) (*features.ExtractionResult, error) {
	start := time.Now()

	if !e.store.HasDocument(docID) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotIndexed, docID)
	}

	e.logger.Info("extraction.start",
		"doc_id", docID,
		"features", schema.Len(),
		"model", e.generator.Model(),
		"top_k", e.cfg.TopK,
	)

	values := make(map[string]features.FeatureValue, schema.Len())
	for _, name := range schema.Names() {
		def, _ := schema.Get(name)

		// An expired deadline resolves the remaining features to nulls
		// instead of hanging the batch.
		if ctx.Err() != nil {
			values[name] = features.NullFeatureValue()
			continue
		}

		fv, err := e.extractSingleFeature(ctx, docID, def)
		if err != nil {
			return nil, err
		}
		values[name] = fv
	}

	elapsed := time.Since(start)
	e.logger.Info("extraction.done",
		"doc_id", docID,
		"features", len(values),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return &features.ExtractionResult{
		DocID:          docID,
		Features:       values,
		ProcessingTime: elapsed,
		Metadata: features.RunMetadata{
			Model:       e.generator.Model(),
			Temperature: e.cfg.Temperature,
			TopK:        e.cfg.TopK,
		},
	}, nil
}

// extractSingleFeature runs the per-feature pipeline. Only retrieval
// failures return an error; everything downstream of retrieval degrades to
// a null value. Panics in parsing or coercion are contained the same way.
func (e *Engine) extractSingleFeature(ctx context.Context, docID string, def features.FeatureDefinition) (fv features.FeatureValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction.feature_panic", "doc_id", docID, "feature", def.Name, "panic", r)
			fv = features.NullFeatureValue()
			err = nil
		}
	}()

	query := BuildQuery(def)
	results, serr := e.store.Search(ctx, docID, query, e.cfg.TopK)
	if serr != nil {
		if errors.Is(serr, vectorstore.ErrDocumentNotFound) {
			return features.NullFeatureValue(), fmt.Errorf("%w: %s", ErrDocumentNotIndexed, docID)
		}
		return features.NullFeatureValue(), fmt.Errorf("%w: feature %s: %v", ErrRetrieval, def.Name, serr)
	}
	if len(results) == 0 {
		return features.NullFeatureValue(), nil
	}

	chunkTexts := make([]string, len(results))
	pageSet := make(map[int]struct{}, len(results))
	for i, r := range results {
		chunkTexts[i] = r.Chunk.Text
		pageSet[r.Chunk.PageNumber] = struct{}{}
	}
	pages := make([]int, 0, len(pageSet))
	for p := range pageSet {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	prompt := BuildPrompt(def, chunkTexts)

	var raw string
	gerr := e.retry.Do(ctx, func() error {
		var cerr error
		raw, cerr = e.generator.Complete(ctx, prompt)
		return cerr
	})
	if gerr != nil {
		e.logger.Warn("extraction.generation_failed",
			"doc_id", docID,
			"feature", def.Name,
			"error", gerr,
		)
		return features.NullFeatureValue(), nil
	}

	value, confidence := ParseResponse(raw)

	// Below the threshold the value is discarded but the confidence is
	// kept, so callers can tell "no evidence" from "unconvincing evidence".
	if confidence < e.cfg.ConfidenceThreshold {
		value = nil
	}
	if value != nil {
		value = CoerceValue(value, def.DataType)
	}

	e.logger.Debug("extraction.feature_done",
		"doc_id", docID,
		"feature", def.Name,
		"found", value != nil,
		"confidence", confidence,
		"chunks", len(chunkTexts),
	)

	return features.FeatureValue{
		Value:        value,
		Confidence:   confidence,
		SourceChunks: chunkTexts,
		SourcePages:  pages,
	}, nil
}
