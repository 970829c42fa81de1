package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/propdocs/extractor/internal/chunking"
	"github.com/propdocs/extractor/internal/common"
	"github.com/propdocs/extractor/internal/embeddings"
	"github.com/propdocs/extractor/internal/export"
	"github.com/propdocs/extractor/internal/extraction"
	"github.com/propdocs/extractor/internal/features"
	"github.com/propdocs/extractor/internal/ingest"
	llmfactory "github.com/propdocs/extractor/internal/llm/factory"
	"github.com/propdocs/extractor/internal/ocr"
	"github.com/propdocs/extractor/internal/vectorstore"
)

// extract runs the full pipeline against one file: page text, chunking,
// indexing, per-feature extraction, and export. It needs no database.
func main() {
	var (
		input         = flag.String("input", "", "path to a .pdf or .txt document (required)")
		docID         = flag.String("doc-id", "", "document id; generated when empty")
		featureList   = flag.String("features", "", "comma-separated feature subset; empty means all")
		out           = flag.String("out", "", "output file; stdout when empty")
		format        = flag.String("format", "json", "output format: json or xlsx")
		includeChunks = flag.Bool("include-chunks", false, "embed retrieved chunk texts in JSON output")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *format != "json" && *format != "xlsx" {
		logger.Error("format must be json or xlsx", "format", *format)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	schema := features.PropertySchema()
	if *featureList != "" {
		var names []string
		for _, name := range strings.Split(*featureList, ",") {
			names = append(names, strings.TrimSpace(name))
		}
		schema = schema.Subset(names)
		if schema.Len() == 0 {
			logger.Error("no known features requested", "features", *featureList)
			os.Exit(2)
		}
	}

	id := *docID
	if id == "" {
		id = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pages, err := ocr.NewExtractor(ocr.Config{}, logger).ExtractPages(ctx, *input)
	if err != nil {
		logger.Error("text extraction failed", "input", *input, "error", err)
		os.Exit(1)
	}

	embedder := embeddings.NewOpenAIEmbedder(embeddings.OpenAIConfig{
		APIKey: cfg.LLM.OpenAIAPIKey,
		Model:  cfg.VectorStore.EmbeddingModel,
	}, logger)
	store, err := vectorstore.NewChromemStore(cfg.VectorStore, embedder, logger)
	if err != nil {
		logger.Error("open vector store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close vector store", "error", cerr)
		}
	}()

	chunker, err := chunking.NewChunker(chunking.Config{
		ChunkSize:    cfg.Chunking.ChunkSize,
		ChunkOverlap: cfg.Chunking.ChunkOverlap,
		MinChunkSize: cfg.Chunking.MinChunkSize,
	}, logger)
	if err != nil {
		logger.Error("build chunker", "error", err)
		os.Exit(1)
	}

	ingested, err := ingest.NewService(chunker, store, nil, nil, logger).
		IngestPages(ctx, id, *input, pages)
	if err != nil {
		logger.Error("ingest failed", "input", *input, "error", err)
		os.Exit(1)
	}
	logger.Info("ingest OK", "doc_id", ingested.DocID, "pages", ingested.Pages, "chunks", ingested.Chunks)

	generator, err := llmfactory.New(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error("build LLM client", "error", err)
		os.Exit(1)
	}

	engine, err := extraction.NewEngine(store, generator, extraction.Config{
		TopK:                cfg.Extraction.TopK,
		ConfidenceThreshold: cfg.Extraction.ConfidenceThreshold,
		Temperature:         cfg.LLM.Temperature,
	}, extraction.DefaultRetryPolicy(), logger)
	if err != nil {
		logger.Error("build extraction engine", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	result, err := engine.ExtractFeatures(ctx, id, schema)
	if err != nil {
		logger.Error("extraction failed", "doc_id", id, "error", err)
		os.Exit(1)
	}
	logger.Info("extraction OK",
		"doc_id", id,
		"features", schema.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	exporter := export.NewService(logger)
	var body []byte
	switch *format {
	case "xlsx":
		body, err = exporter.XLSX(result, schema)
	default:
		body, err = exporter.JSON(result, schema, *includeChunks)
	}
	if err != nil {
		logger.Error("export failed", "format", *format, "error", err)
		os.Exit(1)
	}

	if *out == "" {
		if _, err := os.Stdout.Write(body); err != nil {
			logger.Error("write output", "error", err)
			os.Exit(1)
		}
		return
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		logger.Error("write output", "out", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("wrote output", "out", *out, "bytes", len(body))
}
