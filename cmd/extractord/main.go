package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/propdocs/extractor/internal/chunking"
	"github.com/propdocs/extractor/internal/common"
	"github.com/propdocs/extractor/internal/embeddings"
	"github.com/propdocs/extractor/internal/export"
	"github.com/propdocs/extractor/internal/extraction"
	"github.com/propdocs/extractor/internal/features"
	"github.com/propdocs/extractor/internal/ingest"
	llmfactory "github.com/propdocs/extractor/internal/llm/factory"
	"github.com/propdocs/extractor/internal/repository"
	"github.com/propdocs/extractor/internal/server"
	"github.com/propdocs/extractor/internal/vectorstore"
)

func main() {
	// Logger
	zlog, _ := zap.NewProduction()
	defer zlog.Sync()
	log := zlog.Sugar()

	// Env
	if err := godotenv.Load(); err == nil {
		log.Infow("loaded .env")
	}
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Component logger
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres is optional. Without DB_URL the daemon keeps only the vector
	// store; the result and document routes answer 503.
	var (
		resultStore   server.ResultStore
		documentStore server.DocumentStore
		documents     *repository.DocumentRepository
		chunkRepo     *repository.ChunkRepository
	)
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, cfg.Database, slogger)
		if err != nil {
			log.Fatalf("creating DB pool: %v", err)
		}
		defer repository.Close(pool, slogger)

		if err := repository.HealthCheck(ctx, pool, 3*time.Second); err != nil {
			log.Fatalf("DB health failed: %v", err)
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("ensuring schema: %v", err)
		}
		log.Infow("DB health OK")

		documents = repository.NewDocumentRepository(pool)
		chunkRepo = repository.NewChunkRepository(pool)
		resultStore = repository.NewResultRepository(pool)
		documentStore = documents
	} else {
		log.Infow("DB_URL not set, running without persistence")
	}

	// Embeddings and vector store
	embedder := embeddings.NewOpenAIEmbedder(embeddings.OpenAIConfig{
		APIKey: cfg.LLM.OpenAIAPIKey,
		Model:  cfg.VectorStore.EmbeddingModel,
	}, slogger)
	store, err := vectorstore.NewChromemStore(cfg.VectorStore, embedder, slogger)
	if err != nil {
		log.Fatalf("opening vector store: %v", err)
	}
	defer store.Close()

	// Generation backend
	generator, err := llmfactory.New(ctx, cfg.LLM, slogger)
	if err != nil {
		log.Fatalf("building LLM client: %v", err)
	}

	// Pipeline services
	chunker, err := chunking.NewChunker(chunking.Config{
		ChunkSize:    cfg.Chunking.ChunkSize,
		ChunkOverlap: cfg.Chunking.ChunkOverlap,
		MinChunkSize: cfg.Chunking.MinChunkSize,
	}, slogger)
	if err != nil {
		log.Fatalf("building chunker: %v", err)
	}
	engine, err := extraction.NewEngine(store, generator, extraction.Config{
		TopK:                cfg.Extraction.TopK,
		ConfidenceThreshold: cfg.Extraction.ConfidenceThreshold,
		Temperature:         cfg.LLM.Temperature,
	}, extraction.DefaultRetryPolicy(), slogger)
	if err != nil {
		log.Fatalf("building extraction engine: %v", err)
	}
	ingestor := ingest.NewService(chunker, store, documents, chunkRepo, slogger)

	srv := server.NewServer(
		engine,
		ingestor,
		resultStore,
		documentStore,
		export.NewService(slogger),
		features.PropertySchema(),
		slogger,
	)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}
	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
