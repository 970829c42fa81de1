// Package server exposes the ingestion and extraction pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/propdocs/extractor/internal/export"
	"github.com/propdocs/extractor/internal/features"
	"github.com/propdocs/extractor/internal/ingest"
	"github.com/propdocs/extractor/internal/ocr"
	"github.com/propdocs/extractor/internal/repository"
)

// Extractor runs the per-feature extraction pipeline for one document.
type Extractor interface {
	ExtractFeatures(ctx context.Context, docID string, schema *features.Schema) (*features.ExtractionResult, error)
}

// Ingestor feeds page text into the pipeline.
type Ingestor interface {
	IngestPages(ctx context.Context, docID, filename string, pages []ocr.PageText) (ingest.Result, error)
	Delete(ctx context.Context, docID string) error
}

// ResultStore persists and serves extraction runs.
type ResultStore interface {
	Insert(ctx context.Context, result *features.ExtractionResult) (int64, error)
	Latest(ctx context.Context, docID string) (repository.ResultRecord, error)
}

// DocumentStore serves document records.
type DocumentStore interface {
	Get(ctx context.Context, docID string) (repository.Document, error)
	List(ctx context.Context) ([]repository.Document, error)
}

// Server wires the HTTP surface to the pipeline services. Results and
// documents stores may be nil when running without Postgres; the affected
// routes then answer 503.
type Server struct {
	engine    Extractor
	ingestor  Ingestor
	results   ResultStore
	documents DocumentStore
	exporter  *export.Service
	schema    *features.Schema
	logger    *slog.Logger
}

func NewServer(
	engine Extractor,
	ingestor Ingestor,
	results ResultStore,
	documents DocumentStore,
	exporter *export.Service,
	schema *features.Schema,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if schema == nil {
		schema = features.PropertySchema()
	}
	return &Server{
		engine:    engine,
		ingestor:  ingestor,
		results:   results,
		documents: documents,
		exporter:  exporter,
		schema:    schema,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.health)

	v1 := r.Group("/v1")
	{
		v1.POST("/documents", s.ingestDocument)
		v1.GET("/documents", s.listDocuments)
		v1.DELETE("/documents/:id", s.deleteDocument)
		v1.POST("/documents/:id/extract", s.extractDocument)
		v1.GET("/documents/:id/result", s.getResult)
		v1.GET("/documents/:id/result/export", s.exportResult)
	}

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
