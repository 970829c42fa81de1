package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/propdocs/extractor/internal/common"
	"github.com/propdocs/extractor/internal/extraction"
	"github.com/propdocs/extractor/internal/ocr"
)

func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// ingestRequest accepts either a single text blob or explicit pages.
type ingestRequest struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
	Pages    []struct {
		PageNumber int    `json:"page_number"`
		Text       string `json:"text"`
	} `json:"pages"`
}

func (s *Server) ingestDocument(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var pages []ocr.PageText
	switch {
	case len(req.Pages) > 0:
		for _, p := range req.Pages {
			pages = append(pages, ocr.PageText{PageNumber: p.PageNumber, Text: p.Text})
		}
	case req.Text != "":
		pages = []ocr.PageText{{PageNumber: 1, Text: req.Text}}
	default:
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "either text or pages is required")
		return
	}

	docID := req.DocID
	if docID == "" {
		docID = uuid.NewString()
	}

	result, err := s.ingestor.IngestPages(c.Request.Context(), docID, req.Filename, pages)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "INGEST_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusCreated, result)
}

// extractRequest optionally restricts the run to a subset of features.
type extractRequest struct {
	Features []string `json:"features"`
}

func (s *Server) extractDocument(c *gin.Context) {
	docID := c.Param("id")

	var req extractRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	schema := s.schema
	if len(req.Features) > 0 {
		schema = s.schema.Subset(req.Features)
		if schema.Len() == 0 {
			errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "no known features requested")
			return
		}
	}

	result, err := s.engine.ExtractFeatures(c.Request.Context(), docID, schema)
	if err != nil {
		switch {
		case errors.Is(err, extraction.ErrDocumentNotIndexed):
			errorResponse(c, http.StatusNotFound, "DOCUMENT_NOT_INDEXED", err.Error())
		case errors.Is(err, extraction.ErrRetrieval):
			errorResponse(c, http.StatusBadGateway, "RETRIEVAL_FAILED", err.Error())
		default:
			errorResponse(c, http.StatusInternalServerError, "EXTRACTION_FAILED", err.Error())
		}
		return
	}

	if s.results != nil {
		if _, err := s.results.Insert(c.Request.Context(), result); err != nil {
			s.logger.Error("server.result_store_error", "doc_id", docID, "error", err)
		}
	}

	body, err := s.exporter.JSON(result, schema, c.Query("include_chunks") == "true")
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "ENCODING_FAILED", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) getResult(c *gin.Context) {
	if s.results == nil {
		errorResponse(c, http.StatusServiceUnavailable, "NO_RESULT_STORE", "result persistence is not configured")
		return
	}

	rec, err := s.results.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "RESULT_NOT_FOUND", err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "RESULT_FETCH_FAILED", err.Error())
		return
	}

	body, err := s.exporter.JSON(&rec.Result, s.schema, c.Query("include_chunks") == "true")
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "ENCODING_FAILED", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) exportResult(c *gin.Context) {
	if s.results == nil {
		errorResponse(c, http.StatusServiceUnavailable, "NO_RESULT_STORE", "result persistence is not configured")
		return
	}

	docID := c.Param("id")
	rec, err := s.results.Latest(c.Request.Context(), docID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "RESULT_NOT_FOUND", err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "RESULT_FETCH_FAILED", err.Error())
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "xlsx":
		body, err := s.exporter.XLSX(&rec.Result, s.schema)
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+docID+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
	case "json":
		body, err := s.exporter.JSON(&rec.Result, s.schema, true)
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
			return
		}
		c.Data(http.StatusOK, "application/json", body)
	default:
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be json or xlsx")
	}
}

func (s *Server) listDocuments(c *gin.Context) {
	if s.documents == nil {
		errorResponse(c, http.StatusServiceUnavailable, "NO_DOCUMENT_STORE", "document persistence is not configured")
		return
	}

	docs, err := s.documents.List(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) deleteDocument(c *gin.Context) {
	docID := c.Param("id")
	if err := s.ingestor.Delete(c.Request.Context(), docID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
