// Package ocr turns source files into per-page text for ingestion.
package ocr

import "context"

// PageText is one page of extracted text, 1-based page numbering.
type PageText struct {
	PageNumber int
	Text       string
}

// TextExtractor is the behavior ingestion depends on. Implementations own
// the file-format handling; the pipeline only sees pages of text.
type TextExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]PageText, error)
}
