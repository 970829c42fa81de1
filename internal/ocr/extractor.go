package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Config for the text extractor.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
	Timeout   time.Duration
}

// Extractor extracts text from PDFs via pdftotext and reads plain-text
// files directly. Scanned-image OCR is out of scope here; feeding such
// files through an OCR step upstream and handing the .txt result to this
// extractor covers that case.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// ExtractPages returns the file's text split into pages. Text files are a
// single page; PDFs are split on the form feeds pdftotext emits between
// pages.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]PageText, error) {
	start := time.Now()
	ext := strings.ToLower(filepath.Ext(path))

	var pages []PageText
	var err error
	switch ext {
	case ".txt", ".text":
		pages, err = e.extractPlainText(path)
	case ".pdf":
		pages, err = e.extractPDF(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info("ocr.extract_done",
		"path", path,
		"pages", len(pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

func (e *Extractor) extractPlainText(path string) ([]PageText, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return []PageText{{PageNumber: 1, Text: string(b)}}, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) ([]PageText, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	args := []string{"-layout"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", fmt.Sprint(e.cfg.MaxPages))
	}
	args = append(args, path, "-") // write to stdout

	cmd := exec.CommandContext(ctx, e.cfg.Pdftotext, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	// pdftotext separates pages with form feeds.
	var pages []PageText
	for i, pageText := range strings.Split(out.String(), "\f") {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, PageText{PageNumber: i + 1, Text: pageText})
	}
	return pages, nil
}

var _ TextExtractor = (*Extractor)(nil)
