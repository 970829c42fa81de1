// Package export renders extraction results for downstream consumers:
// schema-ordered JSON and XLSX workbooks.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/propdocs/extractor/internal/features"
)

// Service renders one extraction result at a time. Feature order follows
// the schema, not Go's map iteration.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// featureRow is one feature in its export shape.
type featureRow struct {
	Name         string   `json:"name"`
	Value        any      `json:"value"`
	Confidence   float64  `json:"confidence"`
	SourcePages  []int    `json:"source_pages"`
	SourceChunks []string `json:"source_chunks,omitempty"`
}

type jsonDocument struct {
	DocID            string       `json:"doc_id"`
	Model            string       `json:"model"`
	TopK             int          `json:"top_k"`
	ProcessingTimeMS int64        `json:"processing_time_ms"`
	Features         []featureRow `json:"features"`
}

// JSON renders the result as an indented JSON document with features in
// schema order. IncludeChunks controls whether full chunk texts are
// embedded or only page attribution.
func (s *Service) JSON(result *features.ExtractionResult, schema *features.Schema, includeChunks bool) ([]byte, error) {
	doc := jsonDocument{
		DocID:            result.DocID,
		Model:            result.Metadata.Model,
		TopK:             result.Metadata.TopK,
		ProcessingTimeMS: result.ProcessingTime.Milliseconds(),
	}
	for _, name := range schema.Names() {
		fv, ok := result.Features[name]
		if !ok {
			continue
		}
		row := featureRow{
			Name:        name,
			Value:       fv.Value,
			Confidence:  fv.Confidence,
			SourcePages: fv.SourcePages,
		}
		if includeChunks {
			row.SourceChunks = fv.SourceChunks
		}
		doc.Features = append(doc.Features, row)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// XLSX renders the result as a single-sheet workbook, one row per feature
// in schema order.
func (s *Service) XLSX(result *features.ExtractionResult, schema *features.Schema) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Extraction"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Feature", "Value", "Confidence", "Source Pages"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, name := range schema.Names() {
		fv, ok := result.Features[name]
		if !ok {
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, name)
		if fv.Value != nil {
			write(2, fmt.Sprintf("%v", fv.Value))
		} else {
			write(2, "")
		}
		write(3, fv.Confidence)
		write(4, joinPages(fv.SourcePages))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 26)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "D", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"doc_id", result.DocID,
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func joinPages(pages []int) string {
	if len(pages) == 0 {
		return ""
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}
