// Package extraction drives retrieval-augmented field extraction: one
// query, retrieval, generation, and parse cycle per declared feature, with
// per-feature failures isolated from the rest of the batch.
package extraction

import (
	"github.com/propdocs/extractor/internal/common"
)

// Config holds the retrieval and gating parameters for one engine.
type Config struct {
	TopK                int     // chunks retrieved per feature
	ConfidenceThreshold float64 // values below this are discarded, confidence kept
	Temperature         float32 // recorded in run metadata, applied by the generator
}

// Validate checks the extraction invariants before any processing runs.
func (c Config) Validate() error {
	if c.TopK < 1 {
		return common.ConfigError("top-k retrieval must be at least 1, got %d", c.TopK)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return common.ConfigError("confidence threshold must be in [0,1], got %v", c.ConfidenceThreshold)
	}
	return nil
}
