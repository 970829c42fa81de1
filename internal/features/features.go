// Package features defines the extraction data model: what fields to pull
// from a property document and what came back for each of them.
package features

import "time"

// ValidationRule is a declarative constraint attached to a feature. Rules
// are carried through to downstream validation; this core does not
// evaluate them.
type ValidationRule struct {
	RuleType   string         `json:"rule_type"`
	Parameters map[string]any `json:"parameters"`
}

// FeatureDefinition declares one field to extract. Definitions are
// supplied by the caller and are read-only for the lifetime of a run.
type FeatureDefinition struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	DataType         DataType         `json:"data_type"`
	Required         bool             `json:"required"`
	ExtractionPrompt string           `json:"extraction_prompt"`
	ValidationRules  []ValidationRule `json:"validation_rules,omitempty"`
}

// FeatureValue is the extracted value for one feature of one document,
// with its confidence and source attribution. Value is nil when nothing
// was found or the evidence fell below the confidence threshold; the
// confidence is kept either way so callers can tell "no evidence" from
// "evidence present but unconvincing".
type FeatureValue struct {
	Value        any      `json:"value"`
	Confidence   float64  `json:"confidence"`
	SourceChunks []string `json:"source_chunks"`
	SourcePages  []int    `json:"source_pages"`
}

// NullFeatureValue is the degraded result used whenever a feature cannot
// be extracted.
func NullFeatureValue() FeatureValue {
	return FeatureValue{
		Value:        nil,
		Confidence:   0.0,
		SourceChunks: []string{},
		SourcePages:  []int{},
	}
}

// RunMetadata records the generation parameters an extraction ran with.
type RunMetadata struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	TopK        int     `json:"top_k"`
}

// ExtractionResult aggregates the per-feature values for one document.
// It is built once per extraction call and not mutated afterwards.
type ExtractionResult struct {
	DocID          string                  `json:"doc_id"`
	Features       map[string]FeatureValue `json:"features"`
	ProcessingTime time.Duration           `json:"processing_time"`
	Metadata       RunMetadata             `json:"metadata"`
}
