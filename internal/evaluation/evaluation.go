// Package evaluation scores finished extraction runs. LLM-judged metric
// suites can implement Evaluator; the built-in evaluator covers the cheap
// structural metrics.
package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/propdocs/extractor/internal/features"
)

// Metrics summarizes the quality of one extraction run. All scores are in
// [0,1].
type Metrics struct {
	Completeness         float64 `json:"completeness"`          // features with a non-null value
	RequiredCompleteness float64 `json:"required_completeness"` // required features with a non-null value
	MeanConfidence       float64 `json:"mean_confidence"`       // average reported confidence
	GroundTruthAccuracy  float64 `json:"ground_truth_accuracy"` // exact matches, when ground truth given
	OverallScore         float64 `json:"overall_score"`
}

// Evaluator scores an extraction result, optionally against ground truth.
type Evaluator interface {
	Evaluate(ctx context.Context, result *features.ExtractionResult, schema *features.Schema, groundTruth map[string]string) (Metrics, error)
}

// StructuralEvaluator computes metrics from the result alone: no model
// calls, deterministic, suitable for regression checks.
type StructuralEvaluator struct{}

func NewStructuralEvaluator() *StructuralEvaluator {
	return &StructuralEvaluator{}
}

func (e *StructuralEvaluator) Evaluate(_ context.Context, result *features.ExtractionResult, schema *features.Schema, groundTruth map[string]string) (Metrics, error) {
	if schema.Len() == 0 {
		return Metrics{}, nil
	}

	var found, requiredTotal, requiredFound int
	var confidenceSum float64
	var gtTotal, gtMatched int

	for _, name := range schema.Names() {
		def, _ := schema.Get(name)
		fv := result.Features[name]

		confidenceSum += fv.Confidence
		if fv.Value != nil {
			found++
		}
		if def.Required {
			requiredTotal++
			if fv.Value != nil {
				requiredFound++
			}
		}
		if expected, ok := groundTruth[name]; ok {
			gtTotal++
			if fv.Value != nil && normalize(fmt.Sprintf("%v", fv.Value)) == normalize(expected) {
				gtMatched++
			}
		}
	}

	m := Metrics{
		Completeness:   float64(found) / float64(schema.Len()),
		MeanConfidence: confidenceSum / float64(schema.Len()),
	}
	if requiredTotal > 0 {
		m.RequiredCompleteness = float64(requiredFound) / float64(requiredTotal)
	} else {
		m.RequiredCompleteness = 1
	}
	if gtTotal > 0 {
		m.GroundTruthAccuracy = float64(gtMatched) / float64(gtTotal)
		m.OverallScore = (m.Completeness + m.RequiredCompleteness + m.MeanConfidence + m.GroundTruthAccuracy) / 4
	} else {
		m.OverallScore = (m.Completeness + m.RequiredCompleteness + m.MeanConfidence) / 3
	}
	return m, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var _ Evaluator = (*StructuralEvaluator)(nil)
