package extraction

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeSchema validates the generation output shape. It is deliberately
// lenient: no keys are required and value may be anything, but a present
// confidence must be numeric (or a numeric string, which some models emit).
const envelopeSchema = `{
	"type": "object",
	"properties": {
		"value": {},
		"confidence": {"type": ["number", "string"]},
		"reasoning": {"type": "string"}
	}
}`

var (
	envelope    = jsonschema.MustCompileString("envelope.json", envelopeSchema)
	fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
)

// ParseResponse extracts (value, confidence) from raw generation output.
// Markdown code fences are stripped, the payload is validated against the
// envelope schema, and confidence is clamped into [0,1]. This path never
// fails: anything unparseable yields (nil, 0).
func ParseResponse(raw string) (any, float64) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if m := fencedBlock.FindStringSubmatch(raw); m != nil {
			raw = m[1]
		} else {
			raw = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "```json", ""), "```", ""))
		}
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, 0
	}
	if err := envelope.Validate(doc); err != nil {
		return nil, 0
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, 0
	}

	confidence := parseConfidence(obj["confidence"])
	return obj["value"], clamp01(confidence)
}

func parseConfidence(v any) float64 {
	switch c := v.(type) {
	case float64:
		return c
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
