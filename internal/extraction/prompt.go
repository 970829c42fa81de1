package extraction

import (
	"fmt"
	"strings"

	"github.com/propdocs/extractor/internal/features"
)

// BuildPrompt renders feature metadata, its extraction instructions, the
// numbered context chunks, and a strict JSON output contract. The contract
// requires exactly the keys value, confidence, and reasoning, with null/0.0
// when the field is absent.
func BuildPrompt(def features.FeatureDefinition, contextChunks []string) string {
	var ctx strings.Builder
	for i, chunk := range contextChunks {
		if i > 0 {
			ctx.WriteString("\n\n")
		}
		fmt.Fprintf(&ctx, "[Chunk %d]\n%s", i+1, chunk)
	}

	return fmt.Sprintf(`You are extracting property information from documents.

Feature to extract: %s
Description: %s
Data type: %s
Required: %t

Extraction instructions:
%s

Context from document:
%s

Please extract the requested feature from the context above. Respond in JSON format with the following structure:
{
    "value": <extracted value or null if not found>,
    "confidence": <confidence score between 0.0 and 1.0>,
    "reasoning": <brief explanation of your extraction>
}

Important:
- If the feature is not found in the context, return null for value and 0.0 for confidence
- Do not hallucinate or make up information
- Base your extraction only on the provided context
- Provide a confidence score based on how clearly the information appears in the context
- For currency values, include the dollar sign (e.g., "$500,000")
- For dates, use a standard format (MM/DD/YYYY or YYYY-MM-DD)
- For numbers, return only the numeric value

Respond only with the JSON object, no additional text.`,
		def.Name,
		def.Description,
		def.DataType,
		def.Required,
		def.ExtractionPrompt,
		ctx.String(),
	)
}
