package extraction

import (
	"strings"

	"github.com/propdocs/extractor/internal/features"
)

// BuildQuery renders a feature into a retrieval query: the de-delimited
// name, the description, and a keyword hint set keyed by data type. The
// hints bias semantic search toward chunks likely to carry the field.
func BuildQuery(def features.FeatureDefinition) string {
	parts := []string{
		strings.ReplaceAll(def.Name, "_", " "),
		def.Description,
	}

	switch def.DataType {
	case features.TypeCurrency:
		parts = append(parts, "price amount dollar")
	case features.TypeDate:
		parts = append(parts, "date year month day")
	case features.TypeNumber:
		parts = append(parts, "number count quantity")
	}

	return strings.Join(parts, " ")
}
