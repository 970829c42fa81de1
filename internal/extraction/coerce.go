package extraction

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/propdocs/extractor/internal/features"
)

// CoerceValue converts a parsed value to the feature's declared type.
// Numbers strip thousands separators and prefer integers over floats;
// currency and date values pass through as strings, normalization being a
// downstream formatting concern. Coercion never fails: a value that cannot
// be converted falls back to its string representation.
func CoerceValue(value any, dt features.DataType) any {
	if value == nil {
		return nil
	}

	switch dt {
	case features.TypeNumber:
		return coerceNumber(value)
	case features.TypeString, features.TypeCurrency, features.TypeDate:
		return stringify(value)
	default:
		return value
	}
}

func coerceNumber(value any) any {
	switch v := value.(type) {
	case float64:
		// JSON numbers decode as float64; keep integral values as int.
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v)
		}
		return v
	case int:
		return v
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return v
	default:
		return stringify(value)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.Itoa(int(v))
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
