package features

import "fmt"

// DataType is the closed set of value types a feature can declare. Keeping
// it a tagged enum (instead of free-form strings) lets coercion and query
// hints key off the tag.
type DataType uint8

const (
	TypeString DataType = iota
	TypeNumber
	TypeCurrency
	TypeDate
)

func (t DataType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeCurrency:
		return "currency"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// ParseDataType maps the wire spelling to a DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "number":
		return TypeNumber, nil
	case "currency":
		return TypeCurrency, nil
	case "date":
		return TypeDate, nil
	default:
		return TypeString, fmt.Errorf("unknown data type %q", s)
	}
}

// MarshalJSON emits the string spelling.
func (t DataType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts the string spelling.
func (t *DataType) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("data type must be a JSON string, got %s", string(b))
	}
	parsed, err := ParseDataType(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
