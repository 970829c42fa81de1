package features

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaPreservesOrder(t *testing.T) {
	s := NewSchema(
		FeatureDefinition{Name: "b"},
		FeatureDefinition{Name: "a"},
		FeatureDefinition{Name: "c"},
	)

	assert.Equal(t, []string{"b", "a", "c"}, s.Names())
	assert.Equal(t, 3, s.Len())
}

func TestSchemaReaddKeepsPosition(t *testing.T) {
	s := NewSchema(
		FeatureDefinition{Name: "a", Description: "first"},
		FeatureDefinition{Name: "b"},
	)
	s.Add(FeatureDefinition{Name: "a", Description: "replaced"})

	assert.Equal(t, []string{"a", "b"}, s.Names())
	def, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "replaced", def.Description)
}

func TestSchemaSubset(t *testing.T) {
	s := NewSchema(
		FeatureDefinition{Name: "a"},
		FeatureDefinition{Name: "b"},
		FeatureDefinition{Name: "c"},
	)

	sub := s.Subset([]string{"c", "a", "unknown"})
	assert.Equal(t, []string{"c", "a"}, sub.Names())
}

func TestSchemaNamesReturnsCopy(t *testing.T) {
	s := NewSchema(FeatureDefinition{Name: "a"}, FeatureDefinition{Name: "b"})
	names := s.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestPropertySchema(t *testing.T) {
	s := PropertySchema()

	assert.Equal(t, 20, s.Len())
	assert.Equal(t, "owner_name", s.Names()[0])

	owner, ok := s.Get("owner_name")
	require.True(t, ok)
	assert.True(t, owner.Required)
	assert.Equal(t, TypeString, owner.DataType)

	price, ok := s.Get("sale_price")
	require.True(t, ok)
	assert.False(t, price.Required)
	assert.Equal(t, TypeCurrency, price.DataType)
	assert.NotEmpty(t, price.ExtractionPrompt)

	year, ok := s.Get("year_built")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, year.DataType)

	saleDate, ok := s.Get("sale_date")
	require.True(t, ok)
	assert.Equal(t, TypeDate, saleDate.DataType)
}

func TestDataTypeJSONRoundTrip(t *testing.T) {
	for _, dt := range []DataType{TypeString, TypeNumber, TypeCurrency, TypeDate} {
		b, err := json.Marshal(dt)
		require.NoError(t, err)

		var back DataType
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, dt, back)
	}

	var dt DataType
	assert.Error(t, json.Unmarshal([]byte(`"decimal"`), &dt))
	assert.Error(t, json.Unmarshal([]byte(`7`), &dt))
}

func TestParseDataType(t *testing.T) {
	dt, err := ParseDataType("currency")
	require.NoError(t, err)
	assert.Equal(t, TypeCurrency, dt)

	_, err = ParseDataType("Currency")
	assert.Error(t, err)
}
