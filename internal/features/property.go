package features

// PropertySchema returns the default schema for property documents: deeds,
// assessments, and listing sheets. Callers may extract a subset or supply
// their own schema entirely.
func PropertySchema() *Schema {
	return NewSchema(
		FeatureDefinition{
			Name:        "owner_name",
			Description: "The name of the property owner",
			DataType:    TypeString,
			Required:    true,
			ExtractionPrompt: "Extract the property owner's name from the document. " +
				"Look for sections labeled 'Owner', 'Property Owner', or similar. " +
				"Return the full name as it appears in the document.",
			ValidationRules: []ValidationRule{
				{RuleType: "min_length", Parameters: map[string]any{"min": 2}},
				{RuleType: "max_length", Parameters: map[string]any{"max": 200}},
			},
		},
		FeatureDefinition{
			Name:        "property_address",
			Description: "The full address of the property",
			DataType:    TypeString,
			Required:    true,
			ExtractionPrompt: "Extract the complete property address including street number, " +
				"street name, city, state, and ZIP code. Look for sections labeled " +
				"'Property Address', 'Location', or 'Site Address'.",
			ValidationRules: []ValidationRule{
				{RuleType: "min_length", Parameters: map[string]any{"min": 10}},
				{RuleType: "max_length", Parameters: map[string]any{"max": 300}},
			},
		},
		FeatureDefinition{
			Name:        "lot_size",
			Description: "The size of the lot in acres or square feet",
			DataType:    TypeString,
			ExtractionPrompt: "Extract the lot size from the document. Look for sections labeled " +
				"'Lot Size', 'Land Area', or 'Acreage'. Include the unit of measurement " +
				"(acres, square feet, etc.) in the extracted value.",
			ValidationRules: []ValidationRule{
				{RuleType: "pattern", Parameters: map[string]any{"regex": `[\d.,]+\s*(acres?|sq\.?\s*ft\.?|square feet)`}},
			},
		},
		FeatureDefinition{
			Name:        "sale_price",
			Description: "The most recent sale price of the property",
			DataType:    TypeCurrency,
			ExtractionPrompt: "Extract the most recent sale price from the document. " +
				"Look for sections labeled 'Sale Price', 'Purchase Price', or " +
				"'Consideration'. Return the amount with currency symbol if present.",
			ValidationRules: []ValidationRule{
				{RuleType: "currency_format", Parameters: map[string]any{"allow_symbols": []string{"$", "USD"}}},
				{RuleType: "min_value", Parameters: map[string]any{"min": 0}},
			},
		},
		FeatureDefinition{
			Name:        "sale_date",
			Description: "The date of the most recent sale",
			DataType:    TypeDate,
			ExtractionPrompt: "Extract the date of the most recent property sale. " +
				"Look for sections labeled 'Sale Date', 'Date of Sale', or " +
				"'Transfer Date'. Return in a standard date format.",
			ValidationRules: []ValidationRule{
				{RuleType: "date_format", Parameters: map[string]any{"formats": []string{"MM/DD/YYYY", "YYYY-MM-DD", "Month DD, YYYY"}}},
			},
		},
		FeatureDefinition{
			Name:        "property_type",
			Description: "The type or classification of the property",
			DataType:    TypeString,
			ExtractionPrompt: "Extract the property type from the document. " +
				"Look for sections labeled 'Property Type', 'Classification', or " +
				"'Use Code'. Common values include: Residential, Commercial, " +
				"Industrial, Agricultural, Vacant Land, Multi-Family, etc.",
			ValidationRules: []ValidationRule{
				{RuleType: "enum", Parameters: map[string]any{
					"allowed_values": []string{
						"Residential", "Commercial", "Industrial",
						"Agricultural", "Vacant Land", "Multi-Family",
						"Mixed Use", "Other",
					},
					"case_insensitive": true,
				}},
			},
		},
		FeatureDefinition{
			Name:        "bedrooms",
			Description: "The number of bedrooms in the property",
			DataType:    TypeNumber,
			ExtractionPrompt: "Extract the number of bedrooms from the document. " +
				"Look for sections labeled 'Bedrooms', 'BR', 'Beds', or " +
				"building description sections. Return only the numeric value.",
			ValidationRules: []ValidationRule{
				{RuleType: "integer", Parameters: map[string]any{}},
				{RuleType: "range", Parameters: map[string]any{"min": 0, "max": 50}},
			},
		},
		FeatureDefinition{
			Name:        "bathrooms",
			Description: "The number of bathrooms in the property",
			DataType:    TypeNumber,
			ExtractionPrompt: "Extract the number of bathrooms from the document. " +
				"Look for sections labeled 'Bathrooms', 'BA', 'Baths', or " +
				"building description sections. Include half baths (e.g., 2.5).",
			ValidationRules: []ValidationRule{
				{RuleType: "numeric", Parameters: map[string]any{"allow_decimal": true}},
			},
		},
		FeatureDefinition{
			Name:        "year_built",
			Description: "The year the property was built",
			DataType:    TypeNumber,
			ExtractionPrompt: "Extract the year the property was built from the document. " +
				"Look for sections labeled 'Year Built', 'Construction Date', or " +
				"'Built'. Return only the 4-digit year.",
			ValidationRules: []ValidationRule{
				{RuleType: "integer", Parameters: map[string]any{}},
				{RuleType: "range", Parameters: map[string]any{"min": 1600, "max": 2100}},
			},
		},
		FeatureDefinition{
			Name:        "square_footage",
			Description: "The total square footage of the building",
			DataType:    TypeNumber,
			ExtractionPrompt: "Extract the total square footage of the building from the document. " +
				"Look for sections labeled 'Square Footage', 'Building Area', " +
				"'Living Area', or 'Total SF'. Return only the numeric value.",
			ValidationRules: []ValidationRule{
				{RuleType: "integer", Parameters: map[string]any{}},
				{RuleType: "min_value", Parameters: map[string]any{"min": 0}},
			},
		},
		FeatureDefinition{
			Name:        "tax_assessment_value",
			Description: "The assessed value for tax purposes",
			DataType:    TypeCurrency,
			ExtractionPrompt: "Extract the tax assessment value from the document. " +
				"Look for sections labeled 'Assessed Value', 'Tax Assessment', " +
				"'Assessment', or 'Taxable Value'. Return the amount with currency symbol.",
			ValidationRules: []ValidationRule{
				{RuleType: "currency_format", Parameters: map[string]any{"allow_symbols": []string{"$", "USD"}}},
				{RuleType: "min_value", Parameters: map[string]any{"min": 0}},
			},
		},
		FeatureDefinition{
			Name:        "annual_property_tax",
			Description: "The annual property tax amount",
			DataType:    TypeCurrency,
			ExtractionPrompt: "Extract the annual property tax amount from the document. " +
				"Look for sections labeled 'Annual Tax', 'Property Tax', " +
				"'Yearly Tax', or 'Tax Amount'. Return the amount with currency symbol.",
			ValidationRules: []ValidationRule{
				{RuleType: "currency_format", Parameters: map[string]any{"allow_symbols": []string{"$", "USD"}}},
				{RuleType: "min_value", Parameters: map[string]any{"min": 0}},
			},
		},
		FeatureDefinition{
			Name:        "zoning_classification",
			Description: "The zoning classification or code",
			DataType:    TypeString,
			ExtractionPrompt: "Extract the zoning classification from the document. " +
				"Look for sections labeled 'Zoning', 'Zone', 'Zoning Code', or " +
				"'Land Use'. Return the exact code or classification as it appears.",
			ValidationRules: []ValidationRule{
				{RuleType: "max_length", Parameters: map[string]any{"max": 50}},
			},
		},
		FeatureDefinition{
			Name:        "parcel_id",
			Description: "The unique parcel identification number",
			DataType:    TypeString,
			ExtractionPrompt: "Extract the parcel ID or identification number from the document. " +
				"Look for sections labeled 'Parcel ID', 'Parcel Number', 'Tax ID', " +
				"'Property ID', or 'Account Number'. Return the exact identifier.",
			ValidationRules: []ValidationRule{
				{RuleType: "max_length", Parameters: map[string]any{"max": 100}},
			},
		},
		FeatureDefinition{
			Name:        "legal_description",
			Description: "The legal description of the property",
			DataType:    TypeString,
			ExtractionPrompt: "Extract the legal description of the property from the document. " +
				"Look for sections labeled 'Legal Description', 'Legal', or " +
				"'Property Description'. This typically includes lot, block, and " +
				"subdivision information.",
			ValidationRules: []ValidationRule{
				{RuleType: "max_length", Parameters: map[string]any{"max": 1000}},
			},
		},
		FeatureDefinition{
			Name:        "previous_sale_price",
			Description: "The previous sale price before the most recent sale",
			DataType:    TypeCurrency,
			ExtractionPrompt: "Extract the previous sale price from the document. " +
				"Look for sections showing sale history or prior sales. " +
				"Return the sale price that occurred before the most recent sale.",
			ValidationRules: []ValidationRule{
				{RuleType: "currency_format", Parameters: map[string]any{"allow_symbols": []string{"$", "USD"}}},
				{RuleType: "min_value", Parameters: map[string]any{"min": 0}},
			},
		},
		FeatureDefinition{
			Name:        "previous_sale_date",
			Description: "The date of the previous sale",
			DataType:    TypeDate,
			ExtractionPrompt: "Extract the date of the previous property sale from the document. " +
				"Look for sections showing sale history. Return the date that " +
				"occurred before the most recent sale.",
			ValidationRules: []ValidationRule{
				{RuleType: "date_format", Parameters: map[string]any{"formats": []string{"MM/DD/YYYY", "YYYY-MM-DD", "Month DD, YYYY"}}},
			},
		},
		FeatureDefinition{
			Name:        "mortgage_amount",
			Description: "The mortgage or loan amount",
			DataType:    TypeCurrency,
			ExtractionPrompt: "Extract the mortgage or loan amount from the document. " +
				"Look for sections labeled 'Mortgage', 'Loan Amount', " +
				"'Financing', or 'Lien Amount'. Return the amount with currency symbol.",
			ValidationRules: []ValidationRule{
				{RuleType: "currency_format", Parameters: map[string]any{"allow_symbols": []string{"$", "USD"}}},
				{RuleType: "min_value", Parameters: map[string]any{"min": 0}},
			},
		},
		FeatureDefinition{
			Name:        "deed_book_reference",
			Description: "The deed book reference number",
			DataType:    TypeString,
			ExtractionPrompt: "Extract the deed book reference from the document. " +
				"Look for sections labeled 'Deed Book', 'Book', 'Deed Reference', " +
				"or 'Recording Information'. This is typically a book number.",
			ValidationRules: []ValidationRule{
				{RuleType: "max_length", Parameters: map[string]any{"max": 50}},
			},
		},
		FeatureDefinition{
			Name:        "page_number",
			Description: "The page number in the deed book",
			DataType:    TypeString,
			ExtractionPrompt: "Extract the page number from the deed book reference. " +
				"Look for sections labeled 'Page', 'Pg', or appearing after " +
				"the deed book number. This is the page where the deed is recorded.",
			ValidationRules: []ValidationRule{
				{RuleType: "max_length", Parameters: map[string]any{"max": 20}},
			},
		},
	)
}
