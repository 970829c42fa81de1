package features

// Schema is an ordered set of feature definitions. Iteration order is the
// declaration order, which also fixes the processing order of an
// extraction run.
type Schema struct {
	names []string
	defs  map[string]FeatureDefinition
}

// NewSchema builds a schema from definitions in the given order.
// Re-adding a name replaces the definition but keeps its position.
func NewSchema(defs ...FeatureDefinition) *Schema {
	s := &Schema{defs: make(map[string]FeatureDefinition, len(defs))}
	for _, def := range defs {
		s.Add(def)
	}
	return s
}

// Add appends a definition, keyed by its name.
func (s *Schema) Add(def FeatureDefinition) {
	if _, exists := s.defs[def.Name]; !exists {
		s.names = append(s.names, def.Name)
	}
	s.defs[def.Name] = def
}

// Names returns feature names in declaration order. The slice is a copy.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get looks up a definition by name.
func (s *Schema) Get(name string) (FeatureDefinition, bool) {
	def, ok := s.defs[name]
	return def, ok
}

// Len reports the number of features.
func (s *Schema) Len() int {
	return len(s.names)
}

// Subset returns a new schema containing only the named features, in the
// order given. Unknown names are skipped.
func (s *Schema) Subset(names []string) *Schema {
	sub := NewSchema()
	for _, name := range names {
		if def, ok := s.defs[name]; ok {
			sub.Add(def)
		}
	}
	return sub
}
