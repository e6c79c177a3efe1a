package fields

// SchemaField is the externally published metadata for one node-type field:
// its declared wire type, enumeration, bounds, and editor hints.
type SchemaField struct {
	Type      string // "INT", "FLOAT", "STRING", "BOOLEAN", or "" for enums
	Options   []string
	Min, Max  float64
	Step      float64
	HasBounds bool
	Multiline bool
}

// Schema maps declared node type → field name → metadata, as fetched from a
// generation engine's capability listing.
type Schema map[string]map[string]SchemaField

// ApplySchema overlays externally published shapes onto locally classified
// fields. A schema entry for the same node-type+field pair overrides the
// inferred shape and tags the field as schema-detected. Fields without a
// schema entry keep their local classification, so an absent or failed
// schema fetch costs nothing.
func ApplySchema(all []Field, schema Schema) []Field {
	if len(schema) == 0 {
		return all
	}
	out := make([]Field, len(all))
	copy(out, all)
	for i := range out {
		byField, ok := schema[out[i].DeclaredType]
		if !ok {
			continue
		}
		meta, ok := byField[out[i].Name]
		if !ok {
			continue
		}
		if shape, ok := shapeFromSchema(out[i], meta); ok {
			out[i].Shape = shape
			out[i].Method = MethodSchema
		}
	}
	return out
}

func shapeFromSchema(f Field, meta SchemaField) (Shape, bool) {
	if len(meta.Options) > 0 {
		return Shape{Kind: ShapeStaticDropdown, Options: meta.Options}, true
	}
	switch meta.Type {
	case "INT":
		return Shape{Kind: ShapeInt, Min: meta.Min, Max: meta.Max, Step: meta.Step, HasBounds: meta.HasBounds}, true
	case "FLOAT":
		return Shape{Kind: ShapeFloat, Min: meta.Min, Max: meta.Max, Step: meta.Step, HasBounds: meta.HasBounds}, true
	case "BOOLEAN":
		return Shape{Kind: ShapeBool}, true
	case "STRING":
		if meta.Multiline {
			return Shape{Kind: ShapeMultiLine}, true
		}
		return Shape{Kind: ShapeSingleLine}, true
	}
	return Shape{}, false
}
