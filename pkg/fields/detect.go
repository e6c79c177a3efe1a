package fields

import (
	"strings"
)

// multiLineThreshold is the length past which plain text gets a multi-line
// editor even without embedded newlines.
const multiLineThreshold = 80

// detectShape maps a classified field to its edit-surface shape. Shapes
// already assigned by the parameter classifier (model/dropdown routing) are
// kept.
func detectShape(f Field) Shape {
	if f.Shape.Kind != "" {
		return f.Shape
	}
	switch f.Category {
	case CategorySeed:
		return Shape{Kind: ShapeInt, Min: 0, Max: float64(maxSeed - 1), HasBounds: true}
	case CategoryPrompt:
		return Shape{Kind: ShapeMultiLine}
	case CategoryText:
		s := f.Value.Str
		if len(s) > multiLineThreshold || strings.Contains(s, "\n") {
			return Shape{Kind: ShapeMultiLine}
		}
		return Shape{Kind: ShapeSingleLine}
	case CategoryModel:
		return Shape{Kind: ShapeRemoteDropdown, Catalog: catalogFor(f.Name, f.Value.Str)}
	case CategoryDropdown:
		if opts, ok := staticOptions[f.Name]; ok {
			return Shape{Kind: ShapeStaticDropdown, Options: opts}
		}
		return Shape{Kind: ShapeRemoteDropdown}
	case CategoryNumber:
		if f.Value.IsInteger() {
			return Shape{Kind: ShapeInt}
		}
		return Shape{Kind: ShapeFloat}
	case CategoryBoolean:
		return Shape{Kind: ShapeBool}
	}
	return Shape{Kind: ShapeNone}
}
