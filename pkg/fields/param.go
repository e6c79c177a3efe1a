package fields

import (
	"strings"

	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

// classifyParam handles every candidate the seed and text classifiers
// rejected. Unlike those two, it is total: it always returns a field, using
// CategoryIgnored for values that stay off the edit surface.
func classifyParam(c Candidate) *Field {
	known := knownParamField(c.DeclaredType, c.FieldName())

	switch c.Value.Kind {
	case workflow.KindBool:
		return &Field{Candidate: c, Name: c.FieldName(), Category: CategoryBoolean, Method: MethodFallback}
	case workflow.KindNumber:
		return &Field{Candidate: c, Name: c.FieldName(), Category: CategoryNumber, Method: MethodFallback}
	case workflow.KindString:
		return classifyParamString(c, known)
	default:
		// Nested structures and anything unforeseen: arrays are graph
		// plumbing, never parameters.
		return &Field{Candidate: c, Name: c.FieldName(), Category: CategoryIgnored, Method: MethodFallback}
	}
}

func classifyParamString(c Candidate, known bool) *Field {
	s := c.Value.Str
	lower := strings.ToLower(s)
	name := c.FieldName()

	if hasAnySuffix(lower, modelSuffixes) {
		method := MethodPattern
		if known {
			method = MethodTable
		}
		return &Field{
			Candidate: c, Name: name,
			Category: CategoryModel,
			Method:   method,
			Shape:    Shape{Kind: ShapeRemoteDropdown, Catalog: catalogFor(name, s)},
		}
	}

	if hasAnySuffix(lower, imageSuffixes) {
		return &Field{
			Candidate: c, Name: name,
			Category: CategoryDropdown,
			Method:   MethodPattern,
			Shape:    Shape{Kind: ShapeRemoteDropdown, Catalog: "input"},
		}
	}

	if knownParamNames[name] || known {
		if opts, ok := staticOptions[name]; ok {
			return &Field{
				Candidate: c, Name: name,
				Category: CategoryDropdown,
				Method:   MethodTable,
				Shape:    Shape{Kind: ShapeStaticDropdown, Options: opts},
			}
		}
		return &Field{Candidate: c, Name: name, Category: CategoryText, Method: MethodTable}
	}

	// Incidental configuration strings would flood the edit surface;
	// unrecognized strings stay hidden.
	return &Field{Candidate: c, Name: name, Category: CategoryIgnored, Method: MethodFallback}
}
