// Package fields classifies the editable values of a normalized workflow.
//
// Classification is a cascade of increasingly generic heuristics: an explicit
// node-vocabulary table, then structural/semantic pattern matching, with a
// safe default at the end. The strategy that matched is retained on every
// field as its DetectionMethod.
package fields

import (
	"fmt"

	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

// Category is the semantic class assigned to one editable value.
type Category string

const (
	CategorySeed     Category = "seed"
	CategoryPrompt   Category = "prompt"
	CategoryText     Category = "text"
	CategoryModel    Category = "model"
	CategoryDropdown Category = "dropdown"
	CategoryNumber   Category = "number"
	CategoryBoolean  Category = "boolean"
	// CategoryIgnored marks candidates deliberately kept off the edit
	// surface (incidental short strings, nested structures). Classification
	// stays total: every candidate gets exactly one field.
	CategoryIgnored Category = "ignored"
)

// DetectionMethod records which cascade stage produced a classification.
type DetectionMethod string

const (
	MethodTable    DetectionMethod = "table"
	MethodPattern  DetectionMethod = "pattern"
	MethodSchema   DetectionMethod = "schema"
	MethodFallback DetectionMethod = "fallback"
)

// Candidate is one raw addressable leaf value of a node. Connection
// references are filtered out before candidates exist.
type Candidate struct {
	NodeID       string
	DeclaredType string
	Title        string
	Slot         workflow.Slot
	Value        workflow.Value
	Encoding     workflow.Encoding
}

// FieldName returns the candidate's addressable name: the slot name for
// named nodes, the table-resolved widget name for positional nodes, or a
// synthetic widget_N name when no mapping exists.
func (c Candidate) FieldName() string {
	if c.Slot.IsNamed() {
		return c.Slot.Name
	}
	if name, ok := WidgetName(c.DeclaredType, c.Slot.Index); ok {
		return name
	}
	return fmt.Sprintf("widget_%d", c.Slot.Index)
}

// ShapeKind is the edit-surface control shape of a classified field.
type ShapeKind string

const (
	ShapeInt            ShapeKind = "int"
	ShapeFloat          ShapeKind = "float"
	ShapeBool           ShapeKind = "bool"
	ShapeSingleLine     ShapeKind = "single-line"
	ShapeMultiLine      ShapeKind = "multi-line"
	ShapeStaticDropdown ShapeKind = "dropdown"
	ShapeRemoteDropdown ShapeKind = "dropdown-remote"
	ShapeNone           ShapeKind = "none"
)

// Shape describes how a field should be edited.
type Shape struct {
	Kind    ShapeKind
	Options []string // static dropdown options, when known
	Catalog string   // remote dropdown catalog ("checkpoints", "loras", …)

	Min, Max, Step float64
	HasBounds      bool
}

// Field is one classified candidate.
type Field struct {
	Candidate
	Name     string
	Category Category
	Method   DetectionMethod
	Shape    Shape
}

// Editable reports whether the field belongs on the edit surface.
func (f Field) Editable() bool { return f.Category != CategoryIgnored }

// Summary is the presentation-ready result of one classification pass.
type Summary struct {
	Counts  map[Category]int
	Fields  []Field // editable fields only, in document order
	Ignored int
}

// Summarize builds a Summary from a classified field list.
func Summarize(all []Field) Summary {
	s := Summary{Counts: map[Category]int{}}
	for _, f := range all {
		if !f.Editable() {
			s.Ignored++
			continue
		}
		s.Counts[f.Category]++
		s.Fields = append(s.Fields, f)
	}
	return s
}
