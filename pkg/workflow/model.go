package workflow

import "fmt"

// Encoding identifies which of the two document formats a workflow uses.
type Encoding string

const (
	// EncodingPositional is the graph export: a top-level "nodes" array where
	// each node addresses its literal values by index into "widgets_values".
	EncodingPositional Encoding = "graph"
	// EncodingNamed is the prompt (API) export: a top-level object keyed by
	// node ID where each node addresses its values by name in "inputs".
	EncodingNamed Encoding = "prompt"
)

// Kind discriminates the Value tagged union.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindNested
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNested:
		return "nested"
	case KindConnection:
		return "connection"
	}
	return "unknown"
}

// Value is one leaf value inside a node. Exactly one arm of the union is
// meaningful, selected by Kind. A connection value references another node's
// output and is never user-editable data.
type Value struct {
	Kind Kind

	Num  float64
	Bool bool
	Str  string

	// Nested holds arrays/objects that are not connection references,
	// decoded generically. Never edited, only carried through.
	Nested any

	// Connection target, set when Kind == KindConnection.
	Target string
	Output int
}

func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NestedValue(v any) Value     { return Value{Kind: KindNested, Nested: v} }

func ConnectionValue(target string, output int) Value {
	return Value{Kind: KindConnection, Target: target, Output: output}
}

// IsInteger reports whether the value is a number with no fractional part.
func (v Value) IsInteger() bool {
	return v.Kind == KindNumber && v.Num == float64(int64(v.Num))
}

// Int returns the value as an int64 (0 for non-numbers).
func (v Value) Int() int64 { return int64(v.Num) }

// Native returns the value as the plain Go representation used for staging
// and JSON write-back.
func (v Value) Native() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindString:
		return v.Str
	case KindNested:
		return v.Nested
	case KindConnection:
		return []any{v.Target, float64(v.Output)}
	}
	return nil
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		if v.IsInteger() {
			return fmt.Sprintf("%d", v.Int())
		}
		return fmt.Sprintf("%g", v.Num)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindString:
		return v.Str
	case KindNested:
		return fmt.Sprintf("%v", v.Nested)
	case KindConnection:
		return fmt.Sprintf("→%s[%d]", v.Target, v.Output)
	}
	return ""
}

// Slot addresses one value within a node: by index for positional nodes, by
// field name for named nodes. Exactly one form is set.
type Slot struct {
	Name  string
	Index int
}

func PositionalSlot(i int) Slot  { return Slot{Index: i} }
func NamedSlot(name string) Slot { return Slot{Name: name} }
func (s Slot) IsNamed() bool     { return s.Name != "" }

func (s Slot) String() string {
	if s.IsNamed() {
		return s.Name
	}
	return fmt.Sprintf("#%d", s.Index)
}

// Node is one canonical node of a normalized workflow. Positional nodes carry
// Widgets; named nodes carry Inputs (with InputOrder preserving document
// order). Nodes are immutable once normalization returns.
type Node struct {
	ID       string
	Type     string // declared type name (class type)
	Title    string
	Encoding Encoding

	Widgets    []Value
	Inputs     map[string]Value
	InputOrder []string
}

// Edge is a directed data connection between two nodes.
type Edge struct {
	From  string
	To    string
	Input string // receiving input name, when known
}

// Document is the canonical form of one workflow. Raw retains the original
// bytes untouched; reconciliation always starts from a copy of Raw.
type Document struct {
	Encoding Encoding
	Nodes    map[string]*Node
	Order    []string // node IDs in document order
	Edges    []Edge
	Raw      []byte
}

// NodesInOrder returns the nodes in document order.
func (d *Document) NodesInOrder() []*Node {
	out := make([]*Node, 0, len(d.Order))
	for _, id := range d.Order {
		out = append(out, d.Nodes[id])
	}
	return out
}
