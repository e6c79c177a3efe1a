package workflow

import (
	"github.com/tidwall/gjson"
)

// Normalize detects which encoding a raw workflow document uses and converts
// it into the canonical node model. It is a pure transform: the document is
// never mutated and Raw keeps the original bytes.
//
// Detection rule: a top-level "nodes" array means the positional graph
// export; otherwise every top-level entry must be an object carrying a
// "class_type", which means the named prompt export. Anything else returns a
// zero-node document alongside a *StructuralError.
func Normalize(raw []byte) (*Document, error) {
	doc := &Document{Nodes: map[string]*Node{}, Raw: raw}

	if !gjson.ValidBytes(raw) {
		return doc, &StructuralError{Reason: "not valid JSON"}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return doc, &StructuralError{Reason: "top level is not an object"}
	}

	if nodes := root.Get("nodes"); nodes.IsArray() {
		doc.Encoding = EncodingPositional
		normalizeGraph(root, doc)
		return doc, nil
	}

	if ok, reason := isPromptShape(root); !ok {
		return doc, &StructuralError{Reason: reason}
	}
	doc.Encoding = EncodingNamed
	normalizePrompt(root, doc)
	return doc, nil
}

// normalizeGraph builds canonical nodes from the positional graph export.
// Each widgets_values entry becomes one positionally addressed value.
func normalizeGraph(root gjson.Result, doc *Document) {
	root.Get("nodes").ForEach(func(_, n gjson.Result) bool {
		node := &Node{
			ID:       n.Get("id").String(),
			Type:     n.Get("type").String(),
			Title:    n.Get("title").String(),
			Encoding: EncodingPositional,
		}
		if wv := n.Get("widgets_values"); wv.IsArray() {
			wv.ForEach(func(_, w gjson.Result) bool {
				node.Widgets = append(node.Widgets, fromResult(w, false))
				return true
			})
		}
		doc.Nodes[node.ID] = node
		doc.Order = append(doc.Order, node.ID)
		return true
	})

	// Graph-export links: [id, fromNode, fromSlot, toNode, toSlot, type].
	root.Get("links").ForEach(func(_, l gjson.Result) bool {
		parts := l.Array()
		if len(parts) < 5 {
			return true
		}
		doc.Edges = append(doc.Edges, Edge{
			From: parts[1].String(),
			To:   parts[3].String(),
		})
		return true
	})
}

// isPromptShape checks that every top-level entry looks like a prompt-export
// node: an object with a string class_type under an identifier-like key.
func isPromptShape(root gjson.Result) (bool, string) {
	ok, reason := true, ""
	empty := true
	root.ForEach(func(k, v gjson.Result) bool {
		empty = false
		if k.String() == "" {
			ok, reason = false, "empty node key"
			return false
		}
		if !v.IsObject() || v.Get("class_type").Type != gjson.String {
			ok, reason = false, "entry "+k.String()+" has no class_type"
			return false
		}
		return true
	})
	if empty {
		return false, "document has no nodes"
	}
	return ok, reason
}

// normalizePrompt builds canonical nodes from the named prompt export.
// Input order follows document order so classification is deterministic.
func normalizePrompt(root gjson.Result, doc *Document) {
	root.ForEach(func(k, v gjson.Result) bool {
		node := &Node{
			ID:       k.String(),
			Type:     v.Get("class_type").String(),
			Title:    v.Get("_meta.title").String(),
			Encoding: EncodingNamed,
			Inputs:   map[string]Value{},
		}
		v.Get("inputs").ForEach(func(name, in gjson.Result) bool {
			val := fromResult(in, true)
			node.Inputs[name.String()] = val
			node.InputOrder = append(node.InputOrder, name.String())
			if val.Kind == KindConnection {
				doc.Edges = append(doc.Edges, Edge{
					From:  val.Target,
					To:    node.ID,
					Input: name.String(),
				})
			}
			return true
		})
		doc.Nodes[node.ID] = node
		doc.Order = append(doc.Order, node.ID)
		return true
	})
}

// fromResult converts one JSON leaf into the Value union. In the named
// encoding a two-element [nodeID, outputIndex] array is a connection
// reference; everywhere else arrays and objects stay opaque nested values.
func fromResult(r gjson.Result, named bool) Value {
	switch r.Type {
	case gjson.Number:
		return NumberValue(r.Float())
	case gjson.True:
		return BoolValue(true)
	case gjson.False:
		return BoolValue(false)
	case gjson.String:
		return StringValue(r.Str)
	}
	if named && r.IsArray() {
		parts := r.Array()
		if len(parts) == 2 && parts[0].Type == gjson.String && parts[1].Type == gjson.Number {
			return ConnectionValue(parts[0].String(), int(parts[1].Int()))
		}
	}
	return NestedValue(r.Value())
}
