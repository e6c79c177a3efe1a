package workflow

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Edits maps node ID → slot → replacement value. Values are plain Go
// representations (string, bool, int64, float64).
type Edits map[string]map[Slot]any

// Set records one edit, replacing any prior entry for the same slot.
func (e Edits) Set(nodeID string, slot Slot, value any) {
	if e[nodeID] == nil {
		e[nodeID] = map[Slot]any{}
	}
	e[nodeID][slot] = value
}

// Len returns the total number of recorded edits.
func (e Edits) Len() int {
	n := 0
	for _, slots := range e {
		n += len(slots)
	}
	return n
}

// SlotResolver maps a (declared type, field name) pair to a positional widget
// index. Used when named edits must be written into a positional document.
type SlotResolver func(declaredType, field string) (int, bool)

// Reconcile merges committed edits into a fresh copy of the document's
// original bytes. Only addressed slots change; every untouched byte of
// structure survives. Edits that cannot be mapped to a slot are dropped with
// a warning, never an abort.
//
// For positional documents a named slot is resolved through resolve, then the
// generic fallback: field names "text" and "prompt" address slot 0. Named
// documents are addressed directly by input name.
func Reconcile(doc *Document, edits Edits, resolve SlotResolver) ([]byte, error) {
	out := make([]byte, len(doc.Raw))
	copy(out, doc.Raw)

	if len(edits) == 0 {
		return out, nil
	}

	for nodeID, slots := range edits {
		node, ok := doc.Nodes[nodeID]
		if !ok {
			warnDropped(&AddressingError{NodeID: nodeID, Reason: "unknown node"})
			continue
		}
		for slot, value := range slots {
			var err error
			switch doc.Encoding {
			case EncodingNamed:
				out, err = applyNamed(out, nodeID, slot, value)
			case EncodingPositional:
				out, err = applyPositional(out, node, slot, value, resolve)
			default:
				err = &AddressingError{NodeID: nodeID, Slot: slot, Reason: "document has no encoding"}
			}
			if err != nil {
				warnDropped(err)
			}
		}
	}
	return out, nil
}

// applyNamed writes one edit by input name into a prompt-export node.
func applyNamed(out []byte, nodeID string, slot Slot, value any) ([]byte, error) {
	name := slot.Name
	if !slot.IsNamed() {
		return out, &AddressingError{NodeID: nodeID, Slot: slot, Reason: "positional slot in named document"}
	}
	path := escapePath(nodeID) + ".inputs." + escapePath(name)
	if !gjson.GetBytes(out, path).Exists() {
		return out, &AddressingError{NodeID: nodeID, Slot: slot, Reason: "no such input"}
	}
	next, err := sjson.SetBytes(out, path, value)
	if err != nil {
		return out, &AddressingError{NodeID: nodeID, Slot: slot, Reason: err.Error()}
	}
	return next, nil
}

// applyPositional writes one edit by widget index into a graph-export node.
func applyPositional(out []byte, node *Node, slot Slot, value any, resolve SlotResolver) ([]byte, error) {
	index := slot.Index
	if slot.IsNamed() {
		var ok bool
		index, ok = resolveWidget(node.Type, slot.Name, resolve)
		if !ok {
			return out, &AddressingError{NodeID: node.ID, Slot: slot, Reason: "no widget index mapping"}
		}
	}

	arrayIdx, ok := nodeArrayIndex(out, node.ID)
	if !ok {
		return out, &AddressingError{NodeID: node.ID, Slot: slot, Reason: "node missing from raw document"}
	}
	prefix := fmt.Sprintf("nodes.%d.widgets_values", arrayIdx)
	if n := gjson.GetBytes(out, prefix+".#").Int(); int64(index) >= n {
		return out, &AddressingError{NodeID: node.ID, Slot: slot, Reason: fmt.Sprintf("widget index %d out of range (%d widgets)", index, n)}
	}
	next, err := sjson.SetBytes(out, fmt.Sprintf("%s.%d", prefix, index), value)
	if err != nil {
		return out, &AddressingError{NodeID: node.ID, Slot: slot, Reason: err.Error()}
	}
	return next, nil
}

// resolveWidget maps a field name to a widget index: injected table first,
// then synthetic widget_N names, then the generic text/prompt fallback.
func resolveWidget(declaredType, field string, resolve SlotResolver) (int, bool) {
	if resolve != nil {
		if idx, ok := resolve(declaredType, field); ok {
			return idx, true
		}
	}
	if rest, ok := strings.CutPrefix(field, "widget_"); ok {
		if idx, err := strconv.Atoi(rest); err == nil {
			return idx, true
		}
	}
	switch field {
	case "text", "prompt":
		return 0, true
	}
	return 0, false
}

// nodeArrayIndex locates a node's position in the raw nodes array by ID.
func nodeArrayIndex(raw []byte, nodeID string) (int, bool) {
	found, idx := false, 0
	gjson.GetBytes(raw, "nodes").ForEach(func(i, n gjson.Result) bool {
		if n.Get("id").String() == nodeID {
			found, idx = true, int(i.Int())
			return false
		}
		return true
	})
	return idx, found
}

// escapePath escapes gjson/sjson path metacharacters in a key.
func escapePath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`)
	return r.Replace(key)
}

func warnDropped(err error) {
	slog.Warn("edit dropped during reconciliation", "error", err)
}
