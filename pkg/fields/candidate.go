package fields

import (
	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

// Extract walks a normalized document and produces the raw classification
// candidates. Positional nodes yield one candidate per widget slot; named
// nodes yield one per input, except connection references, which are graph
// edges and must never reach a classifier.
func Extract(doc *workflow.Document) []Candidate {
	var out []Candidate
	for _, node := range doc.NodesInOrder() {
		switch node.Encoding {
		case workflow.EncodingPositional:
			for i, v := range node.Widgets {
				out = append(out, Candidate{
					NodeID:       node.ID,
					DeclaredType: node.Type,
					Title:        node.Title,
					Slot:         workflow.PositionalSlot(i),
					Value:        v,
					Encoding:     node.Encoding,
				})
			}
		case workflow.EncodingNamed:
			for _, name := range node.InputOrder {
				v := node.Inputs[name]
				if v.Kind == workflow.KindConnection {
					continue
				}
				out = append(out, Candidate{
					NodeID:       node.ID,
					DeclaredType: node.Type,
					Title:        node.Title,
					Slot:         workflow.NamedSlot(name),
					Value:        v,
					Encoding:     node.Encoding,
				})
			}
		}
	}
	return out
}
