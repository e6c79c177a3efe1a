package fields

import (
	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

// classifierRule is one stage of a cascade: a pure function that either
// claims a candidate or declines it. The stage's method becomes the field's
// DetectionMethod when it matches.
type classifierRule struct {
	method DetectionMethod
	apply  func(Candidate) *Field
}

// applyRules runs a cascade in order, first match wins.
func applyRules(rules []classifierRule, c Candidate) *Field {
	for _, r := range rules {
		if f := r.apply(c); f != nil {
			f.Method = r.method
			return f
		}
	}
	return nil
}

// Classify runs the full classification pipeline over a normalized document:
// extraction, then the seed, text, and parameter cascades. Classification is
// total: every candidate yields exactly one field, and the pass is
// synchronous, side-effect free, and idempotent for a given document.
func Classify(doc *workflow.Document) []Field {
	candidates := Extract(doc)
	out := make([]Field, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, classify(c))
	}
	return out
}

func classify(c Candidate) Field {
	var f *Field
	if f = classifySeed(c); f == nil {
		if f = classifyText(c); f == nil {
			f = classifyParam(c)
		}
	}
	f.Shape = detectShape(*f)
	return *f
}
