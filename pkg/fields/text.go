package fields

import (
	"slices"
	"strings"

	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

// textRules is the text classifier cascade, first match wins.
var textRules = []classifierRule{
	{method: MethodTable, apply: textByTable},
	{method: MethodPattern, apply: textByPattern},
}

// classifyText runs the text cascade over one candidate. A nil return means
// the value is not free text and falls through to the parameter classifier.
func classifyText(c Candidate) *Field {
	return applyRules(textRules, c)
}

// textByTable matches the known text-bearing node types at their known
// text slots.
func textByTable(c Candidate) *Field {
	names, ok := textNodeFields[c.DeclaredType]
	if !ok || !slices.Contains(names, c.FieldName()) {
		return nil
	}
	if c.Value.Kind != workflow.KindString {
		return nil
	}
	return &Field{Candidate: c, Name: c.FieldName(), Category: textSubCategory(c)}
}

// textByPattern matches remaining string values that look like free text.
// Path-like and file-like strings are rejected here so the parameter
// classifier can route them to model/image catalogs.
func textByPattern(c Candidate) *Field {
	if c.Value.Kind != workflow.KindString {
		return nil
	}
	s := c.Value.Str
	lower := strings.ToLower(s)

	switch {
	case isPureDigits(s),
		isBoolWord(s),
		controlKeywords[lower],
		len(s) < 3,
		strings.ContainsAny(s, `/\`),
		hasAnySuffix(lower, modelSuffixes),
		hasAnySuffix(lower, imageSuffixes):
		return nil
	}

	declared := strings.ToLower(c.DeclaredType)
	title := strings.ToLower(c.Title)
	hinted := containsAny(declared, "text", "prompt", "string", "multiline") ||
		containsAny(title, "text", "prompt", "string", "multiline")

	accept := hinted ||
		len(s) > 15 ||
		(strings.Contains(declared, "encode") && len(s) > 5)
	if !accept {
		return nil
	}
	return &Field{Candidate: c, Name: c.FieldName(), Category: textSubCategory(c)}
}

// textSubCategory decides Prompt vs. plain Text. Field naming wins over
// value content, so a value can never be claimed by both the positive- and
// negative-prompt roles at once.
func textSubCategory(c Candidate) Category {
	name := strings.ToLower(c.FieldName())
	title := strings.ToLower(c.Title)
	if containsAny(name, "prompt", "positive", "negative") ||
		containsAny(title, "positive", "negative") {
		return CategoryPrompt
	}
	s := c.Value.Str
	if len(s) > 50 && strings.Contains(s, " ") {
		return CategoryPrompt
	}
	return CategoryText
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
