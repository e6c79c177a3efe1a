package fields

import (
	"strings"
)

// maxSeed is the exclusive upper bound of the practical seed range used by
// the execution engine.
const maxSeed = int64(1) << 31

// seedRules is the seed classifier cascade, first match wins.
var seedRules = []classifierRule{
	{method: MethodTable, apply: seedByTable},
	{method: MethodPattern, apply: seedByPattern},
}

// classifySeed runs the seed cascade over one candidate. A nil return means
// the candidate is not a seed.
func classifySeed(c Candidate) *Field {
	return applyRules(seedRules, c)
}

// seedByTable matches the seed-named slot of known seed-bearing node types.
// The value must still sit inside the engine's seed range so that every
// classified seed is submittable as-is.
func seedByTable(c Candidate) *Field {
	if !seedNodeTypes[c.DeclaredType] {
		return nil
	}
	if !strings.Contains(strings.ToLower(c.FieldName()), "seed") {
		return nil
	}
	if v := c.Value; !v.IsInteger() || v.Int() < 0 || v.Int() >= maxSeed {
		return nil
	}
	return &Field{Candidate: c, Name: c.FieldName(), Category: CategorySeed}
}

// seedByPattern matches anonymous integers in the seed range when naming
// gives a semantic clue. Bare large integers (steps, dimensions) are common
// in these graphs, so a name hint is required to avoid false positives.
func seedByPattern(c Candidate) *Field {
	v := c.Value
	if !v.IsInteger() || v.Int() < 0 || v.Int() >= maxSeed {
		return nil
	}
	name := strings.ToLower(c.FieldName())
	declared := strings.ToLower(c.DeclaredType)
	title := strings.ToLower(c.Title)

	hinted := strings.Contains(name, "seed") ||
		strings.Contains(declared, "seed") ||
		strings.Contains(title, "seed") ||
		(strings.Contains(declared, "sampl") && v.Int() > 1000) ||
		strings.Contains(declared, "random") ||
		strings.Contains(declared, "noise")
	if !hinted {
		return nil
	}
	return &Field{Candidate: c, Name: c.FieldName(), Category: CategorySeed}
}
