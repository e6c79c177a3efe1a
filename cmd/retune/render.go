package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ravi-parthasarathy/retune/pkg/fields"
	"github.com/ravi-parthasarathy/retune/pkg/options"
	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

// renderFields produces the human-readable classification summary.
func renderFields(doc *workflow.Document, all []fields.Field, showAll bool) string {
	var sb strings.Builder
	summary := fields.Summarize(all)

	fmt.Fprintf(&sb, "Workflow: %s encoding, %d nodes, %d editable fields (%d ignored)\n",
		doc.Encoding, len(doc.Nodes), len(summary.Fields), summary.Ignored)

	for _, cat := range []fields.Category{
		fields.CategorySeed, fields.CategoryPrompt, fields.CategoryText,
		fields.CategoryModel, fields.CategoryDropdown,
		fields.CategoryNumber, fields.CategoryBoolean,
	} {
		if n := summary.Counts[cat]; n > 0 {
			fmt.Fprintf(&sb, "  %-8s %d\n", cat, n)
		}
	}

	list := summary.Fields
	if showAll {
		list = all
	}

	// Column widths.
	maxNode, maxName := 4, 5
	for _, f := range list {
		if len(f.NodeID) > maxNode {
			maxNode = len(f.NodeID)
		}
		if len(f.Name) > maxName {
			maxName = len(f.Name)
		}
	}

	fmt.Fprintf(&sb, "\nFields:\n")
	for _, f := range list {
		fmt.Fprintf(&sb, "  %-*s  %-*s  %-8s  %-10s  %-8s  %s\n",
			maxNode, f.NodeID, maxName, f.Name,
			f.Category, f.Shape.Kind, f.Method, truncate(f.Value.String(), 60))
	}
	return sb.String()
}

// renderOptions appends resolved dropdown choices for fields that have a
// remote catalog behind them.
func renderOptions(ctx context.Context, provider *options.Provider, list []fields.Field) string {
	var sb strings.Builder
	for _, f := range list {
		if f.Shape.Kind != fields.ShapeRemoteDropdown {
			continue
		}
		opts := provider.Options(ctx, f)
		if len(opts) == 0 {
			fmt.Fprintf(&sb, "  %s/%s: no options resolved (free-text entry)\n", f.NodeID, f.Name)
			continue
		}
		fmt.Fprintf(&sb, "  %s/%s (%s): %s\n", f.NodeID, f.Name, f.Shape.Catalog,
			truncate(strings.Join(opts, ", "), 100))
	}
	if sb.Len() == 0 {
		return ""
	}
	return "\nOptions:\n" + sb.String()
}

// truncate shortens s to maxLen runes, appending "…" if needed.
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", "⏎")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "…"
}
