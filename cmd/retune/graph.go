package main

import (
	"fmt"
	"strings"

	gographviz "github.com/awalterschulze/gographviz"
	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

func graphCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph <workflow.json>",
		Short: "Print a workflow's node/edge topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document is not a recognizable workflow")
			}

			switch strings.ToLower(format) {
			case "dot":
				out, err := renderDOT(doc)
				if err != nil {
					return err
				}
				fmt.Print(out)
			case "text", "":
				fmt.Print(renderGraphText(doc))
			default:
				return fmt.Errorf("unknown format %q: use text or dot", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or dot")
	return cmd
}

// renderDOT builds a DOT digraph of the workflow topology.
func renderDOT(doc *workflow.Document) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("workflow"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	for _, n := range doc.NodesInOrder() {
		label := n.Type
		if n.Title != "" && n.Title != n.Type {
			label = fmt.Sprintf("%s\\n%s", n.Type, n.Title)
		}
		attrs := map[string]string{
			"label": fmt.Sprintf("%q", label),
			"shape": "box",
		}
		if err := g.AddNode("workflow", fmt.Sprintf("%q", n.ID), attrs); err != nil {
			return "", fmt.Errorf("dot node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		attrs := map[string]string{}
		if e.Input != "" {
			attrs["label"] = fmt.Sprintf("%q", e.Input)
		}
		if err := g.AddEdge(fmt.Sprintf("%q", e.From), fmt.Sprintf("%q", e.To), true, attrs); err != nil {
			return "", fmt.Errorf("dot edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g.String(), nil
}

// renderGraphText produces the human-readable topology summary.
func renderGraphText(doc *workflow.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Workflow: %s encoding (%d nodes, %d edges)\n",
		doc.Encoding, len(doc.Nodes), len(doc.Edges))

	maxID := 4
	for _, id := range doc.Order {
		if len(id) > maxID {
			maxID = len(id)
		}
	}

	fmt.Fprintf(&sb, "\nNodes:\n")
	for _, n := range doc.NodesInOrder() {
		title := ""
		if n.Title != "" {
			title = "  " + truncate(n.Title, 40)
		}
		fmt.Fprintf(&sb, "  %-*s  %s%s\n", maxID, n.ID, n.Type, title)
	}

	if len(doc.Edges) > 0 {
		fmt.Fprintf(&sb, "\nEdges:\n")
		for _, e := range doc.Edges {
			if e.Input != "" {
				fmt.Fprintf(&sb, "  %-*s  →  %s  [%s]\n", maxID, e.From, e.To, e.Input)
			} else {
				fmt.Fprintf(&sb, "  %-*s  →  %s\n", maxID, e.From, e.To)
			}
		}
	}
	return sb.String()
}
