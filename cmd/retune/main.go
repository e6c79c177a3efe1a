package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/retune/pkg/comfy"
	"github.com/ravi-parthasarathy/retune/pkg/edit"
	"github.com/ravi-parthasarathy/retune/pkg/enhance"
	"github.com/ravi-parthasarathy/retune/pkg/fields"
	"github.com/ravi-parthasarathy/retune/pkg/options"
	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "retune",
		Short: "retune — tweak the parameters that matter in generative workflows",
		Long: `Retune ingests a generative-workflow document (graph or prompt export),
discovers the fields worth changing between runs — seeds, prompts, model
references, samplers, numeric knobs — and writes edits back without
disturbing a single untouched byte of the document.`,
	}
	root.AddCommand(fieldsCmd())
	root.AddCommand(setCmd())
	root.AddCommand(graphCmd())
	root.AddCommand(fetchCmd())
	root.AddCommand(submitCmd())
	root.AddCommand(enhanceCmd())
	return root
}

// ─── fetch ────────────────────────────────────────────────────────────────────

func fetchCmd() *cobra.Command {
	var (
		server string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "fetch <workflow-name>",
		Short: "Download a stored workflow from a generation server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := comfy.NewClient(server)
			raw, err := client.Workflow(signalContext(cmd.Context()), args[0])
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			if out == "" {
				out = args[0]
			}
			return writeOutput(out, "", raw)
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8188", "generation server URL")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: the workflow name)")
	return cmd
}

// ─── fields ───────────────────────────────────────────────────────────────────

func fieldsCmd() *cobra.Command {
	var (
		server    string
		modelsDir string
		showAll   bool
		resolve   bool
	)

	cmd := &cobra.Command{
		Use:   "fields <workflow.json>",
		Short: "Classify and list the editable fields of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return nil
			}

			ctx := signalContext(cmd.Context())
			classified := fields.Classify(doc)
			if server != "" {
				// A reachable server sharpens shapes; an unreachable one
				// costs nothing.
				client := comfy.NewClient(server)
				if schema, err := client.ObjectInfo(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "[retune] schema unavailable, using local heuristics: %v\n", err)
				} else {
					classified = fields.ApplySchema(classified, schema)
				}
			}

			fmt.Print(renderFields(doc, classified, showAll))
			if resolve && (server != "" || modelsDir != "") {
				provider := newOptionProvider(server, modelsDir)
				summary := fields.Summarize(classified)
				fmt.Print(renderOptions(ctx, provider, summary.Fields))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "generation server URL for schema-backed shapes (optional)")
	cmd.Flags().StringVar(&modelsDir, "models", "", "local models directory for catalog listings (optional)")
	cmd.Flags().BoolVar(&showAll, "all", false, "include ignored candidates")
	cmd.Flags().BoolVar(&resolve, "options", false, "resolve dropdown options from the server or models directory")
	return cmd
}

// ─── set ──────────────────────────────────────────────────────────────────────

func setCmd() *cobra.Command {
	var (
		nodeID string
		field  string
		value  string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "set <workflow.json>",
		Short: "Stage, validate, and commit one field edit, then write the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document has no editable fields")
			}

			target, err := findField(fields.Classify(doc), nodeID, field)
			if err != nil {
				return err
			}

			editor := edit.NewEditor(doc)
			editor.Start(target)
			if err := editor.UpdateStaged(value); err != nil {
				return err
			}
			if err := editor.Commit(); err != nil {
				return err
			}

			merged, err := editor.Reconcile()
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			return writeOutput(args[0], out, merged)
		},
	}

	cmd.Flags().StringVar(&nodeID, "node", "", "node ID holding the field")
	cmd.Flags().StringVar(&field, "field", "", "field name to edit")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: overwrite input)")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// ─── submit ───────────────────────────────────────────────────────────────────

func submitCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "submit <workflow.json>",
		Short: "Queue a prompt-export workflow on a generation server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document is not a recognizable workflow")
			}
			if doc.Encoding != workflow.EncodingNamed {
				return fmt.Errorf("submission requires the prompt (API) export; this is a graph export")
			}

			client := comfy.NewClient(server)
			ctx := signalContext(cmd.Context())
			id, err := client.Submit(ctx, doc.Raw, "retune")
			if err != nil {
				return fmt.Errorf("submit: %w", err)
			}
			fmt.Printf("queued prompt %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8188", "generation server URL")
	return cmd
}

// ─── enhance ──────────────────────────────────────────────────────────────────

func enhanceCmd() *cobra.Command {
	var (
		nodeID string
		field  string
		style  string
		model  string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "enhance <workflow.json>",
		Short: "Rewrite a prompt field with an LLM and commit the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document has no editable fields")
			}

			target, err := findField(fields.Classify(doc), nodeID, field)
			if err != nil {
				return err
			}
			if target.Category != fields.CategoryPrompt && target.Category != fields.CategoryText {
				return fmt.Errorf("field %s/%s is %s, not a prompt", nodeID, field, target.Category)
			}

			ctx := signalContext(cmd.Context())
			rewritten, err := enhance.NewRewriter(model).Rewrite(ctx, target.Value.Str, style)
			if err != nil {
				return fmt.Errorf("enhance: %w", err)
			}
			fmt.Printf("rewritten prompt:\n%s\n", rewritten)

			editor := edit.NewEditor(doc)
			editor.Start(target)
			if err := editor.UpdateStaged(rewritten); err != nil {
				return err
			}
			if err := editor.Commit(); err != nil {
				return err
			}
			merged, err := editor.Reconcile()
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			return writeOutput(args[0], out, merged)
		},
	}

	cmd.Flags().StringVar(&nodeID, "node", "", "node ID holding the prompt")
	cmd.Flags().StringVar(&field, "field", "", "prompt field name")
	cmd.Flags().StringVar(&style, "style", "", "optional style direction for the rewrite")
	cmd.Flags().StringVar(&model, "model", "", "model ID (default: provider default)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: overwrite input)")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// loadDocument reads and normalizes a workflow file. A structurally
// unrecognizable document is reported and returned as nil: nothing editable,
// not a crash.
func loadDocument(path string) (*workflow.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	doc, err := workflow.Normalize(raw)
	if err != nil {
		var structErr *workflow.StructuralError
		if errors.As(err, &structErr) {
			fmt.Fprintf(os.Stderr, "[retune] %v\n", structErr)
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// findField locates one editable field by node ID and field name.
func findField(all []fields.Field, nodeID, name string) (fields.Field, error) {
	for _, f := range all {
		if f.NodeID == nodeID && f.Name == name && f.Editable() {
			return f, nil
		}
	}
	return fields.Field{}, fmt.Errorf("no editable field %q on node %q", name, nodeID)
}

func writeOutput(inPath, outPath string, data []byte) error {
	if outPath == "" {
		outPath = inPath
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

// newOptionProvider builds the dropdown resolver used by renderFields when a
// server or models directory is available.
func newOptionProvider(server, modelsDir string) *options.Provider {
	var (
		lister options.CatalogLister
		schema options.SchemaSource
	)
	if modelsDir != "" {
		lister = comfy.NewFSCatalog(modelsDir)
	}
	if server != "" {
		c := comfy.NewClient(server)
		schema = c
		if lister == nil {
			lister = c
		}
	}
	return options.NewProvider(nil, lister, schema)
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			fmt.Fprintln(os.Stderr, "\n[retune] interrupted")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
