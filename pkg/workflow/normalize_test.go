package workflow_test

import (
	"errors"
	"testing"

	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

const graphDoc = `{
  "nodes": [
    {"id": 3, "type": "KSampler", "widgets_values": [12345, "fixed", 20, 7.5, "euler", "normal", 1.0]},
    {"id": 6, "type": "CLIPTextEncode", "title": "Positive Prompt", "widgets_values": ["a majestic mountain landscape at golden hour, highly detailed"]},
    {"id": 4, "type": "CheckpointLoaderSimple", "widgets_values": ["model_v2.safetensors"]}
  ],
  "links": [[1, 4, 0, 3, 0, "MODEL"]]
}`

const promptDoc = `{
  "3": {"class_type": "KSampler", "inputs": {"seed": 42, "steps": 20, "cfg": 8.0, "sampler_name": "euler", "scheduler": "normal", "denoise": 1.0, "model": ["4", 0], "positive": ["6", 0]}},
  "4": {"class_type": "CheckpointLoaderSimple", "inputs": {"ckpt_name": "model_v2.safetensors"}},
  "6": {"class_type": "CLIPTextEncode", "_meta": {"title": "positive"}, "inputs": {"text": "cinematic portrait", "clip": ["4", 1]}}
}`

func TestNormalize_GraphEncoding(t *testing.T) {
	doc, err := workflow.Normalize([]byte(graphDoc))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if doc.Encoding != workflow.EncodingPositional {
		t.Errorf("encoding = %q, want %q", doc.Encoding, workflow.EncodingPositional)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(doc.Nodes))
	}

	n := doc.Nodes["3"]
	if n == nil {
		t.Fatal("node 3 not found")
	}
	if n.Type != "KSampler" {
		t.Errorf("type = %q, want KSampler", n.Type)
	}
	if len(n.Widgets) != 7 {
		t.Fatalf("widgets = %d, want 7", len(n.Widgets))
	}
	if n.Widgets[0].Kind != workflow.KindNumber || n.Widgets[0].Int() != 12345 {
		t.Errorf("widget 0 = %v, want number 12345", n.Widgets[0])
	}
	if n.Widgets[1].Kind != workflow.KindString || n.Widgets[1].Str != "fixed" {
		t.Errorf("widget 1 = %v, want string fixed", n.Widgets[1])
	}

	if len(doc.Edges) != 1 || doc.Edges[0].From != "4" || doc.Edges[0].To != "3" {
		t.Errorf("edges = %v, want one edge 4→3", doc.Edges)
	}
}

func TestNormalize_PromptEncoding(t *testing.T) {
	doc, err := workflow.Normalize([]byte(promptDoc))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if doc.Encoding != workflow.EncodingNamed {
		t.Errorf("encoding = %q, want %q", doc.Encoding, workflow.EncodingNamed)
	}

	n := doc.Nodes["3"]
	if n == nil {
		t.Fatal("node 3 not found")
	}
	if got := n.Inputs["seed"]; got.Kind != workflow.KindNumber || got.Int() != 42 {
		t.Errorf("seed = %v, want number 42", got)
	}
	if got := n.Inputs["model"]; got.Kind != workflow.KindConnection || got.Target != "4" {
		t.Errorf("model = %v, want connection to node 4", got)
	}

	if doc.Nodes["6"].Title != "positive" {
		t.Errorf("title = %q, want positive", doc.Nodes["6"].Title)
	}

	// Connections become edges with the receiving input name.
	found := false
	for _, e := range doc.Edges {
		if e.From == "4" && e.To == "3" && e.Input == "model" {
			found = true
		}
	}
	if !found {
		t.Errorf("edge 4→3 [model] missing: %v", doc.Edges)
	}
}

func TestNormalize_PreservesInputOrder(t *testing.T) {
	doc, err := workflow.Normalize([]byte(promptDoc))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	order := doc.Nodes["3"].InputOrder
	if len(order) == 0 || order[0] != "seed" {
		t.Errorf("input order = %v, want seed first", order)
	}
}

func TestNormalize_UnknownShape(t *testing.T) {
	for _, src := range []string{
		`[1, 2, 3]`,
		`{"widgets": true}`,
		`{}`,
		`not json at all`,
	} {
		doc, err := workflow.Normalize([]byte(src))
		var structErr *workflow.StructuralError
		if !errors.As(err, &structErr) {
			t.Errorf("Normalize(%q): error = %v, want StructuralError", src, err)
		}
		if doc == nil || len(doc.Nodes) != 0 {
			t.Errorf("Normalize(%q): want zero-node document, got %v", src, doc)
		}
	}
}

func TestNormalize_MixedPromptEntriesFail(t *testing.T) {
	src := `{"3": {"class_type": "KSampler", "inputs": {}}, "bad": 42}`
	_, err := workflow.Normalize([]byte(src))
	var structErr *workflow.StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("error = %v, want StructuralError", err)
	}
}
