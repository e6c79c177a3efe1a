package fields_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ravi-parthasarathy/retune/pkg/fields"
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

func mustNormalize(t *testing.T, src string) *workflow.Document {
	t.Helper()
	doc, err := workflow.Normalize([]byte(src))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return doc
}

func findField(t *testing.T, all []fields.Field, nodeID, name string) fields.Field {
	t.Helper()
	for _, f := range all {
		if f.NodeID == nodeID && f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s/%s not classified", nodeID, name)
	return fields.Field{}
}

// ─── cascade outcomes ─────────────────────────────────────────────────────────

func TestClassify_SeedFromKnownTable(t *testing.T) {
	doc := mustNormalize(t, graphDoc)
	all := fields.Classify(doc)

	f := findField(t, all, "3", "seed")
	if f.Category != fields.CategorySeed {
		t.Errorf("category = %q, want seed", f.Category)
	}
	if f.Method != fields.MethodTable {
		t.Errorf("method = %q, want table", f.Method)
	}
	if f.Value.Int() != 12345 {
		t.Errorf("value = %d, want 12345", f.Value.Int())
	}
	if f.Shape.Kind != fields.ShapeInt {
		t.Errorf("shape = %q, want int", f.Shape.Kind)
	}
}

func TestClassify_PromptByFieldName(t *testing.T) {
	long := strings.Repeat("dreamlike castle ", 8) // 136 chars, has spaces
	src := `{"9": {"class_type": "TextMultiline", "inputs": {"positive_prompt": "` + long + `"}}}`
	doc := mustNormalize(t, src)
	all := fields.Classify(doc)

	f := findField(t, all, "9", "positive_prompt")
	if f.Category != fields.CategoryPrompt {
		t.Errorf("category = %q, want prompt", f.Category)
	}
	if f.Shape.Kind != fields.ShapeMultiLine {
		t.Errorf("shape = %q, want multi-line", f.Shape.Kind)
	}
}

func TestClassify_ModelReference(t *testing.T) {
	src := `{"4": {"class_type": "CheckpointLoaderSimple", "inputs": {"ckpt_name": "model_v2.safetensors"}}}`
	doc := mustNormalize(t, src)
	all := fields.Classify(doc)

	f := findField(t, all, "4", "ckpt_name")
	if f.Category != fields.CategoryModel {
		t.Errorf("category = %q, want model", f.Category)
	}
	if f.Shape.Catalog != "checkpoints" {
		t.Errorf("catalog = %q, want checkpoints", f.Shape.Catalog)
	}
	if f.Shape.Kind != fields.ShapeRemoteDropdown {
		t.Errorf("shape = %q, want dropdown-remote", f.Shape.Kind)
	}
}

// ─── properties ───────────────────────────────────────────────────────────────

func TestClassify_Totality(t *testing.T) {
	doc := mustNormalize(t, graphDoc)
	candidates := fields.Extract(doc)
	classified := fields.Classify(doc)
	if len(classified) != len(candidates) {
		t.Errorf("classified %d of %d candidates; classification must be total",
			len(classified), len(candidates))
	}
}

func TestClassify_Idempotent(t *testing.T) {
	doc := mustNormalize(t, graphDoc)
	first := fields.Classify(doc)
	second := fields.Classify(doc)
	if !reflect.DeepEqual(first, second) {
		t.Error("classifying the same document twice produced different results")
	}
}

func TestClassify_NoConnectionLeaks(t *testing.T) {
	src := `{"3": {"class_type": "KSampler", "inputs": {"seed": 7, "model": ["4", 0], "positive": ["6", 0]}},
	        "4": {"class_type": "CheckpointLoaderSimple", "inputs": {"ckpt_name": "a.safetensors"}},
	        "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "hello there world"}}}`
	doc := mustNormalize(t, src)
	for _, f := range fields.Classify(doc) {
		if f.Value.Kind == workflow.KindConnection {
			t.Errorf("connection reference leaked into classification: %s/%s", f.NodeID, f.Name)
		}
	}
}

func TestClassify_SeedBound(t *testing.T) {
	// A value past 2^31 cannot be a seed, even on a seed-bearing node type.
	src := `{"3": {"class_type": "KSampler", "inputs": {"seed": 4294967296}}}`
	doc := mustNormalize(t, src)
	for _, f := range fields.Classify(doc) {
		if f.Category != fields.CategorySeed {
			continue
		}
		if f.Value.Int() < 0 || f.Value.Int() >= 1<<31 {
			t.Errorf("seed %d outside [0, 2^31)", f.Value.Int())
		}
	}
}

// ─── cascade behavior ─────────────────────────────────────────────────────────

func TestClassify_GraphDocRoundup(t *testing.T) {
	doc := mustNormalize(t, graphDoc)
	all := fields.Classify(doc)

	want := map[string]fields.Category{
		"control_after_generate": fields.CategoryDropdown,
		"steps":                  fields.CategoryNumber,
		"cfg":                    fields.CategoryNumber,
		"sampler_name":           fields.CategoryDropdown,
		"scheduler":              fields.CategoryDropdown,
		"denoise":                fields.CategoryNumber,
	}
	for name, cat := range want {
		f := findField(t, all, "3", name)
		if f.Category != cat {
			t.Errorf("%s: category = %q, want %q", name, f.Category, cat)
		}
	}

	if f := findField(t, all, "3", "sampler_name"); f.Shape.Kind != fields.ShapeStaticDropdown || len(f.Shape.Options) == 0 {
		t.Errorf("sampler_name should be a static dropdown with options, got %q/%d", f.Shape.Kind, len(f.Shape.Options))
	}

	// The titled CLIPTextEncode node is a prompt.
	if f := findField(t, all, "6", "text"); f.Category != fields.CategoryPrompt {
		t.Errorf("text: category = %q, want prompt", f.Category)
	}
}

func TestClassify_IncidentalStringIgnored(t *testing.T) {
	src := `{"8": {"class_type": "SaveImage", "inputs": {"overwrite": "no"}}}`
	doc := mustNormalize(t, src)
	all := fields.Classify(doc)

	f := findField(t, all, "8", "overwrite")
	if f.Category != fields.CategoryIgnored {
		t.Errorf("category = %q, want ignored", f.Category)
	}
	if f.Method != fields.MethodFallback {
		t.Errorf("method = %q, want fallback", f.Method)
	}

	s := fields.Summarize(all)
	if len(s.Fields) != 0 || s.Ignored != 1 {
		t.Errorf("summary = %d fields / %d ignored, want 0/1", len(s.Fields), s.Ignored)
	}
}

func TestClassify_ImageDropdown(t *testing.T) {
	src := `{"5": {"class_type": "LoadImage", "inputs": {"image": "portrait_01.png"}}}`
	doc := mustNormalize(t, src)
	f := findField(t, fields.Classify(doc), "5", "image")
	if f.Category != fields.CategoryDropdown {
		t.Errorf("category = %q, want dropdown", f.Category)
	}
	if f.Shape.Catalog != "input" {
		t.Errorf("catalog = %q, want input", f.Shape.Catalog)
	}
}

func TestClassify_BooleanAndNumber(t *testing.T) {
	src := `{"7": {"class_type": "ImageScale", "inputs": {"keep_proportions": true, "width": 1024}}}`
	doc := mustNormalize(t, src)
	all := fields.Classify(doc)

	if f := findField(t, all, "7", "keep_proportions"); f.Category != fields.CategoryBoolean || f.Shape.Kind != fields.ShapeBool {
		t.Errorf("keep_proportions = %q/%q, want boolean/bool", f.Category, f.Shape.Kind)
	}
	if f := findField(t, all, "7", "width"); f.Category != fields.CategoryNumber || f.Shape.Kind != fields.ShapeInt {
		t.Errorf("width = %q/%q, want number/int", f.Category, f.Shape.Kind)
	}
}

func TestClassify_SeedTablePositionalSmallValues(t *testing.T) {
	// Every seed-bearing node type must classify its seed slot by table even
	// for small values a pattern rule would mistake for an ordinary number.
	cases := []struct {
		src  string
		name string
	}{
		{`{"nodes": [{"id": 3, "type": "KSampler (Efficient)", "widgets_values": [42, 20, 7.0, "euler", "normal", 1.0, "auto", "true"]}]}`, "seed"},
		{`{"nodes": [{"id": 5, "type": "SamplerCustom", "widgets_values": [true, 42, 8.0]}]}`, "noise_seed"},
		{`{"nodes": [{"id": 7, "type": "NoiseInjection", "widgets_values": [42, 0.5]}]}`, "seed"},
	}
	for _, tc := range cases {
		doc := mustNormalize(t, tc.src)
		var seed *fields.Field
		for _, f := range fields.Classify(doc) {
			if f.Category == fields.CategorySeed {
				seed = &f
				break
			}
		}
		if seed == nil {
			t.Errorf("%s: no seed field classified", tc.name)
			continue
		}
		if seed.Name != tc.name {
			t.Errorf("seed field name = %q, want %q", seed.Name, tc.name)
		}
		if seed.Method != fields.MethodTable {
			t.Errorf("%s: method = %q, want table", tc.name, seed.Method)
		}
		if seed.Value.Int() != 42 {
			t.Errorf("%s: value = %d, want 42", tc.name, seed.Value.Int())
		}
	}
}

func TestClassify_SeedByPattern(t *testing.T) {
	// Unknown node type, but the input name says seed and the value fits.
	src := `{"2": {"class_type": "FancyNoiseSource", "inputs": {"noise_seed": 31337}}}`
	doc := mustNormalize(t, src)
	f := findField(t, fields.Classify(doc), "2", "noise_seed")
	if f.Category != fields.CategorySeed {
		t.Errorf("category = %q, want seed", f.Category)
	}
	if f.Method != fields.MethodPattern {
		t.Errorf("method = %q, want pattern", f.Method)
	}
}

func TestApplySchema_Override(t *testing.T) {
	doc := mustNormalize(t, graphDoc)
	all := fields.Classify(doc)

	schema := fields.Schema{
		"KSampler": {
			"steps": {Type: "INT", Min: 1, Max: 150, Step: 1, HasBounds: true},
		},
	}
	overridden := fields.ApplySchema(all, schema)

	f := findField(t, overridden, "3", "steps")
	if f.Method != fields.MethodSchema {
		t.Errorf("method = %q, want schema", f.Method)
	}
	if !f.Shape.HasBounds || f.Shape.Max != 150 {
		t.Errorf("shape bounds = %+v, want max 150", f.Shape)
	}

	// Fields without a schema entry keep their local classification.
	if f := findField(t, overridden, "3", "seed"); f.Method != fields.MethodTable {
		t.Errorf("seed method = %q, want table (untouched)", f.Method)
	}
}
