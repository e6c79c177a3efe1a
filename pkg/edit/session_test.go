package edit_test

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/ravi-parthasarathy/retune/pkg/edit"
	"github.com/ravi-parthasarathy/retune/pkg/fields"
	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

const promptDoc = `{
  "3": {"class_type": "KSampler", "inputs": {"seed": 42, "steps": 20, "cfg": 8.5, "sampler_name": "euler"}},
  "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "cinematic portrait of a lighthouse keeper"}}
}`

func setup(t *testing.T) (*edit.Editor, []fields.Field) {
	t.Helper()
	doc, err := workflow.Normalize([]byte(promptDoc))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return edit.NewEditor(doc), fields.Classify(doc)
}

func pick(t *testing.T, all []fields.Field, nodeID, name string) fields.Field {
	t.Helper()
	for _, f := range all {
		if f.NodeID == nodeID && f.Name == name {
			return f
		}
	}
	t.Fatalf("field %s/%s not found", nodeID, name)
	return fields.Field{}
}

func TestSession_InvalidNumberBlocksCommit(t *testing.T) {
	editor, all := setup(t)
	editor.Start(pick(t, all, "3", "cfg"))

	if err := editor.UpdateStaged("not a number"); err != nil {
		t.Fatalf("UpdateStaged: %v", err)
	}
	if err := editor.Commit(); err == nil {
		t.Fatal("commit of invalid value should be refused")
	}
	if editor.Committed().Len() != 0 {
		t.Errorf("committed edits = %d, want 0", editor.Committed().Len())
	}
	// The session stays live; a corrected value commits.
	if err := editor.UpdateStaged("7.5"); err != nil {
		t.Fatalf("UpdateStaged: %v", err)
	}
	if err := editor.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if editor.Committed().Len() != 1 {
		t.Errorf("committed edits = %d, want 1", editor.Committed().Len())
	}
}

func TestSession_ValidationIsSynchronous(t *testing.T) {
	editor, all := setup(t)
	s := editor.Start(pick(t, all, "3", "seed"))

	if !s.Valid() {
		t.Errorf("fresh session invalid: %v", s.Errors())
	}
	_ = editor.UpdateStaged("abc")
	if s.Valid() {
		t.Error("staged non-integer should be invalid immediately")
	}
	_ = editor.UpdateStaged("-5")
	if s.Valid() {
		t.Error("negative seed should be invalid")
	}
	_ = editor.UpdateStaged("12345")
	if !s.Valid() {
		t.Errorf("staged integer should be valid, errors: %v", s.Errors())
	}
}

func TestSession_ImplicitCancelOnStart(t *testing.T) {
	editor, all := setup(t)
	editor.Start(pick(t, all, "3", "seed"))
	_ = editor.UpdateStaged("999")

	// Starting a new session discards the old one without committing.
	s := editor.Start(pick(t, all, "6", "text"))
	if editor.Committed().Len() != 0 {
		t.Errorf("committed edits = %d, want 0 after implicit cancel", editor.Committed().Len())
	}
	if s.Field().Name != "text" {
		t.Errorf("live session field = %q, want text", s.Field().Name)
	}
}

func TestSession_CancelLeavesCommitsAlone(t *testing.T) {
	editor, all := setup(t)
	editor.Start(pick(t, all, "3", "seed"))
	_ = editor.UpdateStaged("7")
	if err := editor.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	editor.Start(pick(t, all, "3", "steps"))
	_ = editor.UpdateStaged("50")
	editor.Cancel()

	if editor.Committed().Len() != 1 {
		t.Errorf("committed edits = %d, want 1", editor.Committed().Len())
	}
	if editor.State() != edit.StateIdle {
		t.Errorf("state = %v, want idle", editor.State())
	}
}

func TestSession_CheckpointRestore(t *testing.T) {
	editor, all := setup(t)
	s := editor.Start(pick(t, all, "6", "text"))

	_ = editor.UpdateStaged("draft one")
	s.Checkpoint()
	_ = editor.UpdateStaged("draft two, worse")
	s.Restore()

	if s.Staged() != "draft one" {
		t.Errorf("staged = %v, want checkpointed draft", s.Staged())
	}
}

func TestSession_TextShapeRequiresString(t *testing.T) {
	editor, all := setup(t)
	s := editor.Start(pick(t, all, "6", "text"))
	_ = editor.UpdateStaged(42)
	if s.Valid() {
		t.Error("non-string staged on a text shape should be invalid")
	}
}

func TestSession_UpdateWithoutSession(t *testing.T) {
	editor, _ := setup(t)
	if err := editor.UpdateStaged("x"); err == nil {
		t.Error("update with no live session should error")
	}
	if err := editor.Commit(); err == nil {
		t.Error("commit with no live session should error")
	}
}

func TestEditor_EndToEndReconcile(t *testing.T) {
	editor, all := setup(t)
	editor.Start(pick(t, all, "3", "seed"))
	_ = editor.UpdateStaged("31337")
	if err := editor.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	out, err := editor.Reconcile()
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := gjson.GetBytes(out, "3.inputs.seed").Int(); got != 31337 {
		t.Errorf("seed = %d, want 31337", got)
	}
	if got := gjson.GetBytes(out, "6.inputs.text").String(); got != "cinematic portrait of a lighthouse keeper" {
		t.Errorf("untouched text changed: %q", got)
	}
}

func TestEditor_Reset(t *testing.T) {
	editor, all := setup(t)
	editor.Start(pick(t, all, "3", "seed"))
	_ = editor.UpdateStaged("7")
	_ = editor.Commit()

	editor.Reset()
	if editor.Committed().Len() != 0 {
		t.Errorf("committed edits = %d after reset, want 0", editor.Committed().Len())
	}
}
