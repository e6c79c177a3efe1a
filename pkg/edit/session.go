// Package edit holds the stateful editing flow: at most one in-flight edit
// session per document, validated on every keystroke, committed into an
// accumulating edit set that reconciliation later applies.
package edit

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ravi-parthasarathy/retune/pkg/fields"
	"github.com/ravi-parthasarathy/retune/pkg/workflow"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateEditing
)

func (s State) String() string {
	if s == StateEditing {
		return "editing"
	}
	return "idle"
}

// Session is one in-flight edit: the targeted field, its original value, the
// staged replacement, and the current validation verdict. Validation reruns
// synchronously on every update; it is never deferred to commit time.
type Session struct {
	field      fields.Field
	original   any
	staged     any
	checkpoint any
	valid      bool
	errs       []string
}

func (s *Session) Field() fields.Field { return s.field }
func (s *Session) Original() any       { return s.original }
func (s *Session) Staged() any         { return s.staged }
func (s *Session) Valid() bool         { return s.valid }
func (s *Session) Errors() []string    { return s.errs }

// Checkpoint saves the staged value so a later Restore can roll back.
func (s *Session) Checkpoint() { s.checkpoint = s.staged }

// Restore rolls the staged value back to the last checkpoint (or the
// original if none was taken) and revalidates.
func (s *Session) Restore() {
	if s.checkpoint != nil {
		s.staged = s.checkpoint
	} else {
		s.staged = s.original
	}
	s.validate()
}

// Editor owns the edit flow for one document: the single live session and
// the edits committed so far. Concurrent edit attempts are serialized by the
// implicit cancel-on-start rule, not by locking.
type Editor struct {
	doc       *workflow.Document
	state     State
	session   *Session
	committed workflow.Edits
}

// NewEditor creates an editor for one normalized document.
func NewEditor(doc *workflow.Document) *Editor {
	return &Editor{doc: doc, committed: workflow.Edits{}}
}

// Start begins editing a field. An already-editing session is implicitly
// cancelled: no merge, no prompt, just a log line.
func (e *Editor) Start(f fields.Field) *Session {
	if e.state == StateEditing {
		slog.Warn("edit session implicitly cancelled by new start",
			"node", e.session.field.NodeID, "field", e.session.field.Name)
	}
	orig := coerce(f.Value.Native(), f.Shape)
	e.session = &Session{field: f, original: orig, staged: orig}
	e.session.validate()
	e.state = StateEditing
	return e.session
}

// UpdateStaged replaces the staged value and revalidates. Only legal while
// editing.
func (e *Editor) UpdateStaged(value any) error {
	if e.state != StateEditing {
		return fmt.Errorf("update: no edit session in progress")
	}
	e.session.staged = value
	e.session.validate()
	return nil
}

// Commit writes the staged value into the committed edit set and returns the
// session to idle. A commit is refused while the staged value is invalid;
// the committed set is left untouched.
func (e *Editor) Commit() error {
	if e.state != StateEditing {
		return fmt.Errorf("commit: no edit session in progress")
	}
	s := e.session
	if !s.valid {
		return fmt.Errorf("commit refused: %s", strings.Join(s.errs, "; "))
	}
	e.committed.Set(s.field.NodeID, commitSlot(s.field), coerce(s.staged, s.field.Shape))
	e.state = StateIdle
	e.session = nil
	return nil
}

// Cancel discards the in-flight session without touching committed edits.
func (e *Editor) Cancel() {
	e.state = StateIdle
	e.session = nil
}

// State returns the current lifecycle state.
func (e *Editor) State() State { return e.state }

// Committed returns the edits committed so far.
func (e *Editor) Committed() workflow.Edits { return e.committed }

// Reset discards all committed edits and any live session.
func (e *Editor) Reset() {
	e.Cancel()
	e.committed = workflow.Edits{}
}

// Reconcile applies all committed edits to a fresh copy of the document's
// original bytes.
func (e *Editor) Reconcile() ([]byte, error) {
	return workflow.Reconcile(e.doc, e.committed, fields.WidgetIndex)
}

// commitSlot picks the addressing slot stored for a field. Named documents
// address by input name; positional documents address by the resolved field
// name, which reconciliation maps back through the same widget table.
func commitSlot(f fields.Field) workflow.Slot {
	if f.Slot.IsNamed() {
		return f.Slot
	}
	return workflow.NamedSlot(f.Name)
}

// ─── validation ───────────────────────────────────────────────────────────────

// validate recomputes the verdict for the staged value against the field's
// shape. Boolean shapes always pass (the value is coerced); dropdown shapes
// are accepted unconditionally.
func (s *Session) validate() {
	s.errs = nil
	switch s.field.Shape.Kind {
	case fields.ShapeInt:
		n, err := toInt(s.staged)
		if err != nil {
			s.errs = append(s.errs, fmt.Sprintf("%q is not an integer", fmt.Sprint(s.staged)))
		} else if n < 0 {
			s.errs = append(s.errs, fmt.Sprintf("%d is negative", n))
		}
	case fields.ShapeFloat:
		if _, err := toFloat(s.staged); err != nil {
			s.errs = append(s.errs, fmt.Sprintf("%q is not a number", fmt.Sprint(s.staged)))
		}
	case fields.ShapeSingleLine, fields.ShapeMultiLine:
		if _, ok := s.staged.(string); !ok {
			s.errs = append(s.errs, "value must be text")
		}
	case fields.ShapeBool, fields.ShapeStaticDropdown, fields.ShapeRemoteDropdown:
		// always valid: booleans coerce, dropdown membership is not enforced
	}
	s.valid = len(s.errs) == 0
}

// coerce converts a value to the shape's native representation for staging
// and write-back.
func coerce(v any, shape fields.Shape) any {
	switch shape.Kind {
	case fields.ShapeInt:
		if n, err := toInt(v); err == nil {
			return n
		}
	case fields.ShapeFloat:
		if f, err := toFloat(v); err == nil {
			return f
		}
	case fields.ShapeBool:
		return toBool(v)
	}
	return v
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("not integral")
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.ToLower(strings.TrimSpace(t)))
		return b
	case float64:
		return t != 0
	case int64:
		return t != 0
	}
	return false
}
