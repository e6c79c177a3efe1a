package workflow

import "fmt"

// StructuralError means a document matched neither known encoding. Callers
// treat this as "nothing editable" rather than a fatal condition.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("unrecognized workflow structure: %s", e.Reason)
}

// AddressingError means a committed edit could not be mapped to a slot during
// reconciliation. The single edit is dropped; reconciliation continues.
type AddressingError struct {
	NodeID string
	Slot   Slot
	Reason string
}

func (e *AddressingError) Error() string {
	return fmt.Sprintf("node %q slot %s: %s", e.NodeID, e.Slot, e.Reason)
}
