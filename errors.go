package eureka

import (
	"errors"
	"fmt"
)

// ErrUnitNotFound is returned when an operation references a unit
// that does not exist in the store.
var ErrUnitNotFound = errors.New("unit not found")

// ErrSlotNotFound is returned when an operation references a slot
// that is not declared in the registry.
var ErrSlotNotFound = errors.New("slot not found")

// DuplicateUnitError is returned by Store.Create when a unit with the
// same name already exists and the store's duplicate policy is
// DuplicateError.
type DuplicateUnitError struct {
	Name string
}

func (e *DuplicateUnitError) Error() string {
	return fmt.Sprintf("unit %q already exists", e.Name)
}

// InvalidSlotValueError is returned by Store.Set and Store.Add when a
// value does not match the slot's declared type. The write is
// rejected and the unit's prior state is untouched.
type InvalidSlotValueError struct {
	Unit  string
	Slot  string
	Value any
	Want  Type
}

func (e *InvalidSlotValueError) Error() string {
	return fmt.Sprintf("invalid value %v (%T) for slot %s of unit %s: want %s",
		e.Value, e.Value, e.Slot, e.Unit, e.Want)
}

// StructuralError marks a task whose target unit or slot does not
// exist. It is fatal to that task only; the agenda loop continues.
type StructuralError struct {
	TaskID string
	Unit   string
	Slot   string
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("task %s targets %s.%s: %v", e.TaskID, e.Unit, e.Slot, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// PhaseError wraps an error (or recovered panic) raised by a single
// phase callable. It is caught at the protocol boundary, recorded as
// a failure for that phase of that heuristic, and never halts the
// agenda.
type PhaseError struct {
	Heuristic string
	Phase     Phase
	Err       error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("heuristic %s phase %s: %v", e.Heuristic, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
