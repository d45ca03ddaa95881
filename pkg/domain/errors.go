package domain

import "fmt"

// DuplicateRecordError reports an attempted add, replace, or reset that would
// leave two identity-equal records in the same collection.
type DuplicateRecordError struct {
	Kind string
	Key  string
}

func (e DuplicateRecordError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

// RecordNotFoundError reports a remove or replace whose target is absent.
type RecordNotFoundError struct {
	Kind string
	Key  string
}

func (e RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// NoUndoableActionError reports an undo requested at the oldest state.
type NoUndoableActionError struct{}

func (NoUndoableActionError) Error() string { return "no undoable state" }

// NoRedoableActionError reports a redo requested at the newest state.
type NoRedoableActionError struct{}

func (NoRedoableActionError) Error() string { return "no redoable state" }

// InvalidArgumentError reports malformed input rejected at a constructor or
// operation boundary.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
