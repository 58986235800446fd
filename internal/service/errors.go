package service

import "fmt"

// InvalidTaskLineError indicates a quick-entry line that does not end in a
// positive minute count after a non-empty title.
type InvalidTaskLineError struct {
	Line string
}

func (e InvalidTaskLineError) Error() string {
	return fmt.Sprintf("invalid task line %q: expected \"title minutes\"", e.Line)
}

// MissingReasonError indicates an extend or abandon without a classification.
type MissingReasonError struct {
	Action string
}

func (e MissingReasonError) Error() string {
	return fmt.Sprintf("a reason is required to %s a focus session", e.Action)
}

// SessionActiveError indicates a focus session is already running.
type SessionActiveError struct {
	TaskID string
}

func (e SessionActiveError) Error() string {
	return fmt.Sprintf("a focus session is already active for task %s", e.TaskID)
}

// NoActiveSessionError indicates a tick/extend/finish with nothing running.
type NoActiveSessionError struct{}

func (e NoActiveSessionError) Error() string {
	return "no focus session is active"
}

// InvalidImportError indicates an imported state that failed validation.
// The current state is left untouched.
type InvalidImportError struct {
	Reason string
}

func (e InvalidImportError) Error() string {
	return fmt.Sprintf("invalid import: %s", e.Reason)
}

// NotFoundError indicates an operation on an id that no longer exists.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// GroupScopeError indicates a grouped-task delete without an explicit scope.
type GroupScopeError struct {
	TaskID string
}

func (e GroupScopeError) Error() string {
	return fmt.Sprintf("task %s belongs to a group: scope must be 'part' or 'group'", e.TaskID)
}
