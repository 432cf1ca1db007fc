package storage

import "fmt"

// The three error kinds every operation can return. Callers branch on them
// with errors.As; the web layer maps them to 400/404/409.

// ValidationError reports bad or missing input. The document is untouched.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced project, group, task, log, or session
// that does not exist.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// NotFoundf builds a NotFoundError.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a duplicate name or an already-running session.
type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string { return e.msg }

// Conflictf builds a ConflictError.
func Conflictf(format string, args ...any) error {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}
