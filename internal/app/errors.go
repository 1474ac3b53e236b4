package app

import (
	"errors"
	"fmt"
)

// Editor errors.
var (
	// ErrNotOpen indicates the editor has no open document.
	ErrNotOpen = errors.New("editor not open")

	// ErrAlreadyOpen indicates Open was called on an open editor.
	ErrAlreadyOpen = errors.New("editor already open")

	// ErrInputDisposed indicates an operation on a disposed input.
	ErrInputDisposed = errors.New("input disposed")

	// ErrUnsavedChanges indicates a reload would discard edits.
	ErrUnsavedChanges = errors.New("unsaved changes")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op      string // Operation name (e.g., "save", "open", "reload")
	Target  string // Input name
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapOp returns nil for a nil err, otherwise an OperationError.
func wrapOp(op, target string, err error) error {
	if err == nil {
		return nil
	}
	return NewOperationError(op, target, err)
}
