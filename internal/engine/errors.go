package engine

import "errors"

// Errors returned by document operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrProtected indicates an edit touches a read-only region.
	ErrProtected = errors.New("edit touches a read-only region")

	// ErrClosed indicates the document has been closed.
	ErrClosed = errors.New("document is closed")
)
