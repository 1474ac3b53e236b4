package partition

import (
	"errors"
	"fmt"
)

// Errors returned by partition operations.
var (
	// ErrOffsetOutOfRange indicates a query offset outside [0, length].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates an edit or query range outside the buffer,
	// or an edit that does not match the buffer's new length.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrIllegalLabel indicates a scanner produced a label outside the
	// scheme's legal set.
	ErrIllegalLabel = errors.New("illegal content type")

	// ErrInvariant indicates the region list lost contiguity or coverage.
	ErrInvariant = errors.New("partition invariant violated")

	// ErrNotConnected indicates a scheme was used without a connected source.
	ErrNotConnected = errors.New("partitioning not connected")
)

// LabelError reports a token whose label is not legal for a scheme.
type LabelError struct {
	Scheme string
	Label  Label
	Offset int
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("scheme %q: illegal content type %q at offset %d", e.Scheme, e.Label, e.Offset)
}

func (e *LabelError) Unwrap() error {
	return ErrIllegalLabel
}

// InvariantError describes the first region that breaks the list invariants.
type InvariantError struct {
	Index  int
	Region Region
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("partition invariant violated at region %d %s: %s", e.Index, e.Region, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
