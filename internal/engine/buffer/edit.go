package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset int, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end int) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Change describes one applied edit, delivered to listeners.
type Change struct {
	Range    Range      // Replaced range, in pre-edit coordinates
	OldText  string     // Text that was removed
	NewText  string     // Text that was inserted, after normalization
	Revision RevisionID // Buffer revision after the edit
}

// NewRange returns the range the inserted text occupies after the edit.
func (c Change) NewRange() Range {
	return Range{Start: c.Range.Start, End: c.Range.Start + len(c.NewText)}
}

// Delta returns the change in buffer length.
func (c Change) Delta() int {
	return len(c.NewText) - c.Range.Len()
}

// Invert returns the change that undoes c.
func (c Change) Invert() Edit {
	return Edit{Range: c.NewRange(), NewText: c.OldText}
}
