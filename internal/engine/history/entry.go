package history

import (
	"fmt"
	"time"

	"github.com/dshills/mddtext/internal/engine/buffer"
)

// Applier applies edits. *buffer.Buffer satisfies it.
type Applier interface {
	ApplyEdit(edit buffer.Edit) (buffer.Change, error)
}

// Entry is one undo unit: the changes of a single edit or group, in the
// order they were applied.
type Entry struct {
	Name      string
	Changes   []buffer.Change
	Timestamp time.Time
}

// Description returns a human-readable summary of the entry.
func (e Entry) Description() string {
	if e.Name != "" {
		return e.Name
	}
	if len(e.Changes) == 1 {
		c := e.Changes[0]
		return buffer.NewEdit(c.Range, c.NewText).String()
	}
	return fmt.Sprintf("%d edits", len(e.Changes))
}

// UndoEdits returns the edits that revert the entry, in application order.
func (e Entry) UndoEdits() []buffer.Edit {
	edits := make([]buffer.Edit, len(e.Changes))
	for i, c := range e.Changes {
		edits[len(e.Changes)-1-i] = c.Invert()
	}
	return edits
}

// RedoEdits returns the edits that reapply the entry, in application order.
func (e Entry) RedoEdits() []buffer.Edit {
	edits := make([]buffer.Edit, len(e.Changes))
	for i, c := range e.Changes {
		edits[i] = buffer.NewEdit(c.Range, c.NewText)
	}
	return edits
}

// apply runs edits against a and stops at the first failure.
func apply(a Applier, edits []buffer.Edit) error {
	for i, edit := range edits {
		if _, err := a.ApplyEdit(edit); err != nil {
			return fmt.Errorf("edit %d of %d (%s): %w", i+1, len(edits), edit, err)
		}
	}
	return nil
}
