package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/mddtext/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when New is given no limit.
const DefaultMaxEntries = 1000

// History manages the undo and redo stacks of one buffer.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	// Grouping state
	grouping   bool
	groupName  string
	groupItems []buffer.Change

	// Set while Undo or Redo apply edits, so Record skips them.
	replaying bool

	maxEntries int
}

// New creates a history holding at most maxEntries undo entries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Record adds c to the undo stack and clears the redo stack. It has the
// signature of a buffer listener.
func (h *History) Record(c buffer.Change) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.replaying {
		return nil
	}
	if h.grouping {
		h.groupItems = append(h.groupItems, c)
		return nil
	}
	h.pushLocked(Entry{Changes: []buffer.Change{c}, Timestamp: time.Now()})
	return nil
}

// pushLocked adds e without acquiring the lock.
func (h *History) pushLocked(e Entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverts the last entry through a and moves it to the redo stack.
// On failure the entry stays on the undo stack; edits applied before the
// failure are not rolled back.
func (h *History) Undo(a Applier) (Entry, error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return Entry{}, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.replaying = true
	h.mu.Unlock()

	err := apply(a, entry.UndoEdits())

	h.mu.Lock()
	defer h.mu.Unlock()
	h.replaying = false
	if err != nil {
		h.undoStack = append(h.undoStack, entry)
		return Entry{}, err
	}
	h.redoStack = append(h.redoStack, entry)
	return entry, nil
}

// Redo reapplies the last undone entry through a.
func (h *History) Redo(a Applier) (Entry, error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return Entry{}, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.replaying = true
	h.mu.Unlock()

	err := apply(a, entry.RedoEdits())

	h.mu.Lock()
	defer h.mu.Unlock()
	h.replaying = false
	if err != nil {
		h.redoStack = append(h.redoStack, entry)
		return Entry{}, err
	}
	h.undoStack = append(h.undoStack, entry)
	return entry, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}
