package history

import "time"

// BeginGroup starts collecting changes into one entry named name.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupItems = nil
}

// EndGroup pushes the changes collected since BeginGroup as one entry.
// An empty group pushes nothing and leaves the redo stack intact.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	if len(h.groupItems) > 0 {
		h.pushLocked(Entry{Name: h.groupName, Changes: h.groupItems, Timestamp: time.Now()})
	}
	h.groupItems = nil
}
