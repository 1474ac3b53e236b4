package watcher

import (
	"time"
)

// pendingEvent tracks the event being debounced.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// handle debounces event. Operations arriving within the delay are merged
// and restart the delay.
func (w *Watcher) handle(event Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if p := w.pending; p != nil {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(w.delay)
		return
	}

	p := &pendingEvent{event: event}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(p) })
	w.pending = p
}

// fire delivers p unless it was flushed, replaced or the watcher closed.
func (w *Watcher) fire(p *pendingEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.pending != p {
		return
	}
	w.pending = nil

	select {
	case w.events <- p.event:
	default:
		// Channel full, drop event
		w.logger.Warn("event channel full, dropping event", "path", p.event.Path, "op", p.event.Op)
	}
}

// Flush immediately delivers the pending event, if any.
func (w *Watcher) Flush() {
	w.mu.Lock()
	p := w.pending
	w.mu.Unlock()

	if p != nil {
		p.timer.Stop()
		w.fire(p)
	}
}

// Pending returns true if an event is waiting for its delay to expire.
func (w *Watcher) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil
}
