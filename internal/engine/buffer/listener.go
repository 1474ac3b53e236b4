package buffer

import (
	"errors"
	"slices"
)

// Listener is notified after every applied edit.
type Listener interface {
	DocumentChanged(c Change) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(c Change) error

// DocumentChanged calls f(c).
func (f ListenerFunc) DocumentChanged(c Change) error {
	return f(c)
}

// AddListener registers l and returns a function that removes it.
// Listeners are notified in registration order.
func (b *Buffer) AddListener(l Listener) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextListener
	b.nextListener++
	b.listeners = append(b.listeners, listenerEntry{id: id, listener: l})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listeners = slices.DeleteFunc(b.listeners, func(e listenerEntry) bool {
			return e.id == id
		})
	}
}

// snapshotListeners copies the listener list. Caller holds the lock.
func (b *Buffer) snapshotListeners() []Listener {
	out := make([]Listener, len(b.listeners))
	for i, e := range b.listeners {
		out[i] = e.listener
	}
	return out
}

func notify(listeners []Listener, c Change) error {
	var errs []error
	for _, l := range listeners {
		if err := l.DocumentChanged(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
