// Package buffer provides the thread-safe text buffer that MDD documents
// are edited through.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Range validation for every edit
//   - Synchronous change notification to registered listeners
//   - Whole-text replacement expressed as a minimal sequence of edits
//   - Coordinate conversion between byte offsets and line/column positions
//   - Line ending normalization
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	remove := buf.AddListener(buffer.ListenerFunc(func(c buffer.Change) error {
//	    fmt.Println("changed", c.Range, "to", c.NewRange())
//	    return nil
//	}))
//	defer remove()
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Change Notification:
//
// Listeners run on the goroutine that made the edit, after the buffer lock
// has been released and before the edit method returns. Every Change
// carries its range in the coordinates of the text before the edit, so a
// listener can repair derived state (a partitioning, say) incrementally.
// Listener errors do not roll back the edit; they are joined and returned
// to the caller.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. Edits are
// expected to come from a single goroutine; concurrent writers would see
// their listener calls interleave.
package buffer
