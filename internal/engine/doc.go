// Package engine provides the MDD document engine.
//
// The engine package serves as the main facade, combining the text buffer
// with the two partitionings of an MDD document and the editing rules they
// imply, behind one thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: Thread-safe text storage with change notification
//   - partition: Scanners, region stores and incremental repair
//   - partition/mdd: The standard and replace MDD schemes
//   - history: Undo/redo of recorded changes
//
// Every edit goes through the buffer, which notifies the document. The
// document then repairs the standard and the replace partitioning before
// the edit call returns, so queries never observe a stale region list.
//
// # Basic Usage
//
//	doc, err := engine.New(engine.WithContent("Dear [[name]], @greeting"))
//	if err != nil {
//	    return err
//	}
//	defer doc.Close()
//
//	r, _ := doc.Partition(7, false) // mdd.readonly[5:13)
//
// # Boundary Queries
//
// An offset on a region boundary belongs to the region starting there.
// Passing preferOpen selects the region ending there instead, which is what
// a caret that has just typed up to the boundary wants:
//
//	doc.Partition(13, false) // mdd.readwrite[13:15)
//	doc.Partition(13, true)  // mdd.readonly[5:13)
//
// # Read-Only Regions
//
// Text inside read-only blocks is protected. Insert, Delete and Replace
// refuse edits that touch it with ErrProtected; insertion points between a
// read-only block and other text remain editable. ForceReplace and SetText
// bypass the check, for tooling that regenerates the blocks.
//
// # Undo/Redo
//
// Every applied change is recorded. Undo reverts the last edit, and a
// SetText undoes as a single entry:
//
//	doc.SetText(reloaded)
//	doc.Undo() // previous text, partitions repaired
//	doc.Redo()
//
// # Read-Only Mode
//
//	doc, _ := engine.New(engine.WithContent("text"), engine.WithReadOnly())
//	_, err := doc.Insert(0, "x")
//	// errors.Is(err, engine.ErrReadOnly)
//
// # Error Handling
//
// The package defines several errors:
//
//   - ErrReadOnly: Edit on a read-only document
//   - ErrProtected: Edit touching a read-only region
//   - ErrClosed: Operation on a closed document
//
// Range errors come from the buffer and partition packages and can be
// matched with errors.Is against buffer.ErrRangeInvalid,
// partition.ErrOffsetOutOfRange and partition.ErrRangeInvalid.
package engine
