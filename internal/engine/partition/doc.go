// Package partition decomposes a text buffer into typed regions.
//
// A partitioning is an ordered, contiguous, gap-free list of regions, each
// labeled with a content type from a closed set. The list is produced by a
// Scanner, kept by a Store, and exposed through a Scheme which also enforces
// the scheme's legal label set.
//
// # Scanning
//
// A Scanner is a restartable tokenizer. It is positioned with SetRange and
// then yields tokens until a zero-length token marks the end of the range:
//
//	scanner.SetRange(src, offset, length, state)
//	for {
//	    tok := scanner.NextToken()
//	    if tok.Length == 0 {
//	        break
//	    }
//	    // tok.Label covers tok.Length bytes; tok.State is the state after it
//	}
//
// Scanners never read before the offset they were given. Any context coming
// from earlier text (an unterminated block, for example) arrives through the
// State argument. The Store records the state at the start of every region
// so that it can restart scanning at a region start after an edit.
//
// # Incremental repair
//
// Store.ApplyEdit re-tokenizes from the last region start that cannot have
// been influenced by the edit, and stops as soon as a token boundary past the
// edit lands on an old region start with the same recorded state. Everything
// after that point is shifted, not rescanned. When an edit changes a lexical
// state (opening a comment, say) the rescan runs until the states agree again
// or until the end of the buffer.
//
// # Boundary queries
//
// Scheme.RegionAt(offset, preferOpen) resolves offsets that sit exactly on a
// region boundary. Without preferOpen the region starting at the offset is
// returned. With preferOpen the region ending at the offset is returned, so a
// caret that has just typed up to a boundary is still reported inside the
// region it was typing into. Offset 0 always yields the first region.
//
// # Concurrency
//
// Stores and schemes are not safe for concurrent use. They are driven from
// the goroutine that owns the buffer's edit sequence, and every ApplyEdit must
// complete before the next query.
package partition
