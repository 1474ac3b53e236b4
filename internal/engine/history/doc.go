// Package history records document edits for undo and redo.
//
// Every applied buffer.Change is recorded as an Entry. Undoing an entry
// applies the inverse of its changes in reverse order; redoing it applies
// the changes again in their original order:
//
//	h := history.New(1000) // keep at most 1000 entries
//	remove := buf.AddListener(buffer.ListenerFunc(h.Record))
//	defer remove()
//
//	h.Undo(buf)
//	h.Redo(buf)
//
// # Grouping
//
// Changes recorded between BeginGroup and EndGroup form one entry, so a
// reload that applies many edits undoes as a unit:
//
//	h.BeginGroup("reload")
//	buf.SetText(text)
//	h.EndGroup()
//
// Changes applied by Undo and Redo themselves are never recorded.
package history
