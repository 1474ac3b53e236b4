package buffer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	if le == LineEndingCRLF {
		return "\\r\\n"
	}
	return "\\n"
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// Buffer holds the text of one document and notifies listeners of every
// edit. All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	id         uuid.UUID
	text       string
	revisionID RevisionID
	lineEnding LineEnding

	listeners    []listenerEntry
	nextListener int
}

type listenerEntry struct {
	id       int
	listener Listener
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		id:         uuid.New(),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.text = b.normalizeLineEndings(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first so CRLF pairs split across reads normalize.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts all line endings to the buffer's style.
func (b *Buffer) normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') && (b.lineEnding == LineEndingLF || !strings.ContainsRune(s, '\n')) {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding == LineEndingCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// Read Operations

// ID returns the buffer identifier.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Slice returns the text in [start, end). It panics on an invalid range,
// matching string slicing; use TextRange for checked access.
func (b *Buffer) Slice(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text[start:end]
}

// TextRange returns the text in the given byte range.
func (b *Buffer) TextRange(start, end int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	return b.text[start:end], nil
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Count(b.text, "\n") + 1
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset int) (Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset > len(b.text) {
		return Point{}, fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, len(b.text))
	}
	before := b.text[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Point{Line: strings.Count(before, "\n"), Column: offset - lineStart}, nil
}

// PointToOffset converts line/column to byte offset. A column past the end
// of its line is an error.
func (b *Buffer) PointToOffset(p Point) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p.Line < 0 || p.Column < 0 {
		return 0, fmt.Errorf("%w: point %s", ErrOffsetOutOfRange, p)
	}

	lineStart := 0
	for line := 0; line < p.Line; line++ {
		i := strings.IndexByte(b.text[lineStart:], '\n')
		if i < 0 {
			return 0, fmt.Errorf("%w: line %d of %d", ErrOffsetOutOfRange, p.Line, line+1)
		}
		lineStart += i + 1
	}

	lineEnd := len(b.text)
	if i := strings.IndexByte(b.text[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	if lineStart+p.Column > lineEnd {
		return 0, fmt.Errorf("%w: column %d past end of line %d", ErrOffsetOutOfRange, p.Column, p.Line)
	}
	return lineStart + p.Column, nil
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset int, text string) (int, error) {
	if offset < 0 || offset > b.Len() {
		return 0, fmt.Errorf("%w: insert at %d", ErrOffsetOutOfRange, offset)
	}
	c, err := b.ApplyEdit(NewInsert(offset, text))
	return c.NewRange().End, err
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end int) error {
	_, err := b.ApplyEdit(NewDelete(start, end))
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	c, err := b.ApplyEdit(NewEdit(Range{Start: start, End: end}, text))
	return c.NewRange().End, err
}

// ApplyEdit applies a single edit and notifies listeners. A no-op edit
// changes nothing and notifies no one. When the buffer changed but a
// listener failed, the Change is returned together with the error.
func (b *Buffer) ApplyEdit(edit Edit) (Change, error) {
	return b.apply(edit, true)
}

func (b *Buffer) apply(edit Edit, normalize bool) (Change, error) {
	b.mu.Lock()

	if err := b.checkRange(edit.Range.Start, edit.Range.End); err != nil {
		b.mu.Unlock()
		return Change{}, err
	}

	text := edit.NewText
	if normalize {
		text = b.normalizeLineEndings(text)
	}
	if NewEdit(edit.Range, text).IsNoOp() {
		c := Change{Range: edit.Range, Revision: b.revisionID}
		b.mu.Unlock()
		return c, nil
	}

	c := Change{
		Range:   edit.Range,
		OldText: b.text[edit.Range.Start:edit.Range.End],
		NewText: text,
	}
	b.text = b.text[:edit.Range.Start] + text + b.text[edit.Range.End:]
	b.revisionID = NewRevisionID()
	c.Revision = b.revisionID
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	return c, notify(listeners, c)
}

// checkRange validates [start, end) against the current text. Caller holds
// the lock.
func (b *Buffer) checkRange(start, end int) error {
	if r := (Range{Start: start, End: end}); !r.IsValid() || end > len(b.text) {
		return fmt.Errorf("%w: %s not within [0, %d]", ErrRangeInvalid, Range{Start: start, End: end}, len(b.text))
	}
	return nil
}
