package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/mddtext/internal/engine/buffer"
	"github.com/dshills/mddtext/internal/engine/history"
	"github.com/dshills/mddtext/internal/engine/partition"
	"github.com/dshills/mddtext/internal/engine/partition/mdd"
)

// Re-export commonly used types for convenience.
type (
	// Region is a typed span of the document.
	Region = partition.Region

	// Label is a region content type.
	Label = partition.Label

	// Range is a byte range in the document.
	Range = buffer.Range

	// Point represents a line/column position.
	Point = buffer.Point

	// Change describes one applied edit.
	Change = buffer.Change

	// HistoryEntry is one undo unit.
	HistoryEntry = history.Entry
)

// Damage is the span each scheme rescanned for the last edit, in
// post-edit coordinates.
type Damage struct {
	Standard partition.Range
	Replace  partition.Range
}

// Stats holds the partition counters of both schemes.
type Stats struct {
	Standard partition.Stats
	Replace  partition.Stats
}

// Document is an MDD buffer with its standard and replace partitionings
// and the editing permissions they imply.
//
// All operations are thread-safe. Partition answers always reflect the
// last completed edit.
type Document struct {
	mu sync.RWMutex

	buf      *buffer.Buffer
	standard *partition.Scheme
	replace  *partition.Scheme
	history  *history.History
	remove   []func()

	lastDamage  Damage
	accumulate  bool
	accumulated int
	readOnly    bool
	closed      bool

	// Configuration
	syntax          mdd.Syntax
	lineEnding      buffer.LineEnding
	logger          *slog.Logger
	checkInvariants bool
	historyLimit    int

	// Initialization
	initContent string
}

// New creates a Document with the given options and partitions its content.
func New(opts ...Option) (*Document, error) {
	d := &Document{
		syntax:          mdd.DefaultSyntax(),
		lineEnding:      buffer.LineEndingLF,
		logger:          slog.New(slog.DiscardHandler),
		checkInvariants: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.syntax.Validate(); err != nil {
		return nil, err
	}

	d.buf = buffer.NewBufferFromString(d.initContent, buffer.WithLineEnding(d.lineEnding))
	d.initContent = ""

	logger := d.logger.With("buffer", d.buf.ID().String())
	schemeOpts := []partition.Option{
		partition.WithLogger(logger),
		partition.WithInvariantChecks(d.checkInvariants),
	}
	d.standard = mdd.NewStandardScheme(d.syntax, schemeOpts...)
	d.replace = mdd.NewReplaceScheme(d.syntax, schemeOpts...)

	for _, sc := range d.schemes() {
		if err := sc.Connect(d.buf); err != nil {
			d.disconnect()
			return nil, err
		}
	}
	d.history = history.New(d.historyLimit)
	d.remove = []func(){
		d.buf.AddListener(buffer.ListenerFunc(d.documentChanged)),
		d.buf.AddListener(buffer.ListenerFunc(d.history.Record)),
	}

	d.logger.Debug("document opened", "buffer", d.buf.ID().String(), "length", d.buf.Len())
	return d, nil
}

// NewFromReader creates a Document from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithContent(string(data)))...)
}

func (d *Document) schemes() []*partition.Scheme {
	return []*partition.Scheme{d.standard, d.replace}
}

// documentChanged repairs both partitionings. It runs inside an edit, with
// d.mu already held by the editing method.
func (d *Document) documentChanged(c buffer.Change) error {
	removed := partition.Range{Start: c.Range.Start, End: c.Range.End}
	inserted := len(c.NewText)

	var errs []error
	damage := []*partition.Range{&d.lastDamage.Standard, &d.lastDamage.Replace}
	for i, sc := range d.schemes() {
		r, err := sc.DocumentChanged(removed, inserted)
		if err != nil {
			d.logger.Error("partition repair failed", "scheme", sc.Name(), "error", err)
			errs = append(errs, err)
			continue
		}
		if d.accumulate && d.accumulated > 0 {
			r = unionDamage(*damage[i], removed, inserted, r)
		}
		*damage[i] = r
	}
	d.accumulated++
	return errors.Join(errs...)
}

// unionDamage merges prev, recorded before an edit of removed, with the
// damage r of that edit.
func unionDamage(prev, removed partition.Range, inserted int, r partition.Range) partition.Range {
	delta := inserted - removed.Len()
	if prev.Start >= removed.End {
		prev.Start += delta
	}
	if prev.End >= removed.End {
		prev.End += delta
	} else if prev.End > removed.Start {
		prev.End = removed.Start + inserted
	}
	return partition.Range{Start: min(prev.Start, r.Start), End: max(prev.End, r.End)}
}

// ============================================================================
// Read Operations
// ============================================================================

// ID returns the identifier of the underlying buffer.
func (d *Document) ID() uuid.UUID {
	return d.buf.ID()
}

// Text returns the full document content.
func (d *Document) Text() string {
	return d.buf.Text()
}

// TextRange returns the text in the given byte range.
func (d *Document) TextRange(start, end int) (string, error) {
	return d.buf.TextRange(start, end)
}

// Len returns the total byte length of the document.
func (d *Document) Len() int {
	return d.buf.Len()
}

// Revision returns the current buffer revision.
func (d *Document) Revision() buffer.RevisionID {
	return d.buf.RevisionID()
}

// LineEnding returns the line ending style the document normalizes to.
func (d *Document) LineEnding() buffer.LineEnding {
	return d.buf.LineEnding()
}

// Syntax returns the markers the document was created with.
func (d *Document) Syntax() mdd.Syntax {
	return d.syntax
}

// OffsetToPoint converts a byte offset to line/column.
func (d *Document) OffsetToPoint(offset int) (Point, error) {
	return d.buf.OffsetToPoint(offset)
}

// PointToOffset converts line/column to byte offset.
func (d *Document) PointToOffset(p Point) (int, error) {
	return d.buf.PointToOffset(p)
}

// ============================================================================
// Partition Queries
// ============================================================================

// Partition returns the standard region at offset. See
// partition.Scheme.RegionAt for the preferOpen contract.
func (d *Document) Partition(offset int, preferOpen bool) (Region, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return Region{}, ErrClosed
	}
	return d.standard.RegionAt(offset, preferOpen)
}

// Partitions returns the standard regions overlapping [start, end).
func (d *Document) Partitions(start, end int) ([]Region, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, ErrClosed
	}
	return d.standard.RegionsIn(start, end)
}

// ReplaceRegion returns the replace-scheme region at offset.
func (d *Document) ReplaceRegion(offset int, preferOpen bool) (Region, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return Region{}, ErrClosed
	}
	return d.replace.RegionAt(offset, preferOpen)
}

// ReplaceRegions returns the replace-scheme regions overlapping [start, end).
func (d *Document) ReplaceRegions(start, end int) ([]Region, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, ErrClosed
	}
	return d.replace.RegionsIn(start, end)
}

// InReplaceRegion returns true if offset lies in a replace region.
func (d *Document) InReplaceRegion(offset int) bool {
	r, err := d.ReplaceRegion(offset, false)
	return err == nil && r.Label == mdd.ReadWrite
}

// LastDamage returns the spans rescanned by the most recent edit.
func (d *Document) LastDamage() Damage {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastDamage
}

// Stats returns the partition counters of both schemes.
func (d *Document) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Stats{Standard: d.standard.Stats(), Replace: d.replace.Stats()}
}

// ============================================================================
// Permissions
// ============================================================================

// CanEdit reports whether [start, end) may be replaced. A read-only
// document refuses every edit. A non-empty range is refused if it overlaps
// a read-only region. An insertion point (start == end) is refused only
// when read-only text lies on both sides of it; the document edges always
// accept insertions.
func (d *Document) CanEdit(start, end int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.checkEdit(start, end) == nil
}

// checkEdit returns why [start, end) may not be edited. Caller holds d.mu.
func (d *Document) checkEdit(start, end int) error {
	switch {
	case d.closed:
		return ErrClosed
	case d.readOnly:
		return ErrReadOnly
	}

	if start == end {
		if start == 0 || start == d.buf.Len() {
			return nil
		}
		after, err := d.standard.RegionAt(start, false)
		if err != nil {
			return err
		}
		before, err := d.standard.RegionAt(start, true)
		if err != nil {
			return err
		}
		if after.Label == mdd.ReadOnly && before.Label == mdd.ReadOnly {
			return fmt.Errorf("%w: insert at %d inside %s", ErrProtected, start, after)
		}
		return nil
	}

	regions, err := d.standard.RegionsIn(start, end)
	if err != nil {
		return err
	}
	for _, r := range regions {
		if r.Label == mdd.ReadOnly {
			return fmt.Errorf("%w: %s overlaps %s", ErrProtected, Range{Start: start, End: end}, r)
		}
	}
	return nil
}

// ReadOnly returns true if the document rejects edits.
func (d *Document) ReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

// SetReadOnly switches read-only mode.
func (d *Document) SetReadOnly(readOnly bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = readOnly
}

// ============================================================================
// Edit Operations
// ============================================================================

// Insert inserts text at offset if the permissions allow it.
// Returns the end position of the inserted text.
func (d *Document) Insert(offset int, text string) (int, error) {
	return d.Replace(offset, offset, text)
}

// Delete removes [start, end) if the permissions allow it.
func (d *Document) Delete(start, end int) error {
	_, err := d.Replace(start, end, "")
	return err
}

// Replace replaces [start, end) with text if the permissions allow it.
// Returns the end position of the replacement text.
func (d *Document) Replace(start, end int, text string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkEdit(start, end); err != nil {
		return 0, err
	}
	return d.buf.Replace(start, end, text)
}

// ForceReplace replaces [start, end) with text regardless of read-only
// mode and read-only regions.
func (d *Document) ForceReplace(start, end int, text string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}
	return d.buf.Replace(start, end, text)
}

// SetText replaces the whole content, bypassing permissions, as a minimal
// sequence of edits. It is used to reload a document from its source.
func (d *Document) SetText(text string) ([]Change, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	// LastDamage reports the union of the damage of every applied edit,
	// and the edits undo as one entry.
	d.accumulate, d.accumulated = true, 0
	d.history.BeginGroup("set text")
	defer func() {
		d.history.EndGroup()
		d.accumulate = false
	}()

	changes, err := d.buf.SetText(text)
	if len(changes) == 0 {
		d.lastDamage = Damage{}
	}
	d.logger.Debug("document text set", "edits", len(changes), "length", d.buf.Len())
	return changes, err
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the last edit, or the whole of the last SetText. It restores
// earlier text regardless of read-only regions, but a read-only document
// refuses it. LastDamage covers every edit the undo applied.
func (d *Document) Undo() (HistoryEntry, error) {
	return d.replay("undo", d.history.Undo)
}

// Redo reapplies the last undone entry.
func (d *Document) Redo() (HistoryEntry, error) {
	return d.replay("redo", d.history.Redo)
}

// replay runs an undo or redo step with damage accumulation.
func (d *Document) replay(op string, step func(history.Applier) (HistoryEntry, error)) (HistoryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case d.closed:
		return HistoryEntry{}, ErrClosed
	case d.readOnly:
		return HistoryEntry{}, ErrReadOnly
	}

	d.accumulate, d.accumulated = true, 0
	defer func() { d.accumulate = false }()

	e, err := step(d.buf)
	if err != nil {
		return e, err
	}
	d.logger.Debug("document "+op, "entry", e.Description(), "edits", len(e.Changes),
		"undo_depth", d.history.UndoCount(), "redo_depth", d.history.RedoCount())
	return e, nil
}

// CanUndo returns true if an edit can be undone.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo returns true if an undone edit can be redone.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// ============================================================================
// Lifecycle
// ============================================================================

// Close detaches both partitionings from the buffer. Further queries and
// edits return ErrClosed. Closing twice is a no-op.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.disconnect()
	d.logger.Debug("document closed", "buffer", d.buf.ID().String())
	return nil
}

func (d *Document) disconnect() {
	for _, remove := range d.remove {
		remove()
	}
	d.remove = nil
	for _, sc := range d.schemes() {
		sc.Disconnect()
	}
}
