package app

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/dshills/mddtext/internal/engine"
	"github.com/dshills/mddtext/internal/engine/buffer"
)

// Editor binds an Input to an engine.Document and drives its lifecycle.
type Editor struct {
	mu sync.Mutex

	input Input
	doc   *engine.Document
	saved buffer.RevisionID

	docOpts []engine.Option
	logger  *slog.Logger
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithEditorLogger sets the logger for the editor and its document.
func WithEditorLogger(logger *slog.Logger) EditorOption {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDocumentOptions adds options passed to engine.New on Open.
func WithDocumentOptions(opts ...engine.Option) EditorOption {
	return func(e *Editor) {
		e.docOpts = append(e.docOpts, opts...)
	}
}

// NewEditor creates an editor for input. Call Open before use.
func NewEditor(input Input, opts ...EditorOption) *Editor {
	e := &Editor{
		input:  input,
		logger: NullLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Open loads the input and partitions it.
func (e *Editor) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc != nil {
		return wrapOp("open", e.input.Name(), ErrAlreadyOpen)
	}

	text, err := e.input.Load()
	if err != nil {
		return wrapOp("open", e.input.Name(), err)
	}

	// Keep the input's line endings so saves and byte offsets match it.
	opts := []engine.Option{
		engine.WithLogger(e.logger),
		engine.WithLineEnding(buffer.DetectLineEnding(text)),
	}
	opts = append(opts, e.docOpts...)
	opts = append(opts, engine.WithContent(text))
	doc, err := engine.New(opts...)
	if err != nil {
		return wrapOp("open", e.input.Name(), err)
	}

	e.doc = doc
	e.saved = doc.Revision()
	e.logger.Info("editor opened", "input", e.input.Name(), "length", doc.Len())
	return nil
}

// Document returns the open document, or nil before Open and after Close.
func (e *Editor) Document() *engine.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// Name returns the input name.
func (e *Editor) Name() string {
	return e.input.Name()
}

// IsModified returns true if the document changed since it was opened,
// saved or reloaded.
func (e *Editor) IsModified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc != nil && e.doc.Revision() != e.saved
}

// Save stores the document text through the input.
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return wrapOp("save", e.input.Name(), ErrNotOpen)
	}

	rev := e.doc.Revision()
	if err := e.input.Save(e.doc.Text()); err != nil {
		return wrapOp("save", e.input.Name(), err)
	}
	e.saved = rev
	e.logger.Info("editor saved", "input", e.input.Name(), "length", e.doc.Len())
	return nil
}

// SetReadOnly switches the document's read-only mode.
func (e *Editor) SetReadOnly(readOnly bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return wrapOp("set read-only", e.input.Name(), ErrNotOpen)
	}
	e.doc.SetReadOnly(readOnly)
	e.logger.Debug("editor read-only mode", "input", e.input.Name(), "readOnly", readOnly)
	return nil
}

// Reload replaces the document text with the stored content, repairing the
// partitionings incrementally. Unsaved edits are refused with
// ErrUnsavedChanges unless force is set. It returns the rescanned spans.
func (e *Editor) Reload(force bool) (engine.Damage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return engine.Damage{}, wrapOp("reload", e.input.Name(), ErrNotOpen)
	}
	if !force && e.doc.Revision() != e.saved {
		return engine.Damage{}, wrapOp("reload", e.input.Name(), ErrUnsavedChanges)
	}

	text, err := e.input.Load()
	if err != nil {
		return engine.Damage{}, wrapOp("reload", e.input.Name(), err)
	}

	if le := buffer.DetectLineEnding(text); le != e.doc.LineEnding() && strings.Contains(text, "\n") {
		e.logger.Warn("input line endings changed, normalizing", "input", e.input.Name(),
			"input_line_ending", le.String(), "document_line_ending", e.doc.LineEnding().String())
	}

	changes, err := e.doc.SetText(text)
	e.saved = e.doc.Revision()
	if err != nil {
		return e.doc.LastDamage(), wrapOp("reload", e.input.Name(), err)
	}
	if len(changes) == 0 {
		return engine.Damage{}, nil
	}

	damage := e.doc.LastDamage()
	e.logger.Debug("editor reloaded", "input", e.input.Name(), "edits", len(changes),
		"standard", damage.Standard.String(), "replace", damage.Replace.String())
	return damage, nil
}

// Close disposes the input and closes the document. Closing an editor
// that is not open only disposes the input.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	if err := e.input.Dispose(); err != nil {
		errs = append(errs, err)
	}
	if e.doc != nil {
		if err := e.doc.Close(); err != nil {
			errs = append(errs, err)
		}
		e.doc = nil
	}
	e.logger.Info("editor closed", "input", e.input.Name())
	return wrapOp("close", e.input.Name(), errors.Join(errs...))
}
