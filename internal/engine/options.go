package engine

import (
	"log/slog"

	"github.com/dshills/mddtext/internal/engine/buffer"
	"github.com/dshills/mddtext/internal/engine/partition/mdd"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithSyntax sets the MDD markers both schemes recognize.
func WithSyntax(syntax mdd.Syntax) Option {
	return func(d *Document) {
		d.syntax = syntax
	}
}

// WithLineEnding sets the line ending style for the document.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = ending
	}
}

// WithLogger sets the logger shared by the document and its schemes.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithInvariantChecks enables or disables the region list check after
// every repair.
func WithInvariantChecks(enabled bool) Option {
	return func(d *Document) {
		d.checkInvariants = enabled
	}
}

// WithReadOnly creates a read-only document.
// Edits will return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}

// WithHistoryLimit bounds the number of undo entries kept.
// Zero or less selects history.DefaultMaxEntries.
func WithHistoryLimit(n int) Option {
	return func(d *Document) {
		d.historyLimit = n
	}
}
