package mdd

import (
	"errors"
	"fmt"

	"github.com/dshills/mddtext/internal/engine/partition"
)

// Content types of the standard scheme. ReadWrite is also the only content
// type of the replace scheme.
const (
	ReadOnly  partition.Label = "mdd.readonly"
	ReadWrite partition.Label = "mdd.readwrite"
	Tag       partition.Label = "mdd.tag"
	Keyword   partition.Label = "mdd.keyword"
	Comment   partition.Label = "mdd.comment"
)

// Scheme names.
const (
	StandardScheme = "standard"
	ReplaceScheme  = "replace"
)

// StandardLabels is the legal label set of the standard scheme.
var StandardLabels = []partition.Label{ReadOnly, ReadWrite, Tag, Keyword, Comment}

// ReplaceLabels is the legal label set of the replace scheme.
var ReplaceLabels = []partition.Label{ReadWrite}

// ErrInvalidSyntax indicates an unusable marker configuration.
var ErrInvalidSyntax = errors.New("invalid mdd syntax")

// Syntax holds the marker strings both scanners recognize.
type Syntax struct {
	CommentOpen   string
	CommentClose  string
	ReadOnlyOpen  string
	ReadOnlyClose string
	TagOpen       byte
	TagClose      byte
	KeywordPrefix byte
	ReplaceOpen   string
	ReplaceClose  string
}

// DefaultSyntax returns the stock MDD markers.
func DefaultSyntax() Syntax {
	return Syntax{
		CommentOpen:   "/*",
		CommentClose:  "*/",
		ReadOnlyOpen:  "[[",
		ReadOnlyClose: "]]",
		TagOpen:       '<',
		TagClose:      '>',
		KeywordPrefix: '@',
		ReplaceOpen:   "${",
		ReplaceClose:  "}",
	}
}

// Validate reports markers that are empty or that the standard scanner
// could not tell apart.
func (s Syntax) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"comment open", s.CommentOpen},
		{"comment close", s.CommentClose},
		{"read-only open", s.ReadOnlyOpen},
		{"read-only close", s.ReadOnlyClose},
		{"replace open", s.ReplaceOpen},
		{"replace close", s.ReplaceClose},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s marker is empty", ErrInvalidSyntax, f.name)
		}
	}

	for name, b := range map[string]byte{"tag open": s.TagOpen, "tag close": s.TagClose, "keyword prefix": s.KeywordPrefix} {
		if b == 0 || b == '\n' || isWordByte(b) {
			return fmt.Errorf("%w: %s marker %q is not a punctuation byte", ErrInvalidSyntax, name, b)
		}
	}

	if s.CommentOpen == s.ReadOnlyOpen {
		return fmt.Errorf("%w: comment and read-only blocks share opener %q", ErrInvalidSyntax, s.CommentOpen)
	}
	if s.TagOpen == s.KeywordPrefix {
		return fmt.Errorf("%w: tags and keywords share marker %q", ErrInvalidSyntax, s.TagOpen)
	}
	return nil
}

// standardLookahead is the longest run the standard scanner inspects at a
// position before deciding where a token ends.
func (s Syntax) standardLookahead() int {
	return max(len(s.CommentOpen), len(s.CommentClose), len(s.ReadOnlyOpen), len(s.ReadOnlyClose), 2)
}

func (s Syntax) replaceLookahead() int {
	return max(len(s.ReplaceOpen), len(s.ReplaceClose), 1)
}

// NewStandardScheme creates the standard five-label scheme.
func NewStandardScheme(syntax Syntax, opts ...partition.Option) *partition.Scheme {
	return partition.NewScheme(StandardScheme, NewStandardScanner(syntax), StandardLabels, opts...)
}

// NewReplaceScheme creates the replace-region scheme.
func NewReplaceScheme(syntax Syntax, opts ...partition.Option) *partition.Scheme {
	return partition.NewScheme(ReplaceScheme, NewReplaceScanner(syntax), ReplaceLabels, opts...)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
