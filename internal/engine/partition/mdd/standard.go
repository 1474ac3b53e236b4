package mdd

import "github.com/dshills/mddtext/internal/engine/partition"

// Standard scanner states.
const (
	stateDefault partition.State = iota
	stateReadOnly
)

// StandardScanner recognizes read-only blocks, tags, keywords and comments.
// Text outside any marker is read-write.
//
// In the default state, comment and tag markers take precedence over
// read-only and keyword markers in this order: comment, read-only, tag,
// keyword. Inside a read-only block only keywords and the block close are
// recognized; comments and tags recognize nothing but their own close.
type StandardScanner struct {
	syntax Syntax
	r      partition.Reader
	state  partition.State
}

// NewStandardScanner creates a scanner for syntax.
func NewStandardScanner(syntax Syntax) *StandardScanner {
	return &StandardScanner{syntax: syntax}
}

// SetRange implements partition.Scanner.
func (s *StandardScanner) SetRange(src partition.Source, offset, length int, state partition.State) {
	s.r.Reset(src, offset, length)
	s.state = state
}

// Lookahead implements partition.Scanner.
func (s *StandardScanner) Lookahead() int {
	return s.syntax.standardLookahead()
}

// NextToken implements partition.Scanner.
func (s *StandardScanner) NextToken() partition.Token {
	if s.r.EOF() {
		return partition.Token{State: s.state}
	}

	if s.state == stateReadOnly {
		if s.atKeyword() {
			return s.scanKeyword()
		}
		return s.scanReadOnly(0)
	}

	switch {
	case s.r.HasPrefix(s.syntax.CommentOpen):
		return s.scanComment()
	case s.r.HasPrefix(s.syntax.ReadOnlyOpen):
		return s.scanReadOnly(len(s.syntax.ReadOnlyOpen))
	case s.atTag():
		return s.scanTag()
	case s.atKeyword():
		return s.scanKeyword()
	}
	return s.scanText()
}

// scanComment consumes a comment through its close marker or to the end.
func (s *StandardScanner) scanComment() partition.Token {
	start := s.r.Pos()
	s.r.Advance(len(s.syntax.CommentOpen))
	for !s.r.EOF() {
		if s.r.HasPrefix(s.syntax.CommentClose) {
			s.r.Advance(len(s.syntax.CommentClose))
			break
		}
		s.r.Advance(1)
	}
	return s.token(Comment, start)
}

// scanReadOnly consumes read-only text after skipping skip bytes of opener.
// It stops after the close marker, before a keyword, or at the end.
func (s *StandardScanner) scanReadOnly(skip int) partition.Token {
	start := s.r.Pos()
	s.r.Advance(skip)
	s.state = stateReadOnly
	for !s.r.EOF() {
		if s.r.HasPrefix(s.syntax.ReadOnlyClose) {
			s.r.Advance(len(s.syntax.ReadOnlyClose))
			s.state = stateDefault
			break
		}
		if s.r.Pos() > start && s.atKeyword() {
			break
		}
		s.r.Advance(1)
	}
	return s.token(ReadOnly, start)
}

// scanTag consumes a tag through its close byte. An unterminated tag stops
// before the end of its line.
func (s *StandardScanner) scanTag() partition.Token {
	start := s.r.Pos()
	s.r.Advance(1)
	for !s.r.EOF() {
		c, _ := s.r.Current()
		if c == s.syntax.TagClose {
			s.r.Advance(1)
			break
		}
		if c == '\n' {
			break
		}
		s.r.Advance(1)
	}
	return s.token(Tag, start)
}

// scanKeyword consumes the prefix and the word that follows it.
func (s *StandardScanner) scanKeyword() partition.Token {
	start := s.r.Pos()
	s.r.Advance(1)
	for !s.r.EOF() {
		c, _ := s.r.Current()
		if !isWordByte(c) {
			break
		}
		s.r.Advance(1)
	}
	return s.token(Keyword, start)
}

// scanText consumes read-write text up to the next opener.
func (s *StandardScanner) scanText() partition.Token {
	start := s.r.Pos()
	s.r.Advance(1)
	for !s.r.EOF() && !s.atOpener() {
		s.r.Advance(1)
	}
	return s.token(ReadWrite, start)
}

func (s *StandardScanner) atOpener() bool {
	return s.r.HasPrefix(s.syntax.CommentOpen) ||
		s.r.HasPrefix(s.syntax.ReadOnlyOpen) ||
		s.atTag() ||
		s.atKeyword()
}

// atTag reports a tag opener followed by a letter, '/' or '!'.
func (s *StandardScanner) atTag() bool {
	c, ok := s.r.Current()
	if !ok || c != s.syntax.TagOpen {
		return false
	}
	next, ok := s.r.Peek(1)
	return ok && (isLetter(next) || next == '/' || next == '!')
}

// atKeyword reports a keyword prefix followed by a word byte.
func (s *StandardScanner) atKeyword() bool {
	c, ok := s.r.Current()
	if !ok || c != s.syntax.KeywordPrefix {
		return false
	}
	next, ok := s.r.Peek(1)
	return ok && isWordByte(next)
}

func (s *StandardScanner) token(label partition.Label, start int) partition.Token {
	return partition.Token{Label: label, Length: s.r.Pos() - start, State: s.state}
}

var _ partition.Scanner = (*StandardScanner)(nil)
