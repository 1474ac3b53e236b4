package mdd

import "github.com/dshills/mddtext/internal/engine/partition"

// Replace scanner states.
const (
	stateOutside partition.State = iota
	stateInReplace
)

// ReplaceScanner recognizes replace regions: an opener, any text, and a
// closer, all labeled ReadWrite. Everything else is Undefined. An
// unterminated region runs to the end of the buffer.
type ReplaceScanner struct {
	syntax Syntax
	r      partition.Reader
	state  partition.State
}

// NewReplaceScanner creates a scanner for the replace markers of syntax.
func NewReplaceScanner(syntax Syntax) *ReplaceScanner {
	return &ReplaceScanner{syntax: syntax}
}

// SetRange implements partition.Scanner.
func (s *ReplaceScanner) SetRange(src partition.Source, offset, length int, state partition.State) {
	s.r.Reset(src, offset, length)
	s.state = state
}

// Lookahead implements partition.Scanner.
func (s *ReplaceScanner) Lookahead() int {
	return s.syntax.replaceLookahead()
}

// NextToken implements partition.Scanner.
func (s *ReplaceScanner) NextToken() partition.Token {
	if s.r.EOF() {
		return partition.Token{State: s.state}
	}

	start := s.r.Pos()
	if s.state == stateInReplace {
		return s.scanBody(start)
	}
	if s.r.HasPrefix(s.syntax.ReplaceOpen) {
		s.r.Advance(len(s.syntax.ReplaceOpen))
		s.state = stateInReplace
		return s.scanBody(start)
	}

	s.r.Advance(1)
	for !s.r.EOF() && !s.r.HasPrefix(s.syntax.ReplaceOpen) {
		s.r.Advance(1)
	}
	return partition.Token{Label: partition.Undefined, Length: s.r.Pos() - start, State: s.state}
}

// scanBody consumes replace text through the closer or to the end.
func (s *ReplaceScanner) scanBody(start int) partition.Token {
	for !s.r.EOF() {
		if s.r.HasPrefix(s.syntax.ReplaceClose) {
			s.r.Advance(len(s.syntax.ReplaceClose))
			s.state = stateOutside
			break
		}
		s.r.Advance(1)
	}
	return partition.Token{Label: ReadWrite, Length: s.r.Pos() - start, State: s.state}
}

var _ partition.Scanner = (*ReplaceScanner)(nil)
