package mdd

import (
	"errors"
	"testing"
)

func TestSyntaxValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Syntax)
		wantErr bool
	}{
		{"default", func(*Syntax) {}, false},
		{"empty comment open", func(s *Syntax) { s.CommentOpen = "" }, true},
		{"empty replace close", func(s *Syntax) { s.ReplaceClose = "" }, true},
		{"zero tag open", func(s *Syntax) { s.TagOpen = 0 }, true},
		{"newline tag close", func(s *Syntax) { s.TagClose = '\n' }, true},
		{"word keyword prefix", func(s *Syntax) { s.KeywordPrefix = 'k' }, true},
		{"shared block opener", func(s *Syntax) { s.ReadOnlyOpen = s.CommentOpen }, true},
		{"shared tag and keyword marker", func(s *Syntax) { s.KeywordPrefix = '<' }, true},
		{"custom", func(s *Syntax) { s.CommentOpen, s.CommentClose = "<!--", "-->" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSyntax()
			tt.modify(&s)
			err := s.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSyntax) {
					t.Errorf("Validate() = %v, want ErrInvalidSyntax", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestLookahead(t *testing.T) {
	s := DefaultSyntax()
	if got := s.standardLookahead(); got != 2 {
		t.Errorf("standardLookahead() = %d, want 2", got)
	}

	s.CommentOpen = "<!--"
	if got := s.standardLookahead(); got != 4 {
		t.Errorf("standardLookahead() = %d, want 4", got)
	}

	s.ReplaceOpen, s.ReplaceClose = "{", "}"
	if got := s.replaceLookahead(); got != 1 {
		t.Errorf("replaceLookahead() = %d, want 1", got)
	}
}
