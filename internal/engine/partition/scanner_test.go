package partition

import (
	"strings"
	"testing"
)

// countingSource records every slice a Reader requests.
type countingSource struct {
	text   string
	slices []Range
}

func (s *countingSource) Len() int {
	return len(s.text)
}

func (s *countingSource) Slice(start, end int) string {
	s.slices = append(s.slices, Range{Start: start, End: end})
	return s.text[start:end]
}

func TestReaderWindow(t *testing.T) {
	var r Reader
	r.Reset(StringSource("0123456789"), 3, 4)

	if r.Pos() != 3 {
		t.Fatalf("Pos() = %d, want 3", r.Pos())
	}

	c, ok := r.Current()
	if !ok || c != '3' {
		t.Errorf("Current() = %q, %v; want '3', true", c, ok)
	}
	if _, ok := r.Peek(4); ok {
		t.Error("Peek past the window should fail")
	}
	if _, ok := r.Peek(-1); ok {
		t.Error("Peek before the window should fail")
	}
	if !r.HasPrefix("345") {
		t.Error("HasPrefix(345) should be true")
	}
	if r.HasPrefix("34567") {
		t.Error("HasPrefix must not match beyond the window")
	}
	if r.HasPrefix("") {
		t.Error("HasPrefix of an empty string should be false")
	}

	r.Advance(10)
	if !r.EOF() {
		t.Error("expected EOF after advancing past the window")
	}
	if r.Pos() != 7 {
		t.Errorf("Pos() = %d, want 7", r.Pos())
	}
}

func TestReaderClampsToSource(t *testing.T) {
	var r Reader
	r.Reset(StringSource("abc"), 1, 100)

	r.Advance(1)
	r.Advance(1)
	if !r.EOF() {
		t.Error("window should end at the source length")
	}
}

func TestReaderChunks(t *testing.T) {
	src := &countingSource{text: strings.Repeat("x", 3*readChunk)}

	var r Reader
	r.Reset(src, 10, src.Len()-10)
	for !r.EOF() {
		if _, ok := r.Current(); !ok {
			t.Fatalf("Current() failed at %d", r.Pos())
		}
		r.Advance(1)
	}

	if len(src.slices) != 3 {
		t.Fatalf("expected 3 chunk reads, got %d: %v", len(src.slices), src.slices)
	}
	for _, s := range src.slices {
		if s.Start < 10 {
			t.Errorf("reader requested %s, before its window", s)
		}
		if s.Len() > readChunk {
			t.Errorf("reader requested %s, larger than a chunk", s)
		}
	}
}

func TestStringSource(t *testing.T) {
	s := StringSource("hello")
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
	if got := s.Slice(1, 3); got != "el" {
		t.Errorf("Slice(1, 3) = %q, want %q", got, "el")
	}
}
