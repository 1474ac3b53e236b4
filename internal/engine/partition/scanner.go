package partition

// State is a scanner's lexical state between tokens. Zero is the initial
// state of every scanner.
type State uint32

// Token is one classified run produced by a Scanner.
type Token struct {
	// Label is the content type of the run.
	Label Label

	// Length is the run length in bytes. Zero marks the end of the range.
	Length int

	// State is the lexical state after the run, i.e. the state to resume
	// scanning with at the token's end.
	State State
}

// Source is the read-only character content a scanner consumes.
type Source interface {
	// Len returns the content length in bytes.
	Len() int

	// Slice returns the content in [start, end).
	Slice(start, end int) string
}

// Scanner tokenizes a range of a Source into labeled runs.
type Scanner interface {
	// SetRange positions the scanner at offset with the given state. The
	// scanner must not read outside [offset, offset+length).
	SetRange(src Source, offset, length int, state State)

	// NextToken returns the next run, or a zero-length token at the end.
	NextToken() Token

	// Lookahead is the largest number of bytes at or after a token
	// boundary the scanner may examine before emitting the token that
	// ends there. The store uses it to pick restart points that an edit
	// cannot have influenced.
	Lookahead() int
}

const readChunk = 4096

// Reader gives scanners byte access to a window of a Source. It pulls the
// content in fixed-size slices so hosts never have to materialize the whole
// buffer.
type Reader struct {
	src        Source
	offset     int
	end        int
	pos        int
	chunkStart int
	chunk      string
}

// Reset positions the reader at offset with length readable bytes.
func (r *Reader) Reset(src Source, offset, length int) {
	r.src = src
	r.offset = offset
	r.end = offset + length
	if n := src.Len(); r.end > n {
		r.end = n
	}
	r.pos = offset
	r.chunkStart = offset
	r.chunk = ""
}

// Pos returns the current absolute offset.
func (r *Reader) Pos() int {
	return r.pos
}

// EOF returns true when no readable bytes remain.
func (r *Reader) EOF() bool {
	return r.pos >= r.end
}

// Advance moves forward n bytes, stopping at the end of the window.
func (r *Reader) Advance(n int) {
	r.pos += n
	if r.pos > r.end {
		r.pos = r.end
	}
}

// Current returns the byte at the current position.
func (r *Reader) Current() (byte, bool) {
	return r.Peek(0)
}

// Peek returns the byte k positions after the current one.
func (r *Reader) Peek(k int) (byte, bool) {
	return r.byteAt(r.pos + k)
}

// HasPrefix returns true if the bytes at the current position spell s.
func (r *Reader) HasPrefix(s string) bool {
	if s == "" {
		return false
	}
	for k := 0; k < len(s); k++ {
		c, ok := r.Peek(k)
		if !ok || c != s[k] {
			return false
		}
	}
	return true
}

func (r *Reader) byteAt(i int) (byte, bool) {
	if i < r.offset || i >= r.end {
		return 0, false
	}
	if i < r.chunkStart || i >= r.chunkStart+len(r.chunk) {
		hi := min(i+readChunk, r.end)
		r.chunk = r.src.Slice(i, hi)
		r.chunkStart = i
	}
	return r.chunk[i-r.chunkStart], true
}

// StringSource adapts a string to the Source interface.
type StringSource string

// Len returns the string length in bytes.
func (s StringSource) Len() int {
	return len(s)
}

// Slice returns s[start:end].
func (s StringSource) Slice(start, end int) string {
	return string(s[start:end])
}
