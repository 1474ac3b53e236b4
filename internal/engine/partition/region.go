package partition

import "fmt"

// Label is a content type. Each scheme declares a closed set of them.
type Label string

// Undefined is the content type of text a scanner leaves unclassified.
// It is legal in every scheme but only ever appears where a scanner emitted
// it; the store never invents it.
const Undefined Label = ""

// String returns the label name, or "undefined" for Undefined.
func (l Label) String() string {
	if l == Undefined {
		return "undefined"
	}
	return string(l)
}

// Region is a typed, half-open span [Offset, Offset+Length) of the buffer.
type Region struct {
	Label  Label
	Offset int
	Length int
}

// End returns the exclusive end offset of the region.
func (r Region) End() int {
	return r.Offset + r.Length
}

// Contains returns true if offset lies inside the region.
func (r Region) Contains(offset int) bool {
	return offset >= r.Offset && offset < r.End()
}

// Overlaps returns true if the region intersects [start, end).
func (r Region) Overlaps(start, end int) bool {
	return r.Offset < end && start < r.End()
}

// String returns a human-readable representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("%s[%d:%d)", r.Label, r.Offset, r.End())
}

// Range is a byte range [Start, End) used to describe edits and damage.
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}
