package partition

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
)

// Stats counts the work a Store has done.
type Stats struct {
	Rebuilds      int // full rebuilds, including invariant recoveries
	Repairs       int // successful incremental repairs
	TokensScanned int // tokens produced across all scans
	LastScanned   int // tokens produced by the last repair
	LastReplaced  int // old regions replaced by the last repair
}

// Store holds the region list for one scanner and repairs it after edits.
type Store struct {
	scanner Scanner
	regions []Region
	starts  []State // scanner state at the start of each region
	length  int

	check           func(Label) error
	logger          *slog.Logger
	checkInvariants bool
	stats           Stats
}

// NewStore creates an empty store driven by scanner.
func NewStore(scanner Scanner, opts ...Option) *Store {
	s := &Store{
		scanner:         scanner,
		logger:          slog.New(slog.DiscardHandler),
		checkInvariants: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RebuildAll discards the region list and scans src from offset 0.
// On error the previous list is kept.
func (s *Store) RebuildAll(src Source) error {
	var b regionBuilder
	n, err := s.scan(src, 0, 0, &b, nil)
	if err != nil {
		return err
	}

	s.regions = b.regions
	s.starts = b.starts
	s.length = src.Len()
	s.stats.Rebuilds++
	s.stats.TokensScanned += n

	s.logger.Debug("partition rebuilt", "regions", len(s.regions), "length", s.length)
	return nil
}

// ApplyEdit repairs the region list after removed (old coordinates) was
// replaced by insertedLength bytes. src must already hold the new content.
// It returns the span, in new coordinates, whose partitioning was rescanned.
func (s *Store) ApplyEdit(removed Range, insertedLength int, src Source) (Range, error) {
	oldLen := s.length
	if removed.Start < 0 || removed.End < removed.Start || removed.End > oldLen || insertedLength < 0 {
		return Range{}, fmt.Errorf("%w: edit %s+%d on length %d", ErrRangeInvalid, removed, insertedLength, oldLen)
	}

	delta := insertedLength - removed.Len()
	if src.Len() != oldLen+delta {
		return Range{}, fmt.Errorf("%w: edit %s+%d expects length %d, source has %d",
			ErrRangeInvalid, removed, insertedLength, oldLen+delta, src.Len())
	}

	first := s.restartIndex(removed.Start)
	restart, state := 0, State(0)
	if first < len(s.regions) {
		restart, state = s.regions[first].Offset, s.starts[first]
	}

	editEnd := removed.Start + insertedLength
	last := len(s.regions)
	var b regionBuilder
	n, err := s.scan(src, restart, state, &b, func(end int, exit State) bool {
		if end < editEnd {
			return false
		}
		j, ok := s.regionStartingAt(end - delta)
		if !ok || s.starts[j] != exit {
			return false
		}
		last = j
		return true
	})
	if err != nil {
		return Range{}, err
	}

	damaged := Range{Start: restart, End: restart}
	if k := len(b.regions); k > 0 {
		damaged.End = b.regions[k-1].End()
	}

	s.splice(first, last, delta, &b)
	s.length = src.Len()
	s.stats.Repairs++
	s.stats.TokensScanned += n
	s.stats.LastScanned = n
	s.stats.LastReplaced = last - first

	if s.checkInvariants {
		if err := s.Validate(); err != nil {
			s.logger.Error("partition invariant violated after repair, rebuilding",
				"error", err, "edit", removed.String(), "inserted", insertedLength)
			if rerr := s.RebuildAll(src); rerr != nil {
				return Range{}, rerr
			}
			return Range{Start: 0, End: s.length}, nil
		}
	}

	return damaged, nil
}

// RegionAt returns the region containing offset. A boundary offset belongs
// to the region starting there; offset == length yields the last region.
// An empty buffer has no regions: offset 0 yields the zero-length Undefined
// region, which covers no text and so assigns no content type.
func (s *Store) RegionAt(offset int) (Region, error) {
	if offset < 0 || offset > s.length {
		return Region{}, fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, s.length)
	}
	if len(s.regions) == 0 {
		return Region{Label: Undefined}, nil
	}
	return s.regions[s.indexAt(offset)], nil
}

// Regions returns a copy of the full region list.
func (s *Store) Regions() []Region {
	return slices.Clone(s.regions)
}

// RegionsIn returns the regions overlapping [start, end) in ascending order.
// An empty range yields the single region at start.
func (s *Store) RegionsIn(start, end int) ([]Region, error) {
	if start < 0 || end < start || end > s.length {
		return nil, fmt.Errorf("%w: %s not within [0, %d]", ErrRangeInvalid, Range{Start: start, End: end}, s.length)
	}
	if len(s.regions) == 0 {
		return nil, nil
	}

	i := s.indexAt(start)
	if start == end {
		return []Region{s.regions[i]}, nil
	}

	var out []Region
	for ; i < len(s.regions) && s.regions[i].Overlaps(start, end); i++ {
		out = append(out, s.regions[i])
	}
	return out, nil
}

// Len returns the buffer length the region list covers.
func (s *Store) Len() int {
	return s.length
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	return s.stats
}

// Validate checks ordering, contiguity, coverage, non-empty regions,
// maximality and label legality.
func (s *Store) Validate() error {
	if len(s.starts) != len(s.regions) {
		return &InvariantError{Index: -1, Reason: fmt.Sprintf("%d start states for %d regions", len(s.starts), len(s.regions))}
	}

	next := 0
	for i, r := range s.regions {
		switch {
		case r.Offset != next:
			return &InvariantError{Index: i, Region: r, Reason: fmt.Sprintf("expected offset %d", next)}
		case r.Length <= 0:
			return &InvariantError{Index: i, Region: r, Reason: "empty region"}
		case i > 0 && s.regions[i-1].Label == r.Label:
			return &InvariantError{Index: i, Region: r, Reason: "same label as previous region"}
		}
		if s.check != nil {
			if err := s.check(r.Label); err != nil {
				return &InvariantError{Index: i, Region: r, Reason: err.Error()}
			}
		}
		next = r.End()
	}

	if next != s.length {
		return &InvariantError{Index: len(s.regions), Reason: fmt.Sprintf("coverage ends at %d, length is %d", next, s.length)}
	}
	return nil
}

// reset empties the store.
func (s *Store) reset() {
	s.regions = nil
	s.starts = nil
	s.length = 0
}

// scan feeds tokens from offset to the end of src into b. After each token
// stop is asked whether the old partitioning can take over at the token's
// end. It returns the number of tokens produced.
func (s *Store) scan(src Source, offset int, state State, b *regionBuilder, stop func(end int, exit State) bool) (int, error) {
	s.scanner.SetRange(src, offset, src.Len()-offset, state)

	n := 0
	pos := offset
	for {
		tok := s.scanner.NextToken()
		if tok.Length <= 0 {
			return n, nil
		}
		if s.check != nil {
			if err := s.check(tok.Label); err != nil {
				if le, ok := err.(*LabelError); ok {
					le.Offset = pos
				}
				s.logger.Error("scanner produced illegal content type", "label", tok.Label.String(), "offset", pos)
				return n, err
			}
		}

		b.add(tok.Label, pos, tok.Length, state)
		n++
		pos += tok.Length
		state = tok.State

		if stop != nil && stop(pos, state) {
			return n, nil
		}
	}
}

// restartIndex returns the last region whose start no edit at editStart can
// have influenced, given the scanner's lookahead.
func (s *Store) restartIndex(editStart int) int {
	limit := editStart - s.scanner.Lookahead()
	i := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].Offset > limit
	}) - 1
	return max(i, 0)
}

// regionStartingAt finds the old region that starts exactly at offset.
func (s *Store) regionStartingAt(offset int) (int, bool) {
	i := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].Offset >= offset
	})
	if i < len(s.regions) && s.regions[i].Offset == offset {
		return i, true
	}
	return 0, false
}

// indexAt returns the index of the region containing offset, or the last
// index when offset is the buffer length. regions must not be empty.
func (s *Store) indexAt(offset int) int {
	i := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].End() > offset
	})
	if i == len(s.regions) {
		i--
	}
	return i
}

// splice replaces regions[first:last] with b and shifts the tail by delta,
// merging equal labels at both seams.
func (s *Store) splice(first, last, delta int, b *regionBuilder) {
	tail := len(s.regions) - last
	regions := make([]Region, 0, first+len(b.regions)+tail)
	starts := make([]State, 0, cap(regions))

	regions = append(regions, s.regions[:first]...)
	starts = append(starts, s.starts[:first]...)
	merged := regionBuilder{regions: regions, starts: starts}

	for i, r := range b.regions {
		merged.add(r.Label, r.Offset, r.Length, b.starts[i])
	}
	for i := last; i < len(s.regions); i++ {
		r := s.regions[i]
		merged.add(r.Label, r.Offset+delta, r.Length, s.starts[i])
	}

	s.regions = merged.regions
	s.starts = merged.starts
}

// regionBuilder accumulates tokens into maximal regions.
type regionBuilder struct {
	regions []Region
	starts  []State
}

func (b *regionBuilder) add(label Label, offset, length int, start State) {
	if n := len(b.regions); n > 0 && b.regions[n-1].Label == label {
		b.regions[n-1].Length += length
		return
	}
	b.regions = append(b.regions, Region{Label: label, Offset: offset, Length: length})
	b.starts = append(b.starts, start)
}
