package partition

import (
	"errors"
	"fmt"
	"slices"
)

// Scheme pairs a scanner and a store with a closed set of legal labels.
// A buffer typically carries several independent schemes.
type Scheme struct {
	name  string
	legal []Label
	store *Store
	src   Source
}

// NewScheme creates a disconnected scheme. Connect must be called before
// any query.
func NewScheme(name string, scanner Scanner, legal []Label, opts ...Option) *Scheme {
	sc := &Scheme{
		name:  name,
		legal: slices.Clone(legal),
	}
	sc.store = NewStore(scanner, opts...)
	sc.store.check = sc.checkLabel
	return sc
}

// Name returns the scheme name.
func (sc *Scheme) Name() string {
	return sc.name
}

// LegalLabels returns the declared label set. Undefined is implicitly legal.
func (sc *Scheme) LegalLabels() []Label {
	return slices.Clone(sc.legal)
}

// Connect attaches the scheme to src and partitions it from scratch.
func (sc *Scheme) Connect(src Source) error {
	if err := sc.store.RebuildAll(src); err != nil {
		sc.Disconnect()
		return fmt.Errorf("connecting %s partitioning: %w", sc.name, err)
	}
	sc.src = src
	return nil
}

// Disconnect detaches the scheme and drops its region list.
func (sc *Scheme) Disconnect() {
	sc.src = nil
	sc.store.reset()
}

// Connected returns true while the scheme is attached to a source.
func (sc *Scheme) Connected() bool {
	return sc.src != nil
}

// DocumentChanged repairs the partitioning after removed (old coordinates)
// was replaced by insertedLength bytes in the connected source. It returns
// the rescanned span in new coordinates.
//
// An illegal label disconnects the scheme: the scanner and the scheme
// disagree and every later answer would be wrong.
func (sc *Scheme) DocumentChanged(removed Range, insertedLength int) (Range, error) {
	if sc.src == nil {
		return Range{}, ErrNotConnected
	}

	damaged, err := sc.store.ApplyEdit(removed, insertedLength, sc.src)
	if err != nil {
		if errors.Is(err, ErrIllegalLabel) {
			sc.Disconnect()
		}
		return Range{}, fmt.Errorf("%s partitioning: %w", sc.name, err)
	}
	return damaged, nil
}

// RegionAt returns the region at offset. When preferOpen is set and offset
// sits exactly on the start of a region (offset > 0), the region ending at
// offset is returned instead.
//
// Labels always come from scanned tokens. The one exception is an empty
// buffer, where every scheme answers offset 0 with the zero-length
// Undefined region: there is no text to classify, and a zero length marks
// the answer as "no region" rather than a region of Undefined content.
func (sc *Scheme) RegionAt(offset int, preferOpen bool) (Region, error) {
	if sc.src == nil {
		return Region{}, ErrNotConnected
	}

	r, err := sc.store.RegionAt(offset)
	if err != nil {
		return Region{}, err
	}
	if preferOpen && offset > 0 && offset == r.Offset {
		return sc.store.RegionAt(offset - 1)
	}
	return r, nil
}

// Regions returns every region in ascending order.
func (sc *Scheme) Regions() []Region {
	return sc.store.Regions()
}

// RegionsIn returns the regions overlapping [start, end) in ascending order.
func (sc *Scheme) RegionsIn(start, end int) ([]Region, error) {
	if sc.src == nil {
		return nil, ErrNotConnected
	}
	return sc.store.RegionsIn(start, end)
}

// Validate checks the region list invariants.
func (sc *Scheme) Validate() error {
	return sc.store.Validate()
}

// Stats returns the underlying store's counters.
func (sc *Scheme) Stats() Stats {
	return sc.store.Stats()
}

func (sc *Scheme) checkLabel(l Label) error {
	if l == Undefined || slices.Contains(sc.legal, l) {
		return nil
	}
	return &LabelError{Scheme: sc.name, Label: l}
}
