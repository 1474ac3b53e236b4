package partition

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	labelText  Label = "text"
	labelNum   Label = "num"
	labelParen Label = "paren"
	labelBogus Label = "bogus"
)

const inParen State = 1

// parenScanner is a small grammar used to exercise the store: "(" ... ")"
// is paren (unterminated to the end), digit runs are num, everything else
// is text. A '!' is labeled bogus when bogus is set.
type parenScanner struct {
	r     Reader
	state State
	bogus bool
}

func (s *parenScanner) SetRange(src Source, offset, length int, state State) {
	s.r.Reset(src, offset, length)
	s.state = state
}

func (s *parenScanner) Lookahead() int {
	return 1
}

func (s *parenScanner) NextToken() Token {
	if s.r.EOF() {
		return Token{State: s.state}
	}

	start := s.r.Pos()
	c, _ := s.r.Current()
	switch {
	case s.state == inParen || c == '(':
		if s.state != inParen {
			s.r.Advance(1)
			s.state = inParen
		}
		for !s.r.EOF() {
			c, _ := s.r.Current()
			s.r.Advance(1)
			if c == ')' {
				s.state = 0
				break
			}
		}
		return Token{Label: labelParen, Length: s.r.Pos() - start, State: s.state}
	case s.bogus && c == '!':
		s.r.Advance(1)
		return Token{Label: labelBogus, Length: 1, State: s.state}
	case isDigit(c):
		for !s.r.EOF() {
			c, _ := s.r.Current()
			if !isDigit(c) {
				break
			}
			s.r.Advance(1)
		}
		return Token{Label: labelNum, Length: s.r.Pos() - start, State: s.state}
	}

	for !s.r.EOF() {
		c, _ := s.r.Current()
		if c == '(' || isDigit(c) || (s.bogus && c == '!') {
			break
		}
		s.r.Advance(1)
	}
	return Token{Label: labelText, Length: s.r.Pos() - start, State: s.state}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func newTestStore(t *testing.T, text string) *Store {
	t.Helper()
	s := NewStore(&parenScanner{})
	require.NoError(t, s.RebuildAll(StringSource(text)))
	return s
}

// edit applies a replacement to text and the store, returning the new text.
func edit(t *testing.T, s *Store, text string, start, end int, insert string) (string, Range) {
	t.Helper()
	next := text[:start] + insert + text[end:]
	damaged, err := s.ApplyEdit(Range{Start: start, End: end}, len(insert), StringSource(next))
	require.NoError(t, err)
	return next, damaged
}

func TestStoreRebuildAll(t *testing.T) {
	s := newTestStore(t, "ab12(x)cd")

	want := []Region{
		{Label: labelText, Offset: 0, Length: 2},
		{Label: labelNum, Offset: 2, Length: 2},
		{Label: labelParen, Offset: 4, Length: 3},
		{Label: labelText, Offset: 7, Length: 2},
	}
	assert.Equal(t, want, s.Regions())
	assert.Equal(t, 9, s.Len())
	assert.Equal(t, 1, s.Stats().Rebuilds)
	require.NoError(t, s.Validate())
}

func TestStoreMergesAdjacentTokens(t *testing.T) {
	s := newTestStore(t, "(a)(b)")

	assert.Equal(t, []Region{{Label: labelParen, Offset: 0, Length: 6}}, s.Regions())
	assert.Equal(t, []State{0}, s.starts)
}

func TestStoreEmpty(t *testing.T) {
	s := newTestStore(t, "")

	assert.Empty(t, s.Regions())
	require.NoError(t, s.Validate())

	r, err := s.RegionAt(0)
	require.NoError(t, err)
	assert.Equal(t, Region{Label: Undefined}, r)

	_, err = s.RegionAt(1)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	rs, err := s.RegionsIn(0, 0)
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestStoreRegionAt(t *testing.T) {
	s := newTestStore(t, "ab12cd")

	tests := []struct {
		offset int
		want   Label
	}{
		{0, labelText},
		{1, labelText},
		{2, labelNum},
		{3, labelNum},
		{4, labelText},
		{6, labelText},
	}
	for _, tt := range tests {
		r, err := s.RegionAt(tt.offset)
		if err != nil {
			t.Fatalf("RegionAt(%d) error: %v", tt.offset, err)
		}
		if r.Label != tt.want {
			t.Errorf("RegionAt(%d) = %s, want %s", tt.offset, r, tt.want)
		}
	}

	for _, off := range []int{-1, 7} {
		if _, err := s.RegionAt(off); !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("RegionAt(%d) error = %v, want ErrOffsetOutOfRange", off, err)
		}
	}
}

func TestStoreRegionsIn(t *testing.T) {
	s := newTestStore(t, "ab12cd(ef)")

	tests := []struct {
		name       string
		start, end int
		want       []Label
	}{
		{"whole", 0, 10, []Label{labelText, labelNum, labelText, labelParen}},
		{"inside one", 1, 2, []Label{labelText}},
		{"straddle", 1, 3, []Label{labelText, labelNum}},
		{"boundary end excluded", 0, 2, []Label{labelText}},
		{"empty at boundary", 2, 2, []Label{labelNum}},
		{"empty at end", 10, 10, []Label{labelParen}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := s.RegionsIn(tt.start, tt.end)
			require.NoError(t, err)
			var got []Label
			for _, r := range rs {
				got = append(got, r.Label)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	for _, r := range []Range{{-1, 2}, {3, 2}, {0, 11}} {
		_, err := s.RegionsIn(r.Start, r.End)
		assert.ErrorIs(t, err, ErrRangeInvalid, "RegionsIn%s", r)
	}
}

func TestStoreApplyEditRejectsBadRanges(t *testing.T) {
	s := newTestStore(t, "ab12")
	before := s.Regions()

	tests := []struct {
		name     string
		removed  Range
		inserted int
		newText  string
	}{
		{"negative start", Range{Start: -1, End: 0}, 0, "ab12"},
		{"reversed", Range{Start: 3, End: 2}, 0, "ab12"},
		{"past end", Range{Start: 2, End: 5}, 0, "ab"},
		{"negative insert", Range{Start: 0, End: 0}, -1, "ab12"},
		{"length mismatch", Range{Start: 0, End: 1}, 0, "ab12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ApplyEdit(tt.removed, tt.inserted, StringSource(tt.newText))
			assert.ErrorIs(t, err, ErrRangeInvalid)
			assert.Equal(t, before, s.Regions())
			assert.Equal(t, 4, s.Len())
		})
	}
}

func TestStoreApplyEditLocal(t *testing.T) {
	text := strings.Repeat("ab12", 50)
	s := newTestStore(t, text)
	regions := len(s.Regions())

	text, damaged := edit(t, s, text, 101, 101, "x")

	stats := s.Stats()
	assert.LessOrEqual(t, stats.LastScanned, 4, "repair should rescan a handful of tokens")
	assert.LessOrEqual(t, stats.LastReplaced, 3)
	assert.Len(t, s.Regions(), regions)
	assert.LessOrEqual(t, damaged.Start, 101)
	assert.GreaterOrEqual(t, damaged.End, 102)
	assert.Less(t, damaged.Len(), 10)
	assertMatchesRebuild(t, s, text)
}

func TestStoreApplyEditPropagatesState(t *testing.T) {
	text := "ab12cd34ef"
	s := newTestStore(t, text)

	text, damaged := edit(t, s, text, 2, 2, "(")
	assert.Equal(t, []Region{
		{Label: labelText, Offset: 0, Length: 2},
		{Label: labelParen, Offset: 2, Length: 9},
	}, s.Regions())
	assert.Equal(t, Range{Start: 0, End: 11}, damaged)

	text, _ = edit(t, s, text, 6, 6, ")")
	assert.Equal(t, []Region{
		{Label: labelText, Offset: 0, Length: 2},
		{Label: labelParen, Offset: 2, Length: 5},
		{Label: labelText, Offset: 7, Length: 1},
		{Label: labelNum, Offset: 8, Length: 2},
		{Label: labelText, Offset: 10, Length: 2},
	}, s.Regions())
	assertMatchesRebuild(t, s, text)
}

func TestStoreApplyEditDeleteAll(t *testing.T) {
	text := "ab(12)cd"
	s := newTestStore(t, text)

	text, damaged := edit(t, s, text, 0, len(text), "")
	assert.Empty(t, text)
	assert.Empty(t, s.Regions())
	assert.Equal(t, Range{}, damaged)
	require.NoError(t, s.Validate())

	text, _ = edit(t, s, text, 0, 0, "9x")
	assert.Equal(t, []Region{
		{Label: labelNum, Offset: 0, Length: 1},
		{Label: labelText, Offset: 1, Length: 1},
	}, s.Regions())
	assertMatchesRebuild(t, s, text)
}

func TestStoreIllegalLabelKeepsRegions(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	s := NewStore(&parenScanner{bogus: true}, WithLogger(logger))
	s.check = func(l Label) error {
		if l == labelBogus {
			return &LabelError{Scheme: "test", Label: l}
		}
		return nil
	}

	require.NoError(t, s.RebuildAll(StringSource("ab12")))
	before := s.Regions()

	err := s.RebuildAll(StringSource("ab!2"))
	require.ErrorIs(t, err, ErrIllegalLabel)

	var le *LabelError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Offset)
	assert.Equal(t, before, s.Regions())
	assert.Contains(t, logs.String(), "illegal content type")
}

func TestStoreValidate(t *testing.T) {
	s := newTestStore(t, "ab12")

	s.regions[1].Offset = 3
	err := s.Validate()
	require.ErrorIs(t, err, ErrInvariant)

	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.Index)
}

func TestStoreRecoversFromInvariantViolation(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	s := NewStore(&parenScanner{}, WithLogger(logger))
	s.check = func(l Label) error {
		if l == labelBogus {
			return &LabelError{Scheme: "test", Label: l}
		}
		return nil
	}
	require.NoError(t, s.RebuildAll(StringSource("ab12cd")))

	// Corrupt the tail, which the repair shifts without rescanning.
	s.regions[2].Label = labelBogus

	damaged, err := s.ApplyEdit(Range{Start: 0, End: 0}, 1, StringSource("xab12cd"))
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 0, End: 7}, damaged)
	require.NoError(t, s.Validate())
	assert.Equal(t, labelText, s.Regions()[2].Label)
	assert.Contains(t, logs.String(), "partition invariant violated")
	assert.Equal(t, 2, s.Stats().Rebuilds)
}

func TestStoreInvariantChecksDisabled(t *testing.T) {
	s := NewStore(&parenScanner{}, WithInvariantChecks(false))
	require.NoError(t, s.RebuildAll(StringSource("ab12")))

	_, err := s.ApplyEdit(Range{Start: 4, End: 4}, 1, StringSource("ab12c"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats().Rebuilds)
	assert.Equal(t, 1, s.Stats().Repairs)
}

// assertMatchesRebuild checks that s holds exactly what a fresh rebuild of
// text produces, including recorded start states.
func assertMatchesRebuild(t require.TestingT, s *Store, text string) {
	require.Equal(t, len(text), s.Len())
	if text == "" {
		require.Empty(t, s.regions)
		require.Empty(t, s.starts)
		return
	}

	fresh := NewStore(&parenScanner{})
	require.NoError(t, fresh.RebuildAll(StringSource(text)))
	require.Equal(t, fresh.regions, s.regions, "regions for %q", text)
	require.Equal(t, fresh.starts, s.starts, "start states for %q", text)
}

func TestStoreRepairMatchesRebuild(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		alphabet := rapid.SampledFrom([]string{"a", "b", "1", "2", "(", ")", " "})
		gen := rapid.SliceOfN(alphabet, 0, 40)

		text := strings.Join(gen.Draw(rt, "initial"), "")
		s := NewStore(&parenScanner{})
		require.NoError(rt, s.RebuildAll(StringSource(text)))

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			start := rapid.IntRange(0, len(text)).Draw(rt, "start")
			end := rapid.IntRange(start, len(text)).Draw(rt, "end")
			insert := strings.Join(rapid.SliceOfN(alphabet, 0, 6).Draw(rt, "insert"), "")

			next := text[:start] + insert + text[end:]
			damaged, err := s.ApplyEdit(Range{Start: start, End: end}, len(insert), StringSource(next))
			require.NoError(rt, err)
			text = next

			require.NoError(rt, s.Validate())
			require.LessOrEqual(rt, damaged.Start, start)
			require.LessOrEqual(rt, damaged.End, len(text))
			assertMatchesRebuild(rt, s, text)
		}
	})
}

func TestStoreCoverage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[ab12() ]{0,60}`).Draw(rt, "text")
		s := NewStore(&parenScanner{})
		require.NoError(rt, s.RebuildAll(StringSource(text)))
		require.NoError(rt, s.Validate())

		for off := 0; off <= len(text); off++ {
			r, err := s.RegionAt(off)
			require.NoError(rt, err)
			if off < len(text) {
				require.True(rt, r.Contains(off), "RegionAt(%d) = %s", off, r)
			}
			again, err := s.RegionAt(off)
			require.NoError(rt, err)
			require.Equal(rt, r, again)
		}
	})
}

func BenchmarkStoreApplyEdit(b *testing.B) {
	text := strings.Repeat("ab12(cd)ef ", 10000)
	s := NewStore(&parenScanner{}, WithInvariantChecks(false))
	if err := s.RebuildAll(StringSource(text)); err != nil {
		b.Fatal(err)
	}

	mid := len(text) / 2
	inserted := text[:mid] + "x" + text[mid:]
	src := [2]StringSource{StringSource(inserted), StringSource(text)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			_, _ = s.ApplyEdit(Range{Start: mid, End: mid}, 1, src[0])
		} else {
			_, _ = s.ApplyEdit(Range{Start: mid, End: mid + 1}, 0, src[1])
		}
	}
}
