package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testLabels = []Label{labelText, labelNum, labelParen}

func newTestScheme(t *testing.T, text string, bogus bool) *Scheme {
	t.Helper()
	sc := NewScheme("test", &parenScanner{bogus: bogus}, testLabels)
	require.NoError(t, sc.Connect(StringSource(text)))
	return sc
}

func TestSchemeNotConnected(t *testing.T) {
	sc := NewScheme("test", &parenScanner{}, testLabels)

	assert.False(t, sc.Connected())
	assert.Equal(t, "test", sc.Name())

	_, err := sc.RegionAt(0, false)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = sc.RegionsIn(0, 0)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = sc.DocumentChanged(Range{}, 0)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSchemeLegalLabels(t *testing.T) {
	sc := NewScheme("test", &parenScanner{}, testLabels)

	labels := sc.LegalLabels()
	assert.Equal(t, testLabels, labels)

	labels[0] = labelBogus
	assert.Equal(t, labelText, sc.LegalLabels()[0], "LegalLabels must return a copy")
}

func TestSchemeConnectRejectsIllegalLabel(t *testing.T) {
	sc := NewScheme("test", &parenScanner{bogus: true}, testLabels)

	err := sc.Connect(StringSource("ab!"))
	require.ErrorIs(t, err, ErrIllegalLabel)
	assert.Contains(t, err.Error(), "connecting test partitioning")
	assert.False(t, sc.Connected())
}

func TestSchemeDocumentChangedIllegalLabelDisconnects(t *testing.T) {
	text := &mutableSource{text: "ab12"}
	sc := NewScheme("test", &parenScanner{bogus: true}, testLabels)
	require.NoError(t, sc.Connect(text))

	text.text = "ab!12"
	_, err := sc.DocumentChanged(Range{Start: 2, End: 2}, 1)
	require.ErrorIs(t, err, ErrIllegalLabel)

	var le *LabelError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "test", le.Scheme)
	assert.Equal(t, labelBogus, le.Label)
	assert.Equal(t, 2, le.Offset)
	assert.False(t, sc.Connected())
	assert.Empty(t, sc.Regions())
}

func TestSchemeRegionAtEmptyBuffer(t *testing.T) {
	text := &mutableSource{}
	sc := NewScheme("test", &parenScanner{}, testLabels)
	require.NoError(t, sc.Connect(text))

	for _, preferOpen := range []bool{false, true} {
		r, err := sc.RegionAt(0, preferOpen)
		require.NoError(t, err)
		assert.Equal(t, Region{Label: Undefined}, r, "preferOpen=%v", preferOpen)
		assert.Zero(t, r.Length)
	}

	// Once there is text, every answer is a scanned, non-empty region.
	text.text = "ab12"
	_, err := sc.DocumentChanged(Range{Start: 0, End: 0}, 4)
	require.NoError(t, err)
	r, err := sc.RegionAt(0, true)
	require.NoError(t, err)
	assert.NotEqual(t, Undefined, r.Label)
	assert.Positive(t, r.Length)
}

func TestSchemeDocumentChanged(t *testing.T) {
	text := &mutableSource{text: "ab12"}
	sc := NewScheme("test", &parenScanner{}, testLabels)
	require.NoError(t, sc.Connect(text))

	text.text = "ab(12"
	damaged, err := sc.DocumentChanged(Range{Start: 2, End: 2}, 1)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 0, End: 5}, damaged)

	r, err := sc.RegionAt(4, false)
	require.NoError(t, err)
	assert.Equal(t, Region{Label: labelParen, Offset: 2, Length: 3}, r)
	require.NoError(t, sc.Validate())
	assert.Equal(t, 1, sc.Stats().Repairs)
}

func TestSchemeRegionAtBoundary(t *testing.T) {
	// "aa11": text[0:2) num[2:4)
	sc := newTestScheme(t, "aa11", false)

	text := Region{Label: labelText, Offset: 0, Length: 2}
	num := Region{Label: labelNum, Offset: 2, Length: 2}

	tests := []struct {
		offset     int
		preferOpen bool
		want       Region
	}{
		{0, false, text},
		{0, true, text},
		{1, false, text},
		{1, true, text},
		{2, false, num},
		{2, true, text},
		{3, false, num},
		{3, true, num},
		{4, false, num},
		{4, true, num},
	}

	for _, tt := range tests {
		got, err := sc.RegionAt(tt.offset, tt.preferOpen)
		if err != nil {
			t.Fatalf("RegionAt(%d, %v) error: %v", tt.offset, tt.preferOpen, err)
		}
		if got != tt.want {
			t.Errorf("RegionAt(%d, %v) = %s, want %s", tt.offset, tt.preferOpen, got, tt.want)
		}
	}

	_, err := sc.RegionAt(5, true)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestSchemeRegionAtIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[ab12()]{1,40}`).Draw(rt, "text")
		sc := NewScheme("test", &parenScanner{}, testLabels)
		require.NoError(rt, sc.Connect(StringSource(text)))

		offset := rapid.IntRange(0, len(text)).Draw(rt, "offset")
		preferOpen := rapid.Bool().Draw(rt, "preferOpen")

		first, err := sc.RegionAt(offset, preferOpen)
		require.NoError(rt, err)
		second, err := sc.RegionAt(offset, preferOpen)
		require.NoError(rt, err)
		require.Equal(rt, first, second)

		// Both answers touch the offset: the region contains it or ends there.
		require.True(rt, first.Offset <= offset && offset <= first.End())
		if preferOpen && offset > 0 {
			require.Greater(rt, offset, first.Offset)
		}
	})
}

// mutableSource is a Source whose text tests replace between edits.
type mutableSource struct {
	text string
}

func (s *mutableSource) Len() int {
	return len(s.text)
}

func (s *mutableSource) Slice(start, end int) string {
	return s.text[start:end]
}
