package buffer

import (
	"errors"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SetText replaces the whole content with text. The difference between the
// old and new content is computed first and applied as a sequence of
// edits, so listeners see small local changes instead of one replacement of
// everything. It returns the applied changes in order.
//
// The edits are applied one at a time; readers on other goroutines may
// observe intermediate states.
func (b *Buffer) SetText(text string) ([]Change, error) {
	text = b.normalizeLineEndings(text)
	old := b.Text()
	if old == text {
		return nil, nil
	}

	diffs := diffBytes(old, text)

	var (
		changes []Change
		errs    []error
		offset  int
	)
	// The fragments are already normalized. A fragment may start or end
	// inside a CRLF pair, so it must not be normalized again.
	apply := func(e Edit) bool {
		c, err := b.apply(e, false)
		if err != nil {
			errs = append(errs, err)
			if c.Revision == 0 {
				return false
			}
		}
		changes = append(changes, c)
		offset = c.NewRange().End
		return true
	}

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			offset += len(d.Text)
		case diffmatchpatch.DiffDelete:
			insert := ""
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				insert = diffs[i+1].Text
				i++
			}
			if !apply(NewEdit(Range{Start: offset, End: offset + len(d.Text)}, insert)) {
				return changes, errors.Join(errs...)
			}
		case diffmatchpatch.DiffInsert:
			if !apply(NewInsert(offset, d.Text)) {
				return changes, errors.Join(errs...)
			}
		}
	}

	return changes, errors.Join(errs...)
}

// diffBytes returns the edit script from old to text with every fragment
// holding the exact bytes of its input. diffmatchpatch works on runes, which
// would turn invalid UTF-8 into U+FFFD, so such input is diffed one rune
// per byte and mapped back.
func diffBytes(old, text string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	if utf8.ValidString(old) && utf8.ValidString(text) {
		return dmp.DiffCleanupEfficiency(dmp.DiffMain(old, text, false))
	}

	diffs := dmp.DiffCleanupEfficiency(dmp.DiffMainRunes(byteRunes(old), byteRunes(text), false))
	for i := range diffs {
		runes := []rune(diffs[i].Text)
		raw := make([]byte, len(runes))
		for j, r := range runes {
			raw[j] = byte(r)
		}
		diffs[i].Text = string(raw)
	}
	return diffs
}

// byteRunes maps each byte of s to the rune of the same value.
func byteRunes(s string) []rune {
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return runes
}
