package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/mddtext/internal/engine"
	"github.com/dshills/mddtext/internal/engine/partition"
	"github.com/dshills/mddtext/internal/engine/partition/mdd"
)

const defaultPreviewWidth = 40

var labelColors = map[partition.Label]lipgloss.Color{
	mdd.ReadOnly:        lipgloss.Color("9"),
	mdd.ReadWrite:       lipgloss.Color("10"),
	mdd.Tag:             lipgloss.Color("12"),
	mdd.Keyword:         lipgloss.Color("13"),
	mdd.Comment:         lipgloss.Color("8"),
	partition.Undefined: lipgloss.Color("7"),
}

// printer writes regions as aligned text or JSON.
type printer struct {
	out     io.Writer
	json    bool
	color   bool
	preview int
}

// newPrinter colors text output only when out is a terminal and color
// is not disabled. The preview width follows the terminal width.
func newPrinter(out io.Writer, jsonOut, noColor bool) *printer {
	p := &printer{out: out, json: jsonOut, preview: defaultPreviewWidth}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.color = !noColor
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 60 {
			p.preview = w - 40
		}
	}
	return p
}

func (p *printer) label(l partition.Label) string {
	s := fmt.Sprintf("%-14s", l)
	if !p.color {
		return s
	}
	c, ok := labelColors[l]
	if !ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// regionLine formats one region for text output.
func (p *printer) regionLine(doc *engine.Document, r partition.Region) string {
	pos := "-"
	if pt, err := doc.OffsetToPoint(r.Offset); err == nil {
		pos = fmt.Sprintf("%d:%d", pt.Line+1, pt.Column+1)
	}
	text, _ := doc.TextRange(r.Offset, r.End())
	return fmt.Sprintf("%s %-12s %-8s %s", p.label(r.Label), fmt.Sprintf("[%d:%d)", r.Offset, r.End()), pos,
		strconv.Quote(truncate(text, p.preview)))
}

// truncate cuts s to at most width display columns by grapheme cluster,
// marking a cut with an ellipsis.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	col := 0
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		w := uniseg.StringWidth(cluster)
		if col+w > width-1 {
			break
		}
		b.WriteString(cluster)
		col += w
		s = rest
		state = newState
	}
	b.WriteString("…")
	return b.String()
}

// setRegion writes r under path in js.
func setRegion(js, path string, doc *engine.Document, r partition.Region) (string, error) {
	text, _ := doc.TextRange(r.Offset, r.End())
	fields := []struct {
		key   string
		value any
	}{
		{"label", r.Label.String()},
		{"offset", r.Offset},
		{"length", r.Length},
		{"end", r.End()},
		{"text", text},
	}

	var err error
	for _, f := range fields {
		if js, err = sjson.Set(js, path+"."+f.key, f.value); err != nil {
			return "", err
		}
	}
	return js, nil
}

func setRegions(js, path string, doc *engine.Document, regions []partition.Region) (string, error) {
	js, err := sjson.SetRaw(js, path, "[]")
	if err != nil {
		return "", err
	}
	for i, r := range regions {
		if js, err = setRegion(js, fmt.Sprintf("%s.%d", path, i), doc, r); err != nil {
			return "", err
		}
	}
	return js, nil
}

// header sets the fields every JSON document carries.
func header(name, scheme string, doc *engine.Document) (string, error) {
	js, err := sjson.Set("{}", "file", name)
	if err != nil {
		return "", err
	}
	if js, err = sjson.Set(js, "scheme", scheme); err != nil {
		return "", err
	}
	return sjson.Set(js, "length", doc.Len())
}

func (p *printer) writeJSON(js string) error {
	_, err := fmt.Fprintln(p.out, js)
	return err
}

func (p *printer) writeRegions(doc *engine.Document, regions []partition.Region) error {
	for _, r := range regions {
		if _, err := fmt.Fprintln(p.out, p.regionLine(doc, r)); err != nil {
			return err
		}
	}
	return nil
}
