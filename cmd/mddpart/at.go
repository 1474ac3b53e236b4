package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/mddtext/internal/engine"
)

func (c *cli) atCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "at FILE POSITION",
		Short: "Show the region at a position",
		Long: `Show the region at a position.

POSITION is a byte offset or a 1-based LINE:COL. An offset on a region
boundary belongs to the region starting there; --prefer-open selects the
region ending there instead.

Examples:
  mddpart at letter.mdd 13
  mddpart at --prefer-open letter.mdd 13
  mddpart at --scheme replace letter.mdd 2:7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openEditor(cmd, args[0])
			if err != nil {
				return err
			}
			defer ed.Close()
			doc := ed.Document()

			offset, err := parsePosition(doc, args[1])
			if err != nil {
				return err
			}

			scheme, _ := cmd.Flags().GetString("scheme")
			q, err := lookupScheme(doc, scheme)
			if err != nil {
				return err
			}

			preferOpen, _ := cmd.Flags().GetBool("prefer-open")
			r, err := q.at(offset, preferOpen)
			if err != nil {
				return err
			}

			p := c.printer(cmd)
			if !p.json {
				_, err := fmt.Fprintln(p.out, p.regionLine(doc, r))
				return err
			}

			js, err := header(ed.Name(), scheme, doc)
			if err != nil {
				return err
			}
			for _, f := range []struct {
				key   string
				value any
			}{
				{"offset", offset},
				{"preferOpen", preferOpen},
			} {
				if js, err = sjson.Set(js, f.key, f.value); err != nil {
					return err
				}
			}
			if js, err = setRegion(js, "region", doc, r); err != nil {
				return err
			}
			return p.writeJSON(js)
		},
	}

	addSchemeFlag(cmd)
	addJSONFlag(cmd)
	cmd.Flags().Bool("prefer-open", false, "on a boundary, report the region ending there")
	return cmd
}

// parsePosition accepts a byte offset or a 1-based LINE:COL.
func parsePosition(doc *engine.Document, s string) (int, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		offset, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q: want OFFSET or LINE:COL", s)
		}
		return offset, nil
	}

	l, err := strconv.Atoi(line)
	if err != nil || l < 1 {
		return 0, fmt.Errorf("invalid line in %q", s)
	}
	c, err := strconv.Atoi(col)
	if err != nil || c < 1 {
		return 0, fmt.Errorf("invalid column in %q", s)
	}
	return doc.PointToOffset(engine.Point{Line: l - 1, Column: c - 1})
}
