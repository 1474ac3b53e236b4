package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/mddtext/internal/app"
	"github.com/dshills/mddtext/internal/engine"
	"github.com/dshills/mddtext/internal/engine/partition"
	"github.com/dshills/mddtext/internal/engine/partition/mdd"
	"github.com/dshills/mddtext/internal/project/watcher"
)

func (c *cli) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Print the regions that change as a file is edited",
		Long: `Watch a file and, after each change, print the span whose partitioning
was rescanned and the regions now in it.

The file is reloaded as a minimal sequence of edits, so only the changed
spans are rescanned. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return errors.New("watch needs a file, not standard input")
			}

			ed, err := c.openEditor(cmd, args[0])
			if err != nil {
				return err
			}
			defer ed.Close()

			scheme, _ := cmd.Flags().GetString("scheme")
			if _, err := lookupScheme(ed.Document(), scheme); err != nil {
				return err
			}

			w, err := watcher.New(args[0],
				watcher.WithDebounceDelay(c.cfg.DebounceDuration()),
				watcher.WithLogger(c.logger),
			)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := c.printer(cmd)
			c.logger.Info("watching", "file", ed.Name(), "scheme", scheme)
			watcher.Run(ctx, w,
				func(ev watcher.Event) {
					if err := c.reload(p, ed, scheme, ev); err != nil {
						c.logger.Error("reload failed", "file", ed.Name(), "error", err)
					}
				},
				func(err error) {
					c.logger.Warn("watch error", "file", ed.Name(), "error", err)
				},
			)
			return nil
		},
	}

	addSchemeFlag(cmd)
	addJSONFlag(cmd)
	cmd.Flags().String("debounce", "", "delay before reloading after a change, e.g. 250ms (default from config)")
	_ = c.v.BindPFlag("watch.debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}

// reload applies a watcher event to ed and prints the rescanned span.
func (c *cli) reload(p *printer, ed *app.Editor, scheme string, ev watcher.Event) error {
	if !ev.Op.Changed() {
		if ev.Op.Gone() {
			c.logger.Warn("file moved or removed", "file", ev.Path, "op", ev.Op.String())
		}
		return nil
	}

	damage, err := ed.Reload(true)
	if err != nil {
		return err
	}
	if damage == (engine.Damage{}) {
		return nil
	}
	span := damage.Standard
	if scheme == mdd.ReplaceScheme {
		span = damage.Replace
	}

	doc := ed.Document()
	q, err := lookupScheme(doc, scheme)
	if err != nil {
		return err
	}
	regions, err := q.in(span.Start, span.End)
	if err != nil {
		return err
	}

	if !p.json {
		if _, err := fmt.Fprintf(p.out, "changed %s (%s)\n", span, ev.Op); err != nil {
			return err
		}
		return p.writeRegions(doc, regions)
	}
	return p.writeJSON(changeJSON(ed.Name(), scheme, ev, span, doc, regions))
}

func changeJSON(name, scheme string, ev watcher.Event, span partition.Range, doc *engine.Document, regions []partition.Region) string {
	js, err := header(name, scheme, doc)
	if err == nil {
		js, err = sjson.Set(js, "op", ev.Op.String())
	}
	if err == nil {
		js, err = sjson.Set(js, "damage.start", span.Start)
	}
	if err == nil {
		js, err = sjson.Set(js, "damage.end", span.End)
	}
	if err == nil {
		js, err = setRegions(js, "regions", doc, regions)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return js
}
