package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/mddtext/internal/app"
	"github.com/dshills/mddtext/internal/config"
	"github.com/dshills/mddtext/internal/engine"
	"github.com/dshills/mddtext/internal/engine/partition"
	"github.com/dshills/mddtext/internal/engine/partition/mdd"
)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

// newRootCmd builds the command tree. Settings resolve as flags over
// MDDPART_* environment variables over the config file over defaults.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:     "mddpart",
		Short:   "Inspect the partitioning of MDD documents",
		Long:    `Inspect how MDD documents split into read-only, tag, keyword, comment and editable regions, and which spans are replace regions.`,
		Version: version,

		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (.toml, .yaml or .yml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")

	_ = c.v.BindPFlag("config", pf.Lookup("config"))
	_ = c.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = c.v.BindPFlag("logging.format", pf.Lookup("log-format"))
	_ = c.v.BindPFlag("no_color", pf.Lookup("no-color"))

	c.v.SetEnvPrefix("MDDPART")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(c.regionsCmd(), c.atCmd(), c.watchCmd())
	return root
}

func (c *cli) initConfig() error {
	cfg := config.Default()
	if path := c.v.GetString("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if c.v.IsSet("logging.level") {
		cfg.Logging.Level = c.v.GetString("logging.level")
	}
	if c.v.IsSet("logging.format") {
		cfg.Logging.Format = c.v.GetString("logging.format")
	}
	if c.v.IsSet("watch.debounce") {
		cfg.Watch.Debounce = c.v.GetString("watch.debounce")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = app.NewLogger(app.LoggerConfig{
		Level:     app.ParseLogLevel(cfg.Logging.Level),
		Format:    app.ParseLogFormat(cfg.Logging.Format),
		Output:    c.errOut,
		Component: "mddpart",
	})
	return nil
}

// openEditor opens name read-only; "-" reads standard input.
func (c *cli) openEditor(cmd *cobra.Command, name string) (*app.Editor, error) {
	var in app.Input
	if name == "-" {
		r, err := app.NewReaderInput("stdin", cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		in = r
	} else {
		f, err := app.NewFileInput(name)
		if err != nil {
			return nil, err
		}
		in = f
	}

	syntax, err := c.cfg.Syntax.ToMDD()
	if err != nil {
		return nil, err
	}

	ed := app.NewEditor(in,
		app.WithEditorLogger(c.logger),
		app.WithDocumentOptions(
			engine.WithSyntax(syntax),
			engine.WithInvariantChecks(c.cfg.Partition.CheckInvariants),
			engine.WithReadOnly(),
		),
	)
	if err := ed.Open(); err != nil {
		return nil, err
	}
	return ed, nil
}

func (c *cli) printer(cmd *cobra.Command) *printer {
	jsonOut, _ := cmd.Flags().GetBool("json")
	return newPrinter(c.out, jsonOut, c.v.GetBool("no_color"))
}

// schemeFuncs returns the queries of the named scheme.
type schemeFuncs struct {
	at func(offset int, preferOpen bool) (partition.Region, error)
	in func(start, end int) ([]partition.Region, error)
}

func lookupScheme(doc *engine.Document, name string) (schemeFuncs, error) {
	switch name {
	case mdd.StandardScheme:
		return schemeFuncs{at: doc.Partition, in: doc.Partitions}, nil
	case mdd.ReplaceScheme:
		return schemeFuncs{at: doc.ReplaceRegion, in: doc.ReplaceRegions}, nil
	default:
		return schemeFuncs{}, fmt.Errorf("unknown scheme %q: want %s or %s", name, mdd.StandardScheme, mdd.ReplaceScheme)
	}
}

func addSchemeFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("scheme", "s", mdd.StandardScheme, "partitioning scheme: standard, replace")
}

func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "write JSON instead of text")
}
