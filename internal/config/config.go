package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/mddtext/internal/engine/partition/mdd"
)

// Config is the full mddpart configuration.
type Config struct {
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Syntax    SyntaxConfig    `toml:"syntax" yaml:"syntax"`
	Partition PartitionConfig `toml:"partition" yaml:"partition"`
	Watch     WatchConfig     `toml:"watch" yaml:"watch"`
}

// LoggingConfig controls the slog logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" yaml:"format"`
}

// SyntaxConfig holds the MDD markers. Tag and keyword markers are single
// bytes.
type SyntaxConfig struct {
	CommentOpen   string `toml:"commentOpen" yaml:"commentOpen"`
	CommentClose  string `toml:"commentClose" yaml:"commentClose"`
	ReadOnlyOpen  string `toml:"readOnlyOpen" yaml:"readOnlyOpen"`
	ReadOnlyClose string `toml:"readOnlyClose" yaml:"readOnlyClose"`
	TagOpen       string `toml:"tagOpen" yaml:"tagOpen"`
	TagClose      string `toml:"tagClose" yaml:"tagClose"`
	KeywordPrefix string `toml:"keywordPrefix" yaml:"keywordPrefix"`
	ReplaceOpen   string `toml:"replaceOpen" yaml:"replaceOpen"`
	ReplaceClose  string `toml:"replaceClose" yaml:"replaceClose"`
}

// PartitionConfig controls the partition stores.
type PartitionConfig struct {
	// CheckInvariants validates the region list after every repair.
	CheckInvariants bool `toml:"checkInvariants" yaml:"checkInvariants"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	// Debounce is a time.ParseDuration string.
	Debounce string `toml:"debounce" yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	s := mdd.DefaultSyntax()
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Syntax: SyntaxConfig{
			CommentOpen:   s.CommentOpen,
			CommentClose:  s.CommentClose,
			ReadOnlyOpen:  s.ReadOnlyOpen,
			ReadOnlyClose: s.ReadOnlyClose,
			TagOpen:       string(s.TagOpen),
			TagClose:      string(s.TagClose),
			KeywordPrefix: string(s.KeywordPrefix),
			ReplaceOpen:   s.ReplaceOpen,
			ReplaceClose:  s.ReplaceClose,
		},
		Partition: PartitionConfig{
			CheckInvariants: true,
		},
		Watch: WatchConfig{
			Debounce: "100ms",
		},
	}
}

// Validate checks every section and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level})
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, &ValidationError{Path: "logging.format", Message: "must be text or json", Value: c.Logging.Format})
	}

	if _, err := c.Syntax.ToMDD(); err != nil {
		errs = append(errs, &ValidationError{Path: "syntax", Message: err.Error(), Value: c.Syntax})
	}

	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		errs = append(errs, &ValidationError{Path: "watch.debounce", Message: "must be a non-negative duration", Value: c.Watch.Debounce})
	}

	return errors.Join(errs...)
}

// DebounceDuration returns the parsed watch debounce, or zero if it does
// not parse.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0
	}
	return d
}

// ToMDD converts the markers to an mdd.Syntax and validates it.
func (s SyntaxConfig) ToMDD() (mdd.Syntax, error) {
	bytes := make(map[string]byte, 3)
	for name, v := range map[string]string{"tagOpen": s.TagOpen, "tagClose": s.TagClose, "keywordPrefix": s.KeywordPrefix} {
		if len(v) != 1 {
			return mdd.Syntax{}, fmt.Errorf("%w: %s must be a single byte, got %q", mdd.ErrInvalidSyntax, name, v)
		}
		bytes[name] = v[0]
	}

	syntax := mdd.Syntax{
		CommentOpen:   s.CommentOpen,
		CommentClose:  s.CommentClose,
		ReadOnlyOpen:  s.ReadOnlyOpen,
		ReadOnlyClose: s.ReadOnlyClose,
		TagOpen:       bytes["tagOpen"],
		TagClose:      bytes["tagClose"],
		KeywordPrefix: bytes["keywordPrefix"],
		ReplaceOpen:   s.ReplaceOpen,
		ReplaceClose:  s.ReplaceClose,
	}
	if err := syntax.Validate(); err != nil {
		return mdd.Syntax{}, err
	}
	return syntax, nil
}
