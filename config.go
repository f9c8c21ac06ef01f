package sawmill

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Format names a built-in formatter.
type Format string

const (
	// FormatHuman selects the colorized development formatter.
	FormatHuman Format = "human"
	// FormatDelimited selects the pipe-delimited key=value formatter.
	FormatDelimited Format = "delimited"
	// FormatStructured selects the single-line JSON formatter.
	FormatStructured Format = "structured"
)

// ErrInvalidFormat indicates an unrecognized log format name.
var ErrInvalidFormat = errors.New("invalid log format")

// ParseFormat parses a format name, case-insensitively. Common aliases are
// accepted: "dev" and "text" for human, "pipe" for delimited, "json" for
// structured.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "human", "dev", "text":
		return FormatHuman, nil
	case "delimited", "pipe":
		return FormatDelimited, nil
	case "structured", "json":
		return FormatStructured, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// FormatStrings returns the canonical format names, suitable for CLI flag
// help and shell completion.
func FormatStrings() []string {
	return []string{string(FormatHuman), string(FormatDelimited), string(FormatStructured)}
}

// NewFormatter constructs the built-in [Formatter] named by f with default
// options.
func NewFormatter(f Format) Formatter {
	switch f {
	case FormatHuman:
		return NewHuman()
	case FormatDelimited:
		return NewDelimited()
	case FormatStructured:
		return NewStructured()
	}

	return NewStructured()
}

// Environment variables read by [Config.LoadEnv].
const (
	// EnvLevel selects the initial level by name.
	EnvLevel = "SAWMILL_LEVEL"
	// EnvFormat selects the initial format by name.
	EnvFormat = "SAWMILL_FORMAT"
	// EnvDev, when truthy, defaults the format to the human renderer.
	EnvDev = "SAWMILL_DEV"
)

// Flags holds CLI flag names for log configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Level       string
	Format      string
	Development string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds logger configuration gathered from flags, the environment, or
// a YAML file.
//
// Create instances with [NewConfig], then populate them with
// [Config.RegisterFlags], [Config.LoadEnv], or [LoadFile]. Use
// [Config.NewLogger] to build the configured [*Logger].
type Config struct {
	// Level is the minimum severity name. Empty means "info".
	Level string `yaml:"level"`
	// Format is the formatter name. Empty selects the human formatter when
	// Development is set or the writer is a terminal, structured otherwise.
	Format string `yaml:"format"`
	// Development forces the human formatter default.
	Development bool `yaml:"development"`

	Flags Flags `yaml:"-"`
}

// NewConfig returns a new [Config] with default flag names.
// Use [Config.RegisterFlags] to add CLI flags, or set values directly.
func NewConfig() *Config {
	f := Flags{
		Level:       "log-level",
		Format:      "log-format",
		Development: "log-dev",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, "info",
		fmt.Sprintf("log level, one of: %s", LevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, "",
		fmt.Sprintf("log format, one of: %s", FormatStrings()))
	flags.BoolVar(&c.Development, c.Flags.Development, false,
		"default to the human log format")
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(LevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(FormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	return nil
}

// LoadEnv overlays values from the process environment: [EnvLevel],
// [EnvFormat] and [EnvDev]. Unset variables leave the config untouched.
func (c *Config) LoadEnv() {
	if v := os.Getenv(EnvLevel); v != "" {
		c.Level = v
	}

	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}

	switch strings.ToLower(os.Getenv(EnvDev)) {
	case "1", "true", "yes":
		c.Development = true
	}
}

// LoadFile reads a YAML config file into a new [Config] with default flag
// names.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// NewLogger builds a [*Logger] writing to w from the level and format stored
// in c. An empty format falls back to human for development or terminal
// writers and structured otherwise.
func (c *Config) NewLogger(w io.Writer) (*Logger, error) {
	levelName := c.Level
	if levelName == "" {
		levelName = "info"
	}

	lvl, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	format := FormatStructured
	if c.Format != "" {
		format, err = ParseFormat(c.Format)
		if err != nil {
			return nil, err
		}
	} else if c.Development || isTerminal(w) {
		format = FormatHuman
	}

	return New(
		WithLevel(lvl),
		WithFormatter(NewFormatter(format)),
		WithWriter(w),
	), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
