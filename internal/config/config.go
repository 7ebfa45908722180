// Package config loads the settings shared by the wordgo commands.
//
// Configuration comes from a single YAML file named by the WORDGO_CONFIG
// environment variable or the --config flag. Without either the defaults
// apply. Command line flags override file values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/wordgo/pkg/render"
	"github.com/user/wordgo/pkg/word"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "WORDGO_CONFIG"

// Config is the configuration of the wordgo commands.
type Config struct {
	// Output configures the text rendering.
	Output OutputConfig `yaml:"output"`

	// Images configures picture handling.
	Images ImagesConfig `yaml:"images"`

	// Paper is recorded for PostScript requests, which render as text.
	Paper PaperConfig `yaml:"paper"`

	// Log configures diagnostics on stderr.
	Log LogConfig `yaml:"log"`

	// Dump configures the docinspect report.
	Dump DumpConfig `yaml:"dump"`
}

// OutputConfig configures the text rendering.
type OutputConfig struct {
	// Width is the line width in characters; 0 disables wrapping.
	// Default: 76
	Width int `yaml:"width"`

	// Encoding is the output character set: UTF-8, ISO-8859-1 or ISO-8859-2.
	// Default: UTF-8
	Encoding string `yaml:"encoding"`

	// ShowHidden renders text Word hides.
	ShowHidden bool `yaml:"show_hidden"`

	// OutlineFonts loads character formatting (hidden text, capitals,
	// pictures). Default: true
	OutlineFonts bool `yaml:"outline_fonts"`
}

// ImagesConfig configures picture handling.
type ImagesConfig struct {
	// Level is one of none, placeholder or extract.
	// Default: none
	Level string `yaml:"level"`

	// Dir receives extracted pictures. ${HOME} and ${VAR:-default} expand.
	Dir string `yaml:"dir"`
}

// PaperConfig records the paper requested with -p.
type PaperConfig struct {
	// Size is a paper name like a4, letter or legal.
	// Default: a4
	Size string `yaml:"size"`

	// Landscape records -L.
	Landscape bool `yaml:"landscape"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: warn
	Level string `yaml:"level"`
}

// DumpConfig configures the docinspect report.
type DumpConfig struct {
	// Format is yaml or cbor.
	// Default: yaml
	Format string `yaml:"format"`

	// Compression is none, lz4 or zstd.
	// Default: none
	Compression string `yaml:"compression"`
}

// PaperSizes lists the paper names -p accepts.
var PaperSizes = []string{
	"10x14", "a3", "a4", "a5", "b4", "b5", "executive", "folio",
	"legal", "letter", "note", "quarto", "statement", "tabloid",
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Width:        76,
			Encoding:     "UTF-8",
			OutlineFonts: true,
		},
		Images: ImagesConfig{
			Level: "none",
		},
		Paper: PaperConfig{
			Size: "a4",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Dump: DumpConfig{
			Format:      "yaml",
			Compression: "none",
		},
	}
}

// Load loads the file named by WORDGO_CONFIG, or returns the defaults when
// the variable is not set.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Images.Dir = expandVars(cfg.Images.Dir)
	return cfg, nil
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Output.Width < 0 {
		errs = append(errs, fmt.Errorf("output.width must not be negative, got %d", c.Output.Width))
	}
	if _, err := render.ParseEncoding(c.Output.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("output.encoding: %w", err))
	}
	level, err := word.ParseImageLevel(c.Images.Level)
	if err != nil {
		errs = append(errs, fmt.Errorf("images.level: %w", err))
	}
	if level == word.ImagesExtract && c.Images.Dir == "" {
		errs = append(errs, errors.New("images.dir is required to extract images"))
	}
	if !isPaperSize(c.Paper.Size) {
		errs = append(errs, fmt.Errorf("paper.size %q is not one of %s", c.Paper.Size, strings.Join(PaperSizes, ", ")))
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Dump.Format {
	case "yaml", "cbor":
	default:
		errs = append(errs, fmt.Errorf("dump.format must be yaml or cbor, got %q", c.Dump.Format))
	}
	switch c.Dump.Compression {
	case "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("dump.compression must be none, lz4 or zstd, got %q", c.Dump.Compression))
	}

	return errors.Join(errs...)
}

func isPaperSize(s string) bool {
	s = strings.ToLower(s)
	for _, p := range PaperSizes {
		if p == s {
			return true
		}
	}
	return false
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
