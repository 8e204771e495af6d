// Package config loads the cbtc project file (cbtc.toml).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"cbtc/pkg/compiler"
	"cbtc/pkg/diag"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "cbtc.toml"

// Config holds the complete configuration
type Config struct {
	Lexer       LexerConfig       `toml:"lexer"`
	Parser      ParserConfig      `toml:"parser"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Log         LogConfig         `toml:"log"`
}

// LexerConfig holds tokenizer settings
type LexerConfig struct {
	// StringNewline is "reject" or "terminate".
	StringNewline string `toml:"string_newline"`
}

// ParserConfig holds parser settings
type ParserConfig struct {
	RequireHeader bool `toml:"require_header"`
}

// DiagnosticsConfig holds report rendering settings
type DiagnosticsConfig struct {
	// Color is "auto", "always" or "never".
	Color string `toml:"color"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, or DefaultFile when path is empty. A missing
// DefaultFile is not an error; a missing explicit path is.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(DefaultFile)
}

func (c *Config) applyDefaults() {
	if c.Lexer.StringNewline == "" {
		c.Lexer.StringNewline = compiler.RejectNewline.String()
	}
	if c.Diagnostics.Color == "" {
		c.Diagnostics.Color = diag.ColorAuto.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := compiler.ParseNewlinePolicy(c.Lexer.StringNewline); err != nil {
		errs = append(errs, fmt.Errorf("lexer.string_newline: %w", err))
	}
	if _, err := diag.ParseColorMode(c.Diagnostics.Color); err != nil {
		errs = append(errs, fmt.Errorf("diagnostics.color: %w", err))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// CompilerOptions converts the lexer and parser sections.
func (c *Config) CompilerOptions() (compiler.Options, error) {
	policy, err := compiler.ParseNewlinePolicy(c.Lexer.StringNewline)
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{StringNewline: policy, RequireHeader: c.Parser.RequireHeader}, nil
}

// ColorMode converts the diagnostics section.
func (c *Config) ColorMode() (diag.ColorMode, error) {
	return diag.ParseColorMode(c.Diagnostics.Color)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
