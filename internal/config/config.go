package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsonedit/internal/coerce"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/mutator"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonedit
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Editing EditingConfig `yaml:"editing"`
	Log     LogConfig     `yaml:"log"`
	Dev     DevConfig     `yaml:"dev"`
}

// OutputConfig controls how documents are written back
type OutputConfig struct {
	Format string `yaml:"format"` // json or yaml
	Indent int    `yaml:"indent"`
}

// EditingConfig controls how edits are interpreted
type EditingConfig struct {
	// StrictNumbers rejects non-numeric input for number fields instead of
	// storing 0.
	StrictNumbers bool `yaml:"strict_numbers"`
	// RenamePosition is "end" or "preserve".
	RenamePosition string `yaml:"rename_position"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: string(formatter.FormatJSON),
			Indent: formatter.DefaultIndent,
		},
		Editing: EditingConfig{
			StrictNumbers:  false,
			RenamePosition: string(mutator.RenameAppend),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonedit.yml", ".jsonedit.yaml", "jsonedit.yml", "jsonedit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks enum fields and ranges.
func (c *Config) Validate() error {
	switch formatter.Format(c.Output.Format) {
	case formatter.FormatJSON, formatter.FormatYAML:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown output format '%s' (want json or yaml)", c.Output.Format), nil)
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return errors.NewConfigError(fmt.Sprintf("indent %d out of range 0-8", c.Output.Indent), nil)
	}
	switch mutator.RenamePosition(c.Editing.RenamePosition) {
	case mutator.RenameAppend, mutator.RenamePreserve:
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown rename_position '%s' (want end or preserve)", c.Editing.RenamePosition), nil)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.NewConfigError(fmt.Sprintf("unknown log level '%s'", c.Log.Level), err)
	}
	return nil
}

// MutatorOptions returns the mutator settings
func (c *Config) MutatorOptions() mutator.Options {
	return mutator.Options{RenamePosition: mutator.RenamePosition(c.Editing.RenamePosition)}
}

// Coercer returns the value coercer
func (c *Config) Coercer() coerce.Coercer {
	return coerce.Coercer{Strict: c.Editing.StrictNumbers}
}

// Formatter returns the document formatter
func (c *Config) Formatter() (*formatter.Formatter, error) {
	f, err := formatter.NewFormatterWith(formatter.Format(c.Output.Format), c.Output.Indent)
	if err != nil {
		return nil, errors.NewConfigError("invalid output settings", err)
	}
	return f, nil
}

// DocumentFormatter returns the JSON formatter edits are written back with.
// The document stays JSON whatever the output format is.
func (c *Config) DocumentFormatter() (*formatter.Formatter, error) {
	f, err := formatter.NewFormatterWith(formatter.FormatJSON, c.Output.Indent)
	if err != nil {
		return nil, errors.NewConfigError("invalid output settings", err)
	}
	return f, nil
}

// LogLevel returns the configured level, lowered to debug when Dev.Debug is set
func (c *Config) LogLevel() log.Level {
	if c.Dev.Debug {
		return log.DebugLevel
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// CLIOverrides holds flag values that take precedence over the config file.
// Empty strings and nil pointers mean the flag was not given.
type CLIOverrides struct {
	Format         string
	Indent         *int
	StrictNumbers  *bool
	RenamePosition string
	Debug          bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Format != "" {
		cfg.Output.Format = strings.ToLower(cli.Format)
	}
	if cli.Indent != nil {
		cfg.Output.Indent = *cli.Indent
	}
	if cli.StrictNumbers != nil {
		cfg.Editing.StrictNumbers = *cli.StrictNumbers
	}
	if cli.RenamePosition != "" {
		cfg.Editing.RenamePosition = cli.RenamePosition
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
