// Package config loads compiler settings from a TOML or YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/strager/jaic/asm"
	"github.com/strager/jaic/codegen"
	"github.com/strager/jaic/logger"
)

// Config holds every setting of one compiler invocation
type Config struct {
	Assembler AssemblerConfig `toml:"assembler" yaml:"assembler"`
	Runtime   RuntimeConfig   `toml:"runtime" yaml:"runtime"`
	Codegen   CodegenConfig   `toml:"codegen" yaml:"codegen"`
	Language  LanguageConfig  `toml:"language" yaml:"language"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// AssemblerConfig describes the external assembler
type AssemblerConfig struct {
	Path    string   `toml:"path" yaml:"path"`
	Args    []string `toml:"args" yaml:"args"`
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

type RuntimeConfig struct {
	Include string `toml:"include" yaml:"include"`
}

type CodegenConfig struct {
	Lowering string `toml:"lowering" yaml:"lowering"`
}

// LanguageConfig holds source language switches
type LanguageConfig struct {
	AllowBareAssign bool `toml:"allow_bare_assign" yaml:"allow_bare_assign"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// Duration wraps time.Duration so it can be written as "30s" in both formats
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration string; yaml.v3 does not use
// encoding.TextUnmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// DefaultAssemblerTimeout bounds an assembler run unless the config says
// otherwise. A timeout of 0 disables the bound.
const DefaultAssemblerTimeout = time.Minute

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Assembler.Timeout.Duration = DefaultAssemblerTimeout
	cfg.applyDefaults()
	return cfg
}

// Load reads the file at path. The format is chosen by extension: .toml,
// .yaml or .yml.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Keys missing from the file keep their defaults. An explicit zero
	// timeout survives.
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Assembler.Path == "" {
		c.Assembler.Path = asm.DefaultTool
	}
	if c.Runtime.Include == "" {
		c.Runtime.Include = codegen.DefaultRuntimeInclude
	}
	if c.Codegen.Lowering == "" {
		c.Codegen.Lowering = string(codegen.Structured)
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if _, err := codegen.ParseLowering(c.Codegen.Lowering); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Assembler.Timeout.Duration < 0 {
		return fmt.Errorf("assembler timeout must not be negative")
	}
	return nil
}

// Lowering returns the validated codegen lowering mode.
func (c *Config) Lowering() codegen.Lowering {
	l, err := codegen.ParseLowering(c.Codegen.Lowering)
	if err != nil {
		return codegen.Structured
	}
	return l
}

// NewAssembler builds the assembler described by the config.
func (c *Config) NewAssembler() *asm.Assembler {
	return &asm.Assembler{Path: c.Assembler.Path, Args: append([]string(nil), c.Assembler.Args...)}
}

// LoggerConfig translates the log section for logger.Init. verbose forces
// debug level.
func (c *Config) LoggerConfig(verbose bool) logger.Config {
	lc := logger.DefaultConfig()
	if level, err := logger.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	if verbose {
		lc.Level = slog.LevelDebug
	}
	lc.Format = c.Log.Format
	lc.LogFile = c.Log.File
	return lc
}
