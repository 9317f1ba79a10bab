// Package config loads the optional .avrocheck.yaml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openbindings/avrocheck-go"
	"github.com/openbindings/avrocheck-go/compat"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".avrocheck.yaml"

// Config is the project configuration. Command-line flags override it.
type Config struct {
	SchemaDir   string         `yaml:"schemaDir"`
	Extension   string         `yaml:"extension"`
	Mode        string         `yaml:"mode"`
	SpecVersion string         `yaml:"specVersion"`
	CodecCheck  bool           `yaml:"codecCheck"`
	Concurrency int            `yaml:"concurrency"`
	Validate    ValidateConfig `yaml:"validate"`
	Lint        LintConfig     `yaml:"lint"`
}

// ValidateConfig holds structural validation switches.
type ValidateConfig struct {
	AllowEmptyRecords     bool `yaml:"allowEmptyRecords"`
	UnionDefaultAnyBranch bool `yaml:"unionDefaultAnyBranch"`
}

// LintConfig selects lint rules.
type LintConfig struct {
	Enabled *bool    `yaml:"enabled"`
	Disable []string `yaml:"disable"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads path. A missing file yields the defaults; any other read or parse error is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML config data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	applyDefaults(&c)
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.SchemaDir == "" {
		c.SchemaDir = "./schemas"
	}
	if c.Extension == "" {
		c.Extension = ".avsc"
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.Mode == "" {
		c.Mode = string(compat.Backward)
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
}

func (c *Config) check() error {
	if _, err := compat.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := avrocheck.OptionsForSpecVersion(c.SpecVersion); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// CompatMode returns the configured compatibility mode.
func (c *Config) CompatMode() compat.Mode {
	m, err := compat.ParseMode(c.Mode)
	if err != nil {
		return compat.Backward
	}
	return m
}

// LintEnabled reports whether lint warnings are printed.
func (c *Config) LintEnabled() bool {
	return c.Lint.Enabled == nil || *c.Lint.Enabled
}

// ValidateOptions translates the config into options for avrocheck.Validate.
func (c *Config) ValidateOptions() []avrocheck.ValidateOption {
	opts, _ := avrocheck.OptionsForSpecVersion(c.SpecVersion)
	if c.Validate.AllowEmptyRecords {
		opts = append(opts, avrocheck.WithAllowEmptyRecords())
	}
	if c.Validate.UnionDefaultAnyBranch {
		opts = append(opts, avrocheck.WithUnionDefaultAnyBranch())
	}
	return opts
}
