// Package config handles configuration loading and validation for nbcheck
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File names looked up in the project root, in order.
const (
	YAMLFile = "nbcheck.yaml"
	TOMLFile = "nbcheck.toml"
)

// Config represents the main configuration for nbcheck
type Config struct {
	Checks  ChecksConfig  `yaml:"checks" toml:"checks"`
	Grammar GrammarConfig `yaml:"grammar" toml:"grammar"`
	Samples SamplesConfig `yaml:"samples" toml:"samples"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
}

// ChecksConfig holds the commands for the static-check and test stages.
// Each is argv: the first element is the executable.
type ChecksConfig struct {
	Static []string `yaml:"static" toml:"static"`
	Test   []string `yaml:"test" toml:"test"`
}

// GrammarConfig describes how samples are checked against the grammar
type GrammarConfig struct {
	Tool      string `yaml:"tool" toml:"tool"`
	File      string `yaml:"file" toml:"file"`
	EntryRule string `yaml:"entry_rule" toml:"entry_rule"`
	// StrictExitCode also fails a sample whose tool run exits non-zero with
	// empty output. Off by default: only output decides.
	StrictExitCode bool `yaml:"strict_exit_code" toml:"strict_exit_code"`
}

// SamplesConfig locates the sample inputs
type SamplesConfig struct {
	Dir       string   `yaml:"dir" toml:"dir"`
	Extension string   `yaml:"extension" toml:"extension"`
	Exclude   []string `yaml:"exclude" toml:"exclude"`
}

// UIConfig holds console presentation settings
type UIConfig struct {
	Theme   string `yaml:"theme" toml:"theme"`
	NoColor bool   `yaml:"no_color" toml:"no_color"`
}

// DefaultConfig returns the configuration for a Nebula checkout
func DefaultConfig() *Config {
	return &Config{
		Checks: ChecksConfig{
			Static: []string{"cargo", "check"},
			Test:   []string{"cargo", "test"},
		},
		Grammar: GrammarConfig{
			Tool:      "antlr4-parse",
			File:      "specs/NebulaParser.g4",
			EntryRule: "entry_file",
		},
		Samples: SamplesConfig{
			Dir:       "examples/src",
			Extension: ".n",
		},
		UI: UIConfig{
			Theme: "ansi",
		},
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error
	if len(c.Checks.Static) == 0 || strings.TrimSpace(c.Checks.Static[0]) == "" {
		errs = append(errs, errors.New("checks.static is required"))
	}
	if len(c.Checks.Test) == 0 || strings.TrimSpace(c.Checks.Test[0]) == "" {
		errs = append(errs, errors.New("checks.test is required"))
	}
	if c.Grammar.Tool == "" {
		errs = append(errs, errors.New("grammar.tool is required"))
	}
	if c.Grammar.File == "" {
		errs = append(errs, errors.New("grammar.file is required"))
	}
	if c.Grammar.EntryRule == "" {
		errs = append(errs, errors.New("grammar.entry_rule is required"))
	}
	if c.Samples.Dir == "" {
		errs = append(errs, errors.New("samples.dir is required"))
	}
	if !strings.HasPrefix(c.Samples.Extension, ".") || len(c.Samples.Extension) < 2 {
		errs = append(errs, fmt.Errorf("samples.extension %q must start with '.'", c.Samples.Extension))
	}
	return errors.Join(errs...)
}

// StageLabel returns the display name of a check command, e.g. "cargo check".
func StageLabel(argv []string) string {
	return strings.Join(argv, " ")
}

// FindProjectRoot finds the project root by looking for an nbcheck config
// or Cargo.toml, walking up from the working directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range []string{YAMLFile, TOMLFile, "Cargo.toml"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Fall back to current directory
	return cwd, nil
}

// ConfigPath returns the config file for root: nbcheck.yaml, else
// nbcheck.toml if present, else the nbcheck.yaml path.
func ConfigPath(root string) string {
	yamlPath := filepath.Join(root, YAMLFile)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	tomlPath := filepath.Join(root, TOMLFile)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return yamlPath
}
