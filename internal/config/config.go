// Package config handles configuration loading and validation for commitwiz.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/commitwiz/internal/diff"
)

// Untracked-file policies.
const (
	UntrackedAsk  = "ask"
	UntrackedAll  = "all"
	UntrackedNone = "none"
)

// Config holds the application configuration.
type Config struct {
	GitPath       string        `yaml:"git_path"`
	Editor        string        `yaml:"editor"`
	CommitTimeout time.Duration `yaml:"commit_timeout"`
	Untracked     string        `yaml:"untracked"`
	DiffStyle     string        `yaml:"diff_style"`
	AI            AIConfig      `yaml:"ai"`
	Log           LogConfig     `yaml:"log"`
}

// AIConfig configures the external assistant.
type AIConfig struct {
	Enabled bool          `yaml:"enabled"`
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		GitPath:       "git",
		CommitTimeout: 30 * time.Second,
		Untracked:     UntrackedAsk,
		DiffStyle:     diff.DefaultStyle,
		AI: AIConfig{
			Enabled: true,
			Command: "copilot",
			Timeout: 90 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/commitwiz/config.yaml, falling back
// to the OS user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "commitwiz", "config.yaml")
}

// Load reads configPath over the defaults. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.CommitTimeout == 0 {
		c.CommitTimeout = defaults.CommitTimeout
	}
	if c.Untracked == "" {
		c.Untracked = defaults.Untracked
	}
	if c.DiffStyle == "" {
		c.DiffStyle = defaults.DiffStyle
	}
	if c.AI.Command == "" {
		c.AI.Command = defaults.AI.Command
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = defaults.AI.Timeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.CommitTimeout < 0 {
		errs = append(errs, fmt.Errorf("commit_timeout must be positive, got %s", c.CommitTimeout))
	}
	if c.AI.Timeout < 0 {
		errs = append(errs, fmt.Errorf("ai.timeout must be positive, got %s", c.AI.Timeout))
	}
	if !ValidUntracked(c.Untracked) {
		errs = append(errs, fmt.Errorf("untracked must be one of ask, all, none; got %q", c.Untracked))
	}
	if !diff.KnownStyle(c.DiffStyle) {
		errs = append(errs, fmt.Errorf("diff_style %q is not a known chroma style", c.DiffStyle))
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not a valid level", c.Log.Level))
	}

	return errors.Join(errs...)
}

// ValidUntracked reports whether s is a known untracked-file policy.
func ValidUntracked(s string) bool {
	switch s {
	case UntrackedAsk, UntrackedAll, UntrackedNone:
		return true
	}
	return false
}
