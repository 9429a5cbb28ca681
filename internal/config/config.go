// Package config loads the shell configuration file: prompt appearance,
// exit tokens, and the history and log locations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shellframe-tools/shellframe/internal/paths"
)

// Config is the full shell configuration.
type Config struct {
	// Marker is appended to the frame path in the interactive prompt.
	Marker string `yaml:"marker"`

	// ExitTokens terminate the active frame when entered alone.
	ExitTokens []string `yaml:"exit_tokens"`

	// Color enables styled output.
	Color *bool `yaml:"color"`

	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// HistoryConfig controls persistent command history.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig controls the shell log file.
type LogConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
	Level   string `yaml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	on := true
	return Config{
		Marker:     "> ",
		ExitTokens: []string{"q", "quit", "exit"},
		Color:      &on,
		History: HistoryConfig{
			Enabled: &on,
			Path:    paths.HistoryDBPath(),
		},
		Log: LogConfig{
			Enabled: &on,
			Level:   "warn",
		},
	}
}

// Load reads the configuration file at path, filling unset fields from
// the defaults. A missing file is not an error and yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return merge(cfg, loaded), nil
}

// LoadDefault reads the configuration from its standard location.
func LoadDefault() (Config, error) {
	return Load(paths.ConfigFilePath())
}

func merge(base, over Config) Config {
	if over.Marker != "" {
		base.Marker = over.Marker
	}
	if len(over.ExitTokens) > 0 {
		base.ExitTokens = over.ExitTokens
	}
	if over.Color != nil {
		base.Color = over.Color
	}
	if over.History.Enabled != nil {
		base.History.Enabled = over.History.Enabled
	}
	if over.History.Path != "" {
		base.History.Path = over.History.Path
	}
	if over.Log.Enabled != nil {
		base.Log.Enabled = over.Log.Enabled
	}
	if over.Log.Path != "" {
		base.Log.Path = over.Log.Path
	}
	if over.Log.Level != "" {
		base.Log.Level = over.Log.Level
	}
	return base
}
