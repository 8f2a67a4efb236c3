// Package config holds the optional YAML configuration of the tool.
// Everything has a sensible default; a config file only needs to name
// the settings it changes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RenderConfig selects which parts of each state are printed.
type RenderConfig struct {
	Variables bool `yaml:"variables"`
	Zones     bool `yaml:"zones"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_millis"`
}

// Config is the root of the YAML file.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Render:  RenderConfig{Variables: true, Zones: true},
		Logging: LoggingConfig{Level: "info"},
		Watch:   WatchConfig{DebounceMillis: 200},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
