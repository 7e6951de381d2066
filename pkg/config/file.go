package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile applies a YAML config file on top of an environment-derived
// Config. Only keys present in the file override; everything else keeps its
// environment value or default.
func LoadFile(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}
