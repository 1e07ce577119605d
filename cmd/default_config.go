package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version string            `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// Preset is a named starting point for a run: a city (or any population) and
// the transition parameters fitted for it.
type Preset struct {
	Description string    `yaml:"description"`
	RunConfig   RunConfig `yaml:",inline"`
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking: typos must cause errors.
func loadDefaultsConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading defaults file: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing defaults YAML %s: %w", path, err)
	}
	return &cfg, nil
}

// GetPreset returns the named preset's run configuration. Transition fields a
// preset leaves out keep their defaults.
func GetPreset(name, defaultsFilePath string) (RunConfig, error) {
	cfg, err := loadDefaultsConfig(defaultsFilePath)
	if err != nil {
		return RunConfig{}, err
	}
	preset, ok := cfg.Presets[name]
	if !ok {
		return RunConfig{}, fmt.Errorf("unknown preset %q (available: %v)", name, cfg.PresetNames())
	}
	rc := preset.RunConfig
	if rc.Label == "" {
		rc.Label = name
	}
	return rc, nil
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
