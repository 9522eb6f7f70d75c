package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeducerConfig is the top-level lichen.yaml configuration consumed by
// the deducer pipeline, in the style of the teacher's ext.Config.
type DeducerConfig struct {
	// OutputDir is the directory the nine text artifacts are written
	// to. Defaults to "." when empty.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Cache, when set, enables the sqlite-backed memoization cache
	// keyed on the fact base's content hash.
	Cache *CacheConfig `yaml:"cache,omitempty"`
}

// GeneratorConfig configures the layout generator's five C-source
// artifacts.
type GeneratorConfig struct {
	// OutputDir is the directory progconsts.h, progtypes.{h,c},
	// main.{h,c} are written to. Defaults to "." when empty.
	OutputDir string `yaml:"output_dir,omitempty"`

	// MinimalNames is loaded from minimal_names. The layout generator
	// does not read this config, and the records it emits carry no
	// human-readable name fields either way.
	MinimalNames bool `yaml:"minimal_names,omitempty"`
}

// CacheConfig points at the sqlite database backing the deducer's
// memoization cache.
type CacheConfig struct {
	// Path is the sqlite database file. Defaults to "lichen-cache.db".
	Path string `yaml:"path,omitempty"`
}

// LoadDeducerConfig reads and parses a lichen.yaml deducer section from
// path.
func LoadDeducerConfig(path string) (*DeducerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg DeducerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Cache != nil && cfg.Cache.Path == "" {
		cfg.Cache.Path = "lichen-cache.db"
	}
	return &cfg, nil
}

// LoadGeneratorConfig reads and parses a lichen.yaml generator section
// from path.
func LoadGeneratorConfig(path string) (*GeneratorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg GeneratorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &cfg, nil
}
