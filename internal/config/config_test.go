package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeYAML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadDeducerConfigDefaultsOutputDir(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "lichen.yaml", "cache:\n  path: run.db\n")

	cfg, err := LoadDeducerConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "." {
		t.Errorf("output_dir = %q, want default \".\"", cfg.OutputDir)
	}
	if cfg.Cache == nil || cfg.Cache.Path != "run.db" {
		t.Fatalf("expected cache.path=run.db, got %+v", cfg.Cache)
	}
}

func TestLoadDeducerConfigExplicitOutputDir(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "lichen.yaml", "output_dir: out\n")

	cfg, err := LoadDeducerConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("output_dir = %q, want out", cfg.OutputDir)
	}
	if cfg.Cache != nil {
		t.Errorf("expected no cache config, got %+v", cfg.Cache)
	}
}

func TestLoadGeneratorConfigMinimalNames(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "lichen.yaml", "output_dir: gen\nminimal_names: true\n")

	cfg, err := LoadGeneratorConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "gen" || !cfg.MinimalNames {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadDeducerConfigMissingFile(t *testing.T) {
	if _, err := LoadDeducerConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
