package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLoadConfigMissingFile verifies that defaults are returned when no file exists
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if *cfg != *DefaultConfig() {
		t.Errorf("Expected default config, got %+v", cfg)
	}
}

// TestSaveAndLoadConfig writes a modified config and reads it back
func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dvhdoses.yaml")

	cfg := DefaultConfig()
	cfg.Dose.ReferenceDose = 6000
	cfg.Scan.IncludeLastBin = true
	cfg.Output.Format = FormatYAML

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Expected %+v, got %+v", cfg, loaded)
	}
}

// TestLoadPartialConfig verifies that missing keys keep their defaults
func TestLoadPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	content := "scan:\n  requireMonotonic: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cfg.Scan.RequireMonotonic {
		t.Error("Expected requireMonotonic to be loaded from file")
	}
	if cfg.Dose.ReferenceDose != 100 {
		t.Errorf("Expected default reference dose 100, got %f", cfg.Dose.ReferenceDose)
	}

	opts := cfg.CalculatorOptions()
	if !opts.RequireMonotonic || opts.IncludeLastBin {
		t.Errorf("Unexpected calculator options %+v", opts)
	}
}

// TestLoadInvalidConfig covers malformed YAML and out-of-range values
func TestLoadInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"malformed":      "dose: [",
		"zero dose":      "dose:\n  referenceDose: 0\n",
		"unknown format": "output:\n  format: csv\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

// TestCreateDefaultConfigFile checks the written keys
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"referenceDose: 100", "includeLastBin: false", "format: text"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %q in config file:\n%s", key, data)
		}
	}
}
