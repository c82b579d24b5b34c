// Package config provides configuration loading and management for dvhdoses.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"dvhdoses/pkg/dvh"
)

// Output formats supported by the command line tool
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Dose parameters
	Dose struct {
		// ReferenceDose is the prescription dose in cGy that statistics
		// are expressed relative to
		ReferenceDose float64 `yaml:"referenceDose"`
	} `yaml:"dose"`

	// Scan parameters
	Scan struct {
		// IncludeLastBin lets the minimum and median scans test the final bin
		IncludeLastBin bool `yaml:"includeLastBin"`

		// RequireMonotonic rejects cDVHs whose volume increases with dose
		RequireMonotonic bool `yaml:"requireMonotonic"`
	} `yaml:"scan"`

	// Output parameters
	Output struct {
		// Format is either "text" or "yaml"
		Format string `yaml:"format"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default dose parameters
	cfg.Dose.ReferenceDose = 100.0

	// Set default scan parameters
	cfg.Scan.IncludeLastBin = false
	cfg.Scan.RequireMonotonic = false

	// Set default output parameters
	cfg.Output.Format = FormatText
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.Dose.ReferenceDose <= 0 {
		return fmt.Errorf("reference dose must be positive, got %v", c.Dose.ReferenceDose)
	}
	switch c.Output.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return nil
}

// CalculatorOptions maps the scan section onto calculator options
func (c *Config) CalculatorOptions() *dvh.Options {
	return &dvh.Options{
		IncludeLastBin:   c.Scan.IncludeLastBin,
		RequireMonotonic: c.Scan.RequireMonotonic,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Reject values the calculator cannot use
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
