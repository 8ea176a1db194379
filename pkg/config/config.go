// Package config loads the YAML configuration consumed by the scf host
// binary: filter parameters and logging settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	Filter  FilterConfig  `yaml:"filter"`
	Logging LoggingConfig `yaml:"logging"`
}

// FilterConfig carries the scalable-filter parameters.
type FilterConfig struct {
	InitialCapacity   uint64  `yaml:"initial_capacity"`    // first sub-filter target item count
	FalsePositiveRate float64 `yaml:"false_positive_rate"` // first sub-filter FPP budget
	ScaleFactor       uint64  `yaml:"scale_factor"`        // capacity multiplier per growth (>= 2)
	Tightening        float64 `yaml:"tightening"`          // tightening ratio in (0, 1); validated, no sub-filter parameter depends on it
	SlotsPerBucket    int     `yaml:"slots_per_bucket"`    // bucket width (typically 4)
	Seed              uint64  `yaml:"seed"`                // fixed eviction seed; 0 = random
	DataFile          string  `yaml:"data_file"`           // default serialized filter path
}

// LoggingConfig carries logging configuration.
type LoggingConfig struct {
	Level         string `yaml:"level"`          // debug, info, warn, error, fatal
	EnableConsole bool   `yaml:"enable_console"` // write JSON lines to stderr
	EnableFile    bool   `yaml:"enable_file"`    // write JSON lines to LogFile
	LogFile       string `yaml:"log_file"`       // log file path
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Filter: FilterConfig{
			InitialCapacity:   10000,
			FalsePositiveRate: 0.01,
			ScaleFactor:       4,
			Tightening:        0.9,
			SlotsPerBucket:    4,
			DataFile:          "filter.scf",
		},
		Logging: LoggingConfig{
			Level:         "info",
			EnableConsole: true,
		},
	}
}

// Load reads and parses the configuration file, applying defaults for
// anything the file leaves unset. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	f := c.Filter
	if f.InitialCapacity == 0 {
		return fmt.Errorf("filter.initial_capacity must be greater than 0")
	}
	if f.FalsePositiveRate <= 0 || f.FalsePositiveRate >= 1 {
		return fmt.Errorf("filter.false_positive_rate must be between 0 and 1, got %v", f.FalsePositiveRate)
	}
	if f.ScaleFactor < 2 {
		return fmt.Errorf("filter.scale_factor must be at least 2, got %d", f.ScaleFactor)
	}
	if f.Tightening <= 0 || f.Tightening >= 1 {
		return fmt.Errorf("filter.tightening must be between 0 and 1, got %v", f.Tightening)
	}
	if f.SlotsPerBucket < 1 || f.SlotsPerBucket > 8 {
		return fmt.Errorf("filter.slots_per_bucket must be between 1 and 8, got %d", f.SlotsPerBucket)
	}
	return nil
}
