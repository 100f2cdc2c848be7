// Package config loads the YAML configuration consumed by the cmd tools.
// The engine library itself takes explicit structs and never reads files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scanmasterndt/calibration-engine/model"
)

// Config is the full tool configuration.
type Config struct {
	Logging      LoggingConfig         `yaml:"logging"`
	Metrics      MetricsConfig         `yaml:"metrics"`
	Tracing      TracingConfig         `yaml:"tracing"`
	CatalogFile  string                `yaml:"catalog_file"` // optional JSON catalog overlay
	ThinWall     *model.ThinWallPolicy `yaml:"thin_wall,omitempty"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the optional /metrics listener.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"` // empty = no metrics server
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Tracing: TracingConfig{ServiceName: "calibration-engine", SampleRatio: 1.0},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the tools cannot act on.
func (c *Config) Validate() error {
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("config: tracing sample_ratio %v must be in [0, 1]", c.Tracing.SampleRatio)
	}
	if c.ThinWall != nil {
		if c.ThinWall.SafetyMarginMm < 0 {
			return fmt.Errorf("config: thin_wall safety_margin_mm must not be negative")
		}
		for _, r := range c.ThinWall.FallbackDepthRatios {
			if r <= 0 || r >= 1 {
				return fmt.Errorf("config: thin_wall fallback depth ratio %v must be in (0, 1)", r)
			}
		}
	}
	return nil
}
