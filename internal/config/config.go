// Package config defines the configuration structures of bondmap. No I/O or
// parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"

	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// MappingConfig tunes the atom mapping engine.
type MappingConfig struct {
	MaxRounds   int `mapstructure:"max_rounds"`
	InnerPasses int `mapstructure:"inner_passes"`
	// AllowInference lets the engine guess between symmetric candidates.
	// Disabled, a run either finds a deterministic map or fails.
	AllowInference bool `mapstructure:"allow_inference"`
}

// PartialConfig controls partial-structure analysis and the partial tool.
type PartialConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	CutDistance int  `mapstructure:"cut_distance"`
}

// OutputConfig controls what a command writes.
type OutputConfig struct {
	MapFile string `mapstructure:"map_file"`
	Format  string `mapstructure:"format"` // "text" | "json" | "table"
}

// MetricsConfig controls the per-run metrics textfile.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	// Textfile is the node_exporter textfile path. Empty disables metrics.
	Textfile string `mapstructure:"textfile"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Log     logging.LogConfig `mapstructure:"log"`
	Mapping MappingConfig     `mapstructure:"mapping"`
	Partial PartialConfig     `mapstructure:"partial"`
	Output  OutputConfig      `mapstructure:"output"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Mapping
	if c.Mapping.MaxRounds < 1 {
		return fmt.Errorf("config: mapping.max_rounds must be ≥ 1, got %d", c.Mapping.MaxRounds)
	}
	if c.Mapping.InnerPasses < 1 {
		return fmt.Errorf("config: mapping.inner_passes must be ≥ 1, got %d", c.Mapping.InnerPasses)
	}

	// Partial
	if c.Partial.CutDistance < 1 {
		return fmt.Errorf("config: partial.cut_distance must be ≥ 1, got %d", c.Partial.CutDistance)
	}

	// Output
	if c.Output.MapFile == "" {
		return fmt.Errorf("config: output.map_file is required")
	}
	switch c.Output.Format {
	case "text", "json", "table":
	default:
		return fmt.Errorf("config: output.format %q is invalid; expected text|json|table", c.Output.Format)
	}

	// Metrics
	if c.Metrics.Textfile != "" && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics.textfile is set")
	}

	// Log
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
