// Package config defines the jsonlite configuration.
//
// The configuration is organized into sections:
//   - Log: level and encoding of the zap logger
//   - Simplify: recursion limits for nested simplification
//   - Output: table format, compression and layout
//   - Observability: metrics and tracing switches
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Output.Format = "parquet"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Configuration files are YAML. Any ${VAR_NAME} reference is replaced with
// the value of the environment variable before parsing; unset variables
// become empty strings. Fields omitted from the file keep the values from
// Default.
//
//	log:
//	  level: info
//	output:
//	  format: ${JSONLITE_FORMAT}
//	  compression: zstd
package config

import (
	"slices"

	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/json"
	"github.com/halhen/jsonlite/pkg/logger"
	"github.com/halhen/jsonlite/pkg/simplify"
)

// Config is the top-level jsonlite configuration.
type Config struct {
	// Log configures the process logger
	Log LogConfig `yaml:"log" json:"log" mapstructure:"log"`

	// Simplify controls the simplification engine
	Simplify SimplifyConfig `yaml:"simplify" json:"simplify" mapstructure:"simplify"`

	// Output controls how tables are written
	Output OutputConfig `yaml:"output" json:"output" mapstructure:"output"`

	// Observability toggles metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level" json:"level" mapstructure:"level"`
	// Encoding is json or console
	Encoding string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	// Development enables zap development mode
	Development bool `yaml:"development" json:"development" mapstructure:"development"`
}

// SimplifyConfig contains engine settings.
type SimplifyConfig struct {
	// MaxDepth bounds recursive simplification of complex cells
	MaxDepth int `yaml:"max_depth" json:"max_depth" mapstructure:"max_depth"`
}

// OutputConfig contains writer settings.
type OutputConfig struct {
	// Format is json, arrow, parquet or avro
	Format string `yaml:"format" json:"format" mapstructure:"format"`
	// Compression names a stream compression algorithm, "none" to disable
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
	// Orientation is columns or rows, JSON output only
	Orientation string `yaml:"orientation" json:"orientation" mapstructure:"orientation"`
	// Pretty indents JSON output
	Pretty bool `yaml:"pretty" json:"pretty" mapstructure:"pretty"`
}

// ObservabilityConfig contains monitoring settings.
type ObservabilityConfig struct {
	// Metrics dumps Prometheus metrics to stderr after a run
	Metrics bool `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
	// Tracing exports spans to stderr
	Tracing bool `yaml:"tracing" json:"tracing" mapstructure:"tracing"`
}

// Formats lists the supported output formats.
var Formats = []string{"json", "arrow", "parquet", "avro"}

// Default returns a configuration with defaults applied.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
		},
		Simplify: SimplifyConfig{
			MaxDepth: simplify.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Format:      "json",
			Compression: string(compression.None),
			Orientation: string(json.Columns),
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Simplify.MaxDepth < 0 {
		return errors.New(errors.ErrorTypeConfig, "max_depth cannot be negative")
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return errors.New(errors.ErrorTypeConfig, "unsupported output format").
			WithDetail("format", c.Output.Format)
	}
	if _, err := compression.Parse(c.Output.Compression); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid compression")
	}
	switch json.Orientation(c.Output.Orientation) {
	case json.Columns, json.Rows:
	default:
		return errors.New(errors.ErrorTypeConfig, "unsupported orientation").
			WithDetail("orientation", c.Output.Orientation)
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return errors.New(errors.ErrorTypeConfig, "unsupported log encoding").
			WithDetail("encoding", c.Log.Encoding)
	}
	return nil
}

// Logger converts the log section into logger settings.
func (l LogConfig) Logger() logger.Config {
	return logger.Config{
		Level:       l.Level,
		Development: l.Development,
		Encoding:    l.Encoding,
	}
}

// JSONOptions converts the output section into JSON encoder options.
func (o OutputConfig) JSONOptions() json.Options {
	opts := json.DefaultOptions()
	opts.Orientation = json.Orientation(o.Orientation)
	if o.Pretty {
		opts.Indent = "  "
	}
	return opts
}
