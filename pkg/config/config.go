// Package config loads disorder settings from defaults, an optional YAML file
// and DISORDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel validation errors.
var (
	ErrInvalidSplit       = errors.New("unknown split strategy")
	ErrInvalidWorkers     = errors.New("degree workers must not be negative")
	ErrInvalidCutoff      = errors.New("parallel cutoff must be positive")
	ErrInvalidProbability = errors.New("sampler probability must be in [0, 1]")
	ErrInvalidBoost       = errors.New("sampler boost must not be negative")
	ErrInvalidThreshold   = errors.New("sampler threshold must not be negative")
	ErrInvalidBins        = errors.New("plot bins must be positive")
	ErrInvalidTheme       = errors.New("unknown plot theme")
	ErrInvalidLogLevel    = errors.New("unknown log level")
	ErrInvalidLogFormat   = errors.New("unknown log format")
)

// Split strategy names.
const (
	SplitMidpoint   = "midpoint"
	SplitPowerOfTwo = "pow2"
)

// Config holds all disorder settings.
type Config struct {
	Input     InputConfig     `mapstructure:"input"     yaml:"input"`
	Degree    DegreeConfig    `mapstructure:"degree"    yaml:"degree"`
	Sampler   SamplerConfig   `mapstructure:"sampler"   yaml:"sampler"`
	Plot      PlotConfig      `mapstructure:"plot"      yaml:"plot"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// InputConfig controls trace loading.
type InputConfig struct {
	Format   string `mapstructure:"format"   yaml:"format"`
	Column   string `mapstructure:"column"   yaml:"column"`
	Layout   string `mapstructure:"layout"   yaml:"layout"`
	Unit     string `mapstructure:"unit"     yaml:"unit"`
	Location string `mapstructure:"location" yaml:"location"`
}

// DegreeConfig controls the out-of-order degree computation.
type DegreeConfig struct {
	Split          string `mapstructure:"split"           yaml:"split"`
	Workers        int    `mapstructure:"workers"         yaml:"workers"`
	ParallelCutoff int    `mapstructure:"parallel_cutoff" yaml:"parallel_cutoff"`
}

// SamplerConfig holds the threshold sampler parameters. Seed 0 draws a random seed.
type SamplerConfig struct {
	P         float64 `mapstructure:"p"         yaml:"p"`
	A         float64 `mapstructure:"a"         yaml:"a"`
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	Seed      uint64  `mapstructure:"seed"      yaml:"seed"`
}

// PlotConfig controls HTML chart generation.
type PlotConfig struct {
	Bins     int    `mapstructure:"bins"      yaml:"bins"`
	Theme    string `mapstructure:"theme"     yaml:"theme"`
	LogScale bool   `mapstructure:"log_scale" yaml:"log_scale"`
	Title    string `mapstructure:"title"     yaml:"title"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TelemetryConfig holds OpenTelemetry and metrics export settings.
type TelemetryConfig struct {
	OTLPEndpoint    string `mapstructure:"otlp_endpoint"    yaml:"otlp_endpoint"`
	OTLPInsecure    bool   `mapstructure:"otlp_insecure"    yaml:"otlp_insecure"`
	MetricsTextfile string `mapstructure:"metrics_textfile" yaml:"metrics_textfile"`
}

// Validate checks cross-field constraints that the loader cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.Degree.Split {
	case SplitMidpoint, SplitPowerOfTwo:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSplit, c.Degree.Split))
	}

	if c.Degree.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Degree.Workers))
	}

	if c.Degree.ParallelCutoff <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidCutoff, c.Degree.ParallelCutoff))
	}

	if c.Sampler.P < 0 || c.Sampler.P > 1 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidProbability, c.Sampler.P))
	}

	if c.Sampler.A < 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidBoost, c.Sampler.A))
	}

	if c.Sampler.Threshold < 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidThreshold, c.Sampler.Threshold))
	}

	if c.Plot.Bins <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidBins, c.Plot.Bins))
	}

	switch strings.ToLower(c.Plot.Theme) {
	case "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTheme, c.Plot.Theme))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format))
	}

	return errors.Join(errs...)
}
