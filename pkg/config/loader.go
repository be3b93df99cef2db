package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = "disorder"
	configType      = "yaml"
	envPrefix       = "DISORDER"
	envKeySeparator = "_"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise disorder.yaml is searched in ".", "./config" and $HOME/.config/disorder.
// A missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	viperCfg := viper.New()
	applyDefaults(viperCfg)

	var cfg Config

	// Defaults are literals of the right types; decoding cannot fail.
	_ = viperCfg.Unmarshal(&cfg)

	return &cfg
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("input.format", DefaultInputFormat)
	viperCfg.SetDefault("input.column", DefaultInputColumn)
	viperCfg.SetDefault("input.layout", "")
	viperCfg.SetDefault("input.unit", DefaultInputUnit)
	viperCfg.SetDefault("input.location", "")

	viperCfg.SetDefault("degree.split", DefaultDegreeSplit)
	viperCfg.SetDefault("degree.workers", DefaultDegreeWorkers)
	viperCfg.SetDefault("degree.parallel_cutoff", DefaultDegreeParallelCutoff)

	viperCfg.SetDefault("sampler.p", DefaultSamplerP)
	viperCfg.SetDefault("sampler.a", DefaultSamplerA)
	viperCfg.SetDefault("sampler.threshold", DefaultSamplerThreshold)
	viperCfg.SetDefault("sampler.seed", DefaultSamplerSeed)

	viperCfg.SetDefault("plot.bins", DefaultPlotBins)
	viperCfg.SetDefault("plot.theme", DefaultPlotTheme)
	viperCfg.SetDefault("plot.log_scale", DefaultPlotLogScale)
	viperCfg.SetDefault("plot.title", DefaultPlotTitle)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.metrics_textfile", "")
}
