// Package config provides configuration loading and validation for procstats.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Report formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// envPrefix prefixes environment overrides, e.g. PROCSTATS_OUTPUT_FORMAT.
const envPrefix = "PROCSTATS"

// Sentinel validation errors.
var (
	ErrInvalidFormat    = errors.New("unknown output format")
	ErrInvalidLogFormat = errors.New("unknown log format")
	ErrInvalidWorkers   = errors.New("pipeline workers must be positive")
	ErrInvalidColumn    = errors.New("input column must not be negative")
	ErrInvalidPrecision = errors.New("frequency precision out of range")
	ErrInvalidChartSize = errors.New("chart width and height must be positive")
)

// Formats lists the accepted report formats.
var Formats = []string{FormatText, FormatTable, FormatJSON, FormatYAML}

// Config holds all configuration for a procstats run.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Frequency FrequencyConfig `mapstructure:"frequency"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// InputConfig describes where the measurement lives in each CSV record.
type InputConfig struct {
	Column int `mapstructure:"column"`
}

// OutputConfig holds report and chart destination settings.
type OutputConfig struct {
	Directory string `mapstructure:"directory"`
	Format    string `mapstructure:"format"`
	NoColor   bool   `mapstructure:"no_color"`
}

// ChartConfig holds frequency polygon settings.
type ChartConfig struct {
	Width   int  `mapstructure:"width"`
	Height  int  `mapstructure:"height"`
	Enabled bool `mapstructure:"enabled"`
	HTML    bool `mapstructure:"html"`
}

// FrequencyConfig controls how values are grouped for the polygon.
type FrequencyConfig struct {
	Precision int `mapstructure:"precision"`
}

// PipelineConfig holds sample pipeline execution settings.
type PipelineConfig struct {
	Workers int `mapstructure:"workers"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches for procstats.yaml in the usual places and
// tolerates its absence; an explicit path must exist.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("procstats")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/procstats")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("input.column", DefaultInputColumn)

	viperCfg.SetDefault("output.directory", DefaultOutputDirectory)
	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.no_color", DefaultOutputNoColor)

	viperCfg.SetDefault("chart.enabled", DefaultChartEnabled)
	viperCfg.SetDefault("chart.html", DefaultChartHTML)
	viperCfg.SetDefault("chart.width", DefaultChartWidth)
	viperCfg.SetDefault("chart.height", DefaultChartHeight)

	viperCfg.SetDefault("frequency.precision", DefaultFrequencyPrecision)

	viperCfg.SetDefault("pipeline.workers", DefaultPipelineWorkers)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)
}

// Validate checks a configuration, typically after flag overrides were applied.
func Validate(config *Config) error {
	if !slices.Contains(Formats, config.Output.Format) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFormat, config.Output.Format, strings.Join(Formats, ", "))
	}

	if config.Logging.Format != LogFormatText && config.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Pipeline.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Pipeline.Workers)
	}

	if config.Input.Column < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidColumn, config.Input.Column)
	}

	if config.Frequency.Precision < DefaultFrequencyPrecision || config.Frequency.Precision > MaxFrequencyPrecision {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, config.Frequency.Precision)
	}

	if config.Chart.Width <= 0 || config.Chart.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidChartSize, config.Chart.Width, config.Chart.Height)
	}

	return nil
}
