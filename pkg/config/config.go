// Package config loads the configuration of a processor graph run from a yaml file, environment
// variables prefixed with PROCGRAPH and command line flags.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "PROCGRAPH"

var ErrInvalidConfig = errors.New("invalid config")

type LogConfig struct {
	// Format is json or text.
	Format string `mapstructure:"format"`
	// Level is none, debug, info, warn or error.
	Level string `mapstructure:"level"`
}

type StorageConfig struct {
	// Engine is memory or sqlite.
	Engine string `mapstructure:"engine"`
	URI    string `mapstructure:"uri"`
}

// TaskConfig replaces a task of the pipeline. When Kind is empty Params apply to the default processor of the task.
type TaskConfig struct {
	Kind   string         `mapstructure:"kind"`
	Params map[string]any `mapstructure:"params"`
}

type PipelineConfig struct {
	Kind  string                `mapstructure:"kind"`
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

type DrawConfig struct {
	// File is the DOT file the processor graph is drawn to. Nothing is drawn when it is empty.
	File string `mapstructure:"file"`
}

type MetricsConfig struct {
	// Enabled records the stage durations in a prometheus histogram.
	Enabled bool `mapstructure:"enabled"`
	// File receives the histogram in the prometheus text format once the run is over.
	File string `mapstructure:"file"`
}

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Draw     DrawConfig     `mapstructure:"draw"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Storage: StorageConfig{
			Engine: "memory",
		},
		Pipeline: PipelineConfig{
			Kind: "SpectralClustering",
		},
	}
}

// Verify checks the values that cannot be checked by the pipeline itself.
func (cfg *Config) Verify() error {
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return errors.Wrapf(ErrInvalidConfig, "log format %q", cfg.Log.Format)
	}

	switch cfg.Storage.Engine {
	case "memory":
	case "sqlite":
		if cfg.Storage.URI == "" {
			return errors.Wrap(ErrInvalidConfig, "storage uri is required by the sqlite engine")
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "storage engine %q", cfg.Storage.Engine)
	}

	if cfg.Metrics.File != "" && !cfg.Metrics.Enabled {
		return errors.Wrap(ErrInvalidConfig, "metrics file requires metrics to be enabled")
	}

	if cfg.Pipeline.Kind == "" {
		return errors.Wrap(ErrInvalidConfig, "pipeline kind is required")
	}

	return nil
}

// NewViper creates a viper instance reading configFile, if set, and the PROCGRAPH_ environment variables,
// e.g. PROCGRAPH_LOG_LEVEL for log.level.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// environment variables are only looked up for known keys
	def := DefaultConfig()
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("storage.engine", def.Storage.Engine)
	v.SetDefault("storage.uri", def.Storage.URI)
	v.SetDefault("pipeline.kind", def.Pipeline.Kind)
	v.SetDefault("draw.file", def.Draw.File)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.file", def.Metrics.File)

	return v
}

// ReadConfig reads the config file of v, if any, and unmarshals it over the defaults.
func ReadConfig(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()

	if v.ConfigFileUsed() != "" {
		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}

	err := v.Unmarshal(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return config, nil
}
