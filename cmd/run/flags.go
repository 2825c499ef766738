package run

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/askiada/go-procgraph/pkg/config"
)

const (
	configFlag   = "config"
	inputFlag    = "input"
	clustersFlag = "clusters"
	sweepFlag    = "sweep"
)

// configFlags maps the flags overriding the config to their viper key.
var configFlags = map[string]string{
	"log-format":     "log.format",
	"log-level":      "log.level",
	"storage-engine": "storage.engine",
	"storage-uri":    "storage.uri",
	"draw":           "draw.file",
	"metrics":        "metrics.enabled",
	"metrics-file":   "metrics.file",
}

// mustBindPFlag binds key to a pflag and panics if the binding fails.
func mustBindPFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

func bindRunFlags(command *cobra.Command) {
	defaultConfig := config.DefaultConfig()
	flags := command.Flags()

	flags.String(configFlag, "", "the yaml config file")
	flags.String(inputFlag, "", "the CSV file of points, one point per row")
	flags.Int(clustersFlag, 0, "the number of clusters, overrides the config when positive")
	flags.IntSlice(sweepFlag, nil, "numbers of clusters tried from the embedding checkpoint, e.g. 2,3,4")

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output: 'text' or 'json'")
	flags.String("log-level", defaultConfig.Log.Level, "the log level: 'none', 'debug', 'info', 'warn' or 'error'")
	flags.String("storage-engine", defaultConfig.Storage.Engine, "the storage engine the labels are written to: 'memory' or 'sqlite'")
	flags.String("storage-uri", defaultConfig.Storage.URI, "the sqlite database of the 'sqlite' engine")
	flags.String("draw", defaultConfig.Draw.File, "the DOT file the processor graph is drawn to")
	flags.Bool("metrics", defaultConfig.Metrics.Enabled, "record the stage durations in a prometheus histogram")
	flags.String("metrics-file", defaultConfig.Metrics.File, "the file the prometheus histogram is written to")

	_ = command.MarkFlagRequired(inputFlag)
}

// readConfig reads the config file given by flag, the environment and the changed flags.
func readConfig(command *cobra.Command) (*config.Config, error) {
	flags := command.Flags()
	configFile, err := flags.GetString(configFlag)
	if err != nil {
		return nil, err
	}

	v := config.NewViper(configFile)
	for name, key := range configFlags {
		mustBindPFlag(v, key, flags.Lookup(name))
	}

	cfg, err := config.ReadConfig(v)
	if err != nil {
		return nil, err
	}

	return cfg, cfg.Verify()
}
