package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/mixtree/blob"
	"github.com/arloliu/mixtree/cluster"
	"github.com/arloliu/mixtree/divergence"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/mixw"
)

const envPrefix = "MIXTREE"

// config holds the settings shared by every command. Keys mirror flag names.
type config struct {
	Metric    string  `mapstructure:"metric"`
	Floor     float64 `mapstructure:"floor"`
	Workers   int     `mapstructure:"workers"`
	Compress  string  `mapstructure:"compress"`
	BigEndian bool    `mapstructure:"big-endian"`
	LogLevel  string  `mapstructure:"log-level"`
	LogFormat string  `mapstructure:"log-format"`
}

func addPersistentFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "YAML config file; keys mirror flag names")
	f.String("metric", divergence.MetricJS.String(), "divergence metric (js, kl, sqdiff)")
	f.Float64("floor", mixw.DefaultFloor, "floor applied to every normalized distribution")
	f.Int("workers", 1, "goroutines scoring merge candidates")
	f.String("compress", "none", "output compression (none, zstd, s2, lz4)")
	f.Bool("big-endian", false, "write big-endian output")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.String("log-format", "text", "log format (text, json, auto)")
}

// loadConfig resolves settings from flags, MIXTREE_* environment variables
// and the optional config file, in that order of precedence.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

func (c *config) clusterOptions() ([]cluster.Option, error) {
	m, err := divergence.ParseMetric(c.Metric)
	if err != nil {
		return nil, err
	}

	return []cluster.Option{cluster.WithMetric(m), cluster.WithWorkers(c.Workers)}, nil
}

func (c *config) encoderOptions() ([]blob.EncoderOption, error) {
	ct, err := format.ParseCompression(c.Compress)
	if err != nil {
		return nil, err
	}

	opts := []blob.EncoderOption{blob.WithLittleEndian(), blob.WithCompression(ct)}
	if c.BigEndian {
		opts[0] = blob.WithBigEndian()
	}

	return opts, nil
}
