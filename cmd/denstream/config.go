package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/YuminosukeSato/denstream/core/denstream"
	"github.com/YuminosukeSato/denstream/pkg/errors"
)

const envPrefix = "DENSTREAM"

// newViper layers DENSTREAM_* environment variables and an optional config
// file over the defaults for the given dimensionality.
func newViper(configPath string, dimensions int) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v, denstream.DefaultConfig(dimensions))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper, cfg denstream.Config) {
	v.SetDefault("dimensions", cfg.Dimensions)
	v.SetDefault("window_range", cfg.WindowRange)
	v.SetDefault("epsilon", cfg.Epsilon)
	v.SetDefault("beta", cfg.Beta)
	v.SetDefault("mu", cfg.Mu)
	v.SetDefault("init_points", cfg.InitPoints)
	v.SetDefault("offline_multiplier", cfg.OfflineMultiplier)
	v.SetDefault("lambda", cfg.Lambda)
	v.SetDefault("processing_speed", cfg.ProcessingSpeed)
}

// loadConfig resolves and validates the engine configuration. The point
// dimensionality comes from the input; a config file that disagrees is an error.
func loadConfig(configPath string, dimensions int) (denstream.Config, error) {
	v, err := newViper(configPath, dimensions)
	if err != nil {
		return denstream.Config{}, err
	}

	var cfg denstream.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return denstream.Config{}, errors.Wrap(err, "failed to unmarshal config")
	}
	if cfg.Dimensions != dimensions {
		return denstream.Config{}, errors.NewDimensionError("config", dimensions, cfg.Dimensions, 1)
	}
	if err := cfg.Validate(); err != nil {
		return denstream.Config{}, err
	}
	return cfg, nil
}
