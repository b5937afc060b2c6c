// Package config loads run configuration for the pipesim CLI driver:
// clock rate, trace verbosity, and color output, layered over
// flags/environment/an optional .pipesim.yaml.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the resolved run configuration for one pipesim invocation.
type Config struct {
	RateHz  int    `mapstructure:"rate"`
	Trace   bool   `mapstructure:"trace"`
	Color   bool   `mapstructure:"color"`
	LogFile string `mapstructure:"log_file"`
}

const (
	defaultRateHz = 1
	minRateHz     = 1
	maxRateHz     = 100
)

// Load resolves configuration from, in increasing priority: built-in
// defaults, an optional .pipesim.yaml (searched in the home directory
// unless cfgFile names one explicitly), environment variables prefixed
// PIPESIM_, and finally whatever the caller already set directly on v
// via cobra flag bindings.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	v.SetDefault("rate", defaultRateHz)
	v.SetDefault("trace", false)
	v.SetDefault("color", true)
	v.SetDefault("log_file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".pipesim")
	}

	v.SetEnvPrefix("pipesim")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RateHz < minRateHz || cfg.RateHz > maxRateHz {
		return Config{}, fmt.Errorf("rate must be between %d and %d Hz, got %d", minRateHz, maxRateHz, cfg.RateHz)
	}

	return cfg, nil
}
