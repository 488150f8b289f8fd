package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a
// reagency.yaml config file in the working directory. Environment
// variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("dirs.run_dir", "runs")
	v.SetDefault("dirs.dataset_dir", "datasets")
	v.SetDefault("dirs.cache_dir", "cache")
	v.SetDefault("log.level", "info")

	v.SetConfigName("reagency")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REAGENCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
