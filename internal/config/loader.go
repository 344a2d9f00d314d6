// Package config provides configuration management for the match predictor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("MATCH_PREDICTOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a configuration populated with the documented defaults,
// suitable for running without a config file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults are compile-time constants; unmarshal cannot fail here
	_ = v.Unmarshal(cfg)
	return cfg
}

// setDefaults registers the documented default value for every parameter.
// These mirror the reference behavior and are deliberately heuristic.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "match-predictor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("rating.k_factor", 32.0)
	v.SetDefault("rating.initial_rating", 1500.0)
	v.SetDefault("rating.home_advantage", 65.0)

	v.SetDefault("features.form_windows", []int{3, 5, 10})
	v.SetDefault("features.momentum_window", 5)
	v.SetDefault("features.trend_window", 10)
	v.SetDefault("features.head_to_head_limit", 8)

	v.SetDefault("ensemble.min_examples", 50)
	v.SetDefault("ensemble.temperature", 3.0)
	v.SetDefault("ensemble.cv_folds", 3)
	v.SetDefault("ensemble.seed", 42)
	v.SetDefault("ensemble.cache_ttl_seconds", 3600)
	v.SetDefault("ensemble.cache_max_size", 1000)

	v.SetDefault("backtest.holdout_size", 20)
	v.SetDefault("backtest.progressive", false)
	v.SetDefault("backtest.high_confidence", 0.6)
	v.SetDefault("backtest.output_path", "./output/backtest_report.json")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "match_predictor")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("source.enabled", false)
	v.SetDefault("source.name", "football_data")
	v.SetDefault("source.base_url", "https://api.football-data.org/v4")
	v.SetDefault("source.rate_limit", 10.0)
	v.SetDefault("source.timeout_seconds", 30)
	v.SetDefault("source.sync_schedule", "0 3 * * *")
	v.SetDefault("source.sync_days", 7)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
