// Package config provides configuration management for the match predictor.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig        `mapstructure:"app" validate:"required"`
	Rating   RatingConfig     `mapstructure:"rating" validate:"required"`
	Features FeaturesConfig   `mapstructure:"features" validate:"required"`
	Ensemble EnsembleConfig   `mapstructure:"ensemble" validate:"required"`
	Backtest BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Database DatabaseConfig   `mapstructure:"database"`
	Source   DataSourceConfig `mapstructure:"source"`
	Metrics  MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// RatingConfig controls the Elo-style team rating tracker.
// The defaults are the hand-tuned reference values; they are configuration,
// not constants derived from first principles.
type RatingConfig struct {
	KFactor       float64 `mapstructure:"k_factor" validate:"required,gt=0"`
	InitialRating float64 `mapstructure:"initial_rating" validate:"required,gt=0"`
	HomeAdvantage float64 `mapstructure:"home_advantage" validate:"gte=0"`
}

// FeaturesConfig controls point-in-time feature construction
type FeaturesConfig struct {
	FormWindows     []int `mapstructure:"form_windows" validate:"required,min=1,dive,gt=0"`
	MomentumWindow  int   `mapstructure:"momentum_window" validate:"required,gt=0"`
	TrendWindow     int   `mapstructure:"trend_window" validate:"required,gt=1"`
	HeadToHeadLimit int   `mapstructure:"head_to_head_limit" validate:"required,gt=0"`
}

// EnsembleConfig controls ensemble training and weighting
type EnsembleConfig struct {
	MinExamples  int     `mapstructure:"min_examples" validate:"required,gte=10"`
	Temperature  float64 `mapstructure:"temperature" validate:"required,gt=0"`
	CVFolds      int     `mapstructure:"cv_folds" validate:"required,gte=3,lte=5"`
	Seed         int64   `mapstructure:"seed"`
	CacheTTLSecs int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// BacktestConfig represents walk-forward backtesting configuration
type BacktestConfig struct {
	HoldoutSize    int     `mapstructure:"holdout_size" validate:"required,gt=0"`
	Progressive    bool    `mapstructure:"progressive"`
	HighConfidence float64 `mapstructure:"high_confidence" validate:"required,gt=0,lte=1"`
	OutputPath     string  `mapstructure:"output_path" validate:"required"`
}

// DatabaseConfig represents database connection configuration.
// The database is an optional collaborator; the prediction core never
// touches it directly.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// DataSourceConfig represents an external match-result provider.
// Ingestion is an optional collaborator like the database; the
// prediction core never fetches anything itself.
type DataSourceConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Name         string  `mapstructure:"name"`
	BaseURL      string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey       string  `mapstructure:"api_key"`
	RateLimit    float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
	TimeoutSecs  int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	SyncSchedule string  `mapstructure:"sync_schedule"`
	SyncDays     int     `mapstructure:"sync_days" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
