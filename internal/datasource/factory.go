package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/config"
)

// NewDataSource creates the configured DataSource with a rate-limited
// HTTP client sized from configuration
func NewDataSource(cfg config.DataSourceConfig, logger *logrus.Logger) (DataSource, error) {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	if cfg.TimeoutSecs > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}
	httpClient := NewRateLimitedHTTPClient(httpCfg, logger)

	switch cfg.Name {
	case footballDataSourceName, "":
		return NewFootballDataClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Enabled, logger), nil
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}
