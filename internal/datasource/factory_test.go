package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fomastreeman/match-predictor/internal/config"
)

func TestNewDataSourceFootballData(t *testing.T) {
	source, err := NewDataSource(config.DataSourceConfig{
		Name:    "football_data",
		BaseURL: "https://api.example.org/v4",
		APIKey:  "key",
		Enabled: true,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "football_data", source.Name())
	assert.True(t, source.IsEnabled())
}

func TestNewDataSourceDefaultsToFootballData(t *testing.T) {
	source, err := NewDataSource(config.DataSourceConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "football_data", source.Name())
}

func TestNewDataSourceUnknownProvider(t *testing.T) {
	_, err := NewDataSource(config.DataSourceConfig{Name: "sportsradar"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data source")
}
