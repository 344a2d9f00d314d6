package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPClient(t *testing.T) *RateLimitedHTTPClient {
	t.Helper()
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewRateLimitedHTTPClient(cfg, logger)
}

func newTestFootballClient(t *testing.T, baseURL string) *FootballDataClient {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewFootballDataClient(newTestHTTPClient(t), baseURL, "test-key", true, logger)
}

const sampleMatchesJSON = `{
  "matches": [
    {
      "utcDate": "2024-08-17T14:00:00Z",
      "status": "FINISHED",
      "homeTeam": {"name": "Arsenal"},
      "awayTeam": {"name": "Wolves"},
      "score": {"fullTime": {"home": 2, "away": 0}},
      "competition": {"name": "Premier League"}
    },
    {
      "utcDate": "2024-08-18T15:30:00Z",
      "status": "FINISHED",
      "homeTeam": {"name": "Chelsea"},
      "awayTeam": {"name": "Manchester City"},
      "score": {"fullTime": {"home": 0, "away": 2}},
      "competition": {"name": "Premier League"}
    },
    {
      "utcDate": "2024-08-24T14:00:00Z",
      "status": "SCHEDULED",
      "homeTeam": {"name": "Brighton"},
      "awayTeam": {"name": "Manchester United"},
      "score": {"fullTime": {"home": null, "away": null}},
      "competition": {"name": "Premier League"}
    }
  ]
}`

func TestFetchMatchesParsesFinishedResults(t *testing.T) {
	var gotPath, gotQuery, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotToken = r.Header.Get("X-Auth-Token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleMatchesJSON))
	}))
	defer server.Close()

	client := newTestFootballClient(t, server.URL)
	start := time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 8, 24, 0, 0, 0, 0, time.UTC)

	matches, err := client.FetchMatches(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, "/matches", gotPath)
	assert.Contains(t, gotQuery, "dateFrom=2024-08-17")
	assert.Contains(t, gotQuery, "dateTo=2024-08-24")
	assert.Contains(t, gotQuery, "status=FINISHED")
	assert.Equal(t, "test-key", gotToken)

	require.Len(t, matches, 2, "scheduled fixtures without scores should be skipped")
	assert.Equal(t, "Arsenal", matches[0].HomeTeam)
	assert.Equal(t, "Wolves", matches[0].AwayTeam)
	assert.Equal(t, 2, matches[0].HomeGoals)
	assert.Equal(t, 0, matches[0].AwayGoals)
	assert.Equal(t, "Premier League", matches[0].League)
	assert.Equal(t, time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC), matches[0].Date)
	assert.Equal(t, "Chelsea", matches[1].HomeTeam)
	assert.Equal(t, 2, matches[1].AwayGoals)
}

func TestFetchMatchesAuthenticationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestFootballClient(t, server.URL)
	_, err := client.FetchMatches(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
	assert.Equal(t, "football_data", dsErr.Source)
}

func TestFetchMatchesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestFootballClient(t, server.URL)
	_, err := client.FetchMatches(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchMatchesInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestFootballClient(t, server.URL)
	_, err := client.FetchMatches(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)

	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
}

func TestFootballDataClientMetadata(t *testing.T) {
	client := newTestFootballClient(t, "http://localhost")
	assert.Equal(t, "football_data", client.Name())
	assert.True(t, client.IsEnabled())

	disabled := NewFootballDataClient(newTestHTTPClient(t), "", "", false, nil)
	assert.False(t, disabled.IsEnabled())
	assert.Equal(t, "https://api.football-data.org/v4", disabled.baseURL)
}
