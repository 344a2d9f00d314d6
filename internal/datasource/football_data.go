package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/models"
)

const footballDataSourceName = "football_data"

// FootballDataClient fetches finished match results from a
// football-data.org compatible REST API
type FootballDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// NewFootballDataClient creates a football-data API client
func NewFootballDataClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *FootballDataClient {
	if logger == nil {
		logger = logrus.New()
	}
	if baseURL == "" {
		baseURL = "https://api.football-data.org/v4"
	}
	return &FootballDataClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the data source name
func (c *FootballDataClient) Name() string {
	return footballDataSourceName
}

// IsEnabled returns whether this source is enabled
func (c *FootballDataClient) IsEnabled() bool {
	return c.enabled
}

// matchesResponse mirrors the provider's wire format
type matchesResponse struct {
	Matches []struct {
		UTCDate time.Time `json:"utcDate"`
		Status  string    `json:"status"`
		HomeTeam struct {
			Name string `json:"name"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"awayTeam"`
		Score struct {
			FullTime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"fullTime"`
		} `json:"score"`
		Competition struct {
			Name string `json:"name"`
		} `json:"competition"`
	} `json:"matches"`
}

// FetchMatches retrieves finished matches within [startDate, endDate]
func (c *FootballDataClient) FetchMatches(ctx context.Context, startDate, endDate time.Time) ([]models.Match, error) {
	url := fmt.Sprintf("%s/matches?dateFrom=%s&dateTo=%s&status=FINISHED",
		c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to build request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Auth-Token", c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "check API key", ErrAuthenticationFailed)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "provider rate limit hit", ErrRateLimitExceeded)
	case http.StatusNotFound:
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "no matches for range", ErrNotFound)
	default:
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to decode response", err)
	}

	matches := make([]models.Match, 0, len(payload.Matches))
	skipped := 0
	for _, m := range payload.Matches {
		if m.Status != "FINISHED" || m.Score.FullTime.Home == nil || m.Score.FullTime.Away == nil {
			skipped++
			continue
		}
		matches = append(matches, models.Match{
			Date:      m.UTCDate,
			HomeTeam:  m.HomeTeam.Name,
			AwayTeam:  m.AwayTeam.Name,
			HomeGoals: *m.Score.FullTime.Home,
			AwayGoals: *m.Score.FullTime.Away,
			League:    m.Competition.Name,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"source":  c.Name(),
		"fetched": len(matches),
		"skipped": skipped,
		"from":    startDate.Format("2006-01-02"),
		"to":      endDate.Format("2006-01-02"),
	}).Info("Fetched match results")

	return matches, nil
}
