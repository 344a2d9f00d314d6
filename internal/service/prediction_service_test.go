package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fomastreeman/match-predictor/internal/ensemble"
	"github.com/fomastreeman/match-predictor/internal/models"
)

func serviceHistory(n int) []models.Match {
	teams := []string{"Arsenal", "Chelsea", "Liverpool", "Spurs", "Everton", "Fulham"}
	strength := map[string]int{
		"Arsenal": 6, "Chelsea": 5, "Liverpool": 4,
		"Spurs": 3, "Everton": 2, "Fulham": 1,
	}

	rng := rand.New(rand.NewSource(11))
	start := time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC)

	matches := make([]models.Match, 0, n)
	for len(matches) < n {
		home := teams[rng.Intn(len(teams))]
		away := teams[rng.Intn(len(teams))]
		if home == away {
			continue
		}
		homeGoals, awayGoals := 2, 0
		if strength[home] < strength[away] {
			homeGoals, awayGoals = 0, 2
		}
		matches = append(matches, models.Match{
			Date:      start.AddDate(0, 0, len(matches)),
			HomeTeam:  home,
			AwayTeam:  away,
			HomeGoals: homeGoals,
			AwayGoals: awayGoals,
		})
	}
	return matches
}

func TestServicePredictBeforeTrain(t *testing.T) {
	svc := NewPredictionService(nil, nil)

	assert.False(t, svc.Trained())
	_, err := svc.Predict("Arsenal", "Chelsea", time.Now())
	assert.ErrorIs(t, err, ensemble.ErrNotTrained)
}

func TestServiceTrainAndPredict(t *testing.T) {
	svc := NewPredictionService(nil, nil)
	history := serviceHistory(80)

	require.NoError(t, svc.Train(context.Background(), history))
	assert.True(t, svc.Trained())
	assert.Equal(t, 80, svc.HistorySize())

	asOf := history[len(history)-1].Date.AddDate(0, 0, 7)
	result, err := svc.Predict("Arsenal", "Fulham", asOf)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Probabilities.Sum(), 1e-6)
	_, maxProb := result.Probabilities.ArgMax()
	assert.InDelta(t, maxProb, result.Confidence, 1e-9)

	// Second request for the same fixture is served from cache
	again, err := svc.Predict("Arsenal", "Fulham", asOf)
	require.NoError(t, err)
	assert.Same(t, result, again)
}

func TestServiceTrainRejectsUnsorted(t *testing.T) {
	history := serviceHistory(80)
	history[0], history[79] = history[79], history[0]

	err := NewPredictionService(nil, nil).Train(context.Background(), history)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sorted")
}

func TestServiceBacktest(t *testing.T) {
	svc := NewPredictionService(nil, nil)

	report, err := svc.Backtest(context.Background(), serviceHistory(100))

	require.NoError(t, err)
	assert.Equal(t, 80, report.TrainSize)
	assert.Equal(t, 20, report.TestSize)
	// A strength-ordered league is very learnable
	assert.Greater(t, report.Accuracy, 0.5)
}
