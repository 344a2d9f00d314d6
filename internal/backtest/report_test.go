package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fomastreeman/match-predictor/internal/models"
)

func evalFor(predicted, actual models.Outcome, confidence float64) Evaluation {
	probs := models.ProbabilityTriple{}
	probs[int(predicted)] = confidence

	var homeGoals, awayGoals int
	switch actual {
	case models.OutcomeHomeWin:
		homeGoals = 2
	case models.OutcomeAwayWin:
		awayGoals = 2
	case models.OutcomeDraw:
		homeGoals, awayGoals = 1, 1
	}

	return Evaluation{
		Match: models.Match{
			Date:      time.Date(2024, 12, 1, 15, 0, 0, 0, time.UTC),
			HomeTeam:  "Arsenal",
			AwayTeam:  "Chelsea",
			HomeGoals: homeGoals,
			AwayGoals: awayGoals,
		},
		Prediction: &models.PredictionResult{
			Outcome:       predicted,
			Probabilities: probs,
			Confidence:    confidence,
		},
		Actual:  actual,
		Correct: predicted == actual,
	}
}

// TestBucketIndexBoundaries tests the confidence band edges
func TestBucketIndexBoundaries(t *testing.T) {
	buckets := newBuckets()

	assert.Equal(t, 0, bucketIndex(buckets, 0.0))
	assert.Equal(t, 0, bucketIndex(buckets, 0.39))
	assert.Equal(t, 1, bucketIndex(buckets, 0.4))
	assert.Equal(t, 1, bucketIndex(buckets, 0.59))
	assert.Equal(t, 2, bucketIndex(buckets, 0.6))
	assert.Equal(t, 3, bucketIndex(buckets, 0.8))
	assert.Equal(t, 3, bucketIndex(buckets, 1.0))
}

// TestBuildReportPrecisionRecall tests the per-outcome breakdown on a
// hand-built evaluation set
func TestBuildReportPrecisionRecall(t *testing.T) {
	evals := []Evaluation{
		evalFor(models.OutcomeHomeWin, models.OutcomeHomeWin, 0.7),
		evalFor(models.OutcomeHomeWin, models.OutcomeDraw, 0.65),
		evalFor(models.OutcomeDraw, models.OutcomeDraw, 0.45),
		evalFor(models.OutcomeAwayWin, models.OutcomeAwayWin, 0.85),
	}

	report := buildReport(80, 0.6, evals)

	assert.Equal(t, 80, report.TrainSize)
	assert.Equal(t, 4, report.TestSize)
	assert.Equal(t, 3, report.Correct)
	assert.InDelta(t, 0.75, report.Accuracy, 1e-9)

	homeWin := report.Outcomes[models.OutcomeHomeWin.String()]
	assert.Equal(t, 1, homeWin.Support)
	assert.Equal(t, 2, homeWin.Predicted)
	assert.InDelta(t, 0.5, homeWin.Precision, 1e-9)
	assert.InDelta(t, 1.0, homeWin.Recall, 1e-9)

	draw := report.Outcomes[models.OutcomeDraw.String()]
	assert.Equal(t, 2, draw.Support)
	assert.InDelta(t, 0.5, draw.Recall, 1e-9)
	assert.InDelta(t, 1.0, draw.Precision, 1e-9)

	// High-confidence split: 0.7 hit, 0.85 hit, 0.65 miss
	require.Len(t, report.HighConfidenceHits, 2)
	require.Len(t, report.HighConfidenceMisses, 1)
	assert.InDelta(t, 0.65, report.HighConfidenceMisses[0].Confidence, 1e-9)
}
