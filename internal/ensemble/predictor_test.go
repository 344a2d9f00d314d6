package ensemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
	"github.com/fomastreeman/match-predictor/internal/rating"
)

func predictionDay(n int) time.Time {
	return time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func stubEnsemble(members map[string]models.ProbabilityTriple) *Ensemble {
	ens := &Ensemble{Weights: Weights{}, TrainedAt: time.Now().UTC()}
	share := 1.0 / float64(len(members))
	for name, probs := range members {
		ens.Models = append(ens.Models, TrainedModel{
			Model:   &stubModel{name: name, probs: probs},
			Name:    name,
			CVScore: 0.5,
		})
		ens.Weights[name] = share
	}
	return ens
}

func newTestPredictor(t *testing.T, ens *Ensemble, history []models.Match) *Predictor {
	t.Helper()
	tracker := rating.NewTracker(rating.DefaultConfig(), nil)
	require.NoError(t, tracker.Replay(history))
	builder := features.NewBuilder(features.DefaultConfig(), tracker, nil)
	return NewPredictor(ens, builder, history, nil)
}

// TestPredictNotTrained tests the untrained-predictor guard
func TestPredictNotTrained(t *testing.T) {
	predictor := newTestPredictor(t, nil, nil)

	_, err := predictor.Predict("Arsenal", "Chelsea", predictionDay(30))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotTrained)

	predictor = newTestPredictor(t, &Ensemble{}, nil)
	_, err = predictor.Predict("Arsenal", "Chelsea", predictionDay(30))
	assert.ErrorIs(t, err, ErrNotTrained)
}

// TestPredictCombinesMembers tests the weighted combination and the
// derived confidence
func TestPredictCombinesMembers(t *testing.T) {
	ens := stubEnsemble(map[string]models.ProbabilityTriple{
		"a": {0.1, 0.2, 0.7},
		"b": {0.3, 0.3, 0.4},
	})
	predictor := newTestPredictor(t, ens, nil)

	result, err := predictor.Predict("Arsenal", "Chelsea", predictionDay(30))

	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Probabilities.Sum(), 1e-6)
	assert.InDelta(t, 0.55, result.Probabilities[2], 1e-9)
	assert.Equal(t, models.OutcomeHomeWin, result.Outcome)
	assert.InDelta(t, result.Probabilities[2], result.Confidence, 1e-9)
	assert.Len(t, result.ModelPredictions, 2)
	assert.Equal(t, models.OutcomeHomeWin, result.ModelPredictions["a"])
	assert.Equal(t, models.OutcomeHomeWin, result.ModelPredictions["b"])
	assert.InDelta(t, 1.0, result.ModelAgreement, 1e-9)
	assert.NotEqual(t, "", result.ID.String())
	assert.Equal(t, "Arsenal", result.HomeTeam)
	assert.Equal(t, "Chelsea", result.AwayTeam)
}

// TestPredictAgreementDropsOnSplit tests that disagreeing members lower
// the agreement score
func TestPredictAgreementDropsOnSplit(t *testing.T) {
	ens := stubEnsemble(map[string]models.ProbabilityTriple{
		"home_leaning": {0.1, 0.2, 0.7},
		"away_leaning": {0.7, 0.2, 0.1},
	})
	predictor := newTestPredictor(t, ens, nil)

	result, err := predictor.Predict("Arsenal", "Chelsea", predictionDay(30))

	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.ModelAgreement, 0.0)
	assert.Less(t, result.ModelAgreement, 1.0)
}

// TestPredictValidatesTeams tests team-name validation pass-through
func TestPredictValidatesTeams(t *testing.T) {
	ens := stubEnsemble(map[string]models.ProbabilityTriple{"a": {0.2, 0.3, 0.5}})
	predictor := newTestPredictor(t, ens, nil)

	_, err := predictor.Predict("", "Chelsea", predictionDay(30))
	assert.Error(t, err)

	_, err = predictor.Predict("Arsenal", "Arsenal", predictionDay(30))
	assert.Error(t, err)
}

// TestPredictorHistoryIsFrozen tests that the predictor keeps its own
// copy of the history passed at construction
func TestPredictorHistoryIsFrozen(t *testing.T) {
	history := []models.Match{
		{Date: predictionDay(0), HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeGoals: 2, AwayGoals: 0},
	}
	ens := stubEnsemble(map[string]models.ProbabilityTriple{"a": {0.2, 0.3, 0.5}})
	predictor := newTestPredictor(t, ens, history)

	history[0].HomeTeam = "Mutated"
	moreHistory := append(history, models.Match{Date: predictionDay(1)})
	_ = moreHistory

	assert.Equal(t, 1, predictor.HistorySize())
	// The mutation above must not reach the snapshot: features for the
	// original fixture still resolve
	result, err := predictor.Predict("Arsenal", "Chelsea", predictionDay(30))
	require.NoError(t, err)
	assert.Greater(t, result.Probabilities.Sum(), 0.0)
}

// TestAgreementBounds tests the pick-variance agreement measure directly
func TestAgreementBounds(t *testing.T) {
	assert.Equal(t, 0.0, agreement(nil))

	unanimous := map[string]models.Outcome{
		"a": models.OutcomeHomeWin, "b": models.OutcomeHomeWin, "c": models.OutcomeHomeWin,
	}
	assert.InDelta(t, 1.0, agreement(unanimous), 1e-9)

	// Maximal split between the two extreme classes zeroes the score
	split := map[string]models.Outcome{
		"a": models.OutcomeHomeWin, "b": models.OutcomeAwayWin,
	}
	assert.InDelta(t, 0.0, agreement(split), 1e-9)
}
