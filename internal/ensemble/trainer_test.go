package ensemble

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// syntheticExamples builds a rating-separable training set: a large
// rating gap decides the outcome, a small one means a draw
func syntheticExamples(n int) []LabeledExample {
	rng := rand.New(rand.NewSource(7))
	out := make([]LabeledExample, 0, n)
	for i := 0; i < n; i++ {
		delta := rng.Float64()*400 - 200
		v := features.NeutralVector()
		v.HomeRating = 1500 + delta/2
		v.AwayRating = 1500 - delta/2
		v.RatingDelta = delta
		v.RatingRatio = v.HomeRating / v.AwayRating

		outcome := models.OutcomeDraw
		switch {
		case delta > 60:
			outcome = models.OutcomeHomeWin
		case delta < -60:
			outcome = models.OutcomeAwayWin
		}
		out = append(out, LabeledExample{Features: v, Outcome: outcome})
	}
	return out
}

type stubModel struct {
	name       string
	probs      models.ProbabilityTriple
	fitErr     error
	panicOnFit bool
}

func (s *stubModel) Name() string { return s.name }

func (s *stubModel) Fit(examples []LabeledExample) error {
	if s.panicOnFit {
		panic("stub blew up")
	}
	return s.fitErr
}

func (s *stubModel) PredictProba(v features.FeatureVector) models.ProbabilityTriple {
	return s.probs
}

func stubCandidate(name string, fitErr error, panicOnFit bool) candidate {
	return candidate{name, func(seed int64) Model {
		return &stubModel{
			name:       name,
			probs:      models.ProbabilityTriple{0.2, 0.3, 0.5},
			fitErr:     fitErr,
			panicOnFit: panicOnFit,
		}
	}}
}

// TestTrainInsufficientData tests the minimum-examples guard
func TestTrainInsufficientData(t *testing.T) {
	trainer := NewTrainer(DefaultTrainerConfig(), nil)

	_, err := trainer.Train(context.Background(), syntheticExamples(10))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

// TestTrainProducesWeightedEnsemble tests a full training run on
// separable data
func TestTrainProducesWeightedEnsemble(t *testing.T) {
	trainer := NewTrainer(DefaultTrainerConfig(), nil)

	ens, err := trainer.Train(context.Background(), syntheticExamples(90))

	require.NoError(t, err)
	assert.Len(t, ens.Models, 6)
	assert.Equal(t, 90, ens.Examples)
	assert.False(t, ens.TrainedAt.IsZero())
	assert.InDelta(t, 1.0, ens.Weights.Sum(), 1e-6)

	for _, tm := range ens.Models {
		assert.GreaterOrEqual(t, tm.CVScore, 0.0, "cv score for %s", tm.Name)
		assert.LessOrEqual(t, tm.CVScore, 1.0, "cv score for %s", tm.Name)
		assert.Greater(t, ens.Weights[tm.Name], 0.0, "weight for %s", tm.Name)
	}
}

// TestTrainDropsFailingModel tests that one failing member is dropped
// and the remaining weight mass renormalized
func TestTrainDropsFailingModel(t *testing.T) {
	trainer := NewTrainer(DefaultTrainerConfig(), nil)
	trainer.candidates = []candidate{
		stubCandidate("good", nil, false),
		stubCandidate("bad", errors.New("singular matrix"), false),
	}

	ens, err := trainer.Train(context.Background(), syntheticExamples(60))

	require.NoError(t, err)
	require.Len(t, ens.Models, 1)
	assert.Equal(t, "good", ens.Models[0].Name)
	assert.InDelta(t, 1.0, ens.Weights["good"], 1e-9)
	assert.NotContains(t, ens.Weights, "bad")
}

// TestTrainSurvivesModelPanic tests that a panicking member is treated
// like any other training failure
func TestTrainSurvivesModelPanic(t *testing.T) {
	trainer := NewTrainer(DefaultTrainerConfig(), nil)
	trainer.candidates = []candidate{
		stubCandidate("good", nil, false),
		stubCandidate("explosive", nil, true),
	}

	ens, err := trainer.Train(context.Background(), syntheticExamples(60))

	require.NoError(t, err)
	require.Len(t, ens.Models, 1)
	assert.Equal(t, "good", ens.Models[0].Name)
}

// TestTrainAllModelsFail tests the no-survivors error
func TestTrainAllModelsFail(t *testing.T) {
	trainer := NewTrainer(DefaultTrainerConfig(), nil)
	trainer.candidates = []candidate{
		stubCandidate("bad1", errors.New("nope"), false),
		stubCandidate("bad2", nil, true),
	}

	_, err := trainer.Train(context.Background(), syntheticExamples(60))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoModels)
}

// TestTrainDeterministicForSeed tests that two runs with the same seed
// produce identical weights
func TestTrainDeterministicForSeed(t *testing.T) {
	examples := syntheticExamples(90)

	first, err := NewTrainer(DefaultTrainerConfig(), nil).Train(context.Background(), examples)
	require.NoError(t, err)
	second, err := NewTrainer(DefaultTrainerConfig(), nil).Train(context.Background(), examples)
	require.NoError(t, err)

	require.Len(t, second.Weights, len(first.Weights))
	for name, w := range first.Weights {
		assert.InDelta(t, w, second.Weights[name], 1e-12, "weight for %s", name)
	}
}
