package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModelsProduceValidDistributions tests every candidate family on
// the same separable set: fitted models must emit proper probability
// distributions for unseen inputs
func TestModelsProduceValidDistributions(t *testing.T) {
	examples := syntheticExamples(90)
	probe := syntheticExamples(100)[90:]

	for _, cand := range defaultCandidates() {
		t.Run(cand.name, func(t *testing.T) {
			model := cand.build(42)
			require.NoError(t, model.Fit(examples))

			for _, ex := range probe {
				probs := model.PredictProba(ex.Features)
				assert.InDelta(t, 1.0, probs.Sum(), 1e-6)
				for class, p := range probs {
					assert.GreaterOrEqual(t, p, 0.0, "class %d", class)
					assert.LessOrEqual(t, p, 1.0, "class %d", class)
				}
			}
		})
	}
}

// TestTreeModelsLearnSeparableData tests that the tree families recover
// an easily separable signal on their own training set
func TestTreeModelsLearnSeparableData(t *testing.T) {
	examples := syntheticExamples(120)

	for _, name := range []string{"random_forest", "extra_trees", "boosted_trees", "logistic"} {
		t.Run(name, func(t *testing.T) {
			var model Model
			for _, cand := range defaultCandidates() {
				if cand.name == name {
					model = cand.build(42)
				}
			}
			require.NotNil(t, model)
			require.NoError(t, model.Fit(examples))

			correct := 0
			for _, ex := range examples {
				if argmaxProbs(model.PredictProba(ex.Features)) == int(ex.Outcome) {
					correct++
				}
			}
			accuracy := float64(correct) / float64(len(examples))
			assert.Greater(t, accuracy, 0.6, "training accuracy")
		})
	}
}

// TestFitRejectsEmptyInput tests the empty training set edge case
func TestFitRejectsEmptyInput(t *testing.T) {
	for _, cand := range defaultCandidates() {
		t.Run(cand.name, func(t *testing.T) {
			assert.Error(t, cand.build(42).Fit(nil))
		})
	}
}
