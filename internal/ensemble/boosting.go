package ensemble

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// BoostedTrees is a multiclass boosted ensemble of shallow CART trees
// (SAMME weighting). Each stage refits on examples reweighted toward the
// previous stage's mistakes.
type BoostedTrees struct {
	nStages    int
	maxDepth   int
	minSamples int
	seed       int64
	stages     []*decisionTree
	alphas     []float64
}

// NewBoostedTrees creates a boosted tree ensemble
func NewBoostedTrees(seed int64) *BoostedTrees {
	return &BoostedTrees{
		nStages:    40,
		maxDepth:   3,
		minSamples: 5,
		seed:       seed,
	}
}

// Name returns the model identifier
func (b *BoostedTrees) Name() string {
	return "boosted_trees"
}

// Fit runs the boosting rounds
func (b *BoostedTrees) Fit(examples []LabeledExample) error {
	if len(examples) == 0 {
		return fmt.Errorf("boosted_trees: no examples to fit")
	}
	X, y := toMatrix(examples)
	n := len(X)
	rng := rand.New(rand.NewSource(b.seed))

	idx := make([]int, n)
	w := make([]float64, n)
	for i := range idx {
		idx[i] = i
		w[i] = 1.0 / float64(n)
	}

	b.stages = nil
	b.alphas = nil
	for stage := 0; stage < b.nStages; stage++ {
		tree := &decisionTree{
			maxDepth:   b.maxDepth,
			minSamples: b.minSamples,
			rng:        rand.New(rand.NewSource(rng.Int63())),
		}
		tree.fitWeighted(X, y, idx, w)

		weightedErr := 0.0
		misclassified := make([]bool, n)
		for i := range X {
			if tree.predictClass(X[i]) != y[i] {
				misclassified[i] = true
				weightedErr += w[i]
			}
		}

		// SAMME requires the stage to beat random guessing over K classes
		if weightedErr >= 1.0-1.0/float64(numClasses) {
			if len(b.stages) == 0 {
				return fmt.Errorf("boosted_trees: first stage no better than chance (err=%.3f)", weightedErr)
			}
			break
		}
		if weightedErr < 1e-10 {
			weightedErr = 1e-10
		}

		alpha := math.Log((1-weightedErr)/weightedErr) + math.Log(float64(numClasses)-1)
		b.stages = append(b.stages, tree)
		b.alphas = append(b.alphas, alpha)

		total := 0.0
		for i := range w {
			if misclassified[i] {
				w[i] *= math.Exp(alpha)
			}
			total += w[i]
		}
		for i := range w {
			w[i] /= total
		}
	}

	if len(b.stages) == 0 {
		return fmt.Errorf("boosted_trees: no stages fitted")
	}
	return nil
}

// PredictProba converts accumulated stage votes into a distribution
func (b *BoostedTrees) PredictProba(v features.FeatureVector) models.ProbabilityTriple {
	if len(b.stages) == 0 {
		return uniformTriple()
	}
	x := v.Values()
	var scores models.ProbabilityTriple
	for s, tree := range b.stages {
		scores[tree.predictClass(x)] += b.alphas[s]
	}
	return normalizeTriple(scores)
}
