package ensemble

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// Forest is a bagging-style ensemble of CART trees. With bootstrap
// sampling and sqrt-feature subsampling it behaves as a random forest;
// with full samples and random split thresholds it behaves as an
// extra-randomized-trees model.
type Forest struct {
	name            string
	nTrees          int
	maxDepth        int
	minSamples      int
	bootstrap       bool
	randomThreshold bool
	seed            int64
	trees           []*decisionTree
}

// NewRandomForest creates a bagged tree ensemble
func NewRandomForest(seed int64) *Forest {
	return &Forest{
		name:       "random_forest",
		nTrees:     60,
		maxDepth:   8,
		minSamples: 5,
		bootstrap:  true,
		seed:       seed,
	}
}

// NewExtraTrees creates an extra-randomized tree ensemble
func NewExtraTrees(seed int64) *Forest {
	return &Forest{
		name:            "extra_trees",
		nTrees:          60,
		maxDepth:        8,
		minSamples:      5,
		randomThreshold: true,
		seed:            seed,
	}
}

// Name returns the model identifier
func (f *Forest) Name() string {
	return f.name
}

// Fit grows the forest on the labeled examples
func (f *Forest) Fit(examples []LabeledExample) error {
	if len(examples) == 0 {
		return fmt.Errorf("%s: no examples to fit", f.name)
	}
	X, y := toMatrix(examples)
	dim := len(X[0])
	maxFeatures := int(math.Sqrt(float64(dim)))
	rng := rand.New(rand.NewSource(f.seed))

	f.trees = make([]*decisionTree, f.nTrees)
	for t := 0; t < f.nTrees; t++ {
		tree := &decisionTree{
			maxDepth:        f.maxDepth,
			minSamples:      f.minSamples,
			maxFeatures:     maxFeatures,
			randomThreshold: f.randomThreshold,
			rng:             rand.New(rand.NewSource(rng.Int63())),
		}

		idx := make([]int, len(X))
		if f.bootstrap {
			for i := range idx {
				idx[i] = tree.rng.Intn(len(X))
			}
		} else {
			for i := range idx {
				idx[i] = i
			}
		}

		tree.fitWeighted(X, y, idx, nil)
		f.trees[t] = tree
	}
	return nil
}

// PredictProba averages the class distributions across all trees
func (f *Forest) PredictProba(v features.FeatureVector) models.ProbabilityTriple {
	if len(f.trees) == 0 {
		return uniformTriple()
	}
	x := v.Values()
	var sum models.ProbabilityTriple
	for _, tree := range f.trees {
		p := tree.predictProba(x)
		for c := range sum {
			sum[c] += p[c]
		}
	}
	for c := range sum {
		sum[c] /= float64(len(f.trees))
	}
	return normalizeTriple(sum)
}
