package ensemble

import (
	"math"

	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// numClasses is the number of outcome labels (away win, draw, home win)
const numClasses = 3

// LabeledExample pairs a feature vector with the known match outcome
type LabeledExample struct {
	Features features.FeatureVector
	Outcome  models.Outcome
}

// Model is a classifier over feature vectors producing outcome
// probabilities. Implementations are single-use: construct, Fit once,
// then treat as immutable and safe for concurrent PredictProba calls.
type Model interface {
	Name() string
	Fit(examples []LabeledExample) error
	PredictProba(v features.FeatureVector) models.ProbabilityTriple
}

// toMatrix unpacks labeled examples into a design matrix and label slice
func toMatrix(examples []LabeledExample) ([][]float64, []int) {
	X := make([][]float64, len(examples))
	y := make([]int, len(examples))
	for i, ex := range examples {
		X[i] = ex.Features.Values()
		y[i] = int(ex.Outcome)
	}
	return X, y
}

// uniformTriple is the maximum-entropy fallback distribution
func uniformTriple() models.ProbabilityTriple {
	third := 1.0 / 3.0
	return models.ProbabilityTriple{third, third, third}
}

// normalizeTriple scales a non-negative triple to sum to 1, falling back
// to uniform when the mass is zero or non-finite
func normalizeTriple(p models.ProbabilityTriple) models.ProbabilityTriple {
	sum := p.Sum()
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return uniformTriple()
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// standardizer scales features to zero mean and unit variance. Gradient
// and distance based models fit badly on raw rating-scale features.
type standardizer struct {
	mean []float64
	std  []float64
}

func fitStandardizer(X [][]float64) *standardizer {
	if len(X) == 0 {
		return &standardizer{}
	}
	dim := len(X[0])
	s := &standardizer{
		mean: make([]float64, dim),
		std:  make([]float64, dim),
	}
	for _, row := range X {
		for j, v := range row {
			s.mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range s.mean {
		s.mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.mean[j]
			s.std[j] += d * d
		}
	}
	for j := range s.std {
		s.std[j] = math.Sqrt(s.std[j] / n)
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}
	return s
}

func (s *standardizer) transform(x []float64) []float64 {
	if len(s.mean) == 0 {
		return x
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

func (s *standardizer) transformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.transform(row)
	}
	return out
}

func argmaxProbs(p models.ProbabilityTriple) int {
	outcome, _ := p.ArgMax()
	return int(outcome)
}
