package ensemble

import (
	"fmt"
	"math"
	"sort"

	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// KernelKNN is a kernel-weighted nearest-neighbour classifier: the k
// closest training examples vote with gaussian weights on their distance
// in standardized feature space.
type KernelKNN struct {
	k         int
	bandwidth float64
	scaler    *standardizer
	X         [][]float64
	y         []int
}

// NewKernelKNN creates a kernel nearest-neighbour model
func NewKernelKNN() *KernelKNN {
	return &KernelKNN{
		k:         15,
		bandwidth: 2.0,
	}
}

// Name returns the model identifier
func (m *KernelKNN) Name() string {
	return "kernel_knn"
}

// Fit stores the standardized training set
func (m *KernelKNN) Fit(examples []LabeledExample) error {
	if len(examples) == 0 {
		return fmt.Errorf("kernel_knn: no examples to fit")
	}
	raw, y := toMatrix(examples)
	m.scaler = fitStandardizer(raw)
	m.X = m.scaler.transformAll(raw)
	m.y = y
	return nil
}

// PredictProba votes over the k nearest neighbours with gaussian weights
func (m *KernelKNN) PredictProba(v features.FeatureVector) models.ProbabilityTriple {
	if len(m.X) == 0 {
		return uniformTriple()
	}
	x := m.scaler.transform(v.Values())

	type neighbour struct {
		dist  float64
		class int
	}
	neighbours := make([]neighbour, len(m.X))
	for i, row := range m.X {
		neighbours[i] = neighbour{dist: euclidean(x, row), class: m.y[i]}
	}
	sort.Slice(neighbours, func(i, j int) bool {
		return neighbours[i].dist < neighbours[j].dist
	})

	k := m.k
	if k > len(neighbours) {
		k = len(neighbours)
	}

	var votes models.ProbabilityTriple
	for _, nb := range neighbours[:k] {
		weight := math.Exp(-(nb.dist * nb.dist) / (2 * m.bandwidth * m.bandwidth))
		votes[nb.class] += weight
	}
	return normalizeTriple(votes)
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
