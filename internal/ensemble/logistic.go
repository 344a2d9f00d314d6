package ensemble

import (
	"fmt"
	"math"

	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// LogisticRegression is a one-vs-rest logistic classifier trained by
// batch gradient descent on log-loss over standardized features.
type LogisticRegression struct {
	iters   int
	lr      float64
	scaler  *standardizer
	weights [numClasses][]float64 // bias at index 0
}

// NewLogisticRegression creates a logistic model with reference
// hyperparameters
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		iters: 400,
		lr:    0.15,
	}
}

// Name returns the model identifier
func (l *LogisticRegression) Name() string {
	return "logistic"
}

// Fit trains one binary classifier per outcome class
func (l *LogisticRegression) Fit(examples []LabeledExample) error {
	if len(examples) == 0 {
		return fmt.Errorf("logistic: no examples to fit")
	}
	raw, y := toMatrix(examples)
	l.scaler = fitStandardizer(raw)
	X := l.scaler.transformAll(raw)
	n := float64(len(X))
	dim := len(X[0])

	for class := 0; class < numClasses; class++ {
		w := make([]float64, dim+1)
		for iter := 0; iter < l.iters; iter++ {
			grad := make([]float64, dim+1)
			for i, x := range X {
				target := 0.0
				if y[i] == class {
					target = 1.0
				}
				p := sigmoid(w[0] + dot(w[1:], x))
				residual := p - target
				grad[0] += residual
				for j, xj := range x {
					grad[j+1] += residual * xj
				}
			}
			for j := range w {
				w[j] -= l.lr * grad[j] / n
			}
		}
		l.weights[class] = w
	}
	return nil
}

// PredictProba normalizes the per-class sigmoid scores into a distribution
func (l *LogisticRegression) PredictProba(v features.FeatureVector) models.ProbabilityTriple {
	if l.scaler == nil {
		return uniformTriple()
	}
	x := l.scaler.transform(v.Values())
	var scores models.ProbabilityTriple
	for class := 0; class < numClasses; class++ {
		w := l.weights[class]
		scores[class] = sigmoid(w[0] + dot(w[1:], x))
	}
	return normalizeTriple(scores)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
