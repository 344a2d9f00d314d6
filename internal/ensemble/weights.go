package ensemble

import (
	"math"

	"github.com/fomastreeman/match-predictor/internal/models"
)

// Weights maps model identifiers to non-negative ensemble weights summing
// to 1.0 within floating tolerance
type Weights map[string]float64

// SoftmaxWeights converts cross-validated skill scores into ensemble
// weights via a softened exponential: exp(score * T) / sum. Higher
// temperatures let stronger models dominate while weak models keep
// nonzero influence.
func SoftmaxWeights(scores map[string]float64, temperature float64) Weights {
	if len(scores) == 0 {
		return Weights{}
	}

	// Subtract the max before exponentiating for numeric stability
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	weights := make(Weights, len(scores))
	total := 0.0
	for name, score := range scores {
		w := math.Exp((score - maxScore) * temperature)
		weights[name] = w
		total += w
	}
	for name := range weights {
		weights[name] /= total
	}
	return weights
}

// Sum returns the total weight mass
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Normalized returns a copy rescaled to sum to 1.0. Used after dropping a
// failed model to redistribute its weight across the survivors.
func (w Weights) Normalized() Weights {
	total := w.Sum()
	out := make(Weights, len(w))
	if total == 0 {
		return out
	}
	for name, v := range w {
		out[name] = v / total
	}
	return out
}

// Combine computes the elementwise weighted sum of per-model probability
// triples. Only models present in both maps contribute; the result is
// renormalized over the weight mass actually used, so a missing model
// never skews the distribution. Pure function, independently testable
// without any trained model.
func Combine(probs map[string]models.ProbabilityTriple, w Weights) models.ProbabilityTriple {
	var combined models.ProbabilityTriple
	used := 0.0
	for name, p := range probs {
		weight, ok := w[name]
		if !ok {
			continue
		}
		used += weight
		for c := range combined {
			combined[c] += weight * p[c]
		}
	}
	if used == 0 {
		return uniformTriple()
	}
	for c := range combined {
		combined[c] /= used
	}
	return combined
}
