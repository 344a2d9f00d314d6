package models

import (
	"time"

	"github.com/google/uuid"
)

// ProbabilityTriple holds class probabilities indexed by Outcome
// (away win = 0, draw = 1, home win = 2). A valid triple sums to 1.0.
type ProbabilityTriple [3]float64

// Sum returns the total probability mass
func (p ProbabilityTriple) Sum() float64 {
	return p[0] + p[1] + p[2]
}

// ArgMax returns the most likely outcome and its probability
func (p ProbabilityTriple) ArgMax() (Outcome, float64) {
	best := OutcomeAwayWin
	bestProb := p[0]
	for i := 1; i < len(p); i++ {
		if p[i] > bestProb {
			best = Outcome(i)
			bestProb = p[i]
		}
	}
	return best, bestProb
}

// PredictionResult represents a single weighted-ensemble outcome estimate.
// Immutable once created; not persisted by the prediction core.
type PredictionResult struct {
	ID               uuid.UUID          `json:"id"`
	HomeTeam         string             `json:"home_team"`
	AwayTeam         string             `json:"away_team"`
	Date             time.Time          `json:"date"`
	Outcome          Outcome            `json:"outcome"`
	Probabilities    ProbabilityTriple  `json:"probabilities"`
	Confidence       float64            `json:"confidence"`
	ModelPredictions map[string]Outcome `json:"model_predictions"`
	ModelAgreement   float64            `json:"model_agreement"`
	GeneratedAt      time.Time          `json:"generated_at"`
}
