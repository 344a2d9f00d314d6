package ensemble

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/metrics"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// Predictor turns a single upcoming match into a weighted-probability
// outcome estimate. It holds a frozen history snapshot, so concurrent
// Predict calls are safe once construction completes.
type Predictor struct {
	ensemble *Ensemble
	builder  *features.Builder
	history  []models.Match
	logger   *logrus.Logger
}

// NewPredictor creates a predictor over a trained ensemble and a frozen
// history snapshot
func NewPredictor(ens *Ensemble, builder *features.Builder, history []models.Match, logger *logrus.Logger) *Predictor {
	if logger == nil {
		logger = logrus.New()
	}
	snapshot := make([]models.Match, len(history))
	copy(snapshot, history)
	return &Predictor{
		ensemble: ens,
		builder:  builder,
		history:  snapshot,
		logger:   logger,
	}
}

// HistorySize returns the length of the frozen history snapshot
func (p *Predictor) HistorySize() int {
	return len(p.history)
}

// Ensemble returns the trained ensemble backing this predictor
func (p *Predictor) Ensemble() *Ensemble {
	return p.ensemble
}

// Predict estimates the outcome of a single match as of the given date.
// Fails with ErrNotTrained when no successful training run backs the
// predictor.
func (p *Predictor) Predict(home, away string, asOf time.Time) (*models.PredictionResult, error) {
	if p.ensemble == nil || len(p.ensemble.Models) == 0 {
		return nil, fmt.Errorf("%w: call Train before Predict", ErrNotTrained)
	}

	start := time.Now()
	vector, err := p.builder.Build(home, away, asOf, p.history)
	if err != nil {
		return nil, fmt.Errorf("feature build failed: %w", err)
	}

	memberProbs := make(map[string]models.ProbabilityTriple, len(p.ensemble.Models))
	memberPicks := make(map[string]models.Outcome, len(p.ensemble.Models))
	for _, tm := range p.ensemble.Models {
		probs := tm.Model.PredictProba(vector)
		memberProbs[tm.Name] = probs
		pick, _ := probs.ArgMax()
		memberPicks[tm.Name] = pick
	}

	combined := Combine(memberProbs, p.ensemble.Weights)
	outcome, confidence := combined.ArgMax()

	result := &models.PredictionResult{
		ID:               uuid.New(),
		HomeTeam:         home,
		AwayTeam:         away,
		Date:             asOf,
		Outcome:          outcome,
		Probabilities:    combined,
		Confidence:       confidence,
		ModelPredictions: memberPicks,
		ModelAgreement:   agreement(memberPicks),
		GeneratedAt:      time.Now().UTC(),
	}

	metrics.PredictionsTotal.Inc()
	metrics.PredictionLatency.Observe(time.Since(start).Seconds())

	p.logger.WithFields(logrus.Fields{
		"home":       home,
		"away":       away,
		"outcome":    outcome.String(),
		"confidence": confidence,
		"agreement":  result.ModelAgreement,
	}).Debug("Prediction generated")

	return result, nil
}

// agreement measures how much the members' own arg-max picks coincide:
// max(0, 1 - variance of the picks as class labels). Advisory only; it
// never feeds the probability calculation.
func agreement(picks map[string]models.Outcome) float64 {
	if len(picks) == 0 {
		return 0
	}
	mean := 0.0
	for _, pick := range picks {
		mean += float64(pick)
	}
	mean /= float64(len(picks))

	variance := 0.0
	for _, pick := range picks {
		d := float64(pick) - mean
		variance += d * d
	}
	variance /= float64(len(picks))

	if variance > 1 {
		return 0
	}
	return 1 - variance
}
