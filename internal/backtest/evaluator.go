package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fomastreeman/match-predictor/internal/ensemble"
	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/metrics"
	"github.com/fomastreeman/match-predictor/internal/models"
	"github.com/fomastreeman/match-predictor/internal/rating"
)

// Evaluator runs walk-forward backtests: it trains the ensemble once on
// a chronological prefix, then predicts the held-out suffix one match at
// a time with the prediction history restricted to the prefix.
type Evaluator struct {
	cfg        Config
	ratingCfg  rating.Config
	featureCfg features.Config
	trainerCfg ensemble.TrainerConfig
	logger     *logrus.Logger

	state     State
	tracker   *rating.Tracker
	builder   *features.Builder
	predictor *ensemble.Predictor
	history   []models.Match
	trainSize int
}

// NewEvaluator creates an evaluator in the Idle state
func NewEvaluator(cfg Config, ratingCfg rating.Config, featureCfg features.Config, trainerCfg ensemble.TrainerConfig, logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.HoldoutSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Evaluator{
		cfg:        cfg,
		ratingCfg:  ratingCfg,
		featureCfg: featureCfg,
		trainerCfg: trainerCfg,
		logger:     logger,
		state:      StateIdle,
	}
}

// State returns the current lifecycle state
func (e *Evaluator) State() State {
	return e.state
}

// TrainSize returns the number of matches the last training step consumed
func (e *Evaluator) TrainSize() int {
	return e.trainSize
}

// HistorySize returns the number of matches visible to the next prediction
func (e *Evaluator) HistorySize() int {
	return len(e.history)
}

// Evaluate splits the sorted history into a training prefix and a test
// suffix of the last HoldoutSize matches, trains once on the prefix and
// predicts the suffix in order. No prediction ever sees a suffix match
// dated at or after its own fixture; in the default mode no prediction
// sees any suffix match at all.
func (e *Evaluator) Evaluate(ctx context.Context, fullHistory []models.Match) (*Report, error) {
	n := len(fullHistory)
	if e.cfg.HoldoutSize >= n {
		return nil, fmt.Errorf("holdout size %d must be smaller than history size %d", e.cfg.HoldoutSize, n)
	}
	if !models.SortedByDate(fullHistory) {
		return nil, fmt.Errorf("history must be sorted by date ascending")
	}

	start := time.Now()
	prefix := fullHistory[:n-e.cfg.HoldoutSize]
	suffix := fullHistory[n-e.cfg.HoldoutSize:]

	e.logger.WithFields(logrus.Fields{
		"matches":     n,
		"train":       len(prefix),
		"holdout":     len(suffix),
		"progressive": e.cfg.Progressive,
	}).Info("Starting walk-forward evaluation")

	if err := e.train(ctx, prefix); err != nil {
		return nil, err
	}

	evals := make([]Evaluation, 0, len(suffix))
	for _, match := range suffix {
		eval, err := e.EvaluateOne(match)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s vs %s on %s: %w",
				match.HomeTeam, match.AwayTeam, match.Date.Format("2006-01-02"), err)
		}
		evals = append(evals, *eval)
	}

	report := buildReport(e.trainSize, e.cfg.HighConfidence, evals)
	metrics.BacktestAccuracy.Set(report.Accuracy)
	metrics.BacktestDuration.Observe(time.Since(start).Seconds())

	e.logger.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"accuracy": report.Accuracy,
		"correct":  report.Correct,
		"tested":   report.TestSize,
		"duration": time.Since(start).String(),
	}).Info("Walk-forward evaluation complete")

	return report, nil
}

// train replays the prefix into a fresh rating tracker, derives one
// labeled example per prefix match using only earlier prefix matches,
// and fits the ensemble. Terminates in Ready or Failed.
func (e *Evaluator) train(ctx context.Context, prefix []models.Match) error {
	e.state = StateTraining

	tracker := rating.NewTracker(e.ratingCfg, e.logger)
	if err := tracker.Replay(prefix); err != nil {
		e.state = StateFailed
		return fmt.Errorf("rating replay failed: %w", err)
	}
	builder := features.NewBuilder(e.featureCfg, tracker, e.logger)

	// The tracker answers point-in-time rating queries and Build filters
	// the history itself, so one full replay serves every example
	examples := make([]ensemble.LabeledExample, 0, len(prefix))
	for _, match := range prefix {
		vector, err := builder.Build(match.HomeTeam, match.AwayTeam, match.Date, prefix)
		if err != nil {
			e.state = StateFailed
			return fmt.Errorf("feature build failed for training example: %w", err)
		}
		examples = append(examples, ensemble.LabeledExample{
			Features: vector,
			Outcome:  match.Outcome(),
		})
	}

	trainer := ensemble.NewTrainer(e.trainerCfg, e.logger)
	ens, err := trainer.Train(ctx, examples)
	if err != nil {
		e.state = StateFailed
		return fmt.Errorf("ensemble training failed: %w", err)
	}

	e.tracker = tracker
	e.builder = builder
	e.history = append([]models.Match(nil), prefix...)
	e.trainSize = len(prefix)
	e.predictor = ensemble.NewPredictor(ens, builder, e.history, e.logger)
	e.state = StateReady
	return nil
}

// EvaluateOne predicts a single already-played match and scores the
// prediction against the known result. Only legal in the Ready state.
// In progressive mode the match is folded into the ratings and history
// afterwards, so later calls may use it.
func (e *Evaluator) EvaluateOne(match models.Match) (*Evaluation, error) {
	if e.state != StateReady {
		return nil, fmt.Errorf("%w: state is %s", ErrNotReady, e.state)
	}

	prediction, err := e.predictor.Predict(match.HomeTeam, match.AwayTeam, match.Date)
	if err != nil {
		return nil, err
	}

	actual := match.Outcome()
	eval := &Evaluation{
		Match:      match,
		Prediction: prediction,
		Actual:     actual,
		Correct:    prediction.Outcome == actual,
	}

	if e.cfg.Progressive {
		if err := e.tracker.Update(match); err != nil {
			return nil, fmt.Errorf("progressive rating update failed: %w", err)
		}
		e.history = append(e.history, match)
		e.predictor = ensemble.NewPredictor(e.predictor.Ensemble(), e.builder, e.history, e.logger)
	}

	return eval, nil
}
