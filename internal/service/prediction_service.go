package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fomastreeman/match-predictor/internal/backtest"
	"github.com/fomastreeman/match-predictor/internal/config"
	"github.com/fomastreeman/match-predictor/internal/ensemble"
	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
	"github.com/fomastreeman/match-predictor/internal/rating"
)

// PredictionService wires the rating tracker, feature builder and
// ensemble into one trainable prediction pipeline. It is the entrypoint
// the command-line tools use; the core packages stay independently
// usable.
type PredictionService struct {
	cfg    *config.Config
	logger *logrus.Logger

	history   []models.Match
	predictor *ensemble.CachedPredictor
}

// NewPredictionService creates an untrained prediction service
func NewPredictionService(cfg *config.Config, logger *logrus.Logger) *PredictionService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &PredictionService{cfg: cfg, logger: logger}
}

func (s *PredictionService) ratingConfig() rating.Config {
	return rating.Config{
		KFactor:       s.cfg.Rating.KFactor,
		InitialRating: s.cfg.Rating.InitialRating,
		HomeAdvantage: s.cfg.Rating.HomeAdvantage,
	}
}

func (s *PredictionService) featureConfig() features.Config {
	return features.Config{
		FormWindows:     s.cfg.Features.FormWindows,
		MomentumWindow:  s.cfg.Features.MomentumWindow,
		TrendWindow:     s.cfg.Features.TrendWindow,
		HeadToHeadLimit: s.cfg.Features.HeadToHeadLimit,
	}
}

func (s *PredictionService) trainerConfig() ensemble.TrainerConfig {
	return ensemble.TrainerConfig{
		MinExamples: s.cfg.Ensemble.MinExamples,
		Temperature: s.cfg.Ensemble.Temperature,
		CVFolds:     s.cfg.Ensemble.CVFolds,
		Seed:        s.cfg.Ensemble.Seed,
	}
}

// Train fits the ensemble on the supplied sorted history and readies the
// service for predictions
func (s *PredictionService) Train(ctx context.Context, history []models.Match) error {
	if !models.SortedByDate(history) {
		return fmt.Errorf("history must be sorted by date ascending")
	}

	tracker := rating.NewTracker(s.ratingConfig(), s.logger)
	if err := tracker.Replay(history); err != nil {
		return fmt.Errorf("rating replay failed: %w", err)
	}
	builder := features.NewBuilder(s.featureConfig(), tracker, s.logger)

	examples := make([]ensemble.LabeledExample, 0, len(history))
	for _, match := range history {
		vector, err := builder.Build(match.HomeTeam, match.AwayTeam, match.Date, history)
		if err != nil {
			return fmt.Errorf("feature build failed: %w", err)
		}
		examples = append(examples, ensemble.LabeledExample{
			Features: vector,
			Outcome:  match.Outcome(),
		})
	}

	trainer := ensemble.NewTrainer(s.trainerConfig(), s.logger)
	ens, err := trainer.Train(ctx, examples)
	if err != nil {
		return err
	}

	s.history = append([]models.Match(nil), history...)
	predictor := ensemble.NewPredictor(ens, builder, s.history, s.logger)
	s.predictor = ensemble.NewCachedPredictor(
		predictor,
		time.Duration(s.cfg.Ensemble.CacheTTLSecs)*time.Second,
		s.cfg.Ensemble.CacheMaxSize,
	)
	return nil
}

// Trained reports whether a successful training run backs the service
func (s *PredictionService) Trained() bool {
	return s.predictor != nil
}

// HistorySize returns the number of matches behind the current predictor
func (s *PredictionService) HistorySize() int {
	return len(s.history)
}

// Predict estimates the outcome of one upcoming fixture
func (s *PredictionService) Predict(home, away string, asOf time.Time) (*models.PredictionResult, error) {
	if s.predictor == nil {
		return nil, fmt.Errorf("%w: call Train before Predict", ensemble.ErrNotTrained)
	}
	return s.predictor.Predict(home, away, asOf)
}

// Backtest runs a walk-forward evaluation over the supplied history with
// a fresh evaluator; the service's own trained state is untouched
func (s *PredictionService) Backtest(ctx context.Context, history []models.Match) (*backtest.Report, error) {
	evaluator := backtest.NewEvaluator(
		backtest.Config{
			HoldoutSize:    s.cfg.Backtest.HoldoutSize,
			Progressive:    s.cfg.Backtest.Progressive,
			HighConfidence: s.cfg.Backtest.HighConfidence,
		},
		s.ratingConfig(),
		s.featureConfig(),
		s.trainerConfig(),
		s.logger,
	)
	return evaluator.Evaluate(ctx, history)
}
