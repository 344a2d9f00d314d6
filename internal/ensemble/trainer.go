package ensemble

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fomastreeman/match-predictor/internal/metrics"
)

// TrainerConfig holds ensemble training parameters
type TrainerConfig struct {
	MinExamples int
	Temperature float64
	CVFolds     int
	Seed        int64
}

// DefaultTrainerConfig returns the reference training parameters
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		MinExamples: 50,
		Temperature: 3.0,
		CVFolds:     3,
		Seed:        42,
	}
}

// TrainedModel pairs a fitted classifier with its cross-validated skill
// score. Immutable after training.
type TrainedModel struct {
	Model   Model
	Name    string
	CVScore float64
}

// Ensemble is the immutable result of one training run: the surviving
// fitted models and their skill-derived weights. Retraining produces a
// new independent Ensemble; existing ones are never mutated.
type Ensemble struct {
	Models    []TrainedModel
	Weights   Weights
	Examples  int
	TrainedAt time.Time
}

// candidate names a model family and knows how to build fresh instances,
// one per cross-validation fold plus one for the final fit
type candidate struct {
	name  string
	build func(seed int64) Model
}

func defaultCandidates() []candidate {
	return []candidate{
		{"random_forest", func(seed int64) Model { return NewRandomForest(seed) }},
		{"boosted_trees", func(seed int64) Model { return NewBoostedTrees(seed) }},
		{"extra_trees", func(seed int64) Model { return NewExtraTrees(seed) }},
		{"logistic", func(seed int64) Model { return NewLogisticRegression() }},
		{"kernel_knn", func(seed int64) Model { return NewKernelKNN() }},
		{"poisson", func(seed int64) Model { return NewPoissonModel() }},
	}
}

// Trainer fits the candidate models and derives ensemble weights from
// cross-validated skill
type Trainer struct {
	cfg        TrainerConfig
	candidates []candidate
	logger     *logrus.Logger
}

// NewTrainer creates a trainer with the default candidate set
func NewTrainer(cfg TrainerConfig, logger *logrus.Logger) *Trainer {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.MinExamples <= 0 {
		cfg = DefaultTrainerConfig()
	}
	return &Trainer{
		cfg:        cfg,
		candidates: defaultCandidates(),
		logger:     logger,
	}
}

// Train fits every candidate concurrently, scores each via k-fold
// cross-validation and converts the scores into softmax weights. A
// candidate that fails to fit is dropped and its weight redistributed;
// training fails only when no candidate survives.
func (t *Trainer) Train(ctx context.Context, examples []LabeledExample) (*Ensemble, error) {
	if len(examples) < t.cfg.MinExamples {
		return nil, fmt.Errorf("%w: need at least %d labeled examples, got %d",
			ErrInsufficientData, t.cfg.MinExamples, len(examples))
	}

	start := time.Now()
	t.logger.WithFields(logrus.Fields{
		"examples": len(examples),
		"models":   len(t.candidates),
		"cv_folds": t.cfg.CVFolds,
	}).Info("Starting ensemble training")

	// Shuffle once so every fold sees a mix of eras; the per-fold split
	// itself stays deterministic for a fixed seed
	shuffled := make([]LabeledExample, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(t.cfg.Seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var mu sync.Mutex
	trained := make([]TrainedModel, 0, len(t.candidates))

	// Model fits share no mutable state; the join below is the single
	// synchronization point
	group, groupCtx := errgroup.WithContext(ctx)
	for i, cand := range t.candidates {
		i, cand := i, cand
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			seed := t.cfg.Seed + int64(i)*1000
			model, score, err := t.trainOne(cand, shuffled, seed)
			if err != nil {
				// Isolated failure: drop this member, keep training
				metrics.ModelTrainingFailuresTotal.WithLabelValues(cand.name).Inc()
				t.logger.WithError(err).WithField("model", cand.name).
					Warn("Dropping model from ensemble after training failure")
				return nil
			}
			mu.Lock()
			trained = append(trained, TrainedModel{Model: model, Name: cand.name, CVScore: score})
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("training cancelled: %w", err)
	}

	if len(trained) == 0 {
		return nil, fmt.Errorf("%w: all %d candidates failed", ErrNoModels, len(t.candidates))
	}

	scores := make(map[string]float64, len(trained))
	for _, tm := range trained {
		scores[tm.Name] = tm.CVScore
		metrics.ModelCVScore.WithLabelValues(tm.Name).Set(tm.CVScore)
	}
	weights := SoftmaxWeights(scores, t.cfg.Temperature)
	for name, w := range weights {
		metrics.ModelWeight.WithLabelValues(name).Set(w)
	}

	metrics.TrainingRunsTotal.Inc()
	metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	metrics.EnsembleSize.Set(float64(len(trained)))

	t.logger.WithFields(logrus.Fields{
		"survivors": len(trained),
		"weights":   weights,
		"duration":  time.Since(start).String(),
	}).Info("Ensemble training complete")

	return &Ensemble{
		Models:    trained,
		Weights:   weights,
		Examples:  len(examples),
		TrainedAt: time.Now().UTC(),
	}, nil
}

// trainOne cross-validates and then fits one candidate. Panics inside a
// model are converted to training failures so a single bad member cannot
// take down the run.
func (t *Trainer) trainOne(cand candidate, examples []LabeledExample, seed int64) (model Model, score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			model, score = nil, 0
			err = fmt.Errorf("%w: %s panicked: %v", ErrModelTraining, cand.name, r)
		}
	}()

	score, err = t.crossValidate(cand, examples, seed)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrModelTraining, cand.name, err)
	}

	model = cand.build(seed)
	if err := model.Fit(examples); err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrModelTraining, cand.name, err)
	}
	return model, score, nil
}

// crossValidate returns mean holdout-fold accuracy over k folds
func (t *Trainer) crossValidate(cand candidate, examples []LabeledExample, seed int64) (float64, error) {
	folds := t.cfg.CVFolds
	if folds < 2 {
		folds = 2
	}
	n := len(examples)
	if n < folds {
		return 0, fmt.Errorf("not enough examples for %d folds", folds)
	}

	totalAccuracy := 0.0
	for fold := 0; fold < folds; fold++ {
		var train, val []LabeledExample
		for i, ex := range examples {
			if i%folds == fold {
				val = append(val, ex)
			} else {
				train = append(train, ex)
			}
		}

		model := cand.build(seed + int64(fold))
		if err := model.Fit(train); err != nil {
			return 0, err
		}

		correct := 0
		for _, ex := range val {
			if argmaxProbs(model.PredictProba(ex.Features)) == int(ex.Outcome) {
				correct++
			}
		}
		totalAccuracy += float64(correct) / float64(len(val))
	}
	return totalAccuracy / float64(folds), nil
}
