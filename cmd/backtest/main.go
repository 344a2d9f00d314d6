// Package main provides the entry point for the walk-forward backtest CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/backtest"
	"github.com/fomastreeman/match-predictor/internal/config"
	"github.com/fomastreeman/match-predictor/internal/database"
	"github.com/fomastreeman/match-predictor/internal/ensemble"
	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
	"github.com/fomastreeman/match-predictor/internal/rating"
	"github.com/fomastreeman/match-predictor/internal/repository"
	"github.com/fomastreeman/match-predictor/internal/service"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		dataPath    = flag.String("data", "", "Path to CSV match history (required)")
		holdout     = flag.Int("holdout", 0, "Override holdout size")
		progressive = flag.Bool("progressive", false, "Fold evaluated matches back into the history")
		output      = flag.String("output", "", "Override output path for the JSON report")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	if *dataPath == "" {
		logger.Fatal("-data is required")
	}

	cfg := loadConfig(*configPath, logger)
	if *holdout > 0 {
		cfg.Backtest.HoldoutSize = *holdout
	}
	if *progressive {
		cfg.Backtest.Progressive = true
	}
	if *output != "" {
		cfg.Backtest.OutputPath = *output
	}

	history := loadHistory(*dataPath, logger)
	report := runBacktest(ctx, cfg, history, logger)
	writeReport(cfg.Backtest.OutputPath, report, logger)
	persistReport(ctx, cfg, report, logger)
	printSummary(report)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfig(path string, logger *logrus.Logger) *config.Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.WithField("path", path).Warn("Config file not found, using defaults")
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func loadHistory(path string, logger *logrus.Logger) []models.Match {
	matches, rejected, err := service.NewCSVLoader(logger).LoadFile(path)
	if err != nil {
		logger.Fatalf("Failed to load match history: %v", err)
	}
	if rejected > 0 {
		logger.WithField("rejected", rejected).Warn("Some match records were rejected")
	}
	return matches
}

func runBacktest(ctx context.Context, cfg *config.Config, history []models.Match, logger *logrus.Logger) *backtest.Report {
	evaluator := backtest.NewEvaluator(
		backtest.Config{
			HoldoutSize:    cfg.Backtest.HoldoutSize,
			Progressive:    cfg.Backtest.Progressive,
			HighConfidence: cfg.Backtest.HighConfidence,
		},
		rating.Config{
			KFactor:       cfg.Rating.KFactor,
			InitialRating: cfg.Rating.InitialRating,
			HomeAdvantage: cfg.Rating.HomeAdvantage,
		},
		features.Config{
			FormWindows:     cfg.Features.FormWindows,
			MomentumWindow:  cfg.Features.MomentumWindow,
			TrendWindow:     cfg.Features.TrendWindow,
			HeadToHeadLimit: cfg.Features.HeadToHeadLimit,
		},
		ensemble.TrainerConfig{
			MinExamples: cfg.Ensemble.MinExamples,
			Temperature: cfg.Ensemble.Temperature,
			CVFolds:     cfg.Ensemble.CVFolds,
			Seed:        cfg.Ensemble.Seed,
		},
		logger,
	)

	report, err := evaluator.Evaluate(ctx, history)
	if err != nil {
		logger.Fatalf("Backtest failed: %v", err)
	}
	return report
}

func writeReport(path string, report *backtest.Report, logger *logrus.Logger) {
	if path == "" {
		return
	}
	data, err := report.ToJSON()
	if err != nil {
		logger.Fatalf("Failed to serialize report: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Fatalf("Failed to create output directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Fatalf("Failed to write report: %v", err)
	}
	logger.WithField("path", path).Info("Report written")
}

func persistReport(ctx context.Context, cfg *config.Config, report *backtest.Report, logger *logrus.Logger) {
	if !cfg.Database.Enabled {
		return
	}
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("Skipping report persistence, database unavailable")
		return
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.WithError(err).Warn("Skipping report persistence")
		return
	}
	if err := repos.Report.Create(ctx, report); err != nil {
		logger.WithError(err).Warn("Failed to persist report")
		return
	}
	logger.WithField("run_id", report.RunID).Info("Report persisted")
}

func printSummary(report *backtest.Report) {
	fmt.Printf("\nBacktest %s\n", report.RunID)
	fmt.Printf("  Trained on %d matches, tested on %d\n", report.TrainSize, report.TestSize)
	fmt.Printf("  Overall accuracy: %.1f%% (%d/%d)\n", report.Accuracy*100, report.Correct, report.TestSize)

	fmt.Println("  By outcome:")
	for _, outcome := range models.Outcomes() {
		breakdown := report.Outcomes[outcome.String()]
		fmt.Printf("    %-9s precision %.2f  recall %.2f  (n=%d)\n",
			outcome.String(), breakdown.Precision, breakdown.Recall, breakdown.Support)
	}

	fmt.Println("  By confidence:")
	for _, bucket := range report.Buckets {
		if bucket.Total == 0 {
			continue
		}
		fmt.Printf("    %-8s %.1f%% (%d/%d)\n", bucket.Label, bucket.Accuracy*100, bucket.Correct, bucket.Total)
	}

	fmt.Printf("  High-confidence: %d hits, %d misses\n",
		len(report.HighConfidenceHits), len(report.HighConfidenceMisses))
}
