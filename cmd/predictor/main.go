package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fomastreeman/match-predictor/internal/config"
	"github.com/fomastreeman/match-predictor/internal/database"
	"github.com/fomastreeman/match-predictor/internal/datasource"
	"github.com/fomastreeman/match-predictor/internal/health"
	"github.com/fomastreeman/match-predictor/internal/logger"
	"github.com/fomastreeman/match-predictor/internal/metrics"
	"github.com/fomastreeman/match-predictor/internal/models"
	"github.com/fomastreeman/match-predictor/internal/repository"
	"github.com/fomastreeman/match-predictor/internal/scheduler"
	"github.com/fomastreeman/match-predictor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	dataFile   string
	appLogger  *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataFile, "data", "d", "", "Path to CSV match history")

	predictCmd.Flags().String("home", "", "Home team name")
	predictCmd.Flags().String("away", "", "Away team name")
	predictCmd.Flags().String("date", "", "Match date (YYYY-MM-DD), defaults to tomorrow")
	predictCmd.MarkFlagRequired("home")
	predictCmd.MarkFlagRequired("away")

	syncCmd.Flags().Int("days", 0, "Days of results to fetch (defaults to configured sync_days)")

	rootCmd.AddCommand(predictCmd, ingestCmd, syncCmd, statusCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Match outcome prediction engine",
	Long:  `Trains an ensemble of classifiers on historical match results and predicts upcoming fixture outcomes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if _, statErr := os.Stat(configFile); os.IsNotExist(statErr) {
			cfg = config.Default()
		} else if cfg, err = config.Load(configFile); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLogger = logger.NewLogger(cfg.App.LogLevel)
		metrics.InitRegistry()
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the outcome of one upcoming fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, _ := cmd.Flags().GetString("home")
		away, _ := cmd.Flags().GetString("away")
		dateStr, _ := cmd.Flags().GetString("date")

		asOf := time.Now().UTC().AddDate(0, 0, 1)
		if dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}
			asOf = parsed
		}

		ctx := cmd.Context()
		history, err := loadHistory(ctx)
		if err != nil {
			return err
		}

		svc := service.NewPredictionService(cfg, appLogger)
		if err := svc.Train(ctx, history); err != nil {
			return fmt.Errorf("training failed: %w", err)
		}

		result, err := svc.Predict(home, away, asOf)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s vs %s on %s\n", home, away, asOf.Format("2006-01-02"))
		fmt.Printf("  Prediction: %s (confidence %.1f%%)\n", result.Outcome, result.Confidence*100)
		fmt.Printf("  Probabilities: home %.1f%%  draw %.1f%%  away %.1f%%\n",
			result.Probabilities[2]*100, result.Probabilities[1]*100, result.Probabilities[0]*100)
		fmt.Printf("  Model agreement: %.2f\n", result.ModelAgreement)
		for name, pick := range result.ModelPredictions {
			fmt.Printf("    %-14s %s\n", name, pick)
		}

		persistPrediction(ctx, result)
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load a CSV match history into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Database.Enabled {
			return fmt.Errorf("database is disabled in configuration")
		}
		ctx := cmd.Context()
		history, err := loadHistory(ctx)
		if err != nil {
			return err
		}

		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		inserted, err := repos.Match.InsertBatch(ctx, history)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}

		fmt.Printf("Ingested %d of %d matches (%d already present)\n",
			inserted, len(history), len(history)-inserted)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch recent results from the configured data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Source.Enabled {
			return fmt.Errorf("data source is disabled in configuration")
		}
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = cfg.Source.SyncDays
		}

		ctx := cmd.Context()
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		source, err := datasource.NewDataSource(cfg.Source, appLogger)
		if err != nil {
			return err
		}

		result, err := service.NewIngestionService(source, repos.Match, appLogger).IngestRecent(ctx, days)
		if err != nil {
			return err
		}
		fmt.Printf("Sync complete: %s\n", result)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("predictor %s (%s)\n\n", Version, GitCommit)
		fmt.Println("Configuration:")
		fmt.Printf("  Environment: %s\n", cfg.App.Environment)
		fmt.Printf("  K-factor: %.0f, initial rating: %.0f, home advantage: %.0f\n",
			cfg.Rating.KFactor, cfg.Rating.InitialRating, cfg.Rating.HomeAdvantage)
		fmt.Printf("  Ensemble: min %d examples, temperature %.1f, %d CV folds\n",
			cfg.Ensemble.MinExamples, cfg.Ensemble.Temperature, cfg.Ensemble.CVFolds)
		fmt.Printf("  Backtest: holdout %d, high-confidence threshold %.2f\n",
			cfg.Backtest.HoldoutSize, cfg.Backtest.HighConfidence)

		fmt.Print("\nDatabase: ")
		if !cfg.Database.Enabled {
			fmt.Println("disabled")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			fmt.Printf("UNAVAILABLE (%v)\n", err)
			return nil
		}
		defer db.Close()
		fmt.Println("online")

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		count, err := repos.Match.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("  Stored matches: %d\n", count)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Train once and serve health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		history, err := loadHistory(ctx)
		if err != nil {
			return err
		}
		svc := service.NewPredictionService(cfg, appLogger)
		if err := svc.Train(ctx, history); err != nil {
			return fmt.Errorf("training failed: %w", err)
		}

		server := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Metrics.Port),
			MetricsPath: cfg.Metrics.Path,
			Metrics:     metrics.Handler(),
			Logger:      appLogger,
		})
		if err := server.Start(ctx); err != nil {
			return err
		}
		server.SetReady(true)

		if cfg.Source.Enabled {
			db, err := database.Initialize(ctx, cfg)
			if err != nil {
				return fmt.Errorf("scheduled ingestion requires the database: %w", err)
			}
			defer db.Close()

			repos, err := repository.NewRepositories(db)
			if err != nil {
				return err
			}
			source, err := datasource.NewDataSource(cfg.Source, appLogger)
			if err != nil {
				return err
			}

			sched := scheduler.NewScheduler(service.NewIngestionService(source, repos.Match, appLogger), appLogger)
			if err := sched.ScheduleIngestion(cfg.Source.SyncSchedule, cfg.Source.SyncDays); err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
		}

		appLogger.WithField("matches", svc.HistorySize()).Info("Predictor serving")
		<-ctx.Done()
		return nil
	},
}

func loadHistory(ctx context.Context) ([]models.Match, error) {
	if dataFile != "" {
		matches, _, err := service.NewCSVLoader(appLogger).LoadFile(dataFile)
		return matches, err
	}

	if cfg.Database.Enabled {
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("no -data file given and database unavailable: %w", err)
		}
		defer db.Close()
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return nil, err
		}
		return repos.Match.GetAll(ctx)
	}

	return nil, fmt.Errorf("no match history: pass --data or enable the database")
}

func persistPrediction(ctx context.Context, result *models.PredictionResult) {
	if !cfg.Database.Enabled {
		return
	}
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Warn("Skipping prediction persistence, database unavailable")
		return
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLogger.WithError(err).Warn("Skipping prediction persistence")
		return
	}
	if err := repos.Prediction.Create(ctx, result); err != nil {
		appLogger.WithError(err).Warn("Failed to persist prediction")
	}
}
