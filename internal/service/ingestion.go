package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fomastreeman/match-predictor/internal/datasource"
	"github.com/fomastreeman/match-predictor/internal/repository"
)

// IngestionService pulls match results from an external data source,
// validates them and stores them in the match table
type IngestionService struct {
	source    datasource.DataSource
	matches   repository.MatchRepository
	validator *DataValidator
	logger    *logrus.Logger
}

// IngestionResult summarizes one ingestion run
type IngestionResult struct {
	Fetched  int
	Rejected int
	Inserted int
	Duration time.Duration
}

func (r IngestionResult) String() string {
	return fmt.Sprintf("fetched=%d rejected=%d inserted=%d duration=%s",
		r.Fetched, r.Rejected, r.Inserted, r.Duration)
}

// NewIngestionService creates an ingestion service
func NewIngestionService(source datasource.DataSource, matches repository.MatchRepository, logger *logrus.Logger) *IngestionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &IngestionService{
		source:    source,
		matches:   matches,
		validator: NewDataValidator(logger),
		logger:    logger,
	}
}

// IngestRange fetches, validates and stores results for a date range
func (s *IngestionService) IngestRange(ctx context.Context, startDate, endDate time.Time) (IngestionResult, error) {
	start := time.Now()

	if !s.source.IsEnabled() {
		return IngestionResult{}, fmt.Errorf("data source %s is disabled", s.source.Name())
	}

	fetched, err := s.source.FetchMatches(ctx, startDate, endDate)
	if err != nil {
		return IngestionResult{}, fmt.Errorf("fetch from %s failed: %w", s.source.Name(), err)
	}

	clean, rejected := s.validator.ValidateHistory(fetched)
	inserted, err := s.matches.InsertBatch(ctx, clean)
	if err != nil {
		return IngestionResult{}, fmt.Errorf("storing matches failed: %w", err)
	}

	result := IngestionResult{
		Fetched:  len(fetched),
		Rejected: rejected,
		Inserted: inserted,
		Duration: time.Since(start),
	}
	s.logger.WithFields(logrus.Fields{
		"source":   s.source.Name(),
		"fetched":  result.Fetched,
		"rejected": result.Rejected,
		"inserted": result.Inserted,
	}).Info("Ingestion run complete")
	return result, nil
}

// IngestRecent ingests the trailing N days of results
func (s *IngestionService) IngestRecent(ctx context.Context, days int) (IngestionResult, error) {
	end := time.Now().UTC()
	return s.IngestRange(ctx, end.AddDate(0, 0, -days), end)
}
