package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/fomastreeman/match-predictor/internal/backtest"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// MatchRepository manages the historical match table
type MatchRepository interface {
	Create(ctx context.Context, match models.Match) error
	CreateWithTx(ctx context.Context, tx pgx.Tx, match models.Match) error
	InsertBatch(ctx context.Context, matches []models.Match) (int, error)
	GetAll(ctx context.Context) ([]models.Match, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error)
	GetByLeague(ctx context.Context, league string) ([]models.Match, error)
	Count(ctx context.Context) (int, error)
}

// PredictionRepository persists generated predictions for later review
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.PredictionResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionResult, error)
	GetRecent(ctx context.Context, limit int) ([]*models.PredictionResult, error)
}

// ReportRepository persists backtest run summaries
type ReportRepository interface {
	Create(ctx context.Context, report *backtest.Report) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*backtest.Report, error)
}
