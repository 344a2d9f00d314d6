package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/fomastreeman/match-predictor/internal/backtest"
	"github.com/fomastreeman/match-predictor/internal/database"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// PostgresReportRepository implements ReportRepository for PostgreSQL.
// The full report is stored as JSONB alongside a few queryable columns.
type PostgresReportRepository struct {
	db *database.DB
}

// NewPostgresReportRepository creates a new report repository
func NewPostgresReportRepository(db *database.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

// Create persists one backtest report
func (r *PostgresReportRepository) Create(ctx context.Context, report *backtest.Report) error {
	payload, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
		INSERT INTO backtest_reports (run_id, generated_at, train_size, test_size, accuracy, report)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		report.RunID, report.GeneratedAt, report.TrainSize, report.TestSize, report.Accuracy, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByRunID retrieves a backtest report by run ID
func (r *PostgresReportRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*backtest.Report, error) {
	var payload []byte
	err := r.db.GetPool().
		QueryRow(ctx, `SELECT report FROM backtest_reports WHERE run_id = $1`, runID).
		Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report backtest.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}
