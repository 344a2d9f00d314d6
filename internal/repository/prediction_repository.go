package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/fomastreeman/match-predictor/internal/database"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create persists one prediction result
func (r *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.PredictionResult) error {
	query := `
		INSERT INTO predictions (
			id, match_date, home_team, away_team, predicted,
			prob_away_win, prob_draw, prob_home_win,
			confidence, model_agreement, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.Date, prediction.HomeTeam, prediction.AwayTeam,
		prediction.Outcome.String(),
		prediction.Probabilities[0], prediction.Probabilities[1], prediction.Probabilities[2],
		prediction.Confidence, prediction.ModelAgreement, prediction.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionResult, error) {
	query := `
		SELECT id, match_date, home_team, away_team, predicted,
		       prob_away_win, prob_draw, prob_home_win,
		       confidence, model_agreement, generated_at
		FROM predictions WHERE id = $1
	`

	prediction, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return prediction, nil
}

// GetRecent retrieves the most recently generated predictions
func (r *PostgresPredictionRepository) GetRecent(ctx context.Context, limit int) ([]*models.PredictionResult, error) {
	query := `
		SELECT id, match_date, home_team, away_team, predicted,
		       prob_away_win, prob_draw, prob_home_win,
		       confidence, model_agreement, generated_at
		FROM predictions ORDER BY generated_at DESC LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.PredictionResult
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, prediction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}
	return predictions, nil
}

func scanPrediction(row pgx.Row) (*models.PredictionResult, error) {
	var p models.PredictionResult
	var predicted string
	err := row.Scan(
		&p.ID, &p.Date, &p.HomeTeam, &p.AwayTeam, &predicted,
		&p.Probabilities[0], &p.Probabilities[1], &p.Probabilities[2],
		&p.Confidence, &p.ModelAgreement, &p.GeneratedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Outcome = outcomeFromLabel(predicted)
	return &p, nil
}

func outcomeFromLabel(label string) models.Outcome {
	for _, outcome := range models.Outcomes() {
		if outcome.String() == label {
			return outcome
		}
	}
	return models.OutcomeDraw
}
