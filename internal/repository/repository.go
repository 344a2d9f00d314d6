package repository

import (
	"fmt"

	"github.com/fomastreeman/match-predictor/internal/database"
)

// Repositories bundles all repository implementations
type Repositories struct {
	Match      MatchRepository
	Prediction PredictionRepository
	Report     ReportRepository
}

// NewRepositories creates the repository container
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &Repositories{
		Match:      NewPostgresMatchRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
		Report:     NewPostgresReportRepository(db),
	}, nil
}
