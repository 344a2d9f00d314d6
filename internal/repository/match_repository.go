package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/fomastreeman/match-predictor/internal/database"
	"github.com/fomastreeman/match-predictor/internal/models"
)

const matchColumns = "match_date, home_team, away_team, home_goals, away_goals, league"

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a single match
func (r *PostgresMatchRepository) Create(ctx context.Context, match models.Match) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_date, home_team, away_team) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.Date, match.HomeTeam, match.AwayTeam, match.HomeGoals, match.AwayGoals, match.League,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// CreateWithTx inserts a single match using a provided transaction
func (r *PostgresMatchRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, match models.Match) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_date, home_team, away_team) DO NOTHING
	`

	_, err := tx.Exec(ctx, query,
		match.Date, match.HomeTeam, match.AwayTeam, match.HomeGoals, match.AwayGoals, match.League,
	)
	if err != nil {
		return fmt.Errorf("failed to create match within transaction: %w", err)
	}
	return nil
}

// InsertBatch inserts matches in one transaction and returns the number
// of rows written. Duplicate fixtures are skipped silently.
func (r *PostgresMatchRepository) InsertBatch(ctx context.Context, matches []models.Match) (int, error) {
	inserted := 0
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, match := range matches {
			tag, err := tx.Exec(ctx, `
				INSERT INTO matches (`+matchColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (match_date, home_team, away_team) DO NOTHING
			`, match.Date, match.HomeTeam, match.AwayTeam, match.HomeGoals, match.AwayGoals, match.League)
			if err != nil {
				return fmt.Errorf("failed to insert match: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetAll retrieves every match ordered by date ascending
func (r *PostgresMatchRepository) GetAll(ctx context.Context) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY match_date ASC`
	return r.queryMatches(ctx, query)
}

// GetByDateRange retrieves matches within [start, end) ordered by date
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE match_date >= $1 AND match_date < $2
		ORDER BY match_date ASC
	`
	return r.queryMatches(ctx, query, start, end)
}

// GetByLeague retrieves one league's matches ordered by date
func (r *PostgresMatchRepository) GetByLeague(ctx context.Context, league string) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE league = $1 ORDER BY match_date ASC`
	return r.queryMatches(ctx, query, league)
}

// Count returns the number of stored matches
func (r *PostgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *PostgresMatchRepository) queryMatches(ctx context.Context, query string, args ...any) ([]models.Match, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.Date, &m.HomeTeam, &m.AwayTeam, &m.HomeGoals, &m.AwayGoals, &m.League); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}
	return matches, nil
}
