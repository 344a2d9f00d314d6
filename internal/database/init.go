package database

import (
	"context"
	"fmt"

	"github.com/fomastreeman/match-predictor/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id          BIGSERIAL PRIMARY KEY,
	match_date  TIMESTAMPTZ NOT NULL,
	home_team   TEXT NOT NULL,
	away_team   TEXT NOT NULL,
	home_goals  INT NOT NULL CHECK (home_goals >= 0),
	away_goals  INT NOT NULL CHECK (away_goals >= 0),
	league      TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (match_date, home_team, away_team)
);
CREATE INDEX IF NOT EXISTS idx_matches_date ON matches (match_date);
CREATE INDEX IF NOT EXISTS idx_matches_league ON matches (league);

CREATE TABLE IF NOT EXISTS predictions (
	id               UUID PRIMARY KEY,
	match_date       TIMESTAMPTZ NOT NULL,
	home_team        TEXT NOT NULL,
	away_team        TEXT NOT NULL,
	predicted        TEXT NOT NULL,
	prob_away_win    DOUBLE PRECISION NOT NULL,
	prob_draw        DOUBLE PRECISION NOT NULL,
	prob_home_win    DOUBLE PRECISION NOT NULL,
	confidence       DOUBLE PRECISION NOT NULL,
	model_agreement  DOUBLE PRECISION NOT NULL,
	generated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS backtest_reports (
	run_id       UUID PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	train_size   INT NOT NULL,
	test_size    INT NOT NULL,
	accuracy     DOUBLE PRECISION NOT NULL,
	report       JSONB NOT NULL
);
`

// Initialize creates a database connection pool and bootstraps the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return db, nil
}
