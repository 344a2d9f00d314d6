package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fomastreeman/match-predictor/internal/config"
)

// SetupTestDB creates a test database connection, skipping the test when
// no test database is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	host := os.Getenv("MATCH_PREDICTOR_TEST_DB_HOST")
	if host == "" {
		t.Skip("MATCH_PREDICTOR_TEST_DB_HOST not set, skipping database test")
	}

	cfg := &config.DatabaseConfig{
		Enabled:        true,
		Host:           host,
		Port:           5432,
		Name:           envOr("MATCH_PREDICTOR_TEST_DB_NAME", "match_predictor_test"),
		User:           envOr("MATCH_PREDICTOR_TEST_DB_USER", "postgres"),
		Password:       os.Getenv("MATCH_PREDICTOR_TEST_DB_PASSWORD"),
		SSLMode:        "disable",
		MaxConnections: 5,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
