package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/fomastreeman/match-predictor/internal/models"
)

func validMatch() models.Match {
	return models.Match{
		Date:      time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC),
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		HomeGoals: 2,
		AwayGoals: 1,
	}
}

func TestValidateMatchAcceptsValid(t *testing.T) {
	assert.Empty(t, NewDataValidator(nil).ValidateMatch(validMatch()))
}

func TestValidateMatchRejectsBadRecords(t *testing.T) {
	validator := NewDataValidator(nil)

	tests := []struct {
		name   string
		mutate func(*models.Match)
	}{
		{"missing date", func(m *models.Match) { m.Date = time.Time{} }},
		{"missing home team", func(m *models.Match) { m.HomeTeam = "" }},
		{"missing away team", func(m *models.Match) { m.AwayTeam = "" }},
		{"same team twice", func(m *models.Match) { m.AwayTeam = m.HomeTeam }},
		{"negative home goals", func(m *models.Match) { m.HomeGoals = -1 }},
		{"negative away goals", func(m *models.Match) { m.AwayGoals = -2 }},
		{"implausible score", func(m *models.Match) { m.HomeGoals = 99 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := validMatch()
			tt.mutate(&match)
			assert.NotEmpty(t, validator.ValidateMatch(match))
		})
	}
}

func TestValidateHistorySortsAndDeduplicates(t *testing.T) {
	validator := NewDataValidator(nil)

	later := validMatch()
	later.Date = later.Date.AddDate(0, 0, 7)
	later.HomeTeam, later.AwayTeam = "Liverpool", "Spurs"

	bad := validMatch()
	bad.HomeGoals = -1

	// Unsorted input with one duplicate and one invalid record
	clean, rejected := validator.ValidateHistory([]models.Match{later, validMatch(), validMatch(), bad})

	assert.Equal(t, 2, rejected)
	assert.Len(t, clean, 2)
	assert.True(t, models.SortedByDate(clean))
	assert.Equal(t, "Arsenal", clean[0].HomeTeam)
	assert.Equal(t, "Liverpool", clean[1].HomeTeam)
}
