package service

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// DataValidator checks ingested match data before it reaches the
// prediction core
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &DataValidator{logger: logger}
}

// ValidateMatch validates a single match record
func (v *DataValidator) ValidateMatch(match models.Match) []string {
	var errors []string

	if match.Date.IsZero() {
		errors = append(errors, "date is required")
	}
	if match.HomeTeam == "" {
		errors = append(errors, "home_team is required")
	}
	if match.AwayTeam == "" {
		errors = append(errors, "away_team is required")
	}
	if match.HomeTeam != "" && match.HomeTeam == match.AwayTeam {
		errors = append(errors, fmt.Sprintf("home and away team must differ, got %q", match.HomeTeam))
	}
	if match.HomeGoals < 0 {
		errors = append(errors, fmt.Sprintf("home_goals cannot be negative, got %d", match.HomeGoals))
	}
	if match.AwayGoals < 0 {
		errors = append(errors, fmt.Sprintf("away_goals cannot be negative, got %d", match.AwayGoals))
	}
	if match.HomeGoals > 30 || match.AwayGoals > 30 {
		errors = append(errors, fmt.Sprintf("implausible score %d-%d", match.HomeGoals, match.AwayGoals))
	}

	return errors
}

// ValidateHistory validates a full match sequence, returning the clean
// sorted history and the number of rejected records. Rejections are
// logged, never fatal.
func (v *DataValidator) ValidateHistory(matches []models.Match) ([]models.Match, int) {
	clean := make([]models.Match, 0, len(matches))
	rejected := 0

	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		if errs := v.ValidateMatch(match); len(errs) > 0 {
			rejected++
			v.logger.WithFields(logrus.Fields{
				"home":   match.HomeTeam,
				"away":   match.AwayTeam,
				"date":   match.Date,
				"errors": errs,
			}).Warn("Rejecting invalid match record")
			continue
		}

		key := fmt.Sprintf("%s|%s|%d", match.HomeTeam, match.AwayTeam, match.Date.Unix())
		if _, dup := seen[key]; dup {
			rejected++
			v.logger.WithField("key", key).Warn("Rejecting duplicate match record")
			continue
		}
		seen[key] = struct{}{}
		clean = append(clean, match)
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date.Before(clean[j].Date)
	})
	return clean, rejected
}
