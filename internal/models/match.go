package models

import (
	"time"
)

// Outcome represents the result of a match from the home side's perspective.
// The numeric values double as class labels for the ensemble models.
type Outcome int

const (
	OutcomeAwayWin Outcome = 0
	OutcomeDraw    Outcome = 1
	OutcomeHomeWin Outcome = 2
)

// String returns a human-readable outcome label
func (o Outcome) String() string {
	switch o {
	case OutcomeHomeWin:
		return "home_win"
	case OutcomeDraw:
		return "draw"
	case OutcomeAwayWin:
		return "away_win"
	default:
		return "unknown"
	}
}

// Outcomes lists all outcome labels in class-label order
func Outcomes() []Outcome {
	return []Outcome{OutcomeAwayWin, OutcomeDraw, OutcomeHomeWin}
}

// Match represents a single completed fixture. Matches are immutable
// historical facts and are always processed in ascending date order.
type Match struct {
	Date      time.Time `db:"match_date" json:"date" validate:"required"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals int       `db:"home_goals" json:"home_goals" validate:"gte=0"`
	AwayGoals int       `db:"away_goals" json:"away_goals" validate:"gte=0"`
	League    string    `db:"league" json:"league,omitempty"`
}

// Outcome derives the match outcome from the final score
func (m Match) Outcome() Outcome {
	switch {
	case m.HomeGoals > m.AwayGoals:
		return OutcomeHomeWin
	case m.HomeGoals < m.AwayGoals:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// Points returns the league points the named team earned in this match.
// A team that did not play in the match earns zero.
func (m Match) Points(team string) int {
	switch m.Outcome() {
	case OutcomeHomeWin:
		if team == m.HomeTeam {
			return 3
		}
	case OutcomeAwayWin:
		if team == m.AwayTeam {
			return 3
		}
	case OutcomeDraw:
		if team == m.HomeTeam || team == m.AwayTeam {
			return 1
		}
	}
	return 0
}

// Involves reports whether the named team played in this match
func (m Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// GoalsFor returns the goals scored by the named team in this match
func (m Match) GoalsFor(team string) int {
	if team == m.HomeTeam {
		return m.HomeGoals
	}
	if team == m.AwayTeam {
		return m.AwayGoals
	}
	return 0
}

// GoalsAgainst returns the goals conceded by the named team in this match
func (m Match) GoalsAgainst(team string) int {
	if team == m.HomeTeam {
		return m.AwayGoals
	}
	if team == m.AwayTeam {
		return m.HomeGoals
	}
	return 0
}

// SortedByDate reports whether matches are in ascending date order
func SortedByDate(matches []Match) bool {
	for i := 1; i < len(matches); i++ {
		if matches[i].Date.Before(matches[i-1].Date) {
			return false
		}
	}
	return true
}
