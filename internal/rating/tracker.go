// Package rating maintains Elo-style team strength scores replayed in
// strict chronological order.
package rating

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// ErrOutOfOrder indicates a match was supplied earlier than the tracker's
// processing cursor. Ratings must never be updated out of date order.
var ErrOutOfOrder = errors.New("match predates processing cursor")

// Config holds rating update parameters
type Config struct {
	KFactor       float64
	InitialRating float64
	HomeAdvantage float64
}

// DefaultConfig returns the reference rating parameters
func DefaultConfig() Config {
	return Config{
		KFactor:       32.0,
		InitialRating: 1500.0,
		HomeAdvantage: 65.0,
	}
}

// ratingPoint records a team's rating immediately after a match on Date
type ratingPoint struct {
	Date   time.Time
	Rating float64
}

// Tracker owns the per-team rating state. All mutation happens through
// Update, replaying matches in ascending date order; point-in-time queries
// go through RatingAsOf so callers never observe a rating that includes
// matches on or after their query date.
type Tracker struct {
	cfg       Config
	current   map[string]float64
	timeline  map[string][]ratingPoint
	cursor    time.Time
	processed int
	logger    *logrus.Logger
}

// NewTracker creates a tracker with no processed matches
func NewTracker(cfg Config, logger *logrus.Logger) *Tracker {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.KFactor <= 0 {
		cfg.KFactor = DefaultConfig().KFactor
	}
	if cfg.InitialRating <= 0 {
		cfg.InitialRating = DefaultConfig().InitialRating
	}
	return &Tracker{
		cfg:      cfg,
		current:  make(map[string]float64),
		timeline: make(map[string][]ratingPoint),
		logger:   logger,
	}
}

// Update consumes one match and shifts both teams' ratings by
// K * (actual - expected). Matches must arrive in ascending date order;
// an out-of-order match fails loudly rather than corrupting state.
func (t *Tracker) Update(match models.Match) error {
	if match.Date.Before(t.cursor) {
		return fmt.Errorf("%w: match %s vs %s on %s, cursor at %s",
			ErrOutOfOrder, match.HomeTeam, match.AwayTeam,
			match.Date.Format("2006-01-02"), t.cursor.Format("2006-01-02"))
	}

	home := t.ratingOrSeed(match.HomeTeam)
	away := t.ratingOrSeed(match.AwayTeam)

	// Updates use the raw expectation; the home-advantage offset is only
	// folded in when expectations feed feature building.
	expectedHome := expectedScore(home, away)

	var actualHome float64
	switch match.Outcome() {
	case models.OutcomeHomeWin:
		actualHome = 1.0
	case models.OutcomeDraw:
		actualHome = 0.5
	case models.OutcomeAwayWin:
		actualHome = 0.0
	}

	delta := t.cfg.KFactor * (actualHome - expectedHome)
	t.set(match.HomeTeam, match.Date, home+delta)
	t.set(match.AwayTeam, match.Date, away-delta)

	t.cursor = match.Date
	t.processed++
	return nil
}

// Replay consumes a chronologically sorted match slice from scratch state
func (t *Tracker) Replay(matches []models.Match) error {
	for i, match := range matches {
		if err := t.Update(match); err != nil {
			return fmt.Errorf("replay failed at match %d: %w", i, err)
		}
	}
	return nil
}

// Rating returns the team's current rating, seeding unknown teams at the
// neutral default
func (t *Tracker) Rating(team string) float64 {
	if r, ok := t.current[team]; ok {
		return r
	}
	return t.cfg.InitialRating
}

// RatingAsOf returns the rating the team held strictly before the given
// date. Teams with no matches before that date get the neutral default.
func (t *Tracker) RatingAsOf(team string, date time.Time) float64 {
	points := t.timeline[team]
	rating := t.cfg.InitialRating
	for _, p := range points {
		if !p.Date.Before(date) {
			break
		}
		rating = p.Rating
	}
	return rating
}

// SnapshotAsOf returns a point-in-time copy of every known team's rating.
// The returned map is owned by the caller.
func (t *Tracker) SnapshotAsOf(date time.Time) map[string]float64 {
	snapshot := make(map[string]float64, len(t.timeline))
	for team := range t.timeline {
		snapshot[team] = t.RatingAsOf(team, date)
	}
	return snapshot
}

// ExpectedHomeScore returns the logistic expected score for the home side
// as of the given date, with the configured home-advantage offset folded
// into the expectation. Used by feature building only.
func (t *Tracker) ExpectedHomeScore(home, away string, date time.Time) float64 {
	homeRating := t.RatingAsOf(home, date) + t.cfg.HomeAdvantage
	awayRating := t.RatingAsOf(away, date)
	return expectedScore(homeRating, awayRating)
}

// Processed returns the number of matches replayed so far
func (t *Tracker) Processed() int {
	return t.processed
}

// Cursor returns the date of the most recently processed match
func (t *Tracker) Cursor() time.Time {
	return t.cursor
}

func (t *Tracker) ratingOrSeed(team string) float64 {
	if r, ok := t.current[team]; ok {
		return r
	}
	t.logger.WithFields(logrus.Fields{
		"team":   team,
		"rating": t.cfg.InitialRating,
	}).Debug("Seeding unknown team at neutral rating")
	return t.cfg.InitialRating
}

func (t *Tracker) set(team string, date time.Time, rating float64) {
	t.current[team] = rating
	t.timeline[team] = append(t.timeline[team], ratingPoint{Date: date, Rating: rating})
}

// expectedScore is the classic logistic expectation
func expectedScore(rating, opponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponent-rating)/400.0))
}
