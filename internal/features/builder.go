package features

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/models"
	"github.com/fomastreeman/match-predictor/internal/rating"
)

// Config holds feature construction parameters
type Config struct {
	FormWindows     []int
	MomentumWindow  int
	TrendWindow     int
	HeadToHeadLimit int
}

// DefaultConfig returns the reference feature parameters
func DefaultConfig() Config {
	return Config{
		FormWindows:     []int{3, 5, 10},
		MomentumWindow:  5,
		TrendWindow:     10,
		HeadToHeadLimit: 8,
	}
}

// Builder computes feature vectors from a rating tracker and raw match
// history. Builds are read-only against both and safe to run concurrently
// against a frozen history snapshot.
type Builder struct {
	cfg     Config
	ratings *rating.Tracker
	logger  *logrus.Logger
}

// NewBuilder creates a feature builder
func NewBuilder(cfg Config, ratings *rating.Tracker, logger *logrus.Logger) *Builder {
	if logger == nil {
		logger = logrus.New()
	}
	if len(cfg.FormWindows) == 0 {
		cfg = DefaultConfig()
	}
	return &Builder{cfg: cfg, ratings: ratings, logger: logger}
}

// Build produces the feature vector for a (home, away, as-of-date) triple.
// The supplied history is filtered to matches dated strictly before asOf
// before any statistic is computed; appending future matches to history
// must never change the result.
func (b *Builder) Build(home, away string, asOf time.Time, history []models.Match) (FeatureVector, error) {
	if home == "" || away == "" {
		return FeatureVector{}, fmt.Errorf("home and away team names are required")
	}
	if home == away {
		return FeatureVector{}, fmt.Errorf("home and away team must differ, got %q", home)
	}

	prior := filterBefore(history, asOf)

	v := NeutralVector()

	b.ratingFeatures(&v, home, away, asOf)
	b.formFeatures(&v, home, away, prior)
	b.seasonFeatures(&v, home, away, prior)
	b.headToHeadFeatures(&v, home, away, prior)
	b.momentumFeatures(&v, home, away, prior)
	b.trendFeatures(&v, home, away, prior)
	b.contextFeatures(&v, home, away, asOf, prior)

	Sanitize(&v, b.logger)
	return v, nil
}

// filterBefore is the zero-leakage gate: only matches strictly before the
// cutoff survive.
func filterBefore(history []models.Match, cutoff time.Time) []models.Match {
	prior := make([]models.Match, 0, len(history))
	for _, m := range history {
		if m.Date.Before(cutoff) {
			prior = append(prior, m)
		}
	}
	return prior
}

func (b *Builder) ratingFeatures(v *FeatureVector, home, away string, asOf time.Time) {
	v.HomeRating = b.ratings.RatingAsOf(home, asOf)
	v.AwayRating = b.ratings.RatingAsOf(away, asOf)
	v.RatingDelta = v.HomeRating - v.AwayRating
	if v.AwayRating != 0 {
		v.RatingRatio = v.HomeRating / v.AwayRating
	}
	v.HomeExpectedScore = b.ratings.ExpectedHomeScore(home, away, asOf)
}

func (b *Builder) formFeatures(v *FeatureVector, home, away string, prior []models.Match) {
	type formSlot struct {
		homePPG, homeGF, homeGA *float64
		awayPPG, awayGF, awayGA *float64
		delta                   *float64
	}
	slots := map[int]formSlot{
		3:  {&v.HomeForm3PPG, &v.HomeForm3GoalsFor, &v.HomeForm3GoalsAgainst, &v.AwayForm3PPG, &v.AwayForm3GoalsFor, &v.AwayForm3GoalsAgainst, &v.Form3PointsDelta},
		5:  {&v.HomeForm5PPG, &v.HomeForm5GoalsFor, &v.HomeForm5GoalsAgainst, &v.AwayForm5PPG, &v.AwayForm5GoalsFor, &v.AwayForm5GoalsAgainst, &v.Form5PointsDelta},
		10: {&v.HomeForm10PPG, &v.HomeForm10GoalsFor, &v.HomeForm10GoalsAgainst, &v.AwayForm10PPG, &v.AwayForm10GoalsFor, &v.AwayForm10GoalsAgainst, &v.Form10PointsDelta},
	}

	for _, window := range b.cfg.FormWindows {
		slot, ok := slots[window]
		if !ok {
			// Schema only carries the reference windows
			continue
		}
		if ppg, gf, ga, ok := windowForm(prior, home, window); ok {
			*slot.homePPG, *slot.homeGF, *slot.homeGA = ppg, gf, ga
		}
		if ppg, gf, ga, ok := windowForm(prior, away, window); ok {
			*slot.awayPPG, *slot.awayGF, *slot.awayGA = ppg, gf, ga
		}
		*slot.delta = *slot.homePPG - *slot.awayPPG
	}
}

// windowForm returns per-game points, goals for and goals against over the
// team's last n prior matches. ok is false when the team has no history.
func windowForm(prior []models.Match, team string, n int) (ppg, gf, ga float64, ok bool) {
	recent := lastMatches(prior, team, n)
	if len(recent) == 0 {
		return 0, 0, 0, false
	}
	points, goalsFor, goalsAgainst := 0, 0, 0
	for _, m := range recent {
		points += m.Points(team)
		goalsFor += m.GoalsFor(team)
		goalsAgainst += m.GoalsAgainst(team)
	}
	games := float64(len(recent))
	return float64(points) / games, float64(goalsFor) / games, float64(goalsAgainst) / games, true
}

func (b *Builder) seasonFeatures(v *FeatureVector, home, away string, prior []models.Match) {
	if ppg, gf, ga, win, draw, loss, ok := seasonForm(prior, home); ok {
		v.HomeSeasonPPG, v.HomeSeasonGoalsForPG, v.HomeSeasonGoalsAgainstPG = ppg, gf, ga
		v.HomeWinRate, v.HomeDrawRate, v.HomeLossRate = win, draw, loss
	} else {
		b.logUnknownTeam(home)
	}
	if ppg, gf, ga, win, draw, loss, ok := seasonForm(prior, away); ok {
		v.AwaySeasonPPG, v.AwaySeasonGoalsForPG, v.AwaySeasonGoalsAgainstPG = ppg, gf, ga
		v.AwayWinRate, v.AwayDrawRate, v.AwayLossRate = win, draw, loss
	} else {
		b.logUnknownTeam(away)
	}
	v.SeasonPPGDelta = v.HomeSeasonPPG - v.AwaySeasonPPG
}

func seasonForm(prior []models.Match, team string) (ppg, gf, ga, win, draw, loss float64, ok bool) {
	points, goalsFor, goalsAgainst := 0, 0, 0
	wins, draws, losses, games := 0, 0, 0, 0
	for _, m := range prior {
		if !m.Involves(team) {
			continue
		}
		games++
		points += m.Points(team)
		goalsFor += m.GoalsFor(team)
		goalsAgainst += m.GoalsAgainst(team)
		switch m.Points(team) {
		case 3:
			wins++
		case 1:
			draws++
		default:
			losses++
		}
	}
	if games == 0 {
		return 0, 0, 0, 0, 0, 0, false
	}
	g := float64(games)
	return float64(points) / g, float64(goalsFor) / g, float64(goalsAgainst) / g,
		float64(wins) / g, float64(draws) / g, float64(losses) / g, true
}

func (b *Builder) headToHeadFeatures(v *FeatureVector, home, away string, prior []models.Match) {
	meetings := make([]models.Match, 0, b.cfg.HeadToHeadLimit)
	// Walk backwards so we keep the most recent direct meetings
	for i := len(prior) - 1; i >= 0 && len(meetings) < b.cfg.HeadToHeadLimit; i-- {
		m := prior[i]
		if m.Involves(home) && m.Involves(away) {
			meetings = append(meetings, m)
		}
	}
	if len(meetings) == 0 {
		return
	}

	homeWins, draws, awayWins, goals := 0, 0, 0, 0
	for _, m := range meetings {
		goals += m.HomeGoals + m.AwayGoals
		switch {
		case m.GoalsFor(home) > m.GoalsFor(away):
			homeWins++
		case m.GoalsFor(home) < m.GoalsFor(away):
			awayWins++
		default:
			draws++
		}
	}
	v.H2HMatches = float64(len(meetings))
	v.H2HHomeWins = float64(homeWins)
	v.H2HDraws = float64(draws)
	v.H2HAwayWins = float64(awayWins)
	v.H2HAvgGoals = float64(goals) / float64(len(meetings))
}

func (b *Builder) momentumFeatures(v *FeatureVector, home, away string, prior []models.Match) {
	if m, ok := momentum(prior, home, b.cfg.MomentumWindow); ok {
		v.HomeMomentum = m
	}
	if m, ok := momentum(prior, away, b.cfg.MomentumWindow); ok {
		v.AwayMomentum = m
	}
	v.MomentumDelta = v.HomeMomentum - v.AwayMomentum
}

// momentum is a recency-weighted average of results over the team's last n
// matches. Results score 1/0.5/0 for win/draw/loss and weights ramp
// linearly so the most recent match counts heaviest; the result is already
// normalized to [0,1].
func momentum(prior []models.Match, team string, n int) (float64, bool) {
	recent := lastMatches(prior, team, n)
	if len(recent) == 0 {
		return 0, false
	}
	weighted, totalWeight := 0.0, 0.0
	// recent is ordered oldest to newest; weight i+1 keeps the ramp linear
	for i, m := range recent {
		weight := float64(i + 1)
		score := 0.0
		switch m.Points(team) {
		case 3:
			score = 1.0
		case 1:
			score = 0.5
		}
		weighted += weight * score
		totalWeight += weight
	}
	return weighted / totalWeight, true
}

func (b *Builder) trendFeatures(v *FeatureVector, home, away string, prior []models.Match) {
	if tr, ok := trend(prior, home, b.cfg.TrendWindow); ok {
		v.HomeTrend = tr
	}
	if tr, ok := trend(prior, away, b.cfg.TrendWindow); ok {
		v.AwayTrend = tr
	}
	v.TrendDelta = v.HomeTrend - v.AwayTrend
}

// trend compares points earned in the second half of the team's last n
// matches against the first half, normalized to [-1,1]. Positive values
// signal improving form.
func trend(prior []models.Match, team string, n int) (float64, bool) {
	recent := lastMatches(prior, team, n)
	if len(recent) < 2 {
		return 0, false
	}
	half := len(recent) / 2
	firstPoints, secondPoints := 0, 0
	for i, m := range recent {
		if i < half {
			firstPoints += m.Points(team)
		} else {
			secondPoints += m.Points(team)
		}
	}
	// Larger half bounds the maximum swing
	maxPoints := 3 * (len(recent) - half)
	return float64(secondPoints-firstPoints) / float64(maxPoints), true
}

func (b *Builder) contextFeatures(v *FeatureVector, home, away string, asOf time.Time, prior []models.Match) {
	if days, ok := restDays(prior, home, asOf); ok {
		v.HomeRestDays = days
	}
	if days, ok := restDays(prior, away, asOf); ok {
		v.AwayRestDays = days
	}
	v.RestDelta = v.HomeRestDays - v.AwayRestDays

	table := standingsTable(prior)
	if pos, ok := table[home]; ok {
		v.HomePosition = float64(pos)
	}
	if pos, ok := table[away]; ok {
		v.AwayPosition = float64(pos)
	}
	v.PositionDelta = v.HomePosition - v.AwayPosition
}

func restDays(prior []models.Match, team string, asOf time.Time) (float64, bool) {
	recent := lastMatches(prior, team, 1)
	if len(recent) == 0 {
		return 0, false
	}
	return asOf.Sub(recent[0].Date).Hours() / 24.0, true
}

// standingsTable builds a points-sorted table from the filtered history and
// maps each team to its 1-based position. Ties break on goal difference,
// then goals scored, then name for determinism.
func standingsTable(prior []models.Match) map[string]int {
	type row struct {
		team     string
		points   int
		goalDiff int
		goalsFor int
	}
	byTeam := make(map[string]*row)
	for _, m := range prior {
		for _, team := range []string{m.HomeTeam, m.AwayTeam} {
			r, ok := byTeam[team]
			if !ok {
				r = &row{team: team}
				byTeam[team] = r
			}
			r.points += m.Points(team)
			r.goalDiff += m.GoalsFor(team) - m.GoalsAgainst(team)
			r.goalsFor += m.GoalsFor(team)
		}
	}

	rows := make([]*row, 0, len(byTeam))
	for _, r := range byTeam {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].points != rows[j].points {
			return rows[i].points > rows[j].points
		}
		if rows[i].goalDiff != rows[j].goalDiff {
			return rows[i].goalDiff > rows[j].goalDiff
		}
		if rows[i].goalsFor != rows[j].goalsFor {
			return rows[i].goalsFor > rows[j].goalsFor
		}
		return rows[i].team < rows[j].team
	})

	table := make(map[string]int, len(rows))
	for i, r := range rows {
		table[r.team] = i + 1
	}
	return table
}

// lastMatches returns the team's most recent n matches from the already
// filtered history, ordered oldest to newest
func lastMatches(prior []models.Match, team string, n int) []models.Match {
	involved := make([]models.Match, 0, n)
	for i := len(prior) - 1; i >= 0 && len(involved) < n; i-- {
		if prior[i].Involves(team) {
			involved = append(involved, prior[i])
		}
	}
	// Reverse back to chronological order
	for i, j := 0, len(involved)-1; i < j; i, j = i+1, j-1 {
		involved[i], involved[j] = involved[j], involved[i]
	}
	return involved
}

func (b *Builder) logUnknownTeam(team string) {
	b.logger.WithField("team", team).Debug("No prior matches for team, using neutral defaults")
}
