// Package features builds point-in-time feature vectors for match
// prediction. Every statistic is computed from matches dated strictly
// before the as-of date; the single history filter in Build is the
// load-bearing invariant of the whole pipeline.
package features

// Neutral defaults used both for teams with no prior history and as
// replacements for NaN/Inf values caught by sanitization.
const (
	defaultRating       = 1500.0
	defaultRatingRatio  = 1.0
	defaultExpected     = 0.5
	defaultPPG          = 1.32 // 33% win/draw/loss split: 0.33*3 + 0.33*1
	defaultGoalsPerGame = 1.3
	defaultRate         = 0.33
	defaultMomentum     = 0.5
	defaultTrend        = 0.0
	defaultRestDays     = 7.0
	defaultPosition     = 10.0
	defaultH2HGoals     = 2.6
)

// FeatureVector is the fixed-schema numeric description of one
// (home, away, as-of-date) triple. Every field is always populated;
// missing history yields the documented neutral default rather than a
// missing value, so downstream models never see gaps.
type FeatureVector struct {
	// Rating group
	HomeRating        float64
	AwayRating        float64
	RatingDelta       float64
	RatingRatio       float64
	HomeExpectedScore float64

	// Recent form over the last 3 prior matches, per game
	HomeForm3PPG          float64
	HomeForm3GoalsFor     float64
	HomeForm3GoalsAgainst float64
	AwayForm3PPG          float64
	AwayForm3GoalsFor     float64
	AwayForm3GoalsAgainst float64
	Form3PointsDelta      float64

	// Recent form over the last 5 prior matches, per game
	HomeForm5PPG          float64
	HomeForm5GoalsFor     float64
	HomeForm5GoalsAgainst float64
	AwayForm5PPG          float64
	AwayForm5GoalsFor     float64
	AwayForm5GoalsAgainst float64
	Form5PointsDelta      float64

	// Recent form over the last 10 prior matches, per game
	HomeForm10PPG          float64
	HomeForm10GoalsFor     float64
	HomeForm10GoalsAgainst float64
	AwayForm10PPG          float64
	AwayForm10GoalsFor     float64
	AwayForm10GoalsAgainst float64
	Form10PointsDelta      float64

	// Season-to-date form
	HomeSeasonPPG           float64
	HomeSeasonGoalsForPG    float64
	HomeSeasonGoalsAgainstPG float64
	HomeWinRate             float64
	HomeDrawRate            float64
	HomeLossRate            float64
	AwaySeasonPPG           float64
	AwaySeasonGoalsForPG    float64
	AwaySeasonGoalsAgainstPG float64
	AwayWinRate             float64
	AwayDrawRate            float64
	AwayLossRate            float64
	SeasonPPGDelta          float64

	// Head-to-head over the last direct meetings
	H2HMatches   float64
	H2HHomeWins  float64
	H2HDraws     float64
	H2HAwayWins  float64
	H2HAvgGoals  float64

	// Momentum: recency-weighted result average in [0,1]
	HomeMomentum  float64
	AwayMomentum  float64
	MomentumDelta float64

	// Trend: second-half minus first-half points of the recent window,
	// normalized to [-1,1]
	HomeTrend  float64
	AwayTrend  float64
	TrendDelta float64

	// Context
	HomeRestDays  float64
	AwayRestDays  float64
	RestDelta     float64
	HomePosition  float64
	AwayPosition  float64
	PositionDelta float64
}

type fieldSpec struct {
	name string
	ptr  *float64
	def  float64
}

// fields enumerates every feature with its name and neutral default in a
// stable order. Values, Names and sanitization all derive from this single
// list so the schema cannot drift.
func (v *FeatureVector) fields() []fieldSpec {
	return []fieldSpec{
		{"home_rating", &v.HomeRating, defaultRating},
		{"away_rating", &v.AwayRating, defaultRating},
		{"rating_delta", &v.RatingDelta, 0},
		{"rating_ratio", &v.RatingRatio, defaultRatingRatio},
		{"home_expected_score", &v.HomeExpectedScore, defaultExpected},

		{"home_form3_ppg", &v.HomeForm3PPG, defaultPPG},
		{"home_form3_goals_for", &v.HomeForm3GoalsFor, defaultGoalsPerGame},
		{"home_form3_goals_against", &v.HomeForm3GoalsAgainst, defaultGoalsPerGame},
		{"away_form3_ppg", &v.AwayForm3PPG, defaultPPG},
		{"away_form3_goals_for", &v.AwayForm3GoalsFor, defaultGoalsPerGame},
		{"away_form3_goals_against", &v.AwayForm3GoalsAgainst, defaultGoalsPerGame},
		{"form3_points_delta", &v.Form3PointsDelta, 0},

		{"home_form5_ppg", &v.HomeForm5PPG, defaultPPG},
		{"home_form5_goals_for", &v.HomeForm5GoalsFor, defaultGoalsPerGame},
		{"home_form5_goals_against", &v.HomeForm5GoalsAgainst, defaultGoalsPerGame},
		{"away_form5_ppg", &v.AwayForm5PPG, defaultPPG},
		{"away_form5_goals_for", &v.AwayForm5GoalsFor, defaultGoalsPerGame},
		{"away_form5_goals_against", &v.AwayForm5GoalsAgainst, defaultGoalsPerGame},
		{"form5_points_delta", &v.Form5PointsDelta, 0},

		{"home_form10_ppg", &v.HomeForm10PPG, defaultPPG},
		{"home_form10_goals_for", &v.HomeForm10GoalsFor, defaultGoalsPerGame},
		{"home_form10_goals_against", &v.HomeForm10GoalsAgainst, defaultGoalsPerGame},
		{"away_form10_ppg", &v.AwayForm10PPG, defaultPPG},
		{"away_form10_goals_for", &v.AwayForm10GoalsFor, defaultGoalsPerGame},
		{"away_form10_goals_against", &v.AwayForm10GoalsAgainst, defaultGoalsPerGame},
		{"form10_points_delta", &v.Form10PointsDelta, 0},

		{"home_season_ppg", &v.HomeSeasonPPG, defaultPPG},
		{"home_season_goals_for_pg", &v.HomeSeasonGoalsForPG, defaultGoalsPerGame},
		{"home_season_goals_against_pg", &v.HomeSeasonGoalsAgainstPG, defaultGoalsPerGame},
		{"home_win_rate", &v.HomeWinRate, defaultRate},
		{"home_draw_rate", &v.HomeDrawRate, defaultRate},
		{"home_loss_rate", &v.HomeLossRate, defaultRate},
		{"away_season_ppg", &v.AwaySeasonPPG, defaultPPG},
		{"away_season_goals_for_pg", &v.AwaySeasonGoalsForPG, defaultGoalsPerGame},
		{"away_season_goals_against_pg", &v.AwaySeasonGoalsAgainstPG, defaultGoalsPerGame},
		{"away_win_rate", &v.AwayWinRate, defaultRate},
		{"away_draw_rate", &v.AwayDrawRate, defaultRate},
		{"away_loss_rate", &v.AwayLossRate, defaultRate},
		{"season_ppg_delta", &v.SeasonPPGDelta, 0},

		{"h2h_matches", &v.H2HMatches, 0},
		{"h2h_home_wins", &v.H2HHomeWins, 0},
		{"h2h_draws", &v.H2HDraws, 0},
		{"h2h_away_wins", &v.H2HAwayWins, 0},
		{"h2h_avg_goals", &v.H2HAvgGoals, defaultH2HGoals},

		{"home_momentum", &v.HomeMomentum, defaultMomentum},
		{"away_momentum", &v.AwayMomentum, defaultMomentum},
		{"momentum_delta", &v.MomentumDelta, 0},

		{"home_trend", &v.HomeTrend, defaultTrend},
		{"away_trend", &v.AwayTrend, defaultTrend},
		{"trend_delta", &v.TrendDelta, 0},

		{"home_rest_days", &v.HomeRestDays, defaultRestDays},
		{"away_rest_days", &v.AwayRestDays, defaultRestDays},
		{"rest_delta", &v.RestDelta, 0},
		{"home_position", &v.HomePosition, defaultPosition},
		{"away_position", &v.AwayPosition, defaultPosition},
		{"position_delta", &v.PositionDelta, 0},
	}
}

// Values returns the features as an ordered slice for model consumption
func (v FeatureVector) Values() []float64 {
	specs := v.fields()
	values := make([]float64, len(specs))
	for i, spec := range specs {
		values[i] = *spec.ptr
	}
	return values
}

// Names returns the feature names in the same order as Values
func (v FeatureVector) Names() []string {
	specs := v.fields()
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.name
	}
	return names
}

// Dim returns the number of features in the fixed schema
func Dim() int {
	var v FeatureVector
	return len(v.fields())
}

// NeutralVector returns a vector populated entirely with the documented
// neutral defaults, as produced for two teams with no prior history.
func NeutralVector() FeatureVector {
	var v FeatureVector
	for _, spec := range v.fields() {
		*spec.ptr = spec.def
	}
	return v
}
