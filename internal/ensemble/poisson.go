package ensemble

import (
	"fmt"
	"math"

	"github.com/fomastreeman/match-predictor/internal/features"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// PoissonModel estimates outcome probabilities from goal expectancies.
// Attack and defense strengths are read off the season scoring-rate
// features and combined into expected goals per side; the outcome
// distribution is the outer product of the two Poisson score
// distributions (home win below the diagonal, draw on it, away win
// above). Structurally unlike the feature-space learners, which is
// exactly why it earns an ensemble seat.
type PoissonModel struct {
	maxGoals   int
	homeFactor float64
	leagueAvg  float64
	fitted     bool
}

// NewPoissonModel creates a goal-expectancy model
func NewPoissonModel() *PoissonModel {
	return &PoissonModel{
		maxGoals:   10,
		homeFactor: 1.15,
	}
}

// Name returns the model identifier
func (p *PoissonModel) Name() string {
	return "poisson"
}

// Fit estimates the league-average scoring rate from the training set
func (p *PoissonModel) Fit(examples []LabeledExample) error {
	if len(examples) == 0 {
		return fmt.Errorf("poisson: no examples to fit")
	}
	total := 0.0
	for _, ex := range examples {
		total += (ex.Features.HomeSeasonGoalsForPG + ex.Features.AwaySeasonGoalsForPG) / 2
	}
	p.leagueAvg = total / float64(len(examples))
	if p.leagueAvg <= 0 {
		p.leagueAvg = 1.3
	}
	p.fitted = true
	return nil
}

// PredictProba builds the score matrix from expected goals
func (p *PoissonModel) PredictProba(v features.FeatureVector) models.ProbabilityTriple {
	if !p.fitted {
		return uniformTriple()
	}

	// Expected goals = attack strength x opposing defense weakness,
	// rescaled by the league average the strengths were normalized to
	homeAttack := v.HomeSeasonGoalsForPG / p.leagueAvg
	awayDefense := v.AwaySeasonGoalsAgainstPG / p.leagueAvg
	awayAttack := v.AwaySeasonGoalsForPG / p.leagueAvg
	homeDefense := v.HomeSeasonGoalsAgainstPG / p.leagueAvg

	homeExpected := clampGoals(homeAttack * awayDefense * p.leagueAvg * p.homeFactor)
	awayExpected := clampGoals(awayAttack * homeDefense * p.leagueAvg)

	homeDist := poissonPMF(homeExpected, p.maxGoals)
	awayDist := poissonPMF(awayExpected, p.maxGoals)

	var probs models.ProbabilityTriple
	for h := 0; h <= p.maxGoals; h++ {
		for a := 0; a <= p.maxGoals; a++ {
			mass := homeDist[h] * awayDist[a]
			switch {
			case h > a:
				probs[int(models.OutcomeHomeWin)] += mass
			case h == a:
				probs[int(models.OutcomeDraw)] += mass
			default:
				probs[int(models.OutcomeAwayWin)] += mass
			}
		}
	}
	return normalizeTriple(probs)
}

func clampGoals(expected float64) float64 {
	if expected < 0.1 {
		return 0.1
	}
	if expected > 10 {
		return 10
	}
	return expected
}

// poissonPMF returns P(X = k) for k in [0, maxGoals]
func poissonPMF(lambda float64, maxGoals int) []float64 {
	pmf := make([]float64, maxGoals+1)
	factorial := 1.0
	for k := 0; k <= maxGoals; k++ {
		if k > 0 {
			factorial *= float64(k)
		}
		pmf[k] = math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial
	}
	return pmf
}
