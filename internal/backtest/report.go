package backtest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fomastreeman/match-predictor/internal/models"
)

// Evaluation is the outcome of predicting one held-out match
type Evaluation struct {
	Match      models.Match             `json:"match"`
	Prediction *models.PredictionResult `json:"prediction"`
	Actual     models.Outcome           `json:"actual"`
	Correct    bool                     `json:"correct"`
}

// OutcomeBreakdown measures prediction quality for one outcome class
type OutcomeBreakdown struct {
	Support   int     `json:"support"`
	Predicted int     `json:"predicted"`
	Correct   int     `json:"correct"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// ConfidenceBucket aggregates accuracy over one confidence band,
// inclusive low bound, exclusive high bound except the last
type ConfidenceBucket struct {
	Label    string  `json:"label"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// CaseNote points at one high-confidence prediction for qualitative review
type CaseNote struct {
	Date       time.Time      `json:"date"`
	HomeTeam   string         `json:"home_team"`
	AwayTeam   string         `json:"away_team"`
	Predicted  models.Outcome `json:"predicted"`
	Actual     models.Outcome `json:"actual"`
	Confidence float64        `json:"confidence"`
}

// Report summarizes one walk-forward evaluation run
type Report struct {
	RunID       uuid.UUID `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	TrainSize int `json:"train_size"`
	TestSize  int `json:"test_size"`
	Correct   int `json:"correct"`

	Accuracy float64 `json:"accuracy"`

	Outcomes map[string]OutcomeBreakdown `json:"outcomes"`
	Buckets  []ConfidenceBucket          `json:"confidence_buckets"`

	HighConfidenceHits   []CaseNote `json:"high_confidence_hits"`
	HighConfidenceMisses []CaseNote `json:"high_confidence_misses"`

	Evaluations []Evaluation `json:"evaluations"`
}

// ToJSON renders the report for the external reporting layer
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func newBuckets() []ConfidenceBucket {
	return []ConfidenceBucket{
		{Label: "<0.4", Low: 0, High: 0.4},
		{Label: "0.4-0.6", Low: 0.4, High: 0.6},
		{Label: "0.6-0.8", Low: 0.6, High: 0.8},
		{Label: "0.8-1.0", Low: 0.8, High: 1.0},
	}
}

func bucketIndex(buckets []ConfidenceBucket, confidence float64) int {
	for i, b := range buckets {
		if confidence < b.High {
			return i
		}
	}
	return len(buckets) - 1
}

// buildReport aggregates per-match evaluations into the run summary
func buildReport(trainSize int, highConfidence float64, evals []Evaluation) *Report {
	report := &Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		TrainSize:   trainSize,
		TestSize:    len(evals),
		Outcomes:    make(map[string]OutcomeBreakdown, 3),
		Buckets:     newBuckets(),
		Evaluations: evals,
	}

	for _, outcome := range models.Outcomes() {
		report.Outcomes[outcome.String()] = OutcomeBreakdown{}
	}

	for _, eval := range evals {
		if eval.Correct {
			report.Correct++
		}

		actual := report.Outcomes[eval.Actual.String()]
		actual.Support++
		if eval.Correct {
			actual.Correct++
		}
		report.Outcomes[eval.Actual.String()] = actual

		predicted := report.Outcomes[eval.Prediction.Outcome.String()]
		predicted.Predicted++
		report.Outcomes[eval.Prediction.Outcome.String()] = predicted

		bucket := &report.Buckets[bucketIndex(report.Buckets, eval.Prediction.Confidence)]
		bucket.Total++
		if eval.Correct {
			bucket.Correct++
		}

		if eval.Prediction.Confidence >= highConfidence {
			note := CaseNote{
				Date:       eval.Match.Date,
				HomeTeam:   eval.Match.HomeTeam,
				AwayTeam:   eval.Match.AwayTeam,
				Predicted:  eval.Prediction.Outcome,
				Actual:     eval.Actual,
				Confidence: eval.Prediction.Confidence,
			}
			if eval.Correct {
				report.HighConfidenceHits = append(report.HighConfidenceHits, note)
			} else {
				report.HighConfidenceMisses = append(report.HighConfidenceMisses, note)
			}
		}
	}

	if report.TestSize > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.TestSize)
	}
	for label, breakdown := range report.Outcomes {
		if breakdown.Support > 0 {
			breakdown.Recall = float64(breakdown.Correct) / float64(breakdown.Support)
		}
		if breakdown.Predicted > 0 {
			breakdown.Precision = float64(breakdown.Correct) / float64(breakdown.Predicted)
		}
		report.Outcomes[label] = breakdown
	}
	for i := range report.Buckets {
		if report.Buckets[i].Total > 0 {
			report.Buckets[i].Accuracy = float64(report.Buckets[i].Correct) / float64(report.Buckets[i].Total)
		}
	}

	return report
}
