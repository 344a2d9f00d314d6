package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fomastreeman/match-predictor/internal/models"
)

func day(n int) time.Time {
	return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// TestUpdateExactValues tests the reference Elo scenario: two 1500-rated
// teams, home wins, K=32. Expected score 0.5, actual 1.0, so the home side
// moves to exactly 1516 and the away side to 1484.
func TestUpdateExactValues(t *testing.T) {
	tracker := NewTracker(DefaultConfig(), nil)

	err := tracker.Update(models.Match{
		Date: day(0), HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		HomeGoals: 2, AwayGoals: 0,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1516.0, tracker.Rating("Arsenal"), 1e-9)
	assert.InDelta(t, 1484.0, tracker.Rating("Chelsea"), 1e-9)
}

// TestDrawSplitsExpectation tests that a draw between unequal teams moves
// ratings toward each other
func TestDrawSplitsExpectation(t *testing.T) {
	tracker := NewTracker(DefaultConfig(), nil)
	require.NoError(t, tracker.Update(models.Match{
		Date: day(0), HomeTeam: "A", AwayTeam: "B", HomeGoals: 3, AwayGoals: 0,
	}))

	strongBefore := tracker.Rating("A")
	weakBefore := tracker.Rating("B")

	require.NoError(t, tracker.Update(models.Match{
		Date: day(1), HomeTeam: "A", AwayTeam: "B", HomeGoals: 1, AwayGoals: 1,
	}))

	assert.Less(t, tracker.Rating("A"), strongBefore)
	assert.Greater(t, tracker.Rating("B"), weakBefore)
}

// TestReplayDeterminism tests that replaying the same sorted sequence twice
// yields identical final ratings
func TestReplayDeterminism(t *testing.T) {
	matches := []models.Match{
		{Date: day(0), HomeTeam: "A", AwayTeam: "B", HomeGoals: 2, AwayGoals: 1},
		{Date: day(3), HomeTeam: "B", AwayTeam: "C", HomeGoals: 0, AwayGoals: 0},
		{Date: day(7), HomeTeam: "C", AwayTeam: "A", HomeGoals: 1, AwayGoals: 4},
		{Date: day(9), HomeTeam: "A", AwayTeam: "C", HomeGoals: 0, AwayGoals: 2},
	}

	first := NewTracker(DefaultConfig(), nil)
	require.NoError(t, first.Replay(matches))

	second := NewTracker(DefaultConfig(), nil)
	require.NoError(t, second.Replay(matches))

	for _, team := range []string{"A", "B", "C"} {
		assert.Equal(t, first.Rating(team), second.Rating(team))
	}
}

// TestOutOfOrderFailsLoudly tests that a match before the cursor is rejected
func TestOutOfOrderFailsLoudly(t *testing.T) {
	tracker := NewTracker(DefaultConfig(), nil)
	require.NoError(t, tracker.Update(models.Match{
		Date: day(5), HomeTeam: "A", AwayTeam: "B", HomeGoals: 1, AwayGoals: 0,
	}))

	err := tracker.Update(models.Match{
		Date: day(2), HomeTeam: "B", AwayTeam: "C", HomeGoals: 2, AwayGoals: 2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfOrder)
	// Rejected match must not have touched state
	assert.Equal(t, 1, tracker.Processed())
	assert.Equal(t, DefaultConfig().InitialRating, tracker.Rating("C"))
}

// TestRatingAsOf tests strictly-before point-in-time queries
func TestRatingAsOf(t *testing.T) {
	tracker := NewTracker(DefaultConfig(), nil)
	require.NoError(t, tracker.Update(models.Match{
		Date: day(0), HomeTeam: "A", AwayTeam: "B", HomeGoals: 2, AwayGoals: 0,
	}))
	require.NoError(t, tracker.Update(models.Match{
		Date: day(7), HomeTeam: "A", AwayTeam: "B", HomeGoals: 0, AwayGoals: 1,
	}))

	// Before any processed match: neutral default
	assert.Equal(t, 1500.0, tracker.RatingAsOf("A", day(0)))
	// The day-0 result is visible from day 1, the day-7 result is not
	assert.InDelta(t, 1516.0, tracker.RatingAsOf("A", day(1)), 1e-9)
	assert.InDelta(t, 1516.0, tracker.RatingAsOf("A", day(7)), 1e-9)
	assert.Less(t, tracker.RatingAsOf("A", day(8)), 1516.0)
	// Unknown team: neutral default
	assert.Equal(t, 1500.0, tracker.RatingAsOf("Z", day(30)))
}

// TestSnapshotAsOfIsCopy tests that snapshots are caller-owned copies
func TestSnapshotAsOfIsCopy(t *testing.T) {
	tracker := NewTracker(DefaultConfig(), nil)
	require.NoError(t, tracker.Update(models.Match{
		Date: day(0), HomeTeam: "A", AwayTeam: "B", HomeGoals: 1, AwayGoals: 0,
	}))

	snapshot := tracker.SnapshotAsOf(day(1))
	snapshot["A"] = 0

	assert.InDelta(t, 1516.0, tracker.RatingAsOf("A", day(1)), 1e-9)
}

// TestExpectedHomeScoreUsesHomeAdvantage tests the feature-building
// expectation includes the configured offset
func TestExpectedHomeScoreUsesHomeAdvantage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HomeAdvantage = 100.0
	tracker := NewTracker(cfg, nil)

	// Equal unseen teams: advantage tips the expectation above 0.5
	expected := tracker.ExpectedHomeScore("A", "B", day(0))
	assert.Greater(t, expected, 0.5)

	cfg.HomeAdvantage = 0
	neutral := NewTracker(cfg, nil)
	assert.InDelta(t, 0.5, neutral.ExpectedHomeScore("A", "B", day(0)), 1e-9)
}
