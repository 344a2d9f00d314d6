package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSanitizeReplacesNonFinite tests NaN and Inf replacement with the
// documented defaults
func TestSanitizeReplacesNonFinite(t *testing.T) {
	v := NeutralVector()
	v.HomeRating = math.NaN()
	v.RatingRatio = math.Inf(1)
	v.AwayMomentum = math.Inf(-1)

	replaced := Sanitize(&v, nil)

	require.Len(t, replaced, 3)
	assert.Contains(t, replaced, "home_rating")
	assert.Contains(t, replaced, "rating_ratio")
	assert.Contains(t, replaced, "away_momentum")

	assert.Equal(t, 1500.0, v.HomeRating)
	assert.Equal(t, 1.0, v.RatingRatio)
	assert.Equal(t, 0.5, v.AwayMomentum)
}

// TestSanitizeCleanVectorUntouched tests that finite vectors pass through
func TestSanitizeCleanVectorUntouched(t *testing.T) {
	v := NeutralVector()
	before := v

	replaced := Sanitize(&v, nil)

	assert.Empty(t, replaced)
	assert.Equal(t, before, v)
}

// TestSanitizeLeavesOnlyFiniteValues tests the hard contract: after
// sanitization every value is finite
func TestSanitizeLeavesOnlyFiniteValues(t *testing.T) {
	v := NeutralVector()
	v.TrendDelta = math.NaN()
	v.H2HAvgGoals = math.Inf(1)

	Sanitize(&v, nil)

	for i, value := range v.Values() {
		assert.False(t, math.IsNaN(value) || math.IsInf(value, 0),
			"feature %s is not finite", v.Names()[i])
	}
}
