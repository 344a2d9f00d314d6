package ensemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fomastreeman/match-predictor/internal/models"
)

func newTestCachedPredictor(t *testing.T) *CachedPredictor {
	t.Helper()
	ens := stubEnsemble(map[string]models.ProbabilityTriple{"a": {0.2, 0.3, 0.5}})
	return NewCachedPredictor(newTestPredictor(t, ens, nil), time.Minute, 100)
}

// TestCacheKeyString tests the key encoding
func TestCacheKeyString(t *testing.T) {
	asOf := time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC)
	key := CacheKey{HomeTeam: "Arsenal", AwayTeam: "Chelsea", AsOf: asOf}
	assert.Equal(t, "Arsenal|Chelsea|1722524400", key.String())
}

// TestCachedPredictReusesResult tests that a repeated request returns
// the cached result
func TestCachedPredictReusesResult(t *testing.T) {
	cp := newTestCachedPredictor(t)

	first, err := cp.Predict("Arsenal", "Chelsea", predictionDay(30))
	require.NoError(t, err)
	assert.Equal(t, 1, cp.ItemCount())

	second, err := cp.Predict("Arsenal", "Chelsea", predictionDay(30))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cp.ItemCount())
}

// TestCachedPredictKeysByRequest tests that team order and date are part
// of the cache identity
func TestCachedPredictKeysByRequest(t *testing.T) {
	cp := newTestCachedPredictor(t)

	a, err := cp.Predict("Arsenal", "Chelsea", predictionDay(30))
	require.NoError(t, err)
	b, err := cp.Predict("Chelsea", "Arsenal", predictionDay(30))
	require.NoError(t, err)
	c, err := cp.Predict("Arsenal", "Chelsea", predictionDay(31))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 3, cp.ItemCount())
}

// TestCachedPredictErrorNotCached tests that failures never enter the cache
func TestCachedPredictErrorNotCached(t *testing.T) {
	cp := newTestCachedPredictor(t)

	_, err := cp.Predict("", "Chelsea", predictionDay(30))
	require.Error(t, err)
	assert.Equal(t, 0, cp.ItemCount())
}

// TestCacheClear tests Clear
func TestCacheClear(t *testing.T) {
	cp := newTestCachedPredictor(t)

	_, err := cp.Predict("Arsenal", "Chelsea", predictionDay(30))
	require.NoError(t, err)
	require.Equal(t, 1, cp.ItemCount())

	cp.Clear()
	assert.Equal(t, 0, cp.ItemCount())
}
