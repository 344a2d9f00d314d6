package ensemble

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/fomastreeman/match-predictor/internal/metrics"
	"github.com/fomastreeman/match-predictor/internal/models"
)

// CacheKey identifies one prediction request
type CacheKey struct {
	HomeTeam string
	AwayTeam string
	AsOf     time.Time
}

// String returns the string representation used as the cache index
func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%s|%d", k.HomeTeam, k.AwayTeam, k.AsOf.Unix())
}

// CachedPredictor wraps a Predictor with TTL-bounded in-memory caching.
// Prediction results are immutable, so cached pointers are safe to share.
type CachedPredictor struct {
	predictor *Predictor
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
}

// NewCachedPredictor creates a caching wrapper around the predictor
func NewCachedPredictor(predictor *Predictor, ttl time.Duration, maxSize int) *CachedPredictor {
	return &CachedPredictor{
		predictor: predictor,
		cache:     cache.New(ttl, ttl*2),
		ttl:       ttl,
		maxSize:   maxSize,
	}
}

// Predict returns a cached result when available, delegating to the
// underlying predictor otherwise
func (cp *CachedPredictor) Predict(home, away string, asOf time.Time) (*models.PredictionResult, error) {
	key := CacheKey{HomeTeam: home, AwayTeam: away, AsOf: asOf}.String()

	if cached, found := cp.cache.Get(key); found {
		if result, ok := cached.(*models.PredictionResult); ok {
			metrics.PredictionCacheHitsTotal.Inc()
			return result, nil
		}
	}

	result, err := cp.predictor.Predict(home, away, asOf)
	if err != nil {
		return nil, err
	}

	if cp.cache.ItemCount() >= cp.maxSize {
		cp.cache.DeleteExpired()
	}
	cp.cache.Set(key, result, cp.ttl)
	return result, nil
}

// Clear empties the cache
func (cp *CachedPredictor) Clear() {
	cp.cache.Flush()
}

// ItemCount returns the number of cached predictions
func (cp *CachedPredictor) ItemCount() int {
	return cp.cache.ItemCount()
}
