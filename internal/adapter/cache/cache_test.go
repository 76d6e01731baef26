package cache

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/couchcryptid/rain-forecast-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingForecaster struct {
	mu     sync.Mutex
	calls  int
	result domain.PredictionResult
	err    error
}

func (m *countingForecaster) Predict(_ context.Context, _ domain.InputRecord) (domain.PredictionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.result, m.err
}

// --- CachedForecaster tests ---

func TestCachedForecaster_CacheHit(t *testing.T) {
	inner := &countingForecaster{result: domain.BuildResult(1, 82.5)}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedForecaster(inner, 10, metrics)

	rec := domain.InputRecord{"MinTemp": domain.Number(15), "RainToday": domain.String("Yes")}
	r1, err := cached.Predict(context.Background(), rec)
	require.NoError(t, err)
	r2, err := cached.Predict(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")), 0)
	// The stub records no metrics, so only the hit is counted here.
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Predictions.WithLabelValues("1")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RiskLevels.WithLabelValues("High Risk")), 0)
}

func TestCachedForecaster_KeyOrderShareEntry(t *testing.T) {
	inner := &countingForecaster{result: domain.BuildResult(0, 12)}
	cached := NewCachedForecaster(inner, 10, observability.NewMetricsForTesting())

	a, err := domain.DecodeInputRecord([]byte(`{"MinTemp": 15, "WindGustDir": "NW"}`))
	require.NoError(t, err)
	b, err := domain.DecodeInputRecord([]byte(`{"WindGustDir": "NW", "MinTemp": 15}`))
	require.NoError(t, err)

	_, _ = cached.Predict(context.Background(), a)
	_, _ = cached.Predict(context.Background(), b)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedForecaster_DifferentRecordsMiss(t *testing.T) {
	inner := &countingForecaster{result: domain.BuildResult(0, 12)}
	cached := NewCachedForecaster(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Predict(context.Background(), domain.InputRecord{"MinTemp": domain.Number(15)})
	_, _ = cached.Predict(context.Background(), domain.InputRecord{"MinTemp": domain.String("15")})

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedForecaster_ErrorsNotCached(t *testing.T) {
	inner := &countingForecaster{err: errors.New("imputer was not fitted on column \"Location\"")}
	cached := NewCachedForecaster(inner, 10, observability.NewMetricsForTesting())

	rec := domain.InputRecord{"MinTemp": domain.Number(15)}
	_, err := cached.Predict(context.Background(), rec)
	require.Error(t, err)
	_, err = cached.Predict(context.Background(), rec)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Zero(t, cached.Len())
}

func TestCachedForecaster_NonFiniteRecordsBypassCache(t *testing.T) {
	inner := &countingForecaster{result: domain.BuildResult(0, 12)}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedForecaster(inner, 10, metrics)

	_, err := cached.Predict(context.Background(), domain.InputRecord{"MinTemp": domain.Null()})
	require.NoError(t, err)
	_, err = cached.Predict(context.Background(), domain.InputRecord{"MinTemp": domain.Number(math.Inf(1))})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 1, cached.Len())
	assert.Zero(t, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")))
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.PredictionResult{Prediction: 1})
	c.put("b", domain.PredictionResult{Prediction: 0})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, result.Prediction)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PredictionResult{Probability: 10})
	c.put("b", domain.PredictionResult{Probability: 20})
	c.put("c", domain.PredictionResult{Probability: 30}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, 20.0, result.Probability)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 30.0, result.Probability)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PredictionResult{Probability: 10})
	c.put("b", domain.PredictionResult{Probability: 20})

	// Access "a" to promote it
	c.get("a")

	// Insert "c"; should evict "b" (LRU), not "a"
	c.put("c", domain.PredictionResult{Probability: 30})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.PredictionResult{Probability: 10})
	c.put("a", domain.PredictionResult{Probability: 11})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 11.0, result.Probability)
}
