// Package cache memoizes forecasts for repeated observations.
package cache

import (
	"context"
	"strconv"
	"sync"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/couchcryptid/rain-forecast-service/internal/observability"
	"github.com/couchcryptid/rain-forecast-service/internal/pipeline"
)

// CachedForecaster wraps a Forecaster with an in-memory LRU cache keyed by
// the observation's canonical JSON. Scoring is deterministic, so a hit returns
// exactly what the inner Forecaster would.
type CachedForecaster struct {
	inner   pipeline.Forecaster
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedForecaster creates a cache decorator around a forecaster.
func NewCachedForecaster(inner pipeline.Forecaster, maxEntries int, metrics *observability.Metrics) *CachedForecaster {
	return &CachedForecaster{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedForecaster) Predict(ctx context.Context, rec domain.InputRecord) (domain.PredictionResult, error) {
	key, err := rec.CanonicalJSON()
	if err != nil {
		// Unkeyable records are scored without caching.
		return c.inner.Predict(ctx, rec)
	}
	if result, ok := c.cache.get(string(key)); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		c.metrics.Predictions.WithLabelValues(strconv.Itoa(result.Prediction)).Inc()
		c.metrics.RiskLevels.WithLabelValues(string(result.RiskLevel)).Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	result, err := c.inner.Predict(ctx, rec)
	if err != nil {
		// Errors are not cached.
		return result, err
	}
	c.cache.put(string(key), result)
	return result, nil
}

// Len reports the number of cached forecasts.
func (c *CachedForecaster) Len() int {
	return c.cache.len()
}

// lruCache is a simple thread-safe LRU cache for PredictionResults.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.PredictionResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.PredictionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.PredictionResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.PredictionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
