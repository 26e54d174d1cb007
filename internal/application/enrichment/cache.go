// Package enrichment wires the ontology domain into the per-run enrichment
// pipeline: the resolution cache, the five field resolvers, the unified merge
// that produces enriched entities, and the worker pool that drives them.
package enrichment

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

// ResolverFunc computes a resolution for a cache miss.  Resolution never
// errors: an unmatched term is a normal StatusUnknown result.
type ResolverFunc func() *ontology.ResolutionResult

// ResolutionCache memoizes (field type, normalized term) → resolution result
// for the duration of one pipeline run.  Implementations must be safe for
// concurrent use and guarantee at-most-one computed resolution per distinct
// key within a run.
type ResolutionCache interface {
	// GetOrResolve returns the cached result for the key, or invokes resolve
	// exactly once, stores the result, and returns it.
	GetOrResolve(field ontology.FieldType, normalizedTerm string, resolve ResolverFunc) *ontology.ResolutionResult

	// Len returns the number of cached resolutions.
	Len() int

	// Purge clears the cache.  Called at the start of each pipeline run;
	// results depend on that run's dictionary snapshot and are never carried
	// across runs.
	Purge()
}

// memoryCache is the run-scoped in-process cache.  singleflight collapses
// concurrent misses on the same key so the cascade computation runs at most
// once per key even under the worker pool.
//
// A plain map is used rather than an evicting cache: eviction would break the
// at-most-once computation guarantee for repeated terms, and the key space is
// bounded by the distinct terms of one input batch.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*ontology.ResolutionResult
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewResolutionCache returns an empty run-scoped cache.
func NewResolutionCache() ResolutionCache {
	return &memoryCache{entries: make(map[string]*ontology.ResolutionResult)}
}

func cacheKey(field ontology.FieldType, term string) string {
	return string(field) + "\x00" + term
}

func (c *memoryCache) GetOrResolve(field ontology.FieldType, normalizedTerm string, resolve ResolverFunc) *ontology.ResolutionResult {
	key := cacheKey(field, normalizedTerm)

	c.mu.RLock()
	if res, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return res
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		// Double-check under the flight: another caller may have stored the
		// result between the read above and this flight's start.
		c.mu.RLock()
		if res, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return res, nil
		}
		c.mu.RUnlock()

		res := resolve()
		c.mu.Lock()
		c.entries[key] = res
		c.mu.Unlock()
		c.misses.Add(1)
		return res, nil
	})
	return v.(*ontology.ResolutionResult)
}

func (c *memoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *memoryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*ontology.ResolutionResult)
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns hit/miss counters for instrumentation.
func (c *memoryCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

//Personal.AI order the ending
