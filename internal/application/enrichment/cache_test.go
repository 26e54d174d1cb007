package enrichment

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
)

func TestResolutionCache_AtMostOnceComputation(t *testing.T) {
	cache := NewResolutionCache()
	var calls atomic.Int32

	resolve := func() *ontology.ResolutionResult {
		calls.Add(1)
		return ontology.Unresolved("NSCLC", "nsclc")
	}

	first := cache.GetOrResolve(ontology.FieldDisease, "nsclc", resolve)
	for i := 0; i < 10; i++ {
		again := cache.GetOrResolve(ontology.FieldDisease, "nsclc", resolve)
		assert.Same(t, first, again)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestResolutionCache_KeyedByFieldAndTerm(t *testing.T) {
	cache := NewResolutionCache()
	var calls atomic.Int32
	resolve := func() *ontology.ResolutionResult {
		calls.Add(1)
		return ontology.Unresolved("x", "x")
	}

	cache.GetOrResolve(ontology.FieldDrug, "x", resolve)
	cache.GetOrResolve(ontology.FieldPayload, "x", resolve)
	cache.GetOrResolve(ontology.FieldDrug, "y", resolve)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, cache.Len())
}

func TestResolutionCache_ConcurrentSingleComputation(t *testing.T) {
	cache := NewResolutionCache()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.GetOrResolve(ontology.FieldAntigen, "TROP2", func() *ontology.ResolutionResult {
				calls.Add(1)
				return ontology.Unresolved("TROP2", "TROP2")
			})
		}()
	}
	wg.Wait()

	// Concurrent misses on the same key collapse to one computation.
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestResolutionCache_Purge(t *testing.T) {
	cache := NewResolutionCache()
	var calls atomic.Int32
	resolve := func() *ontology.ResolutionResult {
		calls.Add(1)
		return ontology.Unresolved("x", "x")
	}

	cache.GetOrResolve(ontology.FieldDrug, "x", resolve)
	require.Equal(t, 1, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())

	// A purged key is recomputed on next access.
	cache.GetOrResolve(ontology.FieldDrug, "x", resolve)
	assert.Equal(t, int32(2), calls.Load())
}

//Personal.AI order the ending
