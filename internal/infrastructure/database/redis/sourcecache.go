package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/turtacn/OncoTerm/internal/domain/ontology"
	"github.com/turtacn/OncoTerm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/OncoTerm/pkg/errors"
)

// keyPrefix namespaces all source-cache keys.
const keyPrefix = "oncoterm:src:"

// DefaultSourceTTL is how long a remote ontology response stays cached.
// Ontology releases move slowly; a day of staleness is acceptable for
// dictionary builds.
const DefaultSourceTTL = 24 * time.Hour

// negativeTTL caps how long a "no hit" answer is cached, so newly published
// concepts become visible sooner than positive hits expire.
const negativeTTL = time.Hour

// SourceCache caches remote ontology search responses across pipeline runs.
// It wraps a SearchSource-shaped fetch: GetOrFetch first consults Redis, then
// calls the loader and stores its answer.  Empty answers are cached with a
// shorter TTL.
type SourceCache struct {
	client *Client
	ttl    time.Duration
	logger logging.Logger
}

// NewSourceCache builds a source cache with the given TTL (0 means
// DefaultSourceTTL).
func NewSourceCache(client *Client, ttl time.Duration, log logging.Logger) *SourceCache {
	if ttl <= 0 {
		ttl = DefaultSourceTTL
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SourceCache{client: client, ttl: ttl, logger: log.Named("sourcecache")}
}

// Key builds the cache key for a (source, term) pair.  Terms are lowercased
// so phrasing case does not fragment the cache.
func Key(source, term string) string {
	return keyPrefix + source + ":" + strings.ToLower(strings.TrimSpace(term))
}

// GetOrFetch returns the cached records for (source, term), calling fetch on
// a miss and caching its result.  Cache infrastructure failures degrade to a
// direct fetch rather than failing the lookup.
func (c *SourceCache) GetOrFetch(ctx context.Context, source, term string,
	fetch func(ctx context.Context) ([]ontology.SourceRecord, error)) ([]ontology.SourceRecord, error) {

	key := Key(source, term)

	data, err := c.client.Redis().Get(ctx, key).Bytes()
	if err == nil {
		var records []ontology.SourceRecord
		if jsonErr := json.Unmarshal(data, &records); jsonErr == nil {
			return records, nil
		}
		// Poisoned entry: drop it and fall through to the loader.
		c.client.Redis().Del(ctx, key)
	} else if err != goredis.Nil {
		c.logger.Warn("source cache read failed, fetching directly",
			logging.String("key", key), logging.Err(err))
	}

	records, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, key, records); err != nil {
		c.logger.Warn("source cache write failed", logging.String("key", key), logging.Err(err))
	}
	return records, nil
}

// Invalidate drops every cached response of one source.
func (c *SourceCache) Invalidate(ctx context.Context, source string) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)
	pattern := keyPrefix + source + ":*"
	for {
		keys, next, err := c.client.Redis().Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "source cache scan failed")
		}
		if len(keys) > 0 {
			n, err := c.client.Redis().Del(ctx, keys...).Result()
			if err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "source cache delete failed")
			}
			deleted += n
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}

func (c *SourceCache) store(ctx context.Context, key string, records []ontology.SourceRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal source records")
	}
	ttl := c.ttl
	if len(records) == 0 && ttl > negativeTTL {
		ttl = negativeTTL
	}
	return c.client.Redis().Set(ctx, key, data, jitter(ttl)).Err()
}

// jitter spreads expirations by up to 10% to avoid synchronized mass expiry.
func jitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	spread := int64(ttl) / 10
	if spread == 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int63n(spread))
}

// CachedSearch decorates a search source with the response cache.
type CachedSearch struct {
	inner interface {
		Name() string
		Search(ctx context.Context, term string) ([]ontology.SourceRecord, error)
	}
	cache *SourceCache
}

// NewCachedSearch wraps a search source so its answers persist in Redis.
func NewCachedSearch(inner interface {
	Name() string
	Search(ctx context.Context, term string) ([]ontology.SourceRecord, error)
}, cache *SourceCache) *CachedSearch {
	return &CachedSearch{inner: inner, cache: cache}
}

func (s *CachedSearch) Name() string { return s.inner.Name() }

func (s *CachedSearch) Search(ctx context.Context, term string) ([]ontology.SourceRecord, error) {
	return s.cache.GetOrFetch(ctx, s.inner.Name(), term, func(ctx context.Context) ([]ontology.SourceRecord, error) {
		return s.inner.Search(ctx, term)
	})
}

//Personal.AI order the ending
