package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/transvia/copiloto/core/domain"
)

const (
	cacheNumCounters = 1e5
	cacheMaxCost     = 1e7 // 10MB of cached results
	cacheBufferItems = 64
	defaultCacheTTL  = 60 * time.Second
)

// ResultCache memoizes retrieval results for a short TTL. Entries are keyed
// on the full (query, filter, topK) triple and store the final assembled
// Result, so the pipeline's filtering and truncation semantics are
// unchanged by cache hits.
type ResultCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewResultCache builds a cache with the given TTL; ttl <= 0 uses the 60s
// default.
func NewResultCache(ttl time.Duration) (*ResultCache, error) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &ResultCache{cache: cache, ttl: ttl}, nil
}

func cacheKey(query string, filter domain.SourceType, topK int) string {
	return fmt.Sprintf("%d|%d|%s", filter, topK, query)
}

// Get returns a cached result for the triple, if present.
func (c *ResultCache) Get(query string, filter domain.SourceType, topK int) (*Result, bool) {
	value, found := c.cache.Get(cacheKey(query, filter, topK))
	if !found {
		return nil, false
	}
	result, ok := value.(*Result)
	if !ok {
		return nil, false
	}
	return result, true
}

// Set stores a result under the triple with the cache TTL. The cost is the
// context length, so large contexts evict sooner.
func (c *ResultCache) Set(query string, filter domain.SourceType, topK int, result *Result) {
	cost := int64(len(result.Context))
	if cost == 0 {
		cost = 1
	}
	c.cache.SetWithTTL(cacheKey(query, filter, topK), result, cost, c.ttl)
}

// Close releases the cache's internal goroutines.
func (c *ResultCache) Close() {
	c.cache.Close()
}

// CachedRetriever wraps a Retriever with a ResultCache. Validation errors
// and collaborator failures are never cached.
type CachedRetriever struct {
	inner Retriever
	cache *ResultCache
}

// WithCache decorates a retriever with short-TTL result memoization.
func WithCache(inner Retriever, cache *ResultCache) *CachedRetriever {
	return &CachedRetriever{inner: inner, cache: cache}
}

func (c *CachedRetriever) Retrieve(ctx context.Context, query string, filter domain.SourceType, topK int) (*Result, error) {
	if result, ok := c.cache.Get(query, filter, topK); ok {
		return result, nil
	}
	result, err := c.inner.Retrieve(ctx, query, filter, topK)
	if err != nil {
		return nil, err
	}
	c.cache.Set(query, filter, topK, result)
	return result, nil
}
