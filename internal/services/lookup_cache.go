package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const lookupCachePrefix = "lookup:"

// LookupCache is the slice of the Redis client the lookup cache needs.
type LookupCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedLookup keeps successful answers in Redis. "No answer" and failures
// are never cached, and a broken cache only costs a direct call.
type CachedLookup struct {
	next  Lookup
	cache LookupCache
	ttl   time.Duration
}

func NewCachedLookup(next Lookup, cache LookupCache, ttl time.Duration) *CachedLookup {
	return &CachedLookup{next: next, cache: cache, ttl: ttl}
}

func (c *CachedLookup) Lookup(ctx context.Context, query string) (string, error) {
	key := lookupCacheKey(query)

	cached, err := c.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, redis.Nil):
		log.Printf("WARNING: lookup cache read failed: %v", err)
	}

	answer, err := c.next.Lookup(ctx, query)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, answer, c.ttl).Err(); err != nil {
		log.Printf("WARNING: lookup cache write failed: %v", err)
	}
	return answer, nil
}

func lookupCacheKey(query string) string {
	return lookupCachePrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
