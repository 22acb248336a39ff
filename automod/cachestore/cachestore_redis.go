package cachestore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// Hot entries are also kept in a small in-process TinyLFU tier, so repeated
// member-meta reads for the same principal skip the network round-trip.
const redisCacheLocalEntries = 10_000

// RedisCacheStore backs the cache with redis, so hydrated member metadata
// survives daemon restarts and is shared between replicas.
type RedisCacheStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ CacheStore = (*RedisCacheStore)(nil)

// NewRedisCacheStore layers the cache over an existing redis client. The
// daemon shares one client between this store and its gateway cursor state.
func NewRedisCacheStore(rdb *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		cache: cache.New(&cache.Options{
			Redis:      rdb,
			LocalCache: cache.NewTinyLFU(redisCacheLocalEntries, ttl),
		}),
		ttl: ttl,
	}
}

func redisCacheKey(name, key string) string {
	return fmt.Sprintf("warden/cache/%s/%s", name, key)
}

func (s *RedisCacheStore) Get(ctx context.Context, name, key string) (string, error) {
	var val string
	if err := s.cache.Get(ctx, redisCacheKey(name, key), &val); err != nil {
		if err == cache.ErrCacheMiss {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (s *RedisCacheStore) Set(ctx context.Context, name, key string, val string) error {
	return s.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   redisCacheKey(name, key),
		Value: val,
		TTL:   s.ttl,
	})
}

func (s *RedisCacheStore) Purge(ctx context.Context, name, key string) error {
	if err := s.cache.Delete(ctx, redisCacheKey(name, key)); err != nil && err != cache.ErrCacheMiss {
		return err
	}
	return nil
}
