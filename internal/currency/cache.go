package currency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateCache stores resolved rates keyed by currency pair. Implementations
// must be safe for concurrent use; a lost write race is acceptable since
// rates are provider-sourced and idempotent per pair.
type RateCache interface {
	Get(ctx context.Context, from, to string) (float64, bool)
	Set(ctx context.Context, from, to string, rate float64)
}

// MemoryCache is an in-process RateCache. With zero TTL entries never expire.
type MemoryCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]memoryEntry
}

type memoryEntry struct {
	rate    float64
	storedAt time.Time
}

// NewMemoryCache creates a MemoryCache. ttl <= 0 means entries live for the
// whole process.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, m: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, from, to string) (float64, bool) {
	c.mu.RLock()
	e, ok := c.m[pairKey(from, to)]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		return 0, false
	}
	return e.rate, true
}

func (c *MemoryCache) Set(_ context.Context, from, to string, rate float64) {
	c.mu.Lock()
	c.m[pairKey(from, to)] = memoryEntry{rate: rate, storedAt: time.Now()}
	c.mu.Unlock()
}

// RedisCache shares resolved rates across instances.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a redis-backed RateCache. ttl <= 0 stores without
// expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, from, to string) (float64, bool) {
	rate, err := c.redis.Get(ctx, redisKey(from, to)).Float64()
	if err != nil {
		return 0, false
	}
	return rate, true
}

func (c *RedisCache) Set(ctx context.Context, from, to string, rate float64) {
	// Best effort; a failed cache write only costs an extra provider call.
	_ = c.redis.Set(ctx, redisKey(from, to), rate, c.ttl).Err()
}

func pairKey(from, to string) string {
	return from + ":" + to
}

func redisKey(from, to string) string {
	return fmt.Sprintf("fx:rate:%s:%s", from, to)
}
