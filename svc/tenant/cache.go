package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache defaults.
const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 1024
)

// SlugCache maps organization slugs to ids. A cache error never fails
// resolution; the resolver falls back to storage.
type SlugCache interface {
	Get(ctx context.Context, slug string) (uuid.UUID, bool, error)
	Set(ctx context.Context, slug string, id uuid.UUID) error
	Delete(ctx context.Context, slug string) error
}

// NoopCache disables caching.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (uuid.UUID, bool, error) { return uuid.Nil, false, nil }
func (NoopCache) Set(context.Context, string, uuid.UUID) error         { return nil }
func (NoopCache) Delete(context.Context, string) error                 { return nil }

// LRUCache is an in-process cache with per-entry expiry.
type LRUCache struct {
	lru *lru.LRU[string, uuid.UUID]
}

// NewLRUCache creates an LRU cache. Non-positive arguments take defaults.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LRUCache{lru: lru.NewLRU[string, uuid.UUID](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, slug string) (uuid.UUID, bool, error) {
	id, ok := c.lru.Get(slug)
	return id, ok, nil
}

func (c *LRUCache) Set(_ context.Context, slug string, id uuid.UUID) error {
	c.lru.Add(slug, id)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, slug string) error {
	c.lru.Remove(slug)
	return nil
}

// RedisCache shares slug mappings between instances.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. Keys are stored under prefix.
func NewRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "tenant:slug:"
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	v, err := c.client.Get(ctx, c.prefix+slug).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("tenant cache: get %q: %w", slug, err)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = c.client.Del(ctx, c.prefix+slug).Err()
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

func (c *RedisCache) Set(ctx context.Context, slug string, id uuid.UUID) error {
	if err := c.client.Set(ctx, c.prefix+slug, id.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("tenant cache: set %q: %w", slug, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, c.prefix+slug).Err(); err != nil {
		return fmt.Errorf("tenant cache: delete %q: %w", slug, err)
	}
	return nil
}
