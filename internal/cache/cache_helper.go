package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache not found")
)

// CacheHelper provides common caching operations for repositories. All
// operations degrade gracefully when no redis client is configured.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{client: client, prefix: prefix}
}

// CacheConfig defines TTL and key prefix for a data type.
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	// User records change rarely; grant data is never cached (a fresh
	// grant must be visible on the next permission check).
	UserCacheConfig = CacheConfig{
		TTL:    5 * time.Minute,
		Prefix: "user:",
	}

	// Symptom catalog is seeded once and additive only.
	SymptomCacheConfig = CacheConfig{
		TTL:    30 * time.Minute,
		Prefix: "symptom:",
	}

	// Completed prediction results are immutable.
	PredictionCacheConfig = CacheConfig{
		TTL:    10 * time.Minute,
		Prefix: "prediction:",
	}
)

func (c *CacheHelper) key(key string) string {
	return c.prefix + key
}

// Get retrieves and unmarshals data from cache.
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set marshals and stores data in cache.
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // graceful degradation when cache not available
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes keys from cache.
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.key(key)
	}

	return c.client.Del(ctx, cacheKeys...).Err()
}

// SetWithConfig stores data using a predefined config.
func (c *CacheHelper) SetWithConfig(ctx context.Context, key string, value interface{}, config CacheConfig) error {
	return c.Set(ctx, config.Prefix+key, value, config.TTL)
}

// GetWithConfig retrieves data using a predefined config.
func (c *CacheHelper) GetWithConfig(ctx context.Context, key string, dest interface{}, config CacheConfig) error {
	return c.Get(ctx, config.Prefix+key, dest)
}

// CacheManager groups the cache helpers used by the repositories.
type CacheManager struct {
	User       *CacheHelper
	Symptom    *CacheHelper
	Prediction *CacheHelper
}

func NewCacheManager(client *redis.Client) *CacheManager {
	if client == nil {
		return nil
	}
	return &CacheManager{
		User:       NewCacheHelper(client, "clinic:"),
		Symptom:    NewCacheHelper(client, "clinic:"),
		Prediction: NewCacheHelper(client, "clinic:"),
	}
}
