package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skycastapp/skycast/internal/insight"
)

// Weather moves fast enough that half an hour is the longest a snapshot
// should be served.
const defaultTTL = 30 * time.Minute

// Cache wraps a Redis client and provides typed get/set/delete for city
// snapshots.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with the default TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// key returns the Redis key for the given city.
func key(city string) string {
	return "snapshot:" + strings.ToLower(strings.TrimSpace(city))
}

// Get retrieves a snapshot from cache.
// Returns nil, nil on a cache miss (not an error).
func (c *Cache) Get(ctx context.Context, city string) (*insight.Snapshot, error) {
	val, err := c.client.Get(ctx, key(city)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for city %s: %w", city, err)
	}

	var snap insight.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling cached snapshot for city %s: %w", city, err)
	}

	return &snap, nil
}

// Set stores a snapshot in cache with the configured TTL.
func (c *Cache) Set(ctx context.Context, city string, snap *insight.Snapshot) error {
	if snap == nil {
		return nil
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot for city %s: %w", city, err)
	}

	if err := c.client.Set(ctx, key(city), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for city %s: %w", city, err)
	}

	return nil
}

// Delete removes the cached snapshot for the given city.
func (c *Cache) Delete(ctx context.Context, city string) error {
	if err := c.client.Del(ctx, key(city)).Err(); err != nil {
		return fmt.Errorf("cache delete for city %s: %w", city, err)
	}
	return nil
}
