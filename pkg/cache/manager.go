package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

const layerRedis = "redis"

// Manager stores content query results in Redis. Redis owns expiry: every
// key is written with the TTL of its entry.
type Manager struct {
	redis *redis.Client
}

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Manager{redis: redisClient}
}

// Get returns the entry stored under key.
// Missing and expired entries yield ErrCacheMiss. An entry that no longer
// unmarshals is evicted and yields ErrInvalidEntry.
func (m *Manager) Get(ctx context.Context, key QueryKey) (*Entry, error) {
	raw, err := m.redis.Get(ctx, key.String()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	case err != nil:
		return nil, m.fail("get", fmt.Errorf("redis get: %w", err))
	}

	entry := new(Entry)
	if err := json.Unmarshal(raw, entry); err != nil {
		_ = m.Delete(ctx, key)
		return nil, m.fail("get", fmt.Errorf("%w: %v", ErrInvalidEntry, err))
	}

	// Redis TTLs have second granularity, so the key can outlive Expires briefly.
	if entry.IsExpired() {
		CacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(layerRedis).Inc()
	return entry, nil
}

// Set stores entry under key until entry.Expires.
// Entries that are already expired are not stored.
func (m *Manager) Set(ctx context.Context, key QueryKey, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return m.fail("set", fmt.Errorf("marshal cache entry: %w", err))
	}
	if err := m.redis.Set(ctx, key.String(), raw, ttl).Err(); err != nil {
		return m.fail("set", fmt.Errorf("redis set: %w", err))
	}

	CacheWrittenBytes.WithLabelValues(layerRedis).Add(float64(len(raw)))
	return nil
}

// Delete evicts the entry stored under key. Deleting a missing key is not an error.
func (m *Manager) Delete(ctx context.Context, key QueryKey) error {
	if err := m.redis.Del(ctx, key.String()).Err(); err != nil {
		return m.fail("delete", fmt.Errorf("redis del: %w", err))
	}
	return nil
}

// Ping checks the Redis connection.
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (m *Manager) fail(operation string, err error) error {
	CacheErrors.WithLabelValues(operation).Inc()
	return err
}
