// Package cache provides a two-tier cache for generated risk profiles:
// an in-memory LRU for hot entries backed by an optional shared Redis tier.
// Both tiers are best-effort; a cache failure never fails a request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/domain"
)

// ProfileCache caches risk profiles by ID.
type ProfileCache struct {
	memory *lru.Cache[string, *memoryEntry]
	redis  *redis.Client // nil when the Redis tier is disabled
	ttl    time.Duration
	log    *logrus.Logger
}

type memoryEntry struct {
	profile   *domain.RiskProfile
	expiresAt time.Time
}

// NewProfileCache builds the cache from configuration. An empty Redis URL
// disables the shared tier and the cache runs memory-only.
func NewProfileCache(config *domain.CacheConfig, logger *logrus.Logger) (*ProfileCache, error) {
	memory, err := lru.New[string, *memoryEntry](config.MemorySize)
	if err != nil {
		return nil, fmt.Errorf("creating memory cache: %w", err)
	}

	c := &ProfileCache{
		memory: memory,
		ttl:    config.TTL,
		log:    logger,
	}

	if config.RedisURL != "" {
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing Redis URL: %w", err)
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to Redis: %w", err)
		}
		c.redis = client

		logger.WithFields(logrus.Fields{
			"memory_size": config.MemorySize,
			"ttl":         config.TTL,
		}).Info("Profile cache initialized with Redis tier")
	} else {
		logger.WithFields(logrus.Fields{
			"memory_size": config.MemorySize,
			"ttl":         config.TTL,
		}).Info("Profile cache initialized memory-only")
	}

	return c, nil
}

// Get returns a cached profile, checking the memory tier before Redis. A
// Redis hit is promoted into the memory tier.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.RiskProfile, bool) {
	if entry, ok := c.memory.Get(id); ok {
		if time.Now().Before(entry.expiresAt) {
			return entry.profile, true
		}
		c.memory.Remove(id)
	}

	if c.redis == nil {
		return nil, false
	}

	val, err := c.redis.Get(ctx, profileKey(id)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.WithError(err).Warn("Redis cache read failed")
		return nil, false
	}

	var profile domain.RiskProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		// Corrupted entry, drop it.
		c.redis.Del(ctx, profileKey(id))
		return nil, false
	}

	c.memory.Add(id, &memoryEntry{profile: &profile, expiresAt: time.Now().Add(c.ttl)})
	return &profile, true
}

// Set stores a profile in both tiers.
func (c *ProfileCache) Set(ctx context.Context, profile *domain.RiskProfile) {
	c.memory.Add(profile.ID, &memoryEntry{
		profile:   profile,
		expiresAt: time.Now().Add(c.ttl),
	})

	if c.redis == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		c.log.WithError(err).Warn("Failed to encode profile for cache")
		return
	}
	if err := c.redis.Set(ctx, profileKey(profile.ID), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("Redis cache write failed")
	}
}

// Invalidate removes a profile from both tiers.
func (c *ProfileCache) Invalidate(ctx context.Context, id string) {
	c.memory.Remove(id)
	if c.redis != nil {
		if err := c.redis.Del(ctx, profileKey(id)).Err(); err != nil {
			c.log.WithError(err).Warn("Redis cache invalidation failed")
		}
	}
}

// Len reports the number of entries in the memory tier.
func (c *ProfileCache) Len() int {
	return c.memory.Len()
}

// Close releases the Redis connection when the shared tier is enabled.
func (c *ProfileCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

func profileKey(id string) string {
	return "risk:profile:" + id
}
