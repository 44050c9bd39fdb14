// Package cache provides a short-TTL Redis cache for computed analysis
// responses. Cache failures degrade to misses; the pipeline never
// depends on Redis being up.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neuroheart/hrv/internal/config"
	"github.com/neuroheart/hrv/internal/logging"
)

// AnalysisCache caches serialized analysis responses by user and range.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// New connects to Redis and verifies the connection. Returns nil when
// caching is disabled in configuration; callers treat a nil cache as
// always-miss.
func New(cfg config.CacheConfig, logger *logging.Logger) (*AnalysisCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &AnalysisCache{client: client, ttl: ttl, logger: logger}, nil
}

func key(userID, rng string) string {
	return fmt.Sprintf("hrv:analysis:%s:%s", userID, rng)
}

// Get returns the cached response body for (userID, rng), or false on
// miss or error.
func (c *AnalysisCache) Get(ctx context.Context, userID, rng string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	body, err := c.client.Get(ctx, key(userID, rng)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Cache read failed", "error", err, "user_id", userID, "range", rng)
		return nil, false
	}
	return body, true
}

// Set stores a response body under (userID, rng) with the configured TTL.
func (c *AnalysisCache) Set(ctx context.Context, userID, rng string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key(userID, rng), body, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", "error", err, "user_id", userID, "range", rng)
	}
}

// Close releases the Redis connection.
func (c *AnalysisCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
