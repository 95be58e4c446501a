// Package cache provides a Redis-backed read-through cache for model
// classification results. A cache miss is never an error for callers: the
// classifier treats lookup failures as misses and proceeds to the engine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pulseworks/newspulse/internal/domain"
)

// NewClient creates a go-redis client from a URL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// ResultCache stores classification results keyed by a digest of the input
// text. Entries expire after the configured TTL.
type ResultCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewResultCache(rdb *goredis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached result for text, or (nil, nil) on a miss.
func (c *ResultCache) Get(ctx context.Context, text string) (*domain.SentimentResult, error) {
	payload, err := c.rdb.Get(ctx, resultKey(text)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}

	var result domain.SentimentResult
	if err := json.Unmarshal(payload, &result); err != nil {
		// Corrupt entry, treat as a miss
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, nil
}

func (c *ResultCache) Set(ctx context.Context, text string, result domain.SentimentResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := c.rdb.Set(ctx, resultKey(text), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// resultKey hashes the text so arbitrary article bodies make bounded keys.
func resultKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sentiment:result:" + hex.EncodeToString(sum[:])
}
