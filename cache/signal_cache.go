package cache

import (
	"context"
	"fmt"
	"time"

	"chainpulse/analytics"
)

// Redis keys and channels for signal fan-out
const (
	latestSignalsKeyFmt = "chainpulse:signals:latest:%s"
	SignalChannel       = "chainpulse:signals"

	latestSignalsTTL = 15 * time.Minute
)

// SignalCache keeps the most recent signals per underlying in Redis and
// publishes new ones for cross-process consumers. All operations are no-ops
// on a nil client so the analyzer runs unchanged without Redis.
type SignalCache struct {
	redis *RedisClient
}

// NewSignalCache wraps a Redis client (may be nil)
func NewSignalCache(redis *RedisClient) *SignalCache {
	return &SignalCache{redis: redis}
}

// StoreLatest replaces the cached signal set for an underlying
func (c *SignalCache) StoreLatest(ctx context.Context, underlying string, signals []analytics.Signal) error {
	if c.redis == nil {
		return nil
	}
	key := fmt.Sprintf(latestSignalsKeyFmt, underlying)
	return c.redis.Set(ctx, key, signals, latestSignalsTTL)
}

// Latest returns the cached signal set for an underlying, or nil on a miss
func (c *SignalCache) Latest(ctx context.Context, underlying string) ([]analytics.Signal, error) {
	if c.redis == nil {
		return nil, nil
	}
	key := fmt.Sprintf(latestSignalsKeyFmt, underlying)
	var signals []analytics.Signal
	if err := c.redis.Get(ctx, key, &signals); err != nil {
		return nil, nil // cache miss is not an error
	}
	return signals, nil
}

// PublishSignal fans a signal out to cross-process subscribers
func (c *SignalCache) PublishSignal(ctx context.Context, signal analytics.Signal) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Publish(ctx, SignalChannel, signal)
}
