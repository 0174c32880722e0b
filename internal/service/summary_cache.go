package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fieldworks/maintenance-service/internal/persistence"
)

const (
	cacheKeyJobSummary      = "summary:jobs"
	cacheKeyWorkloadPrefix  = "summary:workload:"
	cacheKeyDowntimePrefix  = "summary:downtime:"
	cacheKeyDowntimeMatcher = cacheKeyDowntimePrefix + "*"
	cacheKeyWorkloadMatcher = cacheKeyWorkloadPrefix + "*"
)

// SummaryCache stores dashboard summaries in Redis with a short TTL.
// Everything is best-effort: a cache miss or Redis outage just means the
// summary is recomputed.
type SummaryCache struct {
	redis  *persistence.Redis
	logger *zap.Logger
	ttl    time.Duration
}

// NewSummaryCache builds the cache wrapper. A nil redis disables caching.
func NewSummaryCache(redis *persistence.Redis, logger *zap.Logger, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SummaryCache{redis: redis, logger: logger, ttl: ttl}
}

// Get unmarshals a cached summary into dest, reporting whether it was found.
func (c *SummaryCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return false
	}
	raw, err := c.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("discarding unreadable cached summary", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a computed summary.
func (c *SummaryCache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateJobSummaries drops job-derived summaries after a mutation.
func (c *SummaryCache) InvalidateJobSummaries(ctx context.Context) {
	c.invalidate(ctx, cacheKeyJobSummary, cacheKeyWorkloadMatcher)
}

// InvalidateDowntimeSummaries drops downtime summaries after a mutation.
func (c *SummaryCache) InvalidateDowntimeSummaries(ctx context.Context) {
	c.invalidate(ctx, cacheKeyDowntimeMatcher)
}

func (c *SummaryCache) invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	for _, key := range keys {
		if len(key) > 0 && key[len(key)-1] == '*' {
			iter := c.redis.Client.Scan(ctx, 0, key, 50).Iterator()
			for iter.Next(ctx) {
				_ = c.redis.Client.Del(ctx, iter.Val()).Err()
			}
			continue
		}
		_ = c.redis.Client.Del(ctx, key).Err()
	}
}
