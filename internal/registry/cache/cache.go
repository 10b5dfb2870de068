package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"suratdesa/internal/registry/metrics"
	"suratdesa/internal/registry/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

const recordKeyPrefix = "registry:resident:"

// RedisCache keeps registry records in Redis with TTL-based eviction so
// repeated autofill lookups for the same resident skip the upstream call.
type RedisCache struct {
	client   *redis.Client
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewRedis constructs a Redis-backed registry cache. metrics may be nil.
func NewRedis(client *redis.Client, cacheTTL time.Duration, metrics *metrics.Metrics) *RedisCache {
	return &RedisCache{
		client:   client,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// Find loads a cached record by national ID. Returns sentinel.ErrNotFound on
// a cache miss.
func (c *RedisCache) Find(ctx context.Context, nationalID id.NationalID) (*models.Record, error) {
	start := time.Now()
	data, err := c.client.Get(ctx, recordKey(nationalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.recordMiss(start)
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registry cache: %w", err)
	}

	var record models.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode registry cache: %w", err)
	}
	c.recordHit(start)
	return &record, nil
}

// Save writes a record with TTL eviction, overwriting any existing entry.
func (c *RedisCache) Save(ctx context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("registry record is required")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode registry cache: %w", err)
	}
	if err := c.client.Set(ctx, recordKey(record.NationalID), payload, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save registry cache: %w", err)
	}
	return nil
}

func (c *RedisCache) recordHit(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheHit()
	c.metrics.ObserveCacheLatency(time.Since(start).Seconds())
}

func (c *RedisCache) recordMiss(start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheMiss()
	c.metrics.ObserveCacheLatency(time.Since(start).Seconds())
}

func recordKey(nationalID id.NationalID) string {
	return recordKeyPrefix + nationalID.String()
}
