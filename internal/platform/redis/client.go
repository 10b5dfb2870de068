package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	redisPoolHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "suratdesa_redis_pool_hits_total",
		Help: "Number of times a connection was found in the pool",
	})
	redisPoolMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "suratdesa_redis_pool_misses_total",
		Help: "Number of times a connection was not found in the pool",
	})
	redisPoolTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "suratdesa_redis_pool_timeouts_total",
		Help: "Number of times a connection was not obtained due to timeout",
	})
	redisPoolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "suratdesa_redis_pool_total_conns",
		Help: "Number of total connections in the pool",
	})
	redisPoolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "suratdesa_redis_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})
)

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
	lastStats *redis.PoolStats
}

// New creates a new Redis client for the given address.
// Returns nil if the address is empty (Redis not configured).
func New(addr string) (*Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}

// RecordPoolStats updates Prometheus metrics with current pool statistics.
// Call this periodically from a background goroutine.
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()

	redisPoolTotalConns.Set(float64(stats.TotalConns))
	redisPoolIdleConns.Set(float64(stats.IdleConns))

	if c.lastStats != nil {
		if stats.Hits > c.lastStats.Hits {
			redisPoolHits.Add(float64(stats.Hits - c.lastStats.Hits))
		}
		if stats.Misses > c.lastStats.Misses {
			redisPoolMisses.Add(float64(stats.Misses - c.lastStats.Misses))
		}
		if stats.Timeouts > c.lastStats.Timeouts {
			redisPoolTimeouts.Add(float64(stats.Timeouts - c.lastStats.Timeouts))
		}
	} else {
		redisPoolHits.Add(float64(stats.Hits))
		redisPoolMisses.Add(float64(stats.Misses))
		redisPoolTimeouts.Add(float64(stats.Timeouts))
	}

	c.lastStats = stats
}
