package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheService stores rendered analysis payloads in Redis so repeat
// reads of an analyzed assignment skip re-assembling the full report.
// Every method tolerates a nil receiver: the server runs without Redis
// and simply rebuilds payloads on each request.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(redisURL string, ttl time.Duration) (*CacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CacheService{client: client, ttl: ttl}, nil
}

func analysisCacheKey(assignmentID string) string {
	return "analysis:" + assignmentID
}

// GetAnalysis loads a cached analysis payload. Returns (nil, nil) on a
// cache miss.
func (c *CacheService) GetAnalysis(ctx context.Context, assignmentID string, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, analysisCacheKey(assignmentID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read analysis cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Stale or corrupt entry, drop it and treat as a miss
		c.client.Del(ctx, analysisCacheKey(assignmentID))
		return false, nil
	}

	return true, nil
}

// SetAnalysis caches a rendered analysis payload with the configured TTL.
func (c *CacheService) SetAnalysis(ctx context.Context, assignmentID string, payload interface{}) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis payload: %w", err)
	}

	if err := c.client.Set(ctx, analysisCacheKey(assignmentID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write analysis cache: %w", err)
	}

	return nil
}

// InvalidateAnalysis drops the cached payload for an assignment. Called
// after re-analysis, feedback edits and assignment deletion.
func (c *CacheService) InvalidateAnalysis(ctx context.Context, assignmentID string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, analysisCacheKey(assignmentID)).Err(); err != nil {
		slog.Warn("Failed to invalidate analysis cache", "assignment_id", assignmentID, "error", err)
	}
}

// Ping reports cache connectivity for health checks.
func (c *CacheService) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("cache not configured")
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (c *CacheService) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
