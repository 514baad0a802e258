package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cockpit-fit-workers/internal/common/metrics"
	"cockpit-fit-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const frameKeyPrefix = "frame:geometry:"

// Cache keeps catalog frames in Redis as JSON.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func frameKey(id string) string {
	return frameKeyPrefix + id
}

// GetFrame returns (nil, nil) on a miss. Entries that no longer decode count
// as misses.
func (c *Cache) GetFrame(ctx context.Context, id string) (*models.Frame, error) {
	val, err := c.client.Get(ctx, frameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}

	var frame models.Frame
	if err := json.Unmarshal([]byte(val), &frame); err != nil {
		metrics.CacheMiss()
		return nil, nil
	}
	metrics.CacheHit()
	return &frame, nil
}

func (c *Cache) SetFrame(ctx context.Context, frame *models.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, frameKey(frame.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", frame.ID, err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, frameKey(id)).Err()
}
