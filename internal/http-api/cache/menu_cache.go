package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// MenuCache caches rendered daily-menu responses in redis. Best-effort: the
// API is constructed with a nil cache when redis is unavailable and every
// method degrades to a miss or a no-op.
type MenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

// mealPeriods covered by invalidation, including the unfiltered variant
var mealPeriods = []string{"", "breakfast", "lunch", "dinner"}

func NewMenuCache(redisURL string, ttl time.Duration) (*MenuCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &MenuCache{client: client, ttl: ttl}, nil
}

// Key builds the cache key for a day's menu, optionally per meal period
func Key(servedOn time.Time, mealPeriod string) string {
	return "menu:" + servedOn.Format("2006-01-02") + ":" + strings.ToLower(mealPeriod)
}

func (c *MenuCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *MenuCache) Set(ctx context.Context, key string, value []byte) {
	if c == nil || c.client == nil {
		return
	}
	// Best-effort write; a failure just means the next read recomputes
	c.client.Set(ctx, key, value, c.ttl)
}

// InvalidateDay drops every cached variant of a day's menu after a write
func (c *MenuCache) InvalidateDay(ctx context.Context, servedOn time.Time) {
	if c == nil || c.client == nil {
		return
	}
	keys := make([]string, 0, len(mealPeriods))
	for _, meal := range mealPeriods {
		keys = append(keys, Key(servedOn, meal))
	}
	c.client.Del(ctx, keys...)
}

func (c *MenuCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
