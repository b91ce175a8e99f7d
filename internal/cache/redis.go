// Package cache provides a Redis-backed cache for the anonymous home feed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bhuumii/Medium/internal/domain"
)

const (
	recentPostsKey = "recent_posts"
	recentPostsTTL = 5 * time.Minute
)

// FeedCache implements domain.FeedCache over a Redis client.
type FeedCache struct {
	client *redis.Client
}

// New connects to Redis at addr and verifies the connection.
func New(ctx context.Context, addr, password string) (*FeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &FeedCache{client: client}, nil
}

// Close releases the Redis connection.
func (c *FeedCache) Close() error {
	return c.client.Close()
}

// GetRecent retrieves the cached home feed. A miss is returned as an error
// and the caller falls through to the repository.
func (c *FeedCache) GetRecent(ctx context.Context) ([]domain.PostView, error) {
	raw, err := c.client.Get(ctx, recentPostsKey).Result()
	if err != nil {
		return nil, err
	}
	var posts []domain.PostView
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, fmt.Errorf("decode cached feed: %w", err)
	}
	return posts, nil
}

// SetRecent caches the home feed with a 5-minute TTL.
func (c *FeedCache) SetRecent(ctx context.Context, posts []domain.PostView) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return c.client.Set(ctx, recentPostsKey, raw, recentPostsTTL).Err()
}

// Invalidate drops the cached feed after a post mutation.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, recentPostsKey).Err()
}
