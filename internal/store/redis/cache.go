// Package redis stores rendered preview replies in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

// KeyPrefixReply is the prefix for cached preview replies.
const KeyPrefixReply = "linkbot:reply:"

// DefaultReplyTTL is used when the cache is built with a non-positive TTL.
const DefaultReplyTTL = 10 * time.Minute

// ReplyCache keeps successful previews so repeated links skip the upstream API.
// Apologies are never stored.
type ReplyCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewReplyCache(client redis.UniversalClient, ttl time.Duration) *ReplyCache {
	if ttl <= 0 {
		ttl = DefaultReplyTTL
	}
	return &ReplyCache{client: client, ttl: ttl}
}

// Get returns the cached reply for key, or nil on a miss.
func (c *ReplyCache) Get(ctx context.Context, key string) (*domain.Reply, error) {
	data, err := c.client.Get(ctx, KeyPrefixReply+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached reply: %w", err)
	}

	var reply domain.Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached reply: %w", err)
	}
	return &reply, nil
}

// Set stores reply under key for the cache TTL.
func (c *ReplyCache) Set(ctx context.Context, key string, reply domain.Reply) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}
	if err := c.client.Set(ctx, KeyPrefixReply+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache reply: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (c *ReplyCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
