// Package rediscache puts a short-lived Redis read-through cache in front of
// a post lookup.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/preview-resolver/internal/domain"
	"github.com/ignite/preview-resolver/internal/pkg/logger"
)

const (
	DefaultTTL       = 5 * time.Second
	DefaultKeyPrefix = "preview:post:"
)

// Lookup is the backing store consulted on a miss.
type Lookup interface {
	FindByUUID(ctx context.Context, uuid string) (*domain.Post, error)
}

// PostCache caches lookups by UUID. Redis failures never fail a request:
// they are logged and the backing lookup answers instead. Misses are not
// cached so a post created after a 404 becomes visible at once.
type PostCache struct {
	client *redis.Client
	next   Lookup
	ttl    time.Duration
	prefix string
}

// New wraps next with a Redis cache. Zero ttl and empty prefix use the
// defaults.
func New(client *redis.Client, next Lookup, ttl time.Duration, prefix string) *PostCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &PostCache{client: client, next: next, ttl: ttl, prefix: prefix}
}

// FindByUUID serves from Redis when possible and fills the cache on a hit
// in the backing lookup.
func (c *PostCache) FindByUUID(ctx context.Context, uuid string) (*domain.Post, error) {
	key := c.key(uuid)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var post domain.Post
		uerr := json.Unmarshal(data, &post)
		if uerr == nil {
			return &post, nil
		}
		logger.Warn("post cache entry unreadable", "uuid", uuid, "error", uerr)
		if err := c.invalidate(ctx, uuid); err != nil {
			logger.Warn("post cache evict failed", "uuid", uuid, "error", err)
		}
	case errors.Is(err, redis.Nil):
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		logger.Warn("post cache read failed", "uuid", uuid, "error", err)
	}

	post, err := c.next.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(post); err != nil {
		logger.Warn("post cache encode failed", "uuid", uuid, "error", err)
	} else if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("post cache write failed", "uuid", uuid, "error", err)
	}
	return post, nil
}

// invalidate drops the cached entry for uuid.
func (c *PostCache) invalidate(ctx context.Context, uuid string) error {
	if err := c.client.Del(ctx, c.key(uuid)).Err(); err != nil {
		return fmt.Errorf("invalidate post %s: %w", uuid, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *PostCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *PostCache) key(uuid string) string {
	return c.prefix + uuid
}
