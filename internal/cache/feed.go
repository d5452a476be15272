// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed cache for computed feed responses.
// Featured, trending, author, and category feeds are recomputed from the
// database on every miss; caching the serialized response keeps the hot
// read path off the aggregation queries.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix namespaces feed entries in Valkey.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL keeps feeds fresh enough that new engagement shows
	// up within a minute.
	DefaultFeedTTL = 60 * time.Second
)

// Well-known feed cache keys.
const (
	KeyFeatured        = "featured"
	KeyTrending        = "trending"
	KeyFeaturedAuthors = "featured-authors"
	KeyCategories      = "categories"
)

// FeedCache manages cached feed responses in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached feed payload. Returns false on miss; cache
// errors are logged and treated as misses so the DB path still serves.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a serialized feed payload with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, payload []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single feed from the cache.
func (fc *FeedCache) Invalidate(ctx context.Context, key string) {
	if err := fc.client.Del(ctx, feedKeyPrefix+key).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("feed cache invalidated", "key", key)
}

// InvalidateAll removes every cached feed by scanning for the prefix.
// Called after writes that can move any score: posts, likes, comments.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("feed cache cleared", "deleted", deleted)
	}
}
