// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides the read-through cache for immutable catalog pages.

Catalog rows never change while the API is running (the loader replaces them offline
and then calls [Cache.Flush]), so a page computed for a given normalized filter can be
served from Redis until its TTL expires. The favorites store is mutable and is never
cached.

Architecture:

  - Cache: The small interface services depend on.
  - Redis: The go-redis implementation, keyed under [constants.RedisPrefixCatalog].
  - Noop: Used when no Redis URL is configured.
  - Fetch: The read-through helper. Concurrent misses for one key share a single load
    via singleflight, and cache failures degrade to a direct load.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/biblioteca/internal/platform/constants"
	"github.com/taibuivan/biblioteca/internal/platform/ctxutil"
)

// Status describes how a value was obtained. It is echoed in the X-Cache header.
type Status string

const (
	StatusHit    Status = "HIT"
	StatusMiss   Status = "MISS"
	StatusBypass Status = "BYPASS"
)

// Cache stores JSON-encodable catalog values by key.
type Cache interface {
	// Get decodes the cached value into dest and reports whether the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key string, value any) error
	// Flush drops every cached catalog value.
	Flush(ctx context.Context) error
	// Enabled reports whether values are actually stored.
	Enabled() bool
}

// # Keys

// Key builds a deterministic cache key from an entity name and the normalized filter
// parts that select a page.
//
// Example:
//
//	cache.Key("authors", "list", 0, 100, "fans_count", "DESC", 25) // "authors:list:0:100:fans_count:DESC:25"
func Key(entity string, parts ...any) string {
	var sb strings.Builder
	sb.WriteString(entity)
	for _, part := range parts {
		sb.WriteByte(':')
		// Escape the separator so "a:b" and "a","b" never collide.
		sb.WriteString(strings.ReplaceAll(fmt.Sprint(part), ":", `\:`))
	}
	return sb.String()
}

// # Redis

// Redis caches values in Redis with a fixed TTL.
type Redis struct {
	client *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis returns a Redis-backed cache. A non-positive ttl falls back to ten minutes.
func NewRedis(client *goredis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Redis{client: client, ttl: ttl, prefix: constants.RedisPrefixCatalog}
}

// Enabled implements [Cache].
func (r *Redis) Enabled() bool { return true }

// Get implements [Cache].
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements [Cache].
func (r *Redis) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	if err := r.client.Set(ctx, r.prefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Flush implements [Cache]. It removes keys under the catalog prefix only.
func (r *Redis) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("cache: flush: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: flush scan: %w", err)
	}

	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("cache: flush: %w", err)
		}
	}
	return nil
}

// # Noop

// Noop is the cache used when Redis is not configured. It never stores anything.
type Noop struct{}

func (Noop) Enabled() bool { return false }

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any) error { return nil }

func (Noop) Flush(context.Context) error { return nil }

// # Read-through

var loads singleflight.Group

// Fetch returns the cached value for key, or calls load and caches its result.
//
// Errors from load are returned unchanged and never cached. Cache errors are logged
// and the value is loaded from the store instead.
func Fetch[T any](ctx context.Context, c Cache, key string, load func(context.Context) (T, error)) (T, Status, error) {
	if c == nil || !c.Enabled() {
		value, err := load(ctx)
		return value, StatusBypass, err
	}

	logger := ctxutil.GetLogger(ctx)

	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.WarnContext(ctx, "cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}
	if found {
		return cached, StatusHit, nil
	}

	shared, err, _ := loads.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		if setErr := c.Set(ctx, key, value); setErr != nil {
			logger.WarnContext(ctx, "cache_write_failed", slog.String("key", key), slog.Any("error", setErr))
		}
		return value, nil
	})

	value, _ := shared.(T)
	return value, StatusMiss, err
}
