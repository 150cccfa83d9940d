// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/biblioteca/internal/platform/cache"
)

type page struct {
	Names []string `json:"names"`
}

func newRedisCache(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedis(client, time.Minute), server
}

func TestKey(t *testing.T) {
	assert.Equal(t, "authors:list:0:100:fans_count:DESC", cache.Key("authors", "list", 0, 100, "fans_count", "DESC"))
	assert.NotEqual(t, cache.Key("books", "a:b"), cache.Key("books", "a", "b"))
}

/*
TestFetch_ReadThrough loads once, then serves the cached copy.
*/
func TestFetch_ReadThrough(t *testing.T) {
	c, server := newRedisCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (page, error) {
		calls++
		return page{Names: []string{"Isabel Allende"}}, nil
	}

	first, status, err := cache.Fetch(ctx, c, "authors:search:allende", load)
	require.NoError(t, err)
	assert.Equal(t, cache.StatusMiss, status)

	second, status, err := cache.Fetch(ctx, c, "authors:search:allende", load)
	require.NoError(t, err)
	assert.Equal(t, cache.StatusHit, status)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, server.Exists("catalog:authors:search:allende"))

	ttl := server.TTL("catalog:authors:search:allende")
	assert.Equal(t, time.Minute, ttl)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c, server := newRedisCache(t)

	_, _, err := cache.Fetch(context.Background(), c, "books:list", func(context.Context) (page, error) {
		return page{}, errors.New("store down")
	})
	require.Error(t, err)
	assert.False(t, server.Exists("catalog:books:list"))
}

/*
TestFetch_DegradesWhenRedisDown keeps serving from the store when Redis is gone.
*/
func TestFetch_DegradesWhenRedisDown(t *testing.T) {
	c, server := newRedisCache(t)
	server.Close()

	value, status, err := cache.Fetch(context.Background(), c, "series:harry", func(context.Context) (page, error) {
		return page{Names: []string{"Harry Potter"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, cache.StatusMiss, status)
	assert.Equal(t, []string{"Harry Potter"}, value.Names)
}

func TestFetch_Noop(t *testing.T) {
	_, status, err := cache.Fetch(context.Background(), cache.Noop{}, "k", func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, cache.StatusBypass, status)
}

func TestRedis_Flush(t *testing.T) {
	c, server := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "authors:list", page{}))
	require.NoError(t, c.Set(ctx, "books:list", page{}))
	require.NoError(t, server.Set("unrelated", "keep"))

	require.NoError(t, c.Flush(ctx))

	assert.False(t, server.Exists("catalog:authors:list"))
	assert.False(t, server.Exists("catalog:books:list"))
	assert.True(t, server.Exists("unrelated"))
}
