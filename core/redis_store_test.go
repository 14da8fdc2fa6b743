package core

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, ttl time.Duration, clock *fakeClock) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "", ttl, clock.Now), mr
}

func TestRedisStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store, mr := newTestRedisStore(t, 30*time.Minute, clock)

	_, err := store.Set(ctx, "room1", "123456")
	require.NoError(t, err)
	assert.True(t, mr.Exists("selfie:room1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("selfie:room1"))

	e, ok, err := store.Get(ctx, "room1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "123456", e.Code)
	assert.True(t, e.RecordedAt.Equal(clock.Now()))
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Minute, newFakeClock())
	_, ok, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, time.Minute, newFakeClock())
	_, _ = store.Set(ctx, "room1", "c1")
	_, _ = store.Set(ctx, "room1", "c2")

	e, ok, err := store.Get(ctx, "room1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c2", e.Code)
}

func TestRedisStore_ExpiryEvicts(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store, mr := newTestRedisStore(t, 30*time.Minute, clock)

	_, _ = store.Set(ctx, "room1", "123456")
	clock.Advance(31 * time.Minute)

	_, ok, err := store.Get(ctx, "room1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("selfie:room1"), "stale key is deleted on read")
}

func TestRedisStore_NoTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store, mr := newTestRedisStore(t, 0, clock)

	_, _ = store.Set(ctx, "room1", "123456")
	assert.Equal(t, time.Duration(0), mr.TTL("selfie:room1"))
	clock.Advance(1000 * time.Hour)

	e, ok, err := store.Get(ctx, "room1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "123456", e.Code)
}

func TestRedisStore_EvictKeepsNewerValue(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store, mr := newTestRedisStore(t, time.Minute, clock)

	_, _ = store.Set(ctx, "room1", "old")
	stale, err := mr.Get("selfie:room1")
	require.NoError(t, err)

	_, _ = store.Set(ctx, "room1", "new")
	n, err := evictScript.Run(ctx, store.client, []string{"selfie:room1"}, stale).Int()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	e, ok, err := store.Get(ctx, "room1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", e.Code)
}

func TestRedisStore_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, time.Minute, newFakeClock())
	_, _ = store.Set(ctx, "room1", "123456")

	require.NoError(t, store.Delete(ctx, "room1"))
	require.NoError(t, store.Delete(ctx, "room1"))

	_, ok, err := store.Get(ctx, "room1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CustomPrefixAndPing(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client, "room:", time.Minute, nil)

	require.NoError(t, store.Ping(ctx))
	_, err := store.Set(ctx, "a", "1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("room:a"))
}

func TestRedisStore_ConnectionError(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	store := NewRedisStore(client, "", time.Minute, nil)
	mr.Close()

	_, err := store.Set(ctx, "room1", "123456")
	assert.Error(t, err)
	_, _, err = store.Get(ctx, "room1")
	assert.Error(t, err)
	assert.Error(t, store.Ping(ctx))
}
