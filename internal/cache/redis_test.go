package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisPrefix = "test:"

// newMiniredis returns an in-process Redis and a RedisStore connected to it.
func newMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), testRedisPrefix)
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func TestRedisStorePing(t *testing.T) {
	_, s := newMiniredis(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestRedisStoreGetMissing(t *testing.T) {
	_, s := newMiniredis(t)

	v, ok, err := s.Get(context.Background(), "q:s1:events:0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestRedisStoreSetUsesPrefixAndTTL(t *testing.T) {
	mr, s := newMiniredis(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "q:s1:events:0", []byte(`["Sports Day"]`), time.Minute))

	assert.True(t, mr.Exists(testRedisPrefix+"q:s1:events:0"))
	assert.False(t, mr.Exists("q:s1:events:0"))
	assert.Equal(t, time.Minute, mr.TTL(testRedisPrefix+"q:s1:events:0"))

	v, ok, err := s.Get(ctx, "q:s1:events:0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["Sports Day"]`, string(v))

	mr.FastForward(2 * time.Minute)
	_, ok, err = s.Get(ctx, "q:s1:events:0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreSetWithoutTTLKeeps(t *testing.T) {
	mr, s := newMiniredis(t)

	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), 0))
	assert.Zero(t, mr.TTL(testRedisPrefix+"k"))
}

func TestRedisStoreCounter(t *testing.T) {
	mr, s := newMiniredis(t)
	ctx := context.Background()

	n, err := s.Counter(ctx, "gen:events")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Incr(ctx, "gen:events")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Incr(ctx, "gen:events")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Counter(ctx, "gen:events")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := mr.Get(testRedisPrefix + "gen:events")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}
