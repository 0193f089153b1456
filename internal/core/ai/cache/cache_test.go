package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"recipe-pantry/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(maxSize int, ttl time.Duration) *CacheManager {
	return NewManager(&config.CacheConfig{
		Enabled: true,
		Backend: "memory",
		MaxSize: maxSize,
		TTL:     ttl,
	})
}

func TestManager_SetGet(t *testing.T) {
	m := newTestManager(10, time.Hour)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", "v"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestManager_Expiry(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "k", "v"))

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, m.GetStats()["size"])
}

func TestManager_EvictsLeastUsed(t *testing.T) {
	m := newTestManager(2, time.Hour)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	for _, key := range []string{"a", "c"} {
		_, err := m.Get(ctx, key)
		assert.NoError(t, err, key)
	}
}

func TestManager_OverwriteDoesNotEvict(t *testing.T) {
	m := newTestManager(2, time.Hour)
	defer m.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Set(ctx, "a", fmt.Sprint(i)))
	}
	require.NoError(t, m.Set(ctx, "b", "b"))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "4", got)
	assert.Equal(t, int64(0), m.GetStats()["evictions"])
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	m := NewManager(&config.CacheConfig{MaxSize: 1, TTL: time.Hour, CleanupInterval: time.Millisecond})
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(&config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = NewStore(&config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 1, TTL: time.Hour})
	require.NoError(t, err)
	assert.IsType(t, &CacheManager{}, store)
	assert.NoError(t, store.Close())

	_, err = NewStore(&config.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.Error(t, err)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(&config.CacheConfig{
		Enabled:   true,
		Backend:   "redis",
		RedisAddr: "127.0.0.1:1",
		TTL:       time.Hour,
	})
	assert.Error(t, err)
}
