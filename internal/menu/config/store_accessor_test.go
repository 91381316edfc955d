package config

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCountingAccessor(t *testing.T) (*StoreAccessor, *int32) {
	t.Helper()
	var constructed int32
	accessor := NewStoreAccessor(nil)
	accessor.newClient = func(cfg *RedisConfig) (*redis.Client, error) {
		atomic.AddInt32(&constructed, 1)
		return NewRedisClient(cfg)
	}
	t.Cleanup(func() { _ = accessor.Close() })
	return accessor, &constructed
}

func TestStoreAccessor_NotConfigured(t *testing.T) {
	t.Setenv(EnvRedisURL, "")
	t.Setenv(EnvRedisToken, "")
	accessor, constructed := newCountingAccessor(t)

	assert.False(t, accessor.IsConfigured())
	assert.Nil(t, accessor.GetClient())
	assert.Equal(t, int32(0), atomic.LoadInt32(constructed), "no construction attempt without credentials")
	assert.ErrorIs(t, accessor.Ping(context.Background()), ErrRedisNotConfigured)
}

func TestStoreAccessor_PartialCredentials(t *testing.T) {
	t.Setenv(EnvRedisURL, "localhost:6379")
	t.Setenv(EnvRedisToken, "")
	accessor, constructed := newCountingAccessor(t)

	assert.False(t, accessor.IsConfigured())
	assert.Nil(t, accessor.GetClient())
	assert.Equal(t, int32(0), atomic.LoadInt32(constructed))
}

func TestStoreAccessor_CachesClient(t *testing.T) {
	t.Setenv(EnvRedisURL, "localhost:6379")
	t.Setenv(EnvRedisToken, "secret")
	accessor, constructed := newCountingAccessor(t)

	require.True(t, accessor.IsConfigured())
	first := accessor.GetClient()
	second := accessor.GetClient()

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(constructed))
}

func TestStoreAccessor_ConcurrentFirstCalls(t *testing.T) {
	t.Setenv(EnvRedisURL, "localhost:6379")
	t.Setenv(EnvRedisToken, "secret")
	accessor, _ := newCountingAccessor(t)

	const callers = 16
	clients := make([]*redis.Client, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			clients[idx] = accessor.GetClient()
		}(i)
	}
	wg.Wait()

	for _, client := range clients {
		assert.NotNil(t, client)
	}
	assert.Same(t, clients[0], accessor.GetClient())
}

func TestStoreAccessor_ConstructionFailureNotCached(t *testing.T) {
	t.Setenv(EnvRedisURL, "localhost:6379")
	t.Setenv(EnvRedisToken, "secret")
	accessor, _ := newCountingAccessor(t)

	fail := true
	accessor.newClient = func(cfg *RedisConfig) (*redis.Client, error) {
		if fail {
			return nil, errors.New("dial refused")
		}
		return NewRedisClient(cfg)
	}

	assert.Nil(t, accessor.GetClient())
	assert.ErrorIs(t, accessor.Ping(context.Background()), ErrRedisClientUnavailable)

	fail = false
	assert.NotNil(t, accessor.GetClient())
}

func TestStoreAccessor_UnsupportedSchemeYieldsNil(t *testing.T) {
	t.Setenv(EnvRedisURL, "https://example.upstash.io")
	t.Setenv(EnvRedisToken, "secret")
	accessor, _ := newCountingAccessor(t)

	assert.True(t, accessor.IsConfigured())
	assert.Nil(t, accessor.GetClient())
}

func TestStoreAccessor_Reset(t *testing.T) {
	t.Setenv(EnvRedisURL, "localhost:6379")
	t.Setenv(EnvRedisToken, "secret")
	accessor, constructed := newCountingAccessor(t)

	first := accessor.GetClient()
	require.NoError(t, accessor.Reset())
	second := accessor.GetClient()

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(constructed))
	assert.NoError(t, accessor.Reset())
	assert.NoError(t, accessor.Reset(), "reset without a client is a no-op")
}

func TestStoreAccessor_CredentialsRemovedAfterCaching(t *testing.T) {
	t.Setenv(EnvRedisURL, "localhost:6379")
	t.Setenv(EnvRedisToken, "secret")
	accessor, _ := newCountingAccessor(t)
	require.NotNil(t, accessor.GetClient())

	t.Setenv(EnvRedisToken, "")
	assert.Nil(t, accessor.GetClient())
}
