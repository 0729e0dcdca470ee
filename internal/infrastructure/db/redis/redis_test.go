package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/memory"
)

// unreachableClient points at a port nothing listens on, so every command
// fails fast with a connection error.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestConnect_FailsWhenUnreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestLock_ReportsRedisFailure(t *testing.T) {
	l := NewLock(unreachableClient(t), 0, zerolog.Nop())
	assert.Equal(t, defaultLockTTL, l.ttl)

	unlock, err := l.Lock(context.Background(), "tracking:REQ123")
	require.Error(t, err)
	assert.Nil(t, unlock)
	assert.Contains(t, err.Error(), "tracking:REQ123")
}

func TestDriverCache_FallsBackToDirectory(t *testing.T) {
	dir := memory.NewDriverRegistry(domain.Driver{DriverID: "DRV1", Name: "Ali", Active: true})
	cache := NewDriverCache(dir, unreachableClient(t), time.Minute, zerolog.Nop())

	d, err := cache.Find(context.Background(), "DRV1")
	require.NoError(t, err)
	assert.Equal(t, "Ali", d.Name)

	_, err = cache.Find(context.Background(), "DRV2")
	assert.ErrorIs(t, err, domain.ErrDriverNotFound)
}

func TestDriverCache_InactiveDriverNotFoundOnMiss(t *testing.T) {
	dir := memory.NewDriverRegistry(domain.Driver{DriverID: "DRV3", Name: "Sami", Active: false})
	cache := NewDriverCache(dir, unreachableClient(t), time.Minute, zerolog.Nop())

	_, err := cache.Find(context.Background(), "DRV3")
	assert.ErrorIs(t, err, domain.ErrDriverNotFound)
}

func TestPing_ReportsFailure(t *testing.T) {
	assert.Error(t, Ping(unreachableClient(t))(context.Background()))
}
