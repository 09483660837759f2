package middleware

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimiterStoreFailsOpen(t *testing.T) {
	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	store := NewRedisRateLimiterStore(client, 1, time.Minute, &logger)

	allowed, err := store.Allow("192.0.2.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiterStoreKeyBuckets(t *testing.T) {
	logger := zerolog.Nop()
	store := NewRedisRateLimiterStore(nil, 1, time.Minute, &logger)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	first := store.key("ip")

	store.now = func() time.Time { return base.Add(59 * time.Second) }
	assert.Equal(t, first, store.key("ip"))

	store.now = func() time.Time { return base.Add(time.Minute) }
	assert.NotEqual(t, first, store.key("ip"))
}

func TestRedisRateLimiterStore(t *testing.T) {
	addr := os.Getenv("BOOKS_TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("BOOKS_TEST_REDIS_ADDRESS not set")
	}

	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	store := NewRedisRateLimiterStore(client, 2, time.Minute, &logger)
	identifier := uuid.NewString()

	for i := 0; i < 2; i++ {
		allowed, err := store.Allow(identifier)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := store.Allow(identifier)
	require.NoError(t, err)
	assert.False(t, allowed)
}
