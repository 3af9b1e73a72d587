package repository

import (
	"context"
	"testing"
	"time"

	"shareit/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer Close(client)

	ctx := context.Background()
	require.NoError(t, Ping(ctx, client))

	store := NewRedisRateLimitStore(client)

	for i := 0; i < 3; i++ {
		allowed, err := store.CheckRateLimit(ctx, "user:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := store.CheckRateLimit(ctx, "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = store.CheckRateLimit(ctx, "user:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "keys are independent")

	assert.Equal(t, time.Minute, s.TTL(rateLimitPrefix+"user:1"))

	s.FastForward(time.Minute + time.Second)
	allowed, err = store.CheckRateLimit(ctx, "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window expired")
}

func TestRedisRateLimitStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisRateLimitStore(nil).CheckRateLimit(ctx, "k", 1, time.Second)
	assert.Error(t, err)

	s, err := miniredis.Run()
	require.NoError(t, err)
	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer client.Close()
	s.Close()

	_, err = NewRedisRateLimitStore(client).CheckRateLimit(ctx, "k", 1, time.Second)
	assert.Error(t, err)
	assert.Error(t, Ping(ctx, client))
	assert.NoError(t, Close(nil))
}
