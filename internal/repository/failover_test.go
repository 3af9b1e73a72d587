package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverRateLimitStore(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	primary := new(mockStore)
	fallback := new(mockStore)
	store := NewFailoverRateLimitStore(primary, fallback, &logger)

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	// primary healthy
	primary.On("CheckRateLimit", ctx, "k", 5, time.Minute).Return(true, nil).Once()
	allowed, err := store.CheckRateLimit(ctx, "k", 5, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)

	// primary fails: served by fallback
	primary.On("CheckRateLimit", ctx, "k", 5, time.Minute).Return(false, errors.New("redis down")).Once()
	fallback.On("CheckRateLimit", ctx, "k", 5, time.Minute).Return(false, nil)
	allowed, err = store.CheckRateLimit(ctx, "k", 5, time.Minute)
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.True(t, store.isDown.Load())

	// still within recovery interval: primary not probed
	allowed, err = store.CheckRateLimit(ctx, "k", 5, time.Minute)
	assert.NoError(t, err)
	assert.False(t, allowed)
	primary.AssertNumberOfCalls(t, "CheckRateLimit", 2)

	// after the interval primary is probed and recovers
	now = now.Add(2 * time.Minute)
	primary.On("CheckRateLimit", ctx, "k", 5, time.Minute).Return(true, nil).Once()
	allowed, err = store.CheckRateLimit(ctx, "k", 5, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.False(t, store.isDown.Load())
}
