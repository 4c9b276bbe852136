package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailoverSlotLockerUsesPrimary(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	logger := zerolog.Nop()
	locker := NewFailoverSlotLocker(NewRedisSlotLocker(client), NewMemorySlotLocker(), &logger)
	ctx := context.Background()
	slot := testSlot(time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC))

	acquired, err := locker.Acquire(ctx, slot, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// The lock landed in Redis, not in memory.
	assert.True(t, s.Exists(slotKey(slot)))

	require.NoError(t, locker.Release(ctx, slot))
	assert.False(t, s.Exists(slotKey(slot)))
}

func TestFailoverSlotLockerFallsBackWhenPrimaryDies(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	logger := zerolog.Nop()
	locker := NewFailoverSlotLocker(NewRedisSlotLocker(client), NewMemorySlotLocker(), &logger)
	ctx := context.Background()
	slot := testSlot(time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC))

	s.Close()

	acquired, err := locker.Acquire(ctx, slot, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	// Contention is still detected through the memory fallback.
	again, err := locker.Acquire(ctx, slot, time.Minute)
	require.NoError(t, err)
	assert.False(t, again)
}
