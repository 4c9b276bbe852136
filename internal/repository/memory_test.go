package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlotLocker(t *testing.T) {
	locker := NewMemorySlotLocker()
	ctx := context.Background()
	slot := testSlot(time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC))

	acquired, err := locker.Acquire(ctx, slot, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	again, err := locker.Acquire(ctx, slot, time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, locker.Release(ctx, slot))

	acquired, err = locker.Acquire(ctx, slot, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemorySlotLockerExpiry(t *testing.T) {
	locker := NewMemorySlotLocker()
	ctx := context.Background()
	slot := testSlot(time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC))

	acquired, err := locker.Acquire(ctx, slot, time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	time.Sleep(5 * time.Millisecond)

	acquired, err = locker.Acquire(ctx, slot, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}
