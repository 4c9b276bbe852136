package repository

import (
	"context"
	"sync"
	"time"

	"recepce/internal/models"
)

// MemorySlotLocker is the in-process fallback lock. It only protects
// against concurrent bookings inside one instance, which is the common
// deployment anyway.
type MemorySlotLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

func NewMemorySlotLocker() *MemorySlotLocker {
	return &MemorySlotLocker{locks: make(map[string]time.Time)}
}

func (m *MemorySlotLocker) Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := slotKey(slot)
	now := time.Now()
	if expiry, held := m.locks[key]; held && now.Before(expiry) {
		return false, nil
	}
	m.locks[key] = now.Add(ttl)
	return true, nil
}

func (m *MemorySlotLocker) Release(ctx context.Context, slot models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, slotKey(slot))
	return nil
}
