package repository

import (
	"context"
	"sync/atomic"
	"time"

	"recepce/internal/domain"
	"recepce/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSlotLocker tries the primary locker and falls back to the
// in-memory one when it fails. After a minute it probes the primary again.
type FailoverSlotLocker struct {
	primary   domain.SlotLocker
	fallback  domain.SlotLocker
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSlotLocker(primary, fallback domain.SlotLocker, logger *zerolog.Logger) *FailoverSlotLocker {
	return &FailoverSlotLocker{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSlotLocker) markDown() {
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSlotLocker) shouldProbe() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute
}

func (r *FailoverSlotLocker) Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error) {
	if !r.isDown.Load() || r.shouldProbe() {
		acquired, err := r.primary.Acquire(ctx, slot, ttl)
		if err == nil {
			r.isDown.Store(false)
			return acquired, nil
		}
		r.logger.Error().Err(err).Msg("Primary slot locker failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.Acquire(ctx, slot, ttl)
}

func (r *FailoverSlotLocker) Release(ctx context.Context, slot models.Slot) error {
	if !r.isDown.Load() {
		err := r.primary.Release(ctx, slot)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary slot locker failed, falling back to memory")
		r.markDown()
	}

	return r.fallback.Release(ctx, slot)
}
