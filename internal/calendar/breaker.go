package calendar

import (
	"context"
	"time"

	"recepce/internal/config"
	"recepce/internal/domain"
	"recepce/internal/models"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// BreakerCalendar wraps a calendar port in a circuit breaker so a dead
// provider fails fast instead of eating the port timeout on every call.
// With the breaker open, reads surface an error and the availability flow
// applies its usual fail-open or fail-closed decision.
type BreakerCalendar struct {
	inner   domain.CalendarPort
	breaker *gobreaker.CircuitBreaker[any]
}

func NewBreakerCalendar(inner domain.CalendarPort, cfg config.BreakerConfig, logger *zerolog.Logger) *BreakerCalendar {
	threshold := uint32(cfg.FailureThreshold)
	if threshold == 0 {
		threshold = 5
	}
	timeout := time.Duration(cfg.OpenSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "calendar",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &BreakerCalendar{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *BreakerCalendar) QueryBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.QueryBusy(ctx, from, to)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.BusyInterval), nil
}

func (b *BreakerCalendar) CreateEvent(ctx context.Context, title, description string, start, end time.Time) (*models.EventRef, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.CreateEvent(ctx, title, description, start, end)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.EventRef), nil
}

func (b *BreakerCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return nil, b.inner.DeleteEvent(ctx, eventID)
	})
	return err
}

func (b *BreakerCalendar) ListFutureEvents(ctx context.Context) ([]models.EventRef, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.ListFutureEvents(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.EventRef), nil
}
