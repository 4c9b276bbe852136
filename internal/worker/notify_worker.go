package worker

import (
	"context"
	"sync"
	"time"

	"recepce/internal/domain"

	"github.com/rs/zerolog"
)

// Deliverer is the downstream that actually sends a notification job.
type Deliverer interface {
	Dispatch(ctx context.Context, job domain.NotifyJob) error
}

// NotifyWorker delivers notification jobs in the background so the booking
// call can answer the caller without waiting on Twilio or SMTP. Jobs that
// keep failing after the retry budget land in the log, not back in the
// queue.
type NotifyWorker struct {
	deliverer   Deliverer
	retryPolicy RetryPolicy
	queue       chan domain.NotifyJob
	logger      zerolog.Logger
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

func NewNotifyWorker(deliverer Deliverer, retry RetryPolicy, logger zerolog.Logger) *NotifyWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &NotifyWorker{
		deliverer:   deliverer,
		retryPolicy: retry,
		queue:       make(chan domain.NotifyJob, 128),
		logger:      logger,
	}
}

// Enqueue hands a job to the worker. A full queue drops the job rather
// than blocking the booking path.
func (w *NotifyWorker) Enqueue(job domain.NotifyJob) bool {
	select {
	case w.queue <- job:
		return true
	default:
		w.logger.Warn().Str("phone", job.Phone).Msg("notification queue full, job dropped")
		return false
	}
}

// Start launches the delivery loop. It drains until Stop is called or the
// context is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-w.queue:
				if !ok {
					return
				}
				w.deliver(ctx, job)
			}
		}
	}()
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (w *NotifyWorker) Stop() {
	w.closeOnce.Do(func() { close(w.queue) })
	w.wg.Wait()
}

func (w *NotifyWorker) deliver(ctx context.Context, job domain.NotifyJob) {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		lastErr = w.deliverer.Dispatch(ctx, job)
		if lastErr == nil {
			return
		}

		w.logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Str("phone", job.Phone).
			Msg("notification delivery failed")

		if attempt == w.retryPolicy.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}

	w.logger.Error().
		Err(lastErr).
		Str("phone", job.Phone).
		Bool("cancelled", job.Cancelled).
		Msg("notification abandoned after retries")
}
