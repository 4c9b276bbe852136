package service

import (
	"context"
	"io"
	"sync"
	"time"

	"recepce/internal/config"
	"recepce/internal/domain"
	"recepce/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

type mockCalendar struct {
	mock.Mock
}

func (m *mockCalendar) QueryBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BusyInterval), args.Error(1)
}

func (m *mockCalendar) CreateEvent(ctx context.Context, title, description string, start, end time.Time) (*models.EventRef, error) {
	args := m.Called(ctx, title, description, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventRef), args.Error(1)
}

func (m *mockCalendar) DeleteEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCalendar) ListFutureEvents(ctx context.Context) ([]models.EventRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventRef), args.Error(1)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) UpsertByPhone(ctx context.Context, phone, name string) (*models.Client, error) {
	args := m.Called(ctx, phone, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *mockDirectory) LookupByPhone(ctx context.Context, phone string) (*models.Client, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

type mockBookingLog struct {
	mock.Mock
}

func (m *mockBookingLog) Append(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingLog) QueryUpcomingByClient(ctx context.Context, clientID int64) (*models.Booking, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingLog) DeleteByEventID(ctx context.Context, calendarEventID string) error {
	return m.Called(ctx, calendarEventID).Error(0)
}

func (m *mockBookingLog) ListBetween(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

// fakeLocker is a deterministic SlotLocker for orchestration tests.
type fakeLocker struct {
	mu       sync.Mutex
	denied   bool
	err      error
	acquires int
	releases int
}

func (l *fakeLocker) Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acquires++
	if l.err != nil {
		return false, l.err
	}
	return !l.denied, nil
}

func (l *fakeLocker) Release(ctx context.Context, slot models.Slot) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	return nil
}

// fakeQueue records enqueued notification jobs.
type fakeQueue struct {
	mu   sync.Mutex
	jobs []domain.NotifyJob
}

func (q *fakeQueue) Enqueue(job domain.NotifyJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return true
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func testConfig() *config.Config {
	failOpen := true
	return &config.Config{
		Company: config.CompanyConfig{
			Name:       "Wellness Pohoda",
			OwnerEmail: "majitel@example.com",
			Timezone:   "Europe/Prague",
		},
		BusinessHours: models.BusinessHours{
			"monday":    {Open: "09:00", Close: "18:00"},
			"tuesday":   {Open: "09:00", Close: "18:00"},
			"wednesday": {Open: "09:00", Close: "18:00"},
			"thursday":  {Open: "09:00", Close: "18:00"},
			"friday":    {Open: "09:00", Close: "18:00"},
		},
		Booking: config.BookingConfig{
			DurationMinutes: 60,
			SlotLockSeconds: 30,
			PortTimeout:     5,
		},
		Calendar: config.CalendarConfig{Provider: "google", FailOpen: &failOpen},
		Database: config.DatabaseConfig{Path: "ignored"},
	}
}

func newTestService(cfg *config.Config, cal domain.CalendarPort, dir domain.ClientDirectory, log domain.BookingLog, locker domain.SlotLocker, queue domain.NotifyQueue) *Service {
	logger := zerolog.New(io.Discard)
	return NewService(cfg, cal, dir, log, locker, queue, nil, &logger)
}
