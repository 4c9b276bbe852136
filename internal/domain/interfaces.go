package domain

import (
	"context"
	"time"

	"recepce/internal/models"
)

// CalendarPort is the single source of truth for slot occupancy.
type CalendarPort interface {
	QueryBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error)
	CreateEvent(ctx context.Context, title, description string, start, end time.Time) (*models.EventRef, error)
	DeleteEvent(ctx context.Context, id string) error
	ListFutureEvents(ctx context.Context) ([]models.EventRef, error)
}

// ClientDirectory stores customers keyed by normalized phone number.
type ClientDirectory interface {
	UpsertByPhone(ctx context.Context, phone, name string) (*models.Client, error)
	LookupByPhone(ctx context.Context, phone string) (*models.Client, error)
}

// BookingLog is the denormalized audit record of bookings. It may lag the
// calendar and is never consulted for conflict detection.
type BookingLog interface {
	Append(ctx context.Context, booking *models.Booking) error
	QueryUpcomingByClient(ctx context.Context, clientID int64) (*models.Booking, error)
	DeleteByEventID(ctx context.Context, calendarEventID string) error
	ListBetween(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
}

// NotificationPort delivers rendered messages. Both methods are best-effort
// from the engine's point of view.
type NotificationPort interface {
	SendSMS(ctx context.Context, phone, body string) error
	SendEmail(ctx context.Context, subject, body, to string) error
}

// SlotLocker guards the check-then-write window of a booking. Acquire
// returns false when another request already holds the slot.
type SlotLocker interface {
	Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error)
	Release(ctx context.Context, slot models.Slot) error
}

// EventPublisher is the in-process bus for booking lifecycle events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// NotifyQueue accepts notification jobs for background delivery.
type NotifyQueue interface {
	Enqueue(job NotifyJob) bool
}

// NotifyJob carries everything needed to render and send booking
// notifications after the fact.
type NotifyJob struct {
	Name      string
	Phone     string
	Service   string
	Start     time.Time
	Cancelled bool
}

// Engine is the surface the transport layer talks to. Operations never
// return errors; every failure path resolves to a human-readable string.
type Engine interface {
	CheckAvailability(ctx context.Context, day, timeOfDay string) string
	BookAppointment(ctx context.Context, day, timeOfDay, name, phone, service string) string
	CancelBooking(ctx context.Context, phone string) string
	GetBooking(ctx context.Context, phone string) (*models.Booking, error)
	CallerName(ctx context.Context, phone string) (string, error)
}
