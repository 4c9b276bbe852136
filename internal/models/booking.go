package models

import "time"

// Booking is the denormalized audit record of a confirmed appointment.
// The calendar stays the source of truth for slot occupancy; a booking row
// may be missing when the log write failed, and CalendarEventID may be empty
// when the calendar sync failed.
type Booking struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"client_id"`
	StartTime       time.Time `json:"start_time"`
	ServiceType     string    `json:"service_type"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Client is a directory entry keyed by normalized phone number. Clients are
// created on first booking attempt and never deleted by the engine.
type Client struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
}
