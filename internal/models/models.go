package models

import "time"

// Slot is a candidate appointment: a start instant plus a fixed duration.
// Slots are computed per request and never persisted.
type Slot struct {
	Start    time.Time
	Duration time.Duration
}

func (s Slot) End() time.Time {
	return s.Start.Add(s.Duration)
}

// BusyInterval is an occupied span reported by the calendar. The engine
// never owns these; they are fetched fresh on every query.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects the interval.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return !(end.Before(b.Start) || end.Equal(b.Start) ||
		start.After(b.End) || start.Equal(b.End))
}

// EventRef identifies an event in the calendar's namespace.
type EventRef struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	Link        string
}
