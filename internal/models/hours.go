package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayHours is an open/close pair for one weekday, 24-hour HH:MM strings.
type DayHours struct {
	Open  string `yaml:"open" json:"open"`
	Close string `yaml:"close" json:"close"`
}

// BusinessHours maps lowercase English weekday names to opening hours.
// A missing or null entry means the business is closed that day.
type BusinessHours map[string]*DayHours

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// WeekdayKey returns the configuration key for a weekday.
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[d]
}

// ForWeekday returns the hours for a weekday, or nil when closed.
func (h BusinessHours) ForWeekday(d time.Weekday) *DayHours {
	if h == nil {
		return nil
	}
	return h[WeekdayKey(d)]
}

// MinutesOfDay parses an HH:MM string into minutes since midnight.
func MinutesOfDay(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid HH:MM value: %q", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("HH:MM out of range: %q", s)
	}
	return hh*60 + mm, nil
}

// Validate checks that every configured day has parseable bounds and that
// open precedes close.
func (h BusinessHours) Validate() error {
	for day, hours := range h {
		if hours == nil {
			continue
		}
		open, err := MinutesOfDay(hours.Open)
		if err != nil {
			return fmt.Errorf("business_hours.%s: %w", day, err)
		}
		closeM, err := MinutesOfDay(hours.Close)
		if err != nil {
			return fmt.Errorf("business_hours.%s: %w", day, err)
		}
		if open >= closeM {
			return fmt.Errorf("business_hours.%s: open %s is not before close %s", day, hours.Open, hours.Close)
		}
	}
	return nil
}
