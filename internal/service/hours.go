package service

import (
	"time"

	"recepce/internal/models"
)

type hoursStatus int

const (
	hoursOpen hoursStatus = iota
	hoursClosedDay
	hoursOutside
)

type hoursCheck struct {
	status  hoursStatus
	weekday time.Weekday
	open    string
	close   string
}

// checkBusinessHours decides whether an instant falls inside opening hours.
// Pure function of its inputs. The interval is [open, close): an appointment
// starting exactly at opening time is fine, one starting at closing time is
// not.
func checkBusinessHours(t time.Time, hours models.BusinessHours) hoursCheck {
	weekday := t.Weekday()
	day := hours.ForWeekday(weekday)
	if day == nil {
		return hoursCheck{status: hoursClosedDay, weekday: weekday}
	}

	openMin, errOpen := models.MinutesOfDay(day.Open)
	closeMin, errClose := models.MinutesOfDay(day.Close)
	if errOpen != nil || errClose != nil {
		// Config validation rejects malformed hours; an entry that slipped
		// through counts as closed rather than always open.
		return hoursCheck{status: hoursClosedDay, weekday: weekday}
	}

	minute := t.Hour()*60 + t.Minute()
	if minute < openMin || minute >= closeMin {
		return hoursCheck{status: hoursOutside, weekday: weekday, open: day.Open, close: day.Close}
	}

	return hoursCheck{status: hoursOpen, weekday: weekday}
}
