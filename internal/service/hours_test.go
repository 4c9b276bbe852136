package service

import (
	"testing"
	"time"

	"recepce/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckBusinessHours(t *testing.T) {
	loc := prague(t)
	hours := models.BusinessHours{
		"monday": {Open: "09:00", Close: "18:00"},
	}

	cases := []struct {
		name string
		at   time.Time
		want hoursStatus
	}{
		{"opening minute is open", time.Date(2024, 1, 1, 9, 0, 0, 0, loc), hoursOpen},
		{"minute before close is open", time.Date(2024, 1, 1, 17, 59, 0, 0, loc), hoursOpen},
		{"closing minute is outside", time.Date(2024, 1, 1, 18, 0, 0, 0, loc), hoursOutside},
		{"before open is outside", time.Date(2024, 1, 1, 8, 59, 0, 0, loc), hoursOutside},
		{"day without hours is closed", time.Date(2024, 1, 2, 12, 0, 0, 0, loc), hoursClosedDay},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := checkBusinessHours(tc.at, hours)
			assert.Equal(t, tc.want, got.status)
		})
	}
}

func TestCheckBusinessHoursMalformedEntryCountsAsClosed(t *testing.T) {
	loc := prague(t)
	hours := models.BusinessHours{
		"monday": {Open: "nine", Close: "18:00"},
	}
	got := checkBusinessHours(time.Date(2024, 1, 1, 12, 0, 0, 0, loc), hours)
	assert.Equal(t, hoursClosedDay, got.status)
}

func TestRoundUpToGrid(t *testing.T) {
	loc := prague(t)
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 1, 1, 12, 0, 0, 0, loc), time.Date(2024, 1, 1, 12, 0, 0, 0, loc)},
		{time.Date(2024, 1, 1, 12, 1, 0, 0, loc), time.Date(2024, 1, 1, 12, 30, 0, 0, loc)},
		{time.Date(2024, 1, 1, 12, 30, 0, 0, loc), time.Date(2024, 1, 1, 12, 30, 0, 0, loc)},
		{time.Date(2024, 1, 1, 12, 45, 0, 0, loc), time.Date(2024, 1, 1, 13, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		assert.True(t, roundUpToGrid(tc.in).Equal(tc.want), "input %s", tc.in)
	}
}
