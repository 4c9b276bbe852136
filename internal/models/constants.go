package models

import "time"

const (
	// DefaultService labels bookings made without an explicit service type.
	DefaultService = "general"

	// DefaultSlotDuration is the assumed appointment length.
	DefaultSlotDuration = 60 * time.Minute

	// AltSearchWindow bounds the alternative-slot search around a rejected
	// start, in both directions.
	AltSearchWindow = 2 * time.Hour

	// AltSearchStep is the candidate grid spacing for alternatives.
	AltSearchStep = 30 * time.Minute

	// MaxAlternatives caps how many free slots a busy answer offers.
	MaxAlternatives = 2
)

// CzechMonths holds month names in genitive case for spoken dates
// ("1. ledna 2024").
var CzechMonths = map[time.Month]string{
	time.January:   "ledna",
	time.February:  "února",
	time.March:     "března",
	time.April:     "dubna",
	time.May:       "května",
	time.June:      "června",
	time.July:      "července",
	time.August:    "srpna",
	time.September: "září",
	time.October:   "října",
	time.November:  "listopadu",
	time.December:  "prosince",
}

// CzechWeekdaysLocative holds weekday names with the matching preposition,
// as used in sentences ("v pondělí máme zavřeno").
var CzechWeekdaysLocative = map[time.Weekday]string{
	time.Monday:    "v pondělí",
	time.Tuesday:   "v úterý",
	time.Wednesday: "ve středu",
	time.Thursday:  "ve čtvrtek",
	time.Friday:    "v pátek",
	time.Saturday:  "v sobotu",
	time.Sunday:    "v neděli",
}
