package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"recepce/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelBookingEmptyPhone(t *testing.T) {
	cal := new(mockCalendar)
	svc := newTestService(testConfig(), cal, new(mockDirectory), new(mockBookingLog), nil, nil)

	msg := svc.CancelBooking(context.Background(), "   ")
	assert.Equal(t, msgCancelPhone, msg)
	cal.AssertNotCalled(t, "ListFutureEvents", mock.Anything)
}

func TestCancelBookingNothingFound(t *testing.T) {
	loc := prague(t)
	cal := new(mockCalendar)
	cal.On("ListFutureEvents", mock.Anything).Return([]models.EventRef{
		{ID: "a", Description: "Telefon: +420111111111", Start: time.Date(2024, 1, 2, 10, 0, 0, 0, loc)},
	}, nil)

	svc := newTestService(testConfig(), cal, new(mockDirectory), new(mockBookingLog), nil, nil)

	msg := svc.CancelBooking(context.Background(), "+420700000000")
	assert.Equal(t, msgNothingFound, msg)
	cal.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything)
}

func TestCancelBookingDeletesEarliestMatch(t *testing.T) {
	loc := prague(t)
	early := time.Date(2024, 1, 2, 10, 0, 0, 0, loc)
	late := time.Date(2024, 1, 5, 15, 0, 0, 0, loc)

	cal := new(mockCalendar)
	cal.On("ListFutureEvents", mock.Anything).Return([]models.EventRef{
		{ID: "late", Description: "Telefon: +420700000000", Start: late},
		{ID: "early", Description: "Telefon: +420700000000", Start: early},
		{ID: "other", Description: "Telefon: +420111111111", Start: early.Add(-time.Hour)},
	}, nil)
	cal.On("DeleteEvent", mock.Anything, "early").Return(nil).Once()

	log := new(mockBookingLog)
	log.On("DeleteByEventID", mock.Anything, "early").Return(nil).Once()

	queue := &fakeQueue{}
	svc := newTestService(testConfig(), cal, new(mockDirectory), log, nil, queue)

	msg := svc.CancelBooking(context.Background(), "+420 700 000 000")

	assert.Contains(t, msg, "zrušena")
	assert.Contains(t, msg, "2. ledna 2024")
	cal.AssertExpectations(t)
	log.AssertExpectations(t)

	require.Equal(t, 1, queue.count())
	assert.True(t, queue.jobs[0].Cancelled)
	assert.Equal(t, "+420700000000", queue.jobs[0].Phone)
}

func TestCancelBookingCalendarListFailure(t *testing.T) {
	cal := new(mockCalendar)
	cal.On("ListFutureEvents", mock.Anything).Return([]models.EventRef(nil), errors.New("calendar down"))

	svc := newTestService(testConfig(), cal, new(mockDirectory), new(mockBookingLog), nil, nil)

	msg := svc.CancelBooking(context.Background(), "+420700000000")
	assert.Equal(t, msgCancelFailed, msg)
}

func TestCancelBookingDeleteFailure(t *testing.T) {
	loc := prague(t)
	cal := new(mockCalendar)
	cal.On("ListFutureEvents", mock.Anything).Return([]models.EventRef{
		{ID: "a", Description: "Telefon: +420700000000", Start: time.Date(2024, 1, 2, 10, 0, 0, 0, loc)},
	}, nil)
	cal.On("DeleteEvent", mock.Anything, "a").Return(errors.New("delete failed"))

	log := new(mockBookingLog)
	queue := &fakeQueue{}
	svc := newTestService(testConfig(), cal, new(mockDirectory), log, nil, queue)

	msg := svc.CancelBooking(context.Background(), "+420700000000")
	assert.Equal(t, msgCancelFailed, msg)
	log.AssertNotCalled(t, "DeleteByEventID", mock.Anything, mock.Anything)
	assert.Zero(t, queue.count())
}

func TestCancelBookingLogCleanupIsBestEffort(t *testing.T) {
	loc := prague(t)
	cal := new(mockCalendar)
	cal.On("ListFutureEvents", mock.Anything).Return([]models.EventRef{
		{ID: "a", Description: "Telefon: +420700000000", Start: time.Date(2024, 1, 2, 10, 0, 0, 0, loc)},
	}, nil)
	cal.On("DeleteEvent", mock.Anything, "a").Return(nil)

	log := new(mockBookingLog)
	log.On("DeleteByEventID", mock.Anything, "a").Return(errors.New("log store down"))

	svc := newTestService(testConfig(), cal, new(mockDirectory), log, nil, nil)

	msg := svc.CancelBooking(context.Background(), "+420700000000")
	assert.Contains(t, msg, "zrušena")
}

func TestGetBookingUnknownPhone(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("LookupByPhone", mock.Anything, "+420700000000").Return((*models.Client)(nil), nil)

	log := new(mockBookingLog)
	svc := newTestService(testConfig(), new(mockCalendar), dir, log, nil, nil)

	booking, err := svc.GetBooking(context.Background(), "+420700000000")
	require.NoError(t, err)
	assert.Nil(t, booking)
	log.AssertNotCalled(t, "QueryUpcomingByClient", mock.Anything, mock.Anything)
}

func TestGetBookingKnownPhone(t *testing.T) {
	loc := prague(t)
	want := &models.Booking{ID: 3, ClientID: 7, StartTime: time.Date(2024, 1, 2, 10, 0, 0, 0, loc)}

	dir := new(mockDirectory)
	dir.On("LookupByPhone", mock.Anything, "+420700000000").
		Return(&models.Client{ID: 7, Phone: "+420700000000", Name: "Jan Novak"}, nil)

	log := new(mockBookingLog)
	log.On("QueryUpcomingByClient", mock.Anything, int64(7)).Return(want, nil)

	svc := newTestService(testConfig(), new(mockCalendar), dir, log, nil, nil)

	booking, err := svc.GetBooking(context.Background(), "+420 700 000 000")
	require.NoError(t, err)
	assert.Equal(t, want, booking)
}

func TestCallerName(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("LookupByPhone", mock.Anything, "+420700000000").
		Return(&models.Client{ID: 7, Name: "Jan Novak"}, nil)
	dir.On("LookupByPhone", mock.Anything, "+420999999999").Return((*models.Client)(nil), nil)

	svc := newTestService(testConfig(), new(mockCalendar), dir, new(mockBookingLog), nil, nil)

	name, err := svc.CallerName(context.Background(), "+420700000000")
	require.NoError(t, err)
	assert.Equal(t, "Jan Novak", name)

	name, err = svc.CallerName(context.Background(), "+420999999999")
	require.NoError(t, err)
	assert.Empty(t, name)
}
