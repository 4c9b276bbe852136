package service

import (
	"context"
	"strings"

	"recepce/internal/domain"
	"recepce/internal/events"
	"recepce/internal/metrics"
	"recepce/internal/models"
)

// CancelBooking removes the earliest upcoming appointment linked to a phone
// number. The calendar is scanned first since it is the source of truth; the
// booking-log row is cleaned up best-effort afterwards.
func (s *Service) CancelBooking(ctx context.Context, phone string) string {
	phone = NormalizePhone(phone)
	if phone == "" {
		return msgCancelPhone
	}

	cctx, cancel := s.portContext(ctx)
	future, err := s.calendar.ListFutureEvents(cctx)
	cancel()
	if err != nil {
		metrics.IncPortError("calendar")
		s.logger.Error().Err(err).Str("phone", phone).Msg("list future events failed")
		return msgCancelFailed
	}

	// Earliest-only policy: one caller, one upcoming appointment. See
	// DESIGN.md for the multi-booking decision.
	var match *models.EventRef
	for i := range future {
		if !strings.Contains(future[i].Description, phone) {
			continue
		}
		if match == nil || future[i].Start.Before(match.Start) {
			match = &future[i]
		}
	}
	if match == nil {
		return msgNothingFound
	}

	cctx, cancel = s.portContext(ctx)
	err = s.calendar.DeleteEvent(cctx, match.ID)
	cancel()
	if err != nil {
		metrics.IncPortError("calendar")
		s.logger.Error().Err(err).Str("event_id", match.ID).Msg("calendar event delete failed")
		return msgCancelFailed
	}

	cctx, cancel = s.portContext(ctx)
	if logErr := s.bookings.DeleteByEventID(cctx, match.ID); logErr != nil {
		metrics.IncPortError("booking_log")
		s.logger.Warn().Err(logErr).Str("event_id", match.ID).Msg("booking log delete failed")
	}
	cancel()

	if s.notify != nil {
		s.notify.Enqueue(domain.NotifyJob{Phone: phone, Start: match.Start, Cancelled: true})
	}
	s.publishBookingEvent(events.EventBookingCancelled, events.BookingEventPayload{
		Phone:           phone,
		Start:           match.Start,
		CalendarEventID: match.ID,
	})

	s.logger.Info().Str("phone", phone).Str("event_id", match.ID).Msg("booking cancelled")
	return msgCancelled(match.Start.In(s.loc))
}

// GetBooking looks up the upcoming booking for a phone number through the
// directory and the booking log. Nil without error means no booking.
func (s *Service) GetBooking(ctx context.Context, phone string) (*models.Booking, error) {
	phone = NormalizePhone(phone)

	cctx, cancel := s.portContext(ctx)
	defer cancel()
	client, err := s.directory.LookupByPhone(cctx, phone)
	if err != nil {
		metrics.IncPortError("directory")
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	lctx, lcancel := s.portContext(ctx)
	defer lcancel()
	booking, err := s.bookings.QueryUpcomingByClient(lctx, client.ID)
	if err != nil {
		metrics.IncPortError("booking_log")
		return nil, err
	}
	return booking, nil
}

// CallerName returns the stored display name for a caller, or empty when
// the phone number is unknown.
func (s *Service) CallerName(ctx context.Context, phone string) (string, error) {
	cctx, cancel := s.portContext(ctx)
	defer cancel()
	client, err := s.directory.LookupByPhone(cctx, NormalizePhone(phone))
	if err != nil {
		metrics.IncPortError("directory")
		return "", err
	}
	if client == nil {
		return "", nil
	}
	return client.Name, nil
}
