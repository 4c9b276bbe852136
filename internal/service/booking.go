package service

import (
	"context"
	"fmt"

	"recepce/internal/domain"
	"recepce/internal/events"
	"recepce/internal/metrics"
	"recepce/internal/models"

	"github.com/google/uuid"
)

// BookAppointment runs the booking transaction as a sequence of best-effort
// steps. Once the availability gate is cleared, directory and log outages
// degrade the audit trail but the caller still hears a success; only the
// admission checks themselves are terminal.
func (s *Service) BookAppointment(ctx context.Context, day, timeOfDay, name, phone, service string) string {
	original := name
	name = NormalizeName(name)
	if name != original {
		s.logger.Info().Str("from", original).Str("to", name).Msg("name normalized")
	}

	if day == "" || timeOfDay == "" || name == "" {
		s.logger.Info().Str("day", day).Str("time", timeOfDay).Msg("booking request missing fields")
		return msgMissingFields
	}

	phone = NormalizePhone(phone)
	if phone == "" {
		s.logger.Error().Msg("booking request without phone number")
		return msgMissingPhone
	}

	if service == "" {
		service = models.DefaultService
	}

	slot, err := s.parseSlot(day, timeOfDay)
	if err != nil {
		s.logger.Error().Err(err).Str("day", day).Str("time", timeOfDay).Msg("cannot parse booking date")
		return msgBookRetry
	}

	logger := s.logger.With().Str("request_id", uuid.NewString()).Str("phone", phone).Logger()
	logger.Info().Str("day", day).Str("time", timeOfDay).Str("name", name).Msg("booking request")

	// Per-slot lock closes the race between the availability re-check and
	// the calendar write. Contention reads as "slot taken"; a broken locker
	// degrades to the unguarded behavior.
	if s.locker != nil {
		acquired, lockErr := s.locker.Acquire(ctx, slot, s.cfg.SlotLockTTL())
		switch {
		case lockErr != nil:
			metrics.IncPortError("lock")
			logger.Warn().Err(lockErr).Msg("slot lock unavailable, proceeding unlocked")
		case !acquired:
			logger.Info().Time("start", slot.Start).Msg("slot held by concurrent request")
			return msgBookRetry
		default:
			defer func() {
				if releaseErr := s.locker.Release(context.Background(), slot); releaseErr != nil {
					logger.Warn().Err(releaseErr).Msg("slot lock release failed")
				}
			}()
		}
	}

	// Final admission control. Terminal: nothing has been written yet.
	if result := s.resolveSlot(ctx, slot); result.status != slotFree {
		logger.Info().Time("start", slot.Start).Msg("slot no longer bookable")
		return msgBookRetry
	}

	started := s.now()

	// Client resolution. Non-terminal: the booking proceeds without an
	// audit link when the directory is down.
	var clientID int64
	cctx, cancel := s.portContext(ctx)
	client, err := s.directory.UpsertByPhone(cctx, phone, name)
	cancel()
	if err != nil {
		metrics.IncPortError("directory")
		logger.Error().Err(err).Msg("client upsert failed")
	} else {
		clientID = client.ID
		logger.Info().Int64("client_id", clientID).Msg("client resolved")
	}

	// Calendar sync. The phone number in the description links the event
	// back to the caller for later cancellation.
	var eventID string
	title := fmt.Sprintf("%s - %s", name, service)
	description := fmt.Sprintf("Rezervace přes hlasového asistenta\nTelefon: %s", phone)
	cctx, cancel = s.portContext(ctx)
	event, err := s.calendar.CreateEvent(cctx, title, description, slot.Start, slot.End())
	cancel()
	if err != nil {
		metrics.IncPortError("calendar")
		logger.Error().Err(err).Msg("calendar event create failed")
	} else if event != nil {
		eventID = event.ID
		logger.Info().Str("event_id", eventID).Str("link", event.Link).Msg("synced to calendar")
	}

	logged := false
	if clientID != 0 && eventID != "" {
		booking := &models.Booking{
			ClientID:        clientID,
			StartTime:       slot.Start,
			ServiceType:     service,
			CalendarEventID: eventID,
			CreatedAt:       s.now(),
		}
		cctx, cancel = s.portContext(ctx)
		err = s.bookings.Append(cctx, booking)
		cancel()
		if err != nil {
			metrics.IncPortError("booking_log")
			logger.Error().Err(err).Msg("booking log append failed")
		} else {
			logged = true
			logger.Info().Int64("booking_id", booking.ID).Msg("booking logged")
		}
	} else {
		logger.Warn().
			Bool("have_client", clientID != 0).
			Bool("have_event", eventID != "").
			Msg("skipping booking log append")
	}

	if logged && s.notify != nil {
		s.notify.Enqueue(domain.NotifyJob{Name: name, Phone: phone, Service: service, Start: slot.Start})
	}

	s.publishBookingEvent(events.EventBookingCreated, events.BookingEventPayload{
		Name:            name,
		Phone:           phone,
		Service:         service,
		Start:           slot.Start,
		CalendarEventID: eventID,
		ClientID:        clientID,
	})

	logger.Info().Dur("took", s.now().Sub(started)).Msg("booking process completed")
	return msgBooked(name, slot.Start, timeOfDay)
}

func (s *Service) publishBookingEvent(eventType string, payload events.BookingEventPayload) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
