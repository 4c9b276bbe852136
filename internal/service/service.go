package service

import (
	"context"
	"time"

	"recepce/internal/config"
	"recepce/internal/domain"
	"recepce/internal/models"

	"github.com/rs/zerolog"
)

// Service implements the reception engine: availability checks, booking
// orchestration and cancellation over the external ports. It holds no
// mutable state beyond configuration, so one instance serves all requests.
type Service struct {
	cfg       *config.Config
	loc       *time.Location
	hours     models.BusinessHours
	calendar  domain.CalendarPort
	directory domain.ClientDirectory
	bookings  domain.BookingLog
	locker    domain.SlotLocker
	notify    domain.NotifyQueue
	events    domain.EventPublisher
	logger    *zerolog.Logger

	now func() time.Time
}

func NewService(
	cfg *config.Config,
	calendar domain.CalendarPort,
	directory domain.ClientDirectory,
	bookings domain.BookingLog,
	locker domain.SlotLocker,
	notify domain.NotifyQueue,
	events domain.EventPublisher,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		loc:       cfg.Location(),
		hours:     cfg.BusinessHours,
		calendar:  calendar,
		directory: directory,
		bookings:  bookings,
		locker:    locker,
		notify:    notify,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// parseSlot converts strict "YYYY-MM-DD" + "HH:MM" strings into a slot in
// the business timezone. Any mismatch or impossible date is an error.
func (s *Service) parseSlot(day, timeOfDay string) (models.Slot, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", day+" "+timeOfDay, s.loc)
	if err != nil {
		return models.Slot{}, err
	}
	return models.Slot{Start: start, Duration: s.cfg.SlotDuration()}, nil
}

// portContext bounds a single external port call.
func (s *Service) portContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.PortTimeout())
}
