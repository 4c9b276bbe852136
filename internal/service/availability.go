package service

import (
	"context"
	"time"

	"recepce/internal/metrics"
	"recepce/internal/models"
)

type availabilityStatus int

const (
	slotFree availabilityStatus = iota
	slotBusy
	slotClosed
	slotUnverified
)

type availability struct {
	status       availabilityStatus
	hours        hoursCheck
	alternatives []string // HH:MM starts, at most models.MaxAlternatives
}

// CheckAvailability answers "is this slot bookable?" as one Czech sentence.
// Read-only: it never writes to any port.
func (s *Service) CheckAvailability(ctx context.Context, day, timeOfDay string) string {
	if timeOfDay == "" {
		return msgNeedTime(day)
	}

	slot, err := s.parseSlot(day, timeOfDay)
	if err != nil {
		s.logger.Error().Err(err).Str("day", day).Str("time", timeOfDay).Msg("date parsing failed")
		return msgInvalidFormat
	}

	result := s.resolveSlot(ctx, slot)
	switch result.status {
	case slotClosed:
		if result.hours.status == hoursOutside {
			return msgOutOfHours(result.hours.weekday, result.hours.open, result.hours.close)
		}
		return msgClosedDay(result.hours.weekday)
	case slotBusy:
		if len(result.alternatives) > 0 {
			return msgBusyWithAlternatives(slot.Start, result.alternatives)
		}
		return msgBusyNoAlternatives(slot.Start)
	case slotUnverified:
		return msgUnverified
	default:
		return msgAvailable(day, timeOfDay)
	}
}

// resolveSlot runs the business-hours gate and, only when open, the calendar
// conflict check. A closed gate short-circuits without any external call.
func (s *Service) resolveSlot(ctx context.Context, slot models.Slot) availability {
	gate := checkBusinessHours(slot.Start, s.hours)
	if gate.status != hoursOpen {
		return availability{status: slotClosed, hours: gate}
	}

	cctx, cancel := s.portContext(ctx)
	defer cancel()
	busy, err := s.calendar.QueryBusy(cctx, slot.Start, slot.End())
	if err != nil {
		metrics.IncPortError("calendar")
		if s.cfg.FailOpen() {
			// Availability over consistency: a calendar outage must not
			// block every booking, so the slot counts as free.
			s.logger.Warn().Err(err).Time("start", slot.Start).Msg("calendar busy query failed, failing open")
			return availability{status: slotFree, hours: gate}
		}
		s.logger.Error().Err(err).Time("start", slot.Start).Msg("calendar busy query failed")
		return availability{status: slotUnverified, hours: gate}
	}

	conflict := false
	for _, b := range busy {
		if b.Overlaps(slot.Start, slot.End()) {
			conflict = true
			break
		}
	}
	if !conflict {
		return availability{status: slotFree, hours: gate}
	}

	return availability{
		status:       slotBusy,
		hours:        gate,
		alternatives: s.findAlternatives(ctx, slot),
	}
}

// findAlternatives scans a ±2h window around a rejected start for free
// candidates on a 30-minute grid. The window never reaches into the past,
// busy intervals are fetched once for the whole window, and the rejected
// start itself is never suggested.
func (s *Service) findAlternatives(ctx context.Context, slot models.Slot) []string {
	windowStart := slot.Start.Add(-models.AltSearchWindow)
	windowEnd := slot.Start.Add(models.AltSearchWindow)

	if now := s.now().In(s.loc); windowStart.Before(now) {
		windowStart = now
	}
	if !windowStart.Before(windowEnd) {
		return nil
	}

	cctx, cancel := s.portContext(ctx)
	defer cancel()
	busy, err := s.calendar.QueryBusy(cctx, windowStart, windowEnd)
	if err != nil {
		metrics.IncPortError("calendar")
		s.logger.Warn().Err(err).Msg("alternative search busy query failed")
		return nil
	}

	var alternatives []string
	for cand := roundUpToGrid(windowStart); cand.Before(windowEnd); cand = cand.Add(models.AltSearchStep) {
		if cand.Equal(slot.Start) {
			continue
		}
		candEnd := cand.Add(slot.Duration)
		blocked := false
		for _, b := range busy {
			if b.Overlaps(cand, candEnd) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		alternatives = append(alternatives, cand.In(s.loc).Format("15:04"))
		if len(alternatives) >= models.MaxAlternatives {
			break
		}
	}
	return alternatives
}

// roundUpToGrid returns the first 30-minute boundary at or after t.
func roundUpToGrid(t time.Time) time.Time {
	truncated := t.Truncate(models.AltSearchStep)
	if truncated.Before(t) {
		truncated = truncated.Add(models.AltSearchStep)
	}
	return truncated
}
