package calendar

import (
	"fmt"

	"recepce/internal/config"
	"recepce/internal/domain"

	"github.com/rs/zerolog"
)

// New builds the configured calendar port, optionally wrapped in the
// circuit breaker.
func New(cfg config.CalendarConfig, logger *zerolog.Logger) (domain.CalendarPort, error) {
	var port domain.CalendarPort
	switch cfg.Provider {
	case "google":
		g, err := NewGoogleCalendar(cfg.Google.CredentialsFile, cfg.Google.CalendarID)
		if err != nil {
			return nil, err
		}
		port = g
	case "caldav":
		port = NewCalDAVCalendar(cfg.CalDAV)
	default:
		return nil, fmt.Errorf("unknown calendar provider: %s", cfg.Provider)
	}

	if cfg.Breaker.Enabled {
		port = NewBreakerCalendar(port, cfg.Breaker, logger)
	}

	return port, nil
}
