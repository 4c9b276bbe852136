package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"recepce/internal/models"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar talks to a single Google calendar through a service
// account. Free/busy is queried instead of listing events so that entries
// created by the staff by hand also block slots.
type GoogleCalendar struct {
	service    *gcal.Service
	calendarID string
}

func NewGoogleCalendar(credentialsFile, calendarID string) (*GoogleCalendar, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %v", err)
	}

	return &GoogleCalendar{service: srv, calendarID: calendarID}, nil
}

func (g *GoogleCalendar) QueryBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}

	resp, err := g.service.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, fmt.Errorf("calendar %s missing from freebusy response", g.calendarID)
	}

	busy := make([]models.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("bad busy start %q: %w", period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("bad busy end %q: %w", period.End, err)
		}
		busy = append(busy, models.BusyInterval{Start: start, End: end})
	}

	return busy, nil
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, title, description string, start, end time.Time) (*models.EventRef, error) {
	event := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}

	created, err := g.service.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("event insert failed: %w", err)
	}

	return &models.EventRef{
		ID:          created.Id,
		Summary:     created.Summary,
		Description: created.Description,
		Start:       start,
		Link:        created.HtmlLink,
	}, nil
}

func (g *GoogleCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	if err := g.service.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("event delete failed: %w", err)
	}
	return nil
}

func (g *GoogleCalendar) ListFutureEvents(ctx context.Context) ([]models.EventRef, error) {
	call := g.service.Events.List(g.calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("event list failed: %w", err)
	}

	events := make([]models.EventRef, 0, len(resp.Items))
	for _, item := range resp.Items {
		start, err := parseEventStart(item.Start)
		if err != nil {
			// All-day or malformed entries cannot match a slot anyway.
			continue
		}
		events = append(events, models.EventRef{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Start:       start,
			Link:        item.HtmlLink,
		})
	}

	return events, nil
}

func parseEventStart(start *gcal.EventDateTime) (time.Time, error) {
	if start == nil || start.DateTime == "" {
		return time.Time{}, fmt.Errorf("event has no start datetime")
	}
	return time.Parse(time.RFC3339, start.DateTime)
}
