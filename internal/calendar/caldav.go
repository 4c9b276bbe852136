package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recepce/internal/config"
	"recepce/internal/models"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

// CalDAVCalendar serves tenants that keep their schedule on Nextcloud,
// Fastmail or Apple Calendar instead of Google. Events created here carry
// a marker property so they can be told apart from entries the staff adds
// by hand.
type CalDAVCalendar struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
}

const propReceptionist = "X-RECEPCE"

func NewCalDAVCalendar(cfg config.CalDAVConfig) *CalDAVCalendar {
	return &CalDAVCalendar{
		baseURL:      cfg.URL,
		username:     cfg.Username,
		password:     cfg.Password,
		calendarPath: cfg.CalendarPath,
	}
}

func (c *CalDAVCalendar) getClient() (*caldav.Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, c.username, c.password), c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (c *CalDAVCalendar) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if c.calendarPath != "" {
		return c.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	return cals[0].Path, nil
}

func eventRangeQuery(start, end time.Time) *caldav.CalendarQuery {
	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "DESCRIPTION", propReceptionist},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: start,
					End:   end,
				},
			},
		},
	}
}

func (c *CalDAVCalendar) QueryBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	client, err := c.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := c.findCalendarPath(ctx, client)
	if err != nil {
		return nil, err
	}

	objects, err := client.QueryCalendar(ctx, calPath, eventRangeQuery(from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	busy := make([]models.BusyInterval, 0, len(objects))
	for i := range objects {
		start, end, ok := eventInterval(&objects[i])
		if !ok {
			continue
		}
		busy = append(busy, models.BusyInterval{Start: start, End: end})
	}

	return busy, nil
}

func (c *CalDAVCalendar) CreateEvent(ctx context.Context, title, description string, start, end time.Time) (*models.EventRef, error) {
	client, err := c.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := c.findCalendarPath(ctx, client)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	eventPath := fmt.Sprintf("%s%s.ics", calPath, id)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Recepce//Booking//EN")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, id)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
	event.Props.SetText(ical.PropSummary, title)
	event.Props.SetText(ical.PropDescription, description)

	marker := ical.NewProp(propReceptionist)
	marker.Value = "1"
	event.Props[propReceptionist] = []ical.Prop{*marker}

	cal.Children = append(cal.Children, event.Component)

	if _, err := client.PutCalendarObject(ctx, eventPath, cal); err != nil {
		return nil, fmt.Errorf("failed to put calendar object: %w", err)
	}

	return &models.EventRef{
		ID:          eventPath,
		Summary:     title,
		Description: description,
		Start:       start,
	}, nil
}

func (c *CalDAVCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	client, err := c.getClient()
	if err != nil {
		return err
	}
	return client.RemoveAll(ctx, eventID)
}

func (c *CalDAVCalendar) ListFutureEvents(ctx context.Context) ([]models.EventRef, error) {
	client, err := c.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := c.findCalendarPath(ctx, client)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	objects, err := client.QueryCalendar(ctx, calPath, eventRangeQuery(now, now.AddDate(1, 0, 0)))
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	events := make([]models.EventRef, 0, len(objects))
	for i := range objects {
		ref, ok := parseEventRef(&objects[i])
		if !ok {
			continue
		}
		events = append(events, ref)
	}

	return events, nil
}

func eventInterval(obj *caldav.CalendarObject) (time.Time, time.Time, bool) {
	event := firstEvent(obj)
	if event == nil {
		return time.Time{}, time.Time{}, false
	}

	start, err := event.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := event.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

func parseEventRef(obj *caldav.CalendarObject) (models.EventRef, bool) {
	event := firstEvent(obj)
	if event == nil {
		return models.EventRef{}, false
	}

	start, err := event.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return models.EventRef{}, false
	}

	ref := models.EventRef{ID: obj.Path, Start: start}
	if prop := event.Props.Get(ical.PropSummary); prop != nil {
		ref.Summary = prop.Value
	}
	if prop := event.Props.Get(ical.PropDescription); prop != nil {
		ref.Description = prop.Value
	}

	return ref, true
}

func firstEvent(obj *caldav.CalendarObject) *ical.Component {
	if obj == nil || obj.Data == nil {
		return nil
	}
	for _, child := range obj.Data.Children {
		if child.Name == ical.CompEvent {
			return child
		}
	}
	return nil
}
