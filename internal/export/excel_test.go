package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"recepce/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubLog struct {
	bookings []*models.Booking
	err      error
}

func (s *stubLog) Append(ctx context.Context, booking *models.Booking) error { return nil }

func (s *stubLog) QueryUpcomingByClient(ctx context.Context, clientID int64) (*models.Booking, error) {
	return nil, nil
}

func (s *stubLog) DeleteByEventID(ctx context.Context, calendarEventID string) error { return nil }

func (s *stubLog) ListBetween(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	return s.bookings, s.err
}

func TestExportToExcel(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	log := &stubLog{bookings: []*models.Booking{
		{
			ID:              1,
			ClientID:        7,
			StartTime:       time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC),
			ServiceType:     "massage",
			CalendarEventID: "evt-1",
			CreatedAt:       start,
		},
		{
			ID:              2,
			ClientID:        8,
			StartTime:       time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
			ServiceType:     "general",
			CalendarEventID: "evt-2",
			CreatedAt:       start,
		},
	}}

	exporter := NewExporter(log, t.TempDir(), time.UTC, zerolog.Nop())

	path, err := exporter.ExportToExcel(context.Background(), start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rezervace")
	require.NoError(t, err)
	// Title row, header row, two bookings.
	require.Len(t, rows, 4)
	assert.Equal(t, "Datum", rows[1][0])
	assert.Equal(t, "02.01.2024", rows[2][0])
	assert.Equal(t, "14:00", rows[2][1])
	assert.Equal(t, "massage", rows[2][3])
	assert.Equal(t, "evt-2", rows[3][4])
}

func TestExportToExcelPropagatesLogError(t *testing.T) {
	log := &stubLog{err: errors.New("log store down")}
	exporter := NewExporter(log, t.TempDir(), time.UTC, zerolog.Nop())

	_, err := exporter.ExportToExcel(context.Background(), time.Now(), time.Now().AddDate(0, 0, 7))
	assert.Error(t, err)
}
