package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"recepce/internal/domain"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes the booking log for a period into an xlsx file the
// owner can open without any tooling.
type Exporter struct {
	bookings domain.BookingLog
	path     string
	loc      *time.Location
	logger   zerolog.Logger
}

func NewExporter(bookings domain.BookingLog, path string, loc *time.Location, logger zerolog.Logger) *Exporter {
	return &Exporter{bookings: bookings, path: path, loc: loc, logger: logger}
}

// ExportToExcel creates the export file and returns its path.
func (e *Exporter) ExportToExcel(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.bookings.ListBetween(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Rezervace"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Období: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "F1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Datum", "Čas", "Klient", "Služba", "Událost", "Vytvořeno"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 3
	for _, booking := range bookings {
		start := booking.StartTime.In(e.loc)
		values := []interface{}{
			start.Format("02.01.2006"),
			start.Format("15:04"),
			booking.ClientID,
			booking.ServiceType,
			booking.CalendarEventID,
			booking.CreatedAt.In(e.loc).Format("02.01.2006 15:04"),
		}
		for i, value := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "F", 20)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("rezervace_%s_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}
