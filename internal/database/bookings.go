package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recepce/internal/models"
)

// Append inserts a booking-log row and fills in the generated ID.
func (db *DB) Append(ctx context.Context, booking *models.Booking) error {
	query := `
        INSERT INTO bookings (client_id, start_time, service_type, calendar_event_id, created_at)
        VALUES (?, ?, ?, ?, ?)
    `

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}

	result, err := db.db.ExecContext(ctx, query,
		booking.ClientID,
		booking.StartTime,
		booking.ServiceType,
		booking.CalendarEventID,
		booking.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	booking.ID = id
	return nil
}

// QueryUpcomingByClient returns the client's next booking that has not
// started yet, or nil when there is none.
func (db *DB) QueryUpcomingByClient(ctx context.Context, clientID int64) (*models.Booking, error) {
	query := `
        SELECT id, client_id, start_time, service_type, calendar_event_id, created_at
        FROM bookings
        WHERE client_id = ? AND start_time >= ?
        ORDER BY start_time ASC
        LIMIT 1
    `

	var booking models.Booking
	var eventID sql.NullString
	err := db.db.QueryRowContext(ctx, query, clientID, time.Now()).Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.StartTime,
		&booking.ServiceType,
		&eventID,
		&booking.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	booking.CalendarEventID = eventID.String
	return &booking, nil
}

// DeleteByEventID removes the log row linked to a calendar event. Deleting
// a row that was never written is not an error.
func (db *DB) DeleteByEventID(ctx context.Context, calendarEventID string) error {
	query := `DELETE FROM bookings WHERE calendar_event_id = ?`

	_, err := db.db.ExecContext(ctx, query, calendarEventID)
	return err
}

// ListBetween returns bookings starting inside [from, to), ordered by start
// time. Used by the export endpoint.
func (db *DB) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Booking, error) {
	query := `
        SELECT id, client_id, start_time, service_type, calendar_event_id, created_at
        FROM bookings
        WHERE start_time >= ? AND start_time < ?
        ORDER BY start_time, created_at
    `

	rows, err := db.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		var booking models.Booking
		var eventID sql.NullString
		err := rows.Scan(
			&booking.ID,
			&booking.ClientID,
			&booking.StartTime,
			&booking.ServiceType,
			&eventID,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		booking.CalendarEventID = eventID.String
		bookings = append(bookings, &booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
