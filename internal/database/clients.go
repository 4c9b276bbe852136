package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"unicode/utf8"

	"recepce/internal/models"
)

// UpsertByPhone creates a client record for the phone number, or refreshes
// the stored name when the new one carries more information. Voice callers
// often give a bare first name; a later call with a full name wins, a
// shorter repeat does not overwrite it.
func (db *DB) UpsertByPhone(ctx context.Context, phone, name string) (*models.Client, error) {
	existing, err := db.LookupByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		query := `INSERT INTO clients (phone, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
		now := time.Now()
		result, err := db.db.ExecContext(ctx, query, phone, name, now, now)
		if err != nil {
			return nil, err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}
		return &models.Client{ID: id, Phone: phone, Name: name}, nil
	}

	if utf8.RuneCountInString(name) > utf8.RuneCountInString(existing.Name) {
		query := `UPDATE clients SET name = ?, updated_at = ? WHERE id = ?`
		if _, err := db.db.ExecContext(ctx, query, name, time.Now(), existing.ID); err != nil {
			return nil, err
		}
		existing.Name = name
	}

	return existing, nil
}

// LookupByPhone returns the client for a phone number, or nil when unknown.
func (db *DB) LookupByPhone(ctx context.Context, phone string) (*models.Client, error) {
	query := `SELECT id, phone, name FROM clients WHERE phone = ?`

	var client models.Client
	err := db.db.QueryRowContext(ctx, query, phone).Scan(&client.ID, &client.Phone, &client.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &client, nil
}
