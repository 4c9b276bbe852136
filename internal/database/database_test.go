package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"recepce/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDBCreatesNestedDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestUpsertByPhoneCreatesClient(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	client, err := db.UpsertByPhone(ctx, "+420700000000", "Jan")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NotZero(t, client.ID)
	assert.Equal(t, "Jan", client.Name)

	found, err := db.LookupByPhone(ctx, "+420700000000")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, client.ID, found.ID)
}

func TestUpsertByPhoneLongerNameWins(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first, err := db.UpsertByPhone(ctx, "+420700000000", "Jan")
	require.NoError(t, err)

	second, err := db.UpsertByPhone(ctx, "+420700000000", "Jan Novák")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Jan Novák", second.Name)

	// A shorter repeat keeps the richer stored name.
	third, err := db.UpsertByPhone(ctx, "+420700000000", "Jan")
	require.NoError(t, err)
	assert.Equal(t, "Jan Novák", third.Name)
}

func TestLookupByPhoneUnknownReturnsNil(t *testing.T) {
	db := setupTestDB(t)

	client, err := db.LookupByPhone(context.Background(), "+420999999999")
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestAppendAndQueryUpcoming(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	client, err := db.UpsertByPhone(ctx, "+420700000000", "Jan Novák")
	require.NoError(t, err)

	past := &models.Booking{
		ClientID:        client.ID,
		StartTime:       time.Now().Add(-48 * time.Hour),
		ServiceType:     "massage",
		CalendarEventID: "evt-past",
	}
	require.NoError(t, db.Append(ctx, past))

	later := &models.Booking{
		ClientID:        client.ID,
		StartTime:       time.Now().Add(72 * time.Hour),
		ServiceType:     "massage",
		CalendarEventID: "evt-later",
	}
	require.NoError(t, db.Append(ctx, later))

	next := &models.Booking{
		ClientID:        client.ID,
		StartTime:       time.Now().Add(24 * time.Hour),
		ServiceType:     "general",
		CalendarEventID: "evt-next",
	}
	require.NoError(t, db.Append(ctx, next))
	assert.NotZero(t, next.ID)

	upcoming, err := db.QueryUpcomingByClient(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, upcoming)
	assert.Equal(t, "evt-next", upcoming.CalendarEventID)
}

func TestQueryUpcomingNoBookings(t *testing.T) {
	db := setupTestDB(t)

	upcoming, err := db.QueryUpcomingByClient(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, upcoming)
}

func TestDeleteByEventID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	client, err := db.UpsertByPhone(ctx, "+420700000000", "Jan Novák")
	require.NoError(t, err)

	booking := &models.Booking{
		ClientID:        client.ID,
		StartTime:       time.Now().Add(24 * time.Hour),
		ServiceType:     "general",
		CalendarEventID: "evt-del",
	}
	require.NoError(t, db.Append(ctx, booking))

	require.NoError(t, db.DeleteByEventID(ctx, "evt-del"))

	upcoming, err := db.QueryUpcomingByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Nil(t, upcoming)

	// Unknown event id is a no-op, not an error.
	assert.NoError(t, db.DeleteByEventID(ctx, "evt-missing"))
}

func TestListBetween(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	client, err := db.UpsertByPhone(ctx, "+420700000000", "Jan Novák")
	require.NoError(t, err)

	base := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"evt-a", "evt-b", "evt-c"} {
		require.NoError(t, db.Append(ctx, &models.Booking{
			ClientID:        client.ID,
			StartTime:       base.AddDate(0, 0, i*7),
			ServiceType:     "general",
			CalendarEventID: id,
		}))
	}

	got, err := db.ListBetween(ctx, base, base.AddDate(0, 0, 8))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "evt-a", got[0].CalendarEventID)
	assert.Equal(t, "evt-b", got[1].CalendarEventID)
}
