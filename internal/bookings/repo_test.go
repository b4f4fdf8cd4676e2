package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	schema := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  organization TEXT,
  booking_type TEXT NOT NULL,
  event_date TEXT NOT NULL,
  event_time TEXT NOT NULL,
  duration TEXT,
  location_type TEXT,
  venue_address TEXT,
  budget TEXT,
  notes TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedBooking(t *testing.T, db *gorm.DB, name string, status enums.BookingStatus, created time.Time) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		ID:          uuid.New(),
		Name:        name,
		Email:       "guest@example.com",
		BookingType: "live-session",
		EventDate:   "2026-10-01",
		EventTime:   "18:00",
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func TestBookingsRepoListAndFilter(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	seedBooking(t, db, "First", enums.BookingStatusPending, now.Add(-time.Hour))
	seedBooking(t, db, "Second", enums.BookingStatusConfirmed, now)

	rows, next, err := repo.List(context.Background(), ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, next)
	assert.Equal(t, "Second", rows[0].Name)

	pending := enums.BookingStatusPending
	rows, _, err = repo.List(context.Background(), ListQuery{Status: &pending})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "First", rows[0].Name)
}

func TestBookingsRepoListPagination(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		seedBooking(t, db, "Guest", enums.BookingStatusPending, now.Add(time.Duration(-i)*time.Minute))
	}

	first, next, err := repo.List(context.Background(), ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, next)

	rest, last, err := repo.List(context.Background(), ListQuery{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, last)
}

func TestBookingsRepoUpdateStatus(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	booking := seedBooking(t, db, "Guest", enums.BookingStatusPending, time.Now().UTC())

	affected, err := repo.UpdateStatus(context.Background(), booking.ID, enums.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	loaded, err := repo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusConfirmed, loaded.Status)

	affected, err = repo.UpdateStatus(context.Background(), uuid.New(), enums.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
