package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"id", "restaurant_id", "user_id", "table_id", "party_size",
		"start_time", "end_time", "status", "created_at", "updated_at",
	})
}

func TestFindOverlappingExcludesCancelledAndTouching(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT .+ FROM bookings.+WHERE restaurant_id = \?.+table_id IN \(\?,\?\).+status <> 'CANCELLED'.+start_time < \? AND end_time > \?`).
		WithArgs(uint64(1), uint64(10), uint64(11), "2025-06-01 20:00:00", "2025-06-01 18:00:00").
		WillReturnRows(bookingRows(t).
			AddRow(5, 1, 42, 10, 4, start, end, "CONFIRMED", now, now))

	repo := NewBookingRepo(db)
	got, err := repo.FindOverlapping(context.Background(), 1, []uint64{10, 11}, start, end)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(5), got[0].ID)
	require.NotNil(t, got[0].TableID)
	assert.Equal(t, uint64(10), *got[0].TableID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOverlappingNoTablesSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)
	got, err := repo.FindOverlapping(context.Background(), 1, nil, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnRows(bookingRows(t))

	repo := NewBookingRepo(db)
	got, err := repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusClearsTableOnNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE bookings SET status = \?, table_id = \? WHERE id = \?`).
		WithArgs("CANCELLED", nil, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(bookingRows(t).
			AddRow(5, 1, 42, nil, 4, start, start.Add(2*time.Hour), "CANCELLED", now, now))

	repo := NewBookingRepo(db)
	got, err := repo.UpdateStatus(context.Background(), 5, "CANCELLED", nil)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", got.Status)
	assert.Nil(t, got.TableID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
