package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActiveTablesFiltersAndOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)SELECT .+ FROM restaurant_tables.+WHERE restaurant_id = \? AND is_active = 1 AND seats >= \?.+ORDER BY seats ASC, id ASC`).
		WithArgs(uint64(1), uint32(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "label", "seats", "is_active", "created_at", "updated_at"}).
			AddRow(3, 1, "T3", 4, true, now, now).
			AddRow(1, 1, "T1", 6, true, now, now))

	repo := NewTableRepo(db)
	got, err := repo.ListActiveTables(context.Background(), 1, 4)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(3), got[0].ID)
	assert.Equal(t, uint32(4), got[0].Seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func restaurantRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "name", "address", "city",
		"opening_time", "closing_time", "created_at", "updated_at",
	})
}

func TestRestaurantScansFullRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)SELECT .+ FROM restaurants WHERE id = \?`).
		WithArgs(uint64(1)).
		WillReturnRows(restaurantRows().
			AddRow(1, 42, "Trattoria", "Via Roma 1", "Milano", "11:00", "23:00", now, now))

	repo := NewTableRepo(db)
	rest, err := repo.Restaurant(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), rest.OwnerID)
	assert.Equal(t, "Trattoria", rest.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestaurantOwnerNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM restaurants WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(restaurantRows())

	repo := NewTableRepo(db)
	_, err = repo.RestaurantOwner(context.Background(), 7)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
