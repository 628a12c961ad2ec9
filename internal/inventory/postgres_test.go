// internal/inventory/postgres_test.go
package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/models"
)

func unitRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "beds", "baths", "sqft", "rent", "available", "floor", "amenities"})
}

func TestPostgresInventory_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := unitRows().
		AddRow("B301", 2, 2.0, 950, 2400, true, 3, "{}").
		AddRow("B604", 2, 2.0, 975, 2450, true, 6, "{}")

	mock.ExpectQuery("SELECT (.+) FROM units WHERE available = TRUE AND beds = \\$1 ORDER BY rent, id").
		WithArgs(2).
		WillReturnRows(rows)

	inv := NewPostgresInventory(db, logger.NewNoOpLogger())
	two := 2
	units, err := inv.Find(context.Background(), models.Preferences{Beds: &two})

	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "B301", units[0].ID)
	assert.Equal(t, 2400, units[0].Rent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventory_FindQueryErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM units WHERE available = TRUE").
		WillReturnError(errors.New("connection reset"))

	inv := NewPostgresInventory(db, logger.NewNoOpLogger())
	_, err = inv.Find(context.Background(), models.Preferences{})

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeInventoryQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventory_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM units WHERE id = \\$1").
		WithArgs("S104").
		WillReturnRows(unitRows().AddRow("S104", 0, 1.0, 450, 1500, true, 1, "{}"))

	inv := NewPostgresInventory(db, logger.NewNoOpLogger())
	unit, err := inv.Get(context.Background(), "S104")

	require.NoError(t, err)
	assert.Equal(t, 0, unit.Beds)
	assert.Equal(t, 450, unit.Sqft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventory_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM units WHERE id = \\$1").
		WithArgs("Z999").
		WillReturnRows(unitRows())

	inv := NewPostgresInventory(db, logger.NewNoOpLogger())
	_, err = inv.Get(context.Background(), "Z999")

	assert.ErrorIs(t, err, ErrUnitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventory_Reserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE units SET available = FALSE WHERE id = \\$1 AND available = TRUE").
		WithArgs("A101").
		WillReturnResult(sqlmock.NewResult(0, 1))

	inv := NewPostgresInventory(db, logger.NewNoOpLogger())
	assert.NoError(t, inv.Reserve(context.Background(), "A101"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventory_ReserveConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE units SET available = FALSE WHERE id = \\$1 AND available = TRUE").
		WithArgs("A101").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("A101").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	inv := NewPostgresInventory(db, logger.NewNoOpLogger())
	assert.ErrorIs(t, inv.Reserve(context.Background(), "A101"), ErrAlreadyTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventory_ReserveUnknownUnit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE units SET available = FALSE WHERE id = \\$1 AND available = TRUE").
		WithArgs("Z999").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Z999").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	inv := NewPostgresInventory(db, logger.NewNoOpLogger())
	assert.ErrorIs(t, inv.Reserve(context.Background(), "Z999"), ErrUnitNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
