package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/apperrors"
	"parkspot/internal/db"
)

func newSlotRepo(t *testing.T) (*SlotRepository, sqlmock.Sqlmock) {
	t.Helper()
	dbConn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })
	return NewSlotRepository(dbConn), mock
}

func TestCreateBatchDuplicateSlotNumber(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO parking_slots").
		WithArgs(3, "A1", "standard", true, "").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.CreateBatch(3, []db.ParkingSlot{
		{SlotNumber: "A1", SlotType: "standard", IsAvailable: true},
	})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), `"A1"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchDuplicateRejectsWholeBatch(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO parking_slots").
		WithArgs(3, "A1", "standard", true, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_reserved", "created_at", "updated_at"}).
			AddRow(6, false, windowStart, windowStart))
	mock.ExpectQuery("INSERT INTO parking_slots").
		WithArgs(3, "A1", "standard", true, "").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.CreateBatch(3, []db.ParkingSlot{
		{SlotNumber: "A1", SlotType: "standard", IsAvailable: true},
		{SlotNumber: "A1", SlotType: "standard", IsAvailable: true},
	})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshReservedHint(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectExec("UPDATE parking_slots SET").WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.RefreshReservedHint(repo.DB, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
