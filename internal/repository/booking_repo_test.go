package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/apperrors"
	"parkspot/internal/db"
)

var (
	windowStart = time.Date(2026, 6, 1, 11, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 6, 1, 13, 30, 0, 0, time.UTC)
)

func newBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	dbConn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })
	return NewBookingRepository(dbConn), mock
}

func TestHasOverlapPredicate(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// Half-open windows: an existing booking overlaps when it starts before
	// our end and ends after our start. The new window travels as ($2, $3)
	// and is compared the other way around.
	mock.ExpectQuery(`start_time < \$3 AND end_time > \$2`).
		WithArgs(5, windowStart, windowEnd, 0).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	overlaps, err := repo.HasOverlap(repo.DB, 5, windowStart, windowEnd, 0)
	require.NoError(t, err)
	assert.True(t, overlaps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOverlapExcludesSelf(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(`id <> \$4`).
		WithArgs(5, windowStart, windowEnd, 101).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	overlaps, err := repo.HasOverlap(repo.DB, 5, windowStart, windowEnd, 101)
	require.NoError(t, err)
	assert.False(t, overlaps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMapsExclusionViolation(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23P01"})

	err := repo.Insert(repo.DB, &db.Booking{
		UserID:        7,
		ParkingSlotID: 5,
		StartTime:     windowStart,
		EndTime:       windowEnd,
		HourlyRate:    decimal.RequireFromString("100.00"),
		TotalAmount:   decimal.RequireFromString("250.00"),
		Status:        db.StatusPending,
	})
	assert.True(t, apperrors.Is(err, apperrors.KindOverlapConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStateMapsExclusionViolation(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery("UPDATE bookings SET").
		WillReturnError(&pq.Error{Code: "23P01"})

	err := repo.UpdateState(repo.DB, &db.Booking{ID: 101, Status: db.StatusConfirmed})
	assert.True(t, apperrors.Is(err, apperrors.KindOverlapConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByReferenceNotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery("WHERE b.booking_reference").WithArgs("NOPE0000").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByReference(repo.DB, "NOPE0000")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceHasFreeSlotPredicate(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// Same half-open comparison inside the NOT EXISTS probe.
	mock.ExpectQuery(`start_time < \$4 AND b\.end_time > \$3`).
		WithArgs(3, "ev", windowStart, windowEnd).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	free, err := repo.SpaceHasFreeSlot(3, "ev", windowStart, windowEnd)
	require.NoError(t, err)
	assert.True(t, free)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockSlot(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`pg_advisory_xact_lock\(\$1\)`).WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockSlot(repo.DB, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
