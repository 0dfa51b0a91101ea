package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/repository"
)

func newJobService(t *testing.T) (*JobService, sqlmock.Sqlmock) {
	t.Helper()
	dbConn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })
	return NewJobService(
		repository.NewBookingRepository(dbConn),
		fakeClock{now: testNow},
		30*time.Minute,
		30*time.Minute,
	), mock
}

func TestSweepNoShows(t *testing.T) {
	svc, mock := newJobService(t)

	// Grace travels as seconds so SQL can add it as an interval.
	mock.ExpectQuery("UPDATE bookings SET status = 'no_show'").
		WithArgs(testNow, int64(1800)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101).AddRow(102))

	require.NoError(t, svc.SweepNoShows())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepNoShowsNothingDue(t *testing.T) {
	svc, mock := newJobService(t)

	mock.ExpectQuery("UPDATE bookings SET status = 'no_show'").
		WithArgs(testNow, int64(1800)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	require.NoError(t, svc.SweepNoShows())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepStalePending(t *testing.T) {
	svc, mock := newJobService(t)

	cutoff := testNow.Add(-30 * time.Minute)
	mock.ExpectExec("UPDATE bookings SET status = 'cancelled'").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, svc.SweepStalePending())
	assert.NoError(t, mock.ExpectationsWereMet())
}
