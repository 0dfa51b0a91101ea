package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/apperrors"
	"parkspot/internal/auth"
	"parkspot/internal/repository"
)

func newStatsService(t *testing.T) (*StatsService, sqlmock.Sqlmock) {
	t.Helper()
	dbConn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })
	return NewStatsService(
		repository.NewStatsRepository(dbConn),
		repository.NewSpaceRepository(dbConn),
		fakeClock{now: testNow},
	), mock
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0.0, occupancyRate(0, 0))
	assert.Equal(t, 0.0, occupancyRate(5, 0)) // no slots, never divide
	assert.Equal(t, 50.0, occupancyRate(1, 2))
	assert.Equal(t, 33.33, occupancyRate(1, 3))
	assert.Equal(t, 100.0, occupancyRate(4, 4))
}

func TestSpaceStatsForbiddenForStranger(t *testing.T) {
	svc, mock := newStatsService(t)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
		WillReturnRows(spaceRows(true))

	_, err := svc.SpaceStats(3, &auth.Identity{UserID: 7, Role: "regular"})
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceStats(t *testing.T) {
	svc, mock := newStatsService(t)

	dayStart := time.Date(2100, 6, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	month := time.Date(2100, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
		WillReturnRows(spaceRows(true))
	mock.ExpectQuery("FROM bookings b").WithArgs(3, dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "today"}).AddRow(12, 3, 2))
	mock.ExpectQuery("status = 'completed'").WithArgs(3, month).
		WillReturnRows(sqlmock.NewRows([]string{"total", "monthly"}).AddRow("840.00", "120.50"))
	mock.ExpectQuery("FROM parking_slots WHERE parking_space_id").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count", "filtered"}).AddRow(4, 4))

	stats, err := svc.SpaceStats(3, &auth.Identity{UserID: 9, Role: "owner"})
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalBookings)
	assert.Equal(t, 3, stats.ActiveBookings)
	assert.Equal(t, 2, stats.TodayBookings)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("840.00")))
	assert.True(t, stats.MonthlyRevenue.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, 75.0, stats.OccupancyRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceStatsAdminAllowed(t *testing.T) {
	svc, mock := newStatsService(t)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
		WillReturnRows(spaceRows(true))
	mock.ExpectQuery("FROM bookings b").
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "today"}).AddRow(0, 0, 0))
	mock.ExpectQuery("status = 'completed'").
		WillReturnRows(sqlmock.NewRows([]string{"total", "monthly"}).AddRow("0", "0"))
	mock.ExpectQuery("FROM parking_slots WHERE parking_space_id").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count", "filtered"}).AddRow(0, 0))

	stats, err := svc.SpaceStats(3, &auth.Identity{UserID: 1, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.OccupancyRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboard(t *testing.T) {
	svc, mock := newStatsService(t)

	dayStart := time.Date(2100, 6, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	month := time.Date(2100, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("COUNT\\(DISTINCT sp.id\\)").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"spaces", "slots", "available"}).AddRow(2, 10, 8))
	mock.ExpectQuery("sp.owner_id").WithArgs(9, dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "today"}).AddRow(40, 5, 6))
	mock.ExpectQuery("status = 'completed'").WithArgs(9, month).
		WillReturnRows(sqlmock.NewRows([]string{"total", "monthly"}).AddRow("1500.00", "300.00"))

	stats, err := svc.Dashboard(&auth.Identity{UserID: 9, Role: "owner"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSpaces)
	assert.Equal(t, 10, stats.TotalSlots)
	assert.Equal(t, 8, stats.AvailableSlots)
	assert.Equal(t, 5, stats.ActiveBookings)
	assert.Equal(t, 6, stats.TodayBookings)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("1500.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
