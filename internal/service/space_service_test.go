package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/apperrors"
	"parkspot/internal/auth"
	"parkspot/internal/entities"
	"parkspot/internal/repository"
)

var spaceOwner = &auth.Identity{UserID: 9, Role: "owner"}

func newSpaceService(t *testing.T) (*SpaceService, sqlmock.Sqlmock) {
	t.Helper()
	dbConn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })
	return NewSpaceService(
		repository.NewSpaceRepository(dbConn),
		repository.NewSlotRepository(dbConn),
	), mock
}

func spaceRequest() *entities.SpaceRequest {
	return &entities.SpaceRequest{
		Name:       "Center Lot",
		Address:    "1 Main St",
		Latitude:   decimal.RequireFromString("40.4168"),
		Longitude:  decimal.RequireFromString("-3.7038"),
		HourlyRate: decimal.RequireFromString("100.00"),
	}
}

func TestCreateSpace(t *testing.T) {
	svc, mock := newSpaceService(t)

	mock.ExpectQuery("INSERT INTO parking_spaces").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, testNow, testNow))
	mock.ExpectQuery("FROM parking_slots WHERE parking_space_id").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count", "filtered"}).AddRow(0, 0))

	resp, err := svc.Create(spaceOwner, spaceRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ID)
	assert.Equal(t, 9, resp.OwnerID, "caller becomes the owner")
	assert.True(t, resp.IsActive, "active unless stated otherwise")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSpaceValidation(t *testing.T) {
	svc, _ := newSpaceService(t)

	tests := []struct {
		name   string
		mutate func(*entities.SpaceRequest)
	}{
		{"missing name", func(r *entities.SpaceRequest) { r.Name = "" }},
		{"missing address", func(r *entities.SpaceRequest) { r.Address = "" }},
		{"latitude out of range", func(r *entities.SpaceRequest) { r.Latitude = decimal.NewFromInt(91) }},
		{"longitude out of range", func(r *entities.SpaceRequest) { r.Longitude = decimal.NewFromInt(-181) }},
		{"zero hourly rate", func(r *entities.SpaceRequest) { r.HourlyRate = decimal.Zero }},
		{"negative hourly rate", func(r *entities.SpaceRequest) { r.HourlyRate = decimal.NewFromInt(-5) }},
		{"zero daily rate", func(r *entities.SpaceRequest) {
			r.DailyRate = decimal.NewNullDecimal(decimal.Zero)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := spaceRequest()
			tt.mutate(req)
			_, err := svc.Create(spaceOwner, req)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		})
	}
}

func TestUpdateSpaceForbiddenForStranger(t *testing.T) {
	svc, mock := newSpaceService(t)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
		WillReturnRows(spaceRows(true))

	stranger := &auth.Identity{UserID: 42, Role: "owner"}
	_, err := svc.Update(3, stranger, spaceRequest())
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSpaceAdminAllowed(t *testing.T) {
	svc, mock := newSpaceService(t)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
		WillReturnRows(spaceRows(true))
	mock.ExpectQuery("UPDATE parking_spaces SET").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(testNow))
	mock.ExpectQuery("FROM parking_slots WHERE parking_space_id").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count", "filtered"}).AddRow(2, 2))

	admin := &auth.Identity{UserID: 1, Role: "admin"}
	resp, err := svc.Update(3, admin, spaceRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalSlots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSpaceWithSlots(t *testing.T) {
	svc, mock := newSpaceService(t)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
		WillReturnRows(spaceRows(true))
	mock.ExpectQuery("FROM parking_slots WHERE parking_space_id").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count", "filtered"}).AddRow(1, 1))
	mock.ExpectQuery("ORDER BY slot_number").WithArgs(3).
		WillReturnRows(slotRows(true))

	resp, err := svc.Get(3)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "A1", resp.Slots[0].SlotNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSpaceNotFound(t *testing.T) {
	svc, mock := newSpaceService(t)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Get(404)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSlots(t *testing.T) {
	svc, mock := newSpaceService(t)

	mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
		WillReturnRows(spaceRows(true))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO parking_slots").
		WithArgs(3, "B1", "standard", true, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_reserved", "created_at", "updated_at"}).
			AddRow(6, false, testNow, testNow))
	mock.ExpectQuery("INSERT INTO parking_slots").
		WithArgs(3, "B2", "ev", true, "charger on the left").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_reserved", "created_at", "updated_at"}).
			AddRow(7, false, testNow, testNow))
	mock.ExpectCommit()

	resp, err := svc.AddSlots(3, spaceOwner, &entities.AddSlotsRequest{
		Slots: []entities.SlotRequest{
			{SlotNumber: "B1"}, // slot type defaults to standard
			{SlotNumber: "B2", SlotType: "ev", Notes: "charger on the left"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "standard", resp[0].SlotType)
	assert.Equal(t, "ev", resp[1].SlotType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSlotsValidation(t *testing.T) {
	svc, mock := newSpaceService(t)

	tests := []struct {
		name string
		req  entities.AddSlotsRequest
	}{
		{"empty batch", entities.AddSlotsRequest{}},
		{"missing slot number", entities.AddSlotsRequest{Slots: []entities.SlotRequest{{}}}},
		{"unknown slot type", entities.AddSlotsRequest{Slots: []entities.SlotRequest{
			{SlotNumber: "B1", SlotType: "helipad"},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectQuery("FROM parking_spaces WHERE id").WithArgs(3).
				WillReturnRows(spaceRows(true))
			_, err := svc.AddSlots(3, spaceOwner, &tt.req)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
