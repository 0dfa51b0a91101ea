package db

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Roles recognized by the identity layer.
const (
	RoleRegular = "regular"
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
)

// Booking statuses. Confirmed and active are the only statuses that block a
// slot for their window.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Slot types.
const (
	SlotStandard   = "standard"
	SlotCompact    = "compact"
	SlotLarge      = "large"
	SlotMotorcycle = "motorcycle"
	SlotDisabled   = "disabled"
	SlotEV         = "ev"
)

// ValidSlotType reports whether t is one of the known slot types.
func ValidSlotType(t string) bool {
	switch t {
	case SlotStandard, SlotCompact, SlotLarge, SlotMotorcycle, SlotDisabled, SlotEV:
		return true
	}
	return false
}

// IsTerminalStatus reports whether a booking status accepts no further
// transitions.
func IsTerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type User struct {
	ID           int
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
}

type ParkingSpace struct {
	ID                  int
	OwnerID             int
	Name                string
	Description         string
	Address             string
	Latitude            decimal.Decimal
	Longitude           decimal.Decimal
	HourlyRate          decimal.Decimal
	DailyRate           decimal.NullDecimal
	HasSecurity         bool
	HasCoveredParking   bool
	HasEVCharging       bool
	HasDisabilityAccess bool
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type ParkingSlot struct {
	ID             int
	ParkingSpaceID int
	SlotNumber     string
	SlotType       string
	IsAvailable    bool
	IsReserved     bool
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Booking struct {
	ID                  int
	UserID              int
	ParkingSlotID       int
	VehicleNumber       string
	VehicleType         string
	StartTime           time.Time
	EndTime             time.Time
	ActualStartTime     sql.NullTime
	ActualEndTime       sql.NullTime
	HourlyRate          decimal.Decimal
	TotalAmount         decimal.Decimal
	PaidAmount          decimal.Decimal
	Status              string
	BookingReference    string
	SpecialInstructions string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
