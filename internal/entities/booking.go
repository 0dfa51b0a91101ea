package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingRequest struct {
	ParkingSlotID       int       `json:"parking_slot_id"`
	VehicleNumber       string    `json:"vehicle_number"`
	VehicleType         string    `json:"vehicle_type"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	SpecialInstructions string    `json:"special_instructions"`
}

type BookingResponse struct {
	ID                  int             `json:"id"`
	BookingReference    string          `json:"booking_reference"`
	UserID              int             `json:"user_id"`
	ParkingSlotID       int             `json:"parking_slot_id"`
	SlotNumber          string          `json:"slot_number,omitempty"`
	SpaceName           string          `json:"parking_space_name,omitempty"`
	VehicleNumber       string          `json:"vehicle_number"`
	VehicleType         string          `json:"vehicle_type"`
	StartTime           time.Time       `json:"start_time"`
	EndTime             time.Time       `json:"end_time"`
	ActualStartTime     *time.Time      `json:"actual_start_time,omitempty"`
	ActualEndTime       *time.Time      `json:"actual_end_time,omitempty"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	DurationHours       decimal.Decimal `json:"duration_hours"`
	Status              string          `json:"status"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type PayRequest struct {
	PreferredMethod string `json:"preferred_method,omitempty"`
}

type PayResponse struct {
	BookingReference string `json:"booking_reference"`
	OrderID          string `json:"order_id"`
	AmountMinor      int64  `json:"amount_minor_units"`
	Currency         string `json:"currency"`
}

type ConfirmRequest struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Signature string `json:"signature"`
}
