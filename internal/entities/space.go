package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type SpaceRequest struct {
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	Address             string              `json:"address"`
	Latitude            decimal.Decimal     `json:"latitude"`
	Longitude           decimal.Decimal     `json:"longitude"`
	HourlyRate          decimal.Decimal     `json:"hourly_rate"`
	DailyRate           decimal.NullDecimal `json:"daily_rate"`
	HasSecurity         bool                `json:"has_security"`
	HasCoveredParking   bool                `json:"has_covered_parking"`
	HasEVCharging       bool                `json:"has_ev_charging"`
	HasDisabilityAccess bool                `json:"has_disability_access"`
	IsActive            *bool               `json:"is_active,omitempty"`
}

type SpaceResponse struct {
	ID                  int                 `json:"id"`
	OwnerID             int                 `json:"owner_id"`
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	Address             string              `json:"address"`
	Latitude            decimal.Decimal     `json:"latitude"`
	Longitude           decimal.Decimal     `json:"longitude"`
	HourlyRate          decimal.Decimal     `json:"hourly_rate"`
	DailyRate           decimal.NullDecimal `json:"daily_rate"`
	HasSecurity         bool                `json:"has_security"`
	HasCoveredParking   bool                `json:"has_covered_parking"`
	HasEVCharging       bool                `json:"has_ev_charging"`
	HasDisabilityAccess bool                `json:"has_disability_access"`
	IsActive            bool                `json:"is_active"`
	TotalSlots          int                 `json:"total_slots"`
	AvailableSlots      int                 `json:"available_slots"`
	DistanceKm          *float64            `json:"distance_km,omitempty"`
	Slots               []SlotResponse      `json:"slots,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

type SlotRequest struct {
	SlotNumber  string `json:"slot_number"`
	SlotType    string `json:"slot_type"`
	IsAvailable *bool  `json:"is_available,omitempty"`
	Notes       string `json:"notes"`
}

type AddSlotsRequest struct {
	Slots []SlotRequest `json:"slots"`
}

type SlotResponse struct {
	ID          int    `json:"id"`
	SlotNumber  string `json:"slot_number"`
	SlotType    string `json:"slot_type"`
	IsAvailable bool   `json:"is_available"`
	IsReserved  bool   `json:"is_reserved"`
	Notes       string `json:"notes,omitempty"`
}

type MapMarker struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	AvailableSlots int             `json:"available_slots"`
	TotalSlots     int             `json:"total_slots"`
	Address        string          `json:"address"`
}
