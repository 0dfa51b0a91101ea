package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// SearchParams are the validated parking-search parameters. Latitude and
// Longitude come paired or not at all; RadiusKm is clamped by the service to
// [0.1, 50].
type SearchParams struct {
	Latitude      *float64
	Longitude     *float64
	RadiusKm      float64
	StartTime     *time.Time
	EndTime       *time.Time
	SlotType      string
	MaxHourlyRate *decimal.Decimal
	Amenities     []string
}
