// Package pricing computes booking amounts from an hourly rate and a time
// window. All arithmetic is exact decimal; rounding happens once, at the end.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"parkspot/internal/apperrors"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Quote returns duration_hours × hourlyRate rounded half-up to two minor
// digits. Fails with a validation error when end <= start.
func Quote(hourlyRate decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	if !end.After(start) {
		return decimal.Zero, apperrors.Validation("end time must be after start time")
	}
	seconds := decimal.NewFromInt(int64(end.Sub(start) / time.Second))
	// DivisionPrecision default (16) is plenty for seconds/3600 at any
	// realistic booking length.
	hours := seconds.Div(secondsPerHour)
	return hours.Mul(hourlyRate).Round(2), nil
}

// DurationHours returns the window length in hours as an exact decimal.
func DurationHours(start, end time.Time) decimal.Decimal {
	if !end.After(start) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(end.Sub(start) / time.Second)).Div(secondsPerHour)
}
