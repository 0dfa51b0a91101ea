package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/apperrors"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestQuote(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rate     string
		duration time.Duration
		want     string
	}{
		{"two and a half hours", "100.00", 2*time.Hour + 30*time.Minute, "250.00"},
		{"exactly one hour", "12.50", time.Hour, "12.50"},
		{"one minute", "60.00", time.Minute, "1.00"},
		{"rounds half up at the end", "0.01", 30 * time.Minute, "0.01"},
		{"sub-cent truncates down", "0.01", 15 * time.Minute, "0.00"},
		{"full day", "3.75", 24 * time.Hour, "90.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(mustDecimal(t, tt.rate), base, base.Add(tt.duration))
			require.NoError(t, err)
			assert.True(t, got.Equal(mustDecimal(t, tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestQuoteInvalidWindow(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rate := mustDecimal(t, "10.00")

	_, err := Quote(rate, base, base)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = Quote(rate, base, base.Add(-time.Hour))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestQuoteNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style drift must not appear: 6 minutes at 1.00/h is
	// exactly 0.10.
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	got, err := Quote(mustDecimal(t, "1.00"), base, base.Add(6*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "0.10", got.StringFixed(2))
}

func TestDurationHours(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2.5", DurationHours(base, base.Add(2*time.Hour+30*time.Minute)).String())
	assert.True(t, DurationHours(base, base).IsZero())
}
