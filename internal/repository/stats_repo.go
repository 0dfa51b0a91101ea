package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type StatsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(database *sql.DB) *StatsRepository {
	return &StatsRepository{DB: database}
}

// BookingCounts holds read-side booking rollups for a space or an owner.
type BookingCounts struct {
	Total  int
	Active int
	Today  int
}

// Revenue holds paid_amount sums over completed bookings.
type Revenue struct {
	Total   decimal.Decimal
	Monthly decimal.Decimal
}

// SpaceBookingCounts returns booking counts across all slots of a space.
// dayStart/dayEnd and monthStart come from the caller's clock so the rollup
// is deterministic in tests.
func (r *StatsRepository) SpaceBookingCounts(spaceID int, dayStart, dayEnd time.Time) (*BookingCounts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE b.status IN ('confirmed', 'active')),
		       COUNT(*) FILTER (WHERE b.start_time >= $2 AND b.start_time < $3)
		FROM bookings b
		JOIN parking_slots ps ON b.parking_slot_id = ps.id
		WHERE ps.parking_space_id = $1`
	var c BookingCounts
	if err := r.DB.QueryRow(query, spaceID, dayStart, dayEnd).Scan(&c.Total, &c.Active, &c.Today); err != nil {
		return nil, fmt.Errorf("error counting space bookings: %w", err)
	}
	return &c, nil
}

func (r *StatsRepository) SpaceRevenue(spaceID int, monthStart time.Time) (*Revenue, error) {
	query := `
		SELECT COALESCE(SUM(b.paid_amount), 0),
		       COALESCE(SUM(b.paid_amount) FILTER (WHERE b.created_at >= $2), 0)
		FROM bookings b
		JOIN parking_slots ps ON b.parking_slot_id = ps.id
		WHERE ps.parking_space_id = $1 AND b.status = 'completed'`
	var rev Revenue
	if err := r.DB.QueryRow(query, spaceID, monthStart).Scan(&rev.Total, &rev.Monthly); err != nil {
		return nil, fmt.Errorf("error summing space revenue: %w", err)
	}
	return &rev, nil
}

// OwnerBookingCounts aggregates across every space the owner holds.
func (r *StatsRepository) OwnerBookingCounts(ownerID int, dayStart, dayEnd time.Time) (*BookingCounts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE b.status IN ('confirmed', 'active')),
		       COUNT(*) FILTER (WHERE b.start_time >= $2 AND b.start_time < $3)
		FROM bookings b
		JOIN parking_slots ps ON b.parking_slot_id = ps.id
		JOIN parking_spaces sp ON ps.parking_space_id = sp.id
		WHERE sp.owner_id = $1`
	var c BookingCounts
	if err := r.DB.QueryRow(query, ownerID, dayStart, dayEnd).Scan(&c.Total, &c.Active, &c.Today); err != nil {
		return nil, fmt.Errorf("error counting owner bookings: %w", err)
	}
	return &c, nil
}

func (r *StatsRepository) OwnerRevenue(ownerID int, monthStart time.Time) (*Revenue, error) {
	query := `
		SELECT COALESCE(SUM(b.paid_amount), 0),
		       COALESCE(SUM(b.paid_amount) FILTER (WHERE b.created_at >= $2), 0)
		FROM bookings b
		JOIN parking_slots ps ON b.parking_slot_id = ps.id
		JOIN parking_spaces sp ON ps.parking_space_id = sp.id
		WHERE sp.owner_id = $1 AND b.status = 'completed'`
	var rev Revenue
	if err := r.DB.QueryRow(query, ownerID, monthStart).Scan(&rev.Total, &rev.Monthly); err != nil {
		return nil, fmt.Errorf("error summing owner revenue: %w", err)
	}
	return &rev, nil
}

// OwnerSlotCounts returns space and slot totals across an owner's spaces.
func (r *StatsRepository) OwnerSlotCounts(ownerID int) (spaces, slots, available int, err error) {
	query := `
		SELECT COUNT(DISTINCT sp.id),
		       COUNT(ps.id),
		       COUNT(ps.id) FILTER (WHERE ps.is_available)
		FROM parking_spaces sp
		LEFT JOIN parking_slots ps ON ps.parking_space_id = sp.id
		WHERE sp.owner_id = $1`
	if err = r.DB.QueryRow(query, ownerID).Scan(&spaces, &slots, &available); err != nil {
		return 0, 0, 0, fmt.Errorf("error counting owner slots: %w", err)
	}
	return spaces, slots, available, nil
}
