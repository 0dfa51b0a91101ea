package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"parkspot/internal/apperrors"
	"parkspot/internal/db"
)

// Postgres error codes surfaced as domain errors.
const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

// BookingDetail is a booking joined with its slot and space for responses
// and access checks.
type BookingDetail struct {
	db.Booking
	SlotNumber   string
	SpaceID      int
	SpaceName    string
	SpaceOwnerID int
}

func (r *BookingRepository) Begin() (*sql.Tx, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return tx, nil
}

// LockSlot takes the per-slot advisory lock for the current transaction.
// Every check-then-write on a slot's bookings must hold it, so two
// concurrent attempts on the same slot serialize while different slots
// proceed in parallel.
func (r *BookingRepository) LockSlot(q Queryer, slotID int) error {
	if _, err := q.Exec(`SELECT pg_advisory_xact_lock($1)`, slotID); err != nil {
		return fmt.Errorf("error acquiring slot lock: %w", err)
	}
	return nil
}

// HasOverlap reports whether any confirmed/active booking on the slot
// overlaps [start, end). Half-open semantics: touching endpoints do not
// overlap. excludeBookingID ignores one booking (0 to ignore none), for
// reschedule and confirmation flows.
func (r *BookingRepository) HasOverlap(q Queryer, slotID int, start, end time.Time, excludeBookingID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE parking_slot_id = $1
			  AND status IN ('confirmed', 'active')
			  AND start_time < $3
			  AND end_time > $2
			  AND id <> $4
		)`
	var overlaps bool
	if err := q.QueryRow(query, slotID, start, end, excludeBookingID).Scan(&overlaps); err != nil {
		return false, fmt.Errorf("error checking booking overlap: %w", err)
	}
	return overlaps, nil
}

func (r *BookingRepository) Insert(q Queryer, b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(user_id, parking_slot_id, vehicle_number, vehicle_type, start_time, end_time,
		 hourly_rate, total_amount, paid_amount, status, booking_reference, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`
	err := q.QueryRow(query,
		b.UserID, b.ParkingSlotID, b.VehicleNumber, b.VehicleType,
		b.StartTime, b.EndTime, b.HourlyRate, b.TotalAmount, b.PaidAmount,
		b.Status, b.BookingReference, b.SpecialInstructions,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pqExclusionViolation:
				return apperrors.OverlapConflict("slot is already booked for an overlapping window")
			case pqUniqueViolation:
				return apperrors.Wrap(apperrors.KindInternal, "booking reference collision", err)
			}
		}
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

// UpdateState persists a status transition together with the fields the
// transition touched. The exclusion constraint turns a lost confirmation
// race into an overlap conflict even if the in-transaction check was
// somehow bypassed.
func (r *BookingRepository) UpdateState(q Queryer, b *db.Booking) error {
	query := `
		UPDATE bookings SET
			status = $1, actual_start_time = $2, actual_end_time = $3,
			paid_amount = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`
	err := q.QueryRow(query, b.Status, b.ActualStartTime, b.ActualEndTime, b.PaidAmount, b.ID).
		Scan(&b.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation {
			return apperrors.OverlapConflict("slot is already booked for an overlapping window")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("booking not found")
		}
		return fmt.Errorf("error updating booking state: %w", err)
	}
	return nil
}

const bookingDetailQuery = `
	SELECT b.id, b.user_id, b.parking_slot_id, b.vehicle_number, b.vehicle_type,
	       b.start_time, b.end_time, b.actual_start_time, b.actual_end_time,
	       b.hourly_rate, b.total_amount, b.paid_amount, b.status,
	       b.booking_reference, b.special_instructions, b.created_at, b.updated_at,
	       ps.slot_number, sp.id, sp.name, sp.owner_id
	FROM bookings b
	JOIN parking_slots ps ON b.parking_slot_id = ps.id
	JOIN parking_spaces sp ON ps.parking_space_id = sp.id`

func scanBookingDetail(row interface {
	Scan(dest ...interface{}) error
}) (*BookingDetail, error) {
	var d BookingDetail
	err := row.Scan(
		&d.ID, &d.UserID, &d.ParkingSlotID, &d.VehicleNumber, &d.VehicleType,
		&d.StartTime, &d.EndTime, &d.ActualStartTime, &d.ActualEndTime,
		&d.HourlyRate, &d.TotalAmount, &d.PaidAmount, &d.Status,
		&d.BookingReference, &d.SpecialInstructions, &d.CreatedAt, &d.UpdatedAt,
		&d.SlotNumber, &d.SpaceID, &d.SpaceName, &d.SpaceOwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *BookingRepository) GetByReference(q Queryer, reference string) (*BookingDetail, error) {
	query := bookingDetailQuery + ` WHERE b.booking_reference = $1`
	d, err := scanBookingDetail(q.QueryRow(query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return d, nil
}

// GetByReferenceForUpdate row-locks the booking inside tx so concurrent
// transitions on the same booking serialize.
func (r *BookingRepository) GetByReferenceForUpdate(tx *sql.Tx, reference string) (*BookingDetail, error) {
	query := bookingDetailQuery + ` WHERE b.booking_reference = $1 FOR UPDATE OF b`
	d, err := scanBookingDetail(tx.QueryRow(query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, fmt.Errorf("error querying booking for update: %w", err)
	}
	return d, nil
}

func (r *BookingRepository) ListByUser(userID int) ([]BookingDetail, error) {
	query := bookingDetailQuery + ` WHERE b.user_id = $1 ORDER BY b.created_at DESC, b.id DESC`
	return r.listDetails(query, userID)
}

// ListByOwner returns bookings on any slot of any space the owner holds.
func (r *BookingRepository) ListByOwner(ownerID int) ([]BookingDetail, error) {
	query := bookingDetailQuery + ` WHERE sp.owner_id = $1 ORDER BY b.created_at DESC, b.id DESC`
	return r.listDetails(query, ownerID)
}

func (r *BookingRepository) listDetails(query string, args ...interface{}) ([]BookingDetail, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	var details []BookingDetail
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		details = append(details, *d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return details, nil
}

// SpaceHasFreeSlot reports whether the space has at least one enabled slot
// (matching slotType when non-empty) with no confirmed/active booking
// overlapping [start, end). One EXISTS probe instead of a per-slot scan.
func (r *BookingRepository) SpaceHasFreeSlot(spaceID int, slotType string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM parking_slots ps
			WHERE ps.parking_space_id = $1
			  AND ps.is_available = TRUE
			  AND ($2 = '' OR ps.slot_type = $2)
			  AND NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.parking_slot_id = ps.id
				  AND b.status IN ('confirmed', 'active')
				  AND b.start_time < $4
				  AND b.end_time > $3
			  )
		)`
	var free bool
	if err := r.DB.QueryRow(query, spaceID, slotType, start, end).Scan(&free); err != nil {
		return false, fmt.Errorf("error probing free slot for space %d: %w", spaceID, err)
	}
	return free, nil
}

// MarkNoShows flips confirmed bookings that were never checked in and active
// bookings that were never checked out to no_show once end_time plus the
// grace window has passed. asOf comes from the injected clock so the sweep
// is deterministic.
func (r *BookingRepository) MarkNoShows(asOf time.Time, grace time.Duration) ([]int, error) {
	query := `
		UPDATE bookings SET status = 'no_show', updated_at = NOW()
		WHERE end_time + $2 * interval '1 second' < $1
		  AND (
			(status = 'confirmed' AND actual_start_time IS NULL)
			OR (status = 'active' AND actual_end_time IS NULL)
		  )
		RETURNING id`
	rows, err := r.DB.Query(query, asOf, int64(grace.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("error marking no-shows: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning no-show id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating no-show ids: %w", err)
	}
	return ids, nil
}

// CancelStalePending cancels pending bookings created before the cutoff.
// Bookings are never hard-deleted; cancellation preserves the audit trail.
func (r *BookingRepository) CancelStalePending(before time.Time) (int64, error) {
	query := `
		UPDATE bookings SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1`
	result, err := r.DB.Exec(query, before)
	if err != nil {
		return 0, fmt.Errorf("error cancelling stale pending bookings: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
