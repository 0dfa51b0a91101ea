package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parkspot/internal/apperrors"
	"parkspot/internal/db"
)

type SlotRepository struct {
	DB *sql.DB
}

func NewSlotRepository(database *sql.DB) *SlotRepository {
	return &SlotRepository{DB: database}
}

// CreateBatch inserts slots for a space in one transaction. A duplicate slot
// number within the space rejects the whole batch.
func (r *SlotRepository) CreateBatch(spaceID int, slots []db.ParkingSlot) ([]db.ParkingSlot, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning slot insert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO parking_slots (parking_space_id, slot_number, slot_type, is_available, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_reserved, created_at, updated_at`
	for i := range slots {
		s := &slots[i]
		s.ParkingSpaceID = spaceID
		err := tx.QueryRow(query, spaceID, s.SlotNumber, s.SlotType, s.IsAvailable, s.Notes).
			Scan(&s.ID, &s.IsReserved, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return nil, apperrors.Validation(fmt.Sprintf("slot number %q already exists in this space", s.SlotNumber))
			}
			return nil, fmt.Errorf("error inserting slot %q: %w", s.SlotNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing slot insert: %w", err)
	}
	return slots, nil
}

func (r *SlotRepository) GetByID(id int) (*db.ParkingSlot, error) {
	var s db.ParkingSlot
	query := `
		SELECT id, parking_space_id, slot_number, slot_type, is_available, is_reserved, notes, created_at, updated_at
		FROM parking_slots WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&s.ID, &s.ParkingSpaceID, &s.SlotNumber, &s.SlotType,
		&s.IsAvailable, &s.IsReserved, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("parking slot not found")
		}
		return nil, fmt.Errorf("error querying parking slot: %w", err)
	}
	return &s, nil
}

func (r *SlotRepository) ListBySpace(spaceID int) ([]db.ParkingSlot, error) {
	query := `
		SELECT id, parking_space_id, slot_number, slot_type, is_available, is_reserved, notes, created_at, updated_at
		FROM parking_slots WHERE parking_space_id = $1 ORDER BY slot_number`
	rows, err := r.DB.Query(query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("error querying parking slots: %w", err)
	}
	defer rows.Close()

	var slots []db.ParkingSlot
	for rows.Next() {
		var s db.ParkingSlot
		if err := rows.Scan(
			&s.ID, &s.ParkingSpaceID, &s.SlotNumber, &s.SlotType,
			&s.IsAvailable, &s.IsReserved, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning parking slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating parking slots: %w", err)
	}
	return slots, nil
}

// RefreshReservedHint recomputes the cached is_reserved flag from current
// confirmed/active bookings. The flag is a display hint only; availability
// decisions always go back to the bookings table.
func (r *SlotRepository) RefreshReservedHint(q Queryer, slotID int) error {
	query := `
		UPDATE parking_slots SET
			is_reserved = EXISTS (
				SELECT 1 FROM bookings
				WHERE parking_slot_id = $1
				  AND status IN ('confirmed', 'active')
				  AND end_time > NOW()
			),
			updated_at = NOW()
		WHERE id = $1`
	if _, err := q.Exec(query, slotID); err != nil {
		return fmt.Errorf("error refreshing reserved hint: %w", err)
	}
	return nil
}
