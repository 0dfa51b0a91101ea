package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"parkspot/internal/apperrors"
	"parkspot/internal/db"
	"parkspot/internal/geo"
)

type SpaceRepository struct {
	DB *sql.DB
}

func NewSpaceRepository(database *sql.DB) *SpaceRepository {
	return &SpaceRepository{DB: database}
}

const spaceColumns = `id, owner_id, name, description, address, latitude, longitude,
	hourly_rate, daily_rate, has_security, has_covered_parking, has_ev_charging,
	has_disability_access, is_active, created_at, updated_at`

func scanSpace(row interface {
	Scan(dest ...interface{}) error
}) (*db.ParkingSpace, error) {
	var s db.ParkingSpace
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Address,
		&s.Latitude, &s.Longitude, &s.HourlyRate, &s.DailyRate,
		&s.HasSecurity, &s.HasCoveredParking, &s.HasEVCharging,
		&s.HasDisabilityAccess, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpaceRepository) Create(s *db.ParkingSpace) error {
	query := `
		INSERT INTO parking_spaces
		(owner_id, name, description, address, latitude, longitude, hourly_rate, daily_rate,
		 has_security, has_covered_parking, has_ev_charging, has_disability_access, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query,
		s.OwnerID, s.Name, s.Description, s.Address, s.Latitude, s.Longitude,
		s.HourlyRate, s.DailyRate, s.HasSecurity, s.HasCoveredParking,
		s.HasEVCharging, s.HasDisabilityAccess, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SpaceRepository) GetByID(id int) (*db.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE id = $1`
	s, err := scanSpace(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("parking space not found")
		}
		return nil, fmt.Errorf("error querying parking space: %w", err)
	}
	return s, nil
}

func (r *SpaceRepository) Update(s *db.ParkingSpace) error {
	query := `
		UPDATE parking_spaces SET
			name = $1, description = $2, address = $3, latitude = $4, longitude = $5,
			hourly_rate = $6, daily_rate = $7, has_security = $8, has_covered_parking = $9,
			has_ev_charging = $10, has_disability_access = $11, is_active = $12,
			updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`
	err := r.DB.QueryRow(query,
		s.Name, s.Description, s.Address, s.Latitude, s.Longitude,
		s.HourlyRate, s.DailyRate, s.HasSecurity, s.HasCoveredParking,
		s.HasEVCharging, s.HasDisabilityAccess, s.IsActive, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("parking space not found")
		}
		return fmt.Errorf("error updating parking space: %w", err)
	}
	return nil
}

func (r *SpaceRepository) ListActive() ([]db.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE is_active = TRUE ORDER BY created_at DESC, id DESC`
	return r.list(query)
}

func (r *SpaceRepository) ListByOwner(ownerID int) ([]db.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(query, ownerID)
}

func (r *SpaceRepository) list(query string, args ...interface{}) ([]db.ParkingSpace, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying parking spaces: %w", err)
	}
	defer rows.Close()

	var spaces []db.ParkingSpace
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning parking space: %w", err)
		}
		spaces = append(spaces, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating parking spaces: %w", err)
	}
	return spaces, nil
}

// SearchCandidates returns active spaces passing the bounding-box and
// attribute filters. Precise distance filtering and ordering happen in the
// service layer.
func (r *SpaceRepository) SearchCandidates(box *geo.BoundingBox, maxHourlyRate *decimal.Decimal, amenities []string) ([]db.ParkingSpace, error) {
	var (
		conds = []string{"is_active = TRUE"}
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if box != nil {
		conds = append(conds, fmt.Sprintf("latitude BETWEEN %s AND %s", arg(box.MinLat), arg(box.MaxLat)))
		conds = append(conds, fmt.Sprintf("longitude BETWEEN %s AND %s", arg(box.MinLng), arg(box.MaxLng)))
	}
	if maxHourlyRate != nil {
		conds = append(conds, fmt.Sprintf("hourly_rate <= %s", arg(*maxHourlyRate)))
	}
	for _, a := range amenities {
		switch a {
		case "security":
			conds = append(conds, "has_security = TRUE")
		case "covered":
			conds = append(conds, "has_covered_parking = TRUE")
		case "ev_charging":
			conds = append(conds, "has_ev_charging = TRUE")
		case "disability_access":
			conds = append(conds, "has_disability_access = TRUE")
		}
	}

	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY id`
	return r.list(query, args...)
}

// ListInBounds returns active spaces inside a map viewport.
func (r *SpaceRepository) ListInBounds(south, west, north, east float64) ([]db.ParkingSpace, error) {
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces
		WHERE is_active = TRUE
		  AND latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY id`
	return r.list(query, south, north, west, east)
}

// SlotCounts returns the total and administratively available slot counts
// for a space.
func (r *SpaceRepository) SlotCounts(spaceID int) (total, available int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_available)
		FROM parking_slots WHERE parking_space_id = $1`
	if err = r.DB.QueryRow(query, spaceID).Scan(&total, &available); err != nil {
		return 0, 0, fmt.Errorf("error counting slots: %w", err)
	}
	return total, available, nil
}
