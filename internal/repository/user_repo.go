package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkspot/internal/apperrors"
	"parkspot/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

func (r *UserRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	query := `SELECT id, email, password_hash, name, role, created_at FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(id int) (*db.User, error) {
	var u db.User
	query := `SELECT id, email, password_hash, name, role, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}
	return &u, nil
}
