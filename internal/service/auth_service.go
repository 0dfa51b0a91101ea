package service

import (
	"golang.org/x/crypto/bcrypt"

	"parkspot/internal/apperrors"
	"parkspot/internal/auth"
	"parkspot/internal/entities"
	"parkspot/internal/repository"
)

// AuthService is the identity provider: it authenticates credentials and
// yields a signed token carrying a stable user id and role.
type AuthService struct {
	Users     *repository.UserRepository
	JWTSecret string
	Clock     Clock
}

func NewAuthService(users *repository.UserRepository, jwtSecret string, clock Clock) *AuthService {
	return &AuthService{Users: users, JWTSecret: jwtSecret, Clock: clock}
}

func (s *AuthService) Login(req *entities.LoginRequest) (*entities.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}
	user, err := s.Users.GetByEmail(req.Email)
	if err != nil {
		// Same response for unknown email and bad password.
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	token, err := auth.IssueToken(s.JWTSecret, user.ID, user.Role, s.Clock.Now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "could not issue token", err)
	}
	return &entities.LoginResponse{Token: token, UserID: user.ID, Role: user.Role}, nil
}
