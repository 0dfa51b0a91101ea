package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller: a stable user id plus a role.
type Identity struct {
	UserID int
	Role   string
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

const tokenTTL = 24 * time.Hour

// IssueToken signs an HS256 JWT carrying the user id and role.
func IssueToken(secret string, userID int, role string, now time.Time) (string, error) {
	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the identity it carries.
func ParseToken(secret, tokenString string) (*Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	var userID int
	if _, err := fmt.Sscanf(c.Subject, "%d", &userID); err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}
	return &Identity{UserID: userID, Role: c.Role}, nil
}
