package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"parkspot/internal/db"
)

type contextKey string

const identityKey contextKey = "identity"

// Middleware authenticates requests with a Bearer JWT and stores the caller
// identity in the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "missing bearer token")
				return
			}
			ident, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the authenticated identity, or nil on unauthenticated
// requests.
func FromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey).(*Identity)
	return ident
}

// CanMutate reports whether the identity may mutate a resource owned by
// ownerID. Admins may mutate anything.
func (i *Identity) CanMutate(ownerID int) bool {
	return i.UserID == ownerID || i.Role == db.RoleAdmin
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "kind": "unauthorized"})
}
