package middleware

import (
	"context"
	"net/http"
	"strings"

	"warehouse-backend/internal/auth"
)

type contextKey string

const (
	StaffIDKey   contextKey = "staff_id"
	StaffNameKey contextKey = "staff_name"
	IsAdminKey   contextKey = "is_admin"
)

// AuthMiddleware guards the admin surface (staff management, imports, FNSKU
// uploads). Scan stations are open on the warehouse LAN and never carry a
// token.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the bearer token and puts staff identity on the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.claimsFromRequest(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), StaffIDKey, claims.StaffID)
		ctx = context.WithValue(ctx, StaffNameKey, claims.Name)
		ctx = context.WithValue(ctx, IsAdminKey, claims.IsAdmin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin validates the token and rejects non-admin staff.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.claimsFromRequest(w, r)
		if !ok {
			return
		}

		if !claims.IsAdmin {
			http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), StaffIDKey, claims.StaffID)
		ctx = context.WithValue(ctx, StaffNameKey, claims.Name)
		ctx = context.WithValue(ctx, IsAdminKey, true)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) claimsFromRequest(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	return claims, true
}

// GetStaffIDFromContext extracts the authenticated staff id.
func GetStaffIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(StaffIDKey).(int)
	return id, ok
}

// GetStaffNameFromContext extracts the authenticated staff name.
func GetStaffNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(StaffNameKey).(string)
	return name, ok
}
