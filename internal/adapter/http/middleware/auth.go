package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/auth"
	"github.com/iho/goloan/internal/infrastructure/logger"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ClaimsContextKey is the context key for the verified token claims
	ClaimsContextKey ContextKey = "claims"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware creates an authentication middleware
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			ctx = logger.WithSubject(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// Check role permissions
			switch minRole {
			case domain.RoleAdmin:
				if claims.Role != domain.RoleAdmin {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			case domain.RoleOperator:
				if !claims.Role.CanCreate() {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			case domain.RoleViewer:
				// All authenticated callers can view
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireWriteRole lets safe methods through and requires the operator role
// for everything else.
func RequireWriteRole(next http.Handler) http.Handler {
	guarded := RequireRole(domain.RoleOperator)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			guarded.ServeHTTP(w, r)
		}
	})
}

// ClaimsFromContext extracts the verified token claims from context
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}
