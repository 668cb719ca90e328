package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates token validation to AuthService.
type Middleware struct {
	authService AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth validates the bearer token and sets claims in context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w, "Authentication required")
			return
		}
		next(w, r.WithContext(SetClaims(r.Context(), claims)))
	}
}

// OptionalAuth sets claims in context when a valid token is present and
// passes the request through anonymously otherwise.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, err := m.authService.ValidateRequest(r); err == nil {
			r = r.WithContext(SetClaims(r.Context(), claims))
		}
		next(w, r)
	}
}

// RequireRole validates the token and requires the user to hold one of the
// allowed roles. Fails closed: no claims or an unlisted role is a 403.
func (m *Middleware) RequireRole(allowed ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				m.forbidden(w, "Forbidden")
				return
			}

			role := models.ParseRole(string(claims.Role))
			for _, a := range allowed {
				if role == a {
					next(w, r)
					return
				}
			}

			m.logger.Warn("Role check failed",
				zap.String("role", string(role)),
				zap.String("path", r.URL.Path))
			m.forbidden(w, "Forbidden")
		})
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": message,
	})
}
