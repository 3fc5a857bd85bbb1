package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// ContextKey is the type for values this package places in the request
// context.
type ContextKey string

// AdminEmailKey carries the authenticated admin's email.
const AdminEmailKey ContextKey = "admin_email"

// Middleware guards the admin API: a valid session token whose email
// passes the allowlist.
type Middleware struct {
	jwtService *JWTService
	allowlist  *Allowlist
	log        *zap.Logger
}

// NewMiddleware creates the admin auth middleware.
func NewMiddleware(jwtService *JWTService, allowlist *Allowlist, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		allowlist:  allowlist,
		log:        log,
	}
}

// RequireAdmin rejects requests without a valid, allowlisted session.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := ExtractTokenFromBearer(r.Header.Get("Authorization"))
		if tokenString == "" {
			m.log.Debug("missing or malformed authorization header")
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.log.Debug("invalid session token", zap.Error(err))
			if errors.Is(err, ErrExpiredToken) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
			} else {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
			}
			return
		}

		if !m.allowlist.Allowed(claims.Email) {
			m.log.Warn("token for non-allowlisted email", zap.String("email", claims.Email))
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), AdminEmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// CORS adds permissive CORS headers for the admin SPA and answers
// preflight requests.
func (m *Middleware) CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// AdminEmailFromContext returns the authenticated admin email, if any.
func AdminEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(AdminEmailKey).(string)
	return email, ok
}
