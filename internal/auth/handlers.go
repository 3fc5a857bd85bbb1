package auth

import (
	"PartnerHub-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuthHandlers exposes the admin login endpoint.
type AuthHandlers struct {
	storage         repository.Storage
	jwtService      *JWTService
	passwordService *PasswordService
	allowlist       *Allowlist
	log             *zap.Logger
}

// NewAuthHandlers creates the auth handlers.
func NewAuthHandlers(storage repository.Storage, jwtService *JWTService, passwordService *PasswordService, allowlist *Allowlist, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		storage:         storage,
		jwtService:      jwtService,
		passwordService: passwordService,
		allowlist:       allowlist,
		log:             log,
	}
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the successful login response body.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
}

// Login authenticates an admin and issues a session token. Unknown
// emails, wrong passwords and non-allowlisted accounts all produce the
// same 401 so the endpoint does not leak which admins exist.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid login request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		h.writeError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	if !h.allowlist.Allowed(email) {
		h.log.Warn("login attempt for non-allowlisted email", zap.String("email", email))
		h.writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	admin, err := h.storage.GetAdminByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.log.Error("failed to load admin account", zap.String("email", email), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.passwordService.VerifyPassword(admin.PasswordHash, req.Password); err != nil {
		h.log.Debug("password mismatch", zap.String("email", email))
		h.writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtService.GenerateToken(admin.Email)
	if err != nil {
		h.log.Error("failed to issue session token", zap.String("email", email), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("admin logged in", zap.String("email", email))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(LoginResponse{AccessToken: token, Email: admin.Email}); err != nil {
		h.log.Error("failed to encode login response", zap.Error(err))
	}
}

func (h *AuthHandlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.log.Error("failed to encode error response", zap.Error(err))
	}
}
