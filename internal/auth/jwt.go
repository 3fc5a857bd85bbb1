package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// JWTConfig holds signing parameters for admin session tokens.
type JWTConfig struct {
	SecretKey     []byte
	TokenDuration time.Duration
	Issuer        string
}

// Claims carried by an admin session token. The email is re-checked
// against the allowlist on every request, so a stale token for a
// removed admin stops working without revocation machinery.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and validates admin session tokens.
type JWTService struct {
	config *JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config *JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// GenerateToken issues a signed session token for an admin email.
func (s *JWTService) GenerateToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.SecretKey)
}

// ValidateToken verifies the signature and expiry of a session token.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.config.SecretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ExtractTokenFromBearer pulls the raw token out of an Authorization
// header value.
func ExtractTokenFromBearer(authHeader string) string {
	const bearerPrefix = "Bearer "
	if len(authHeader) > len(bearerPrefix) && authHeader[:len(bearerPrefix)] == bearerPrefix {
		return authHeader[len(bearerPrefix):]
	}
	return ""
}
