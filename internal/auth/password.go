package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor for new password hashes.
const DefaultBcryptCost = 12

var ErrInvalidPassword = errors.New("invalid password")

// PasswordService hashes and verifies admin passwords.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a password service with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: DefaultBcryptCost}
}

// NewPasswordServiceWithCost creates a password service with a custom
// cost; tests use the minimum cost to stay fast.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// HashPassword hashes a password with bcrypt.
func (s *PasswordService) HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrInvalidPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a password against its stored hash.
func (s *PasswordService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
