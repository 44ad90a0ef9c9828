package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used unless configured otherwise.
const DefaultCost = bcrypt.DefaultCost

// ErrPasswordTooLong is returned by HashPassword for passwords over 72 bytes.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. A missing or corrupt
// hash never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
