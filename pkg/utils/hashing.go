package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const secretHashCost = 10

// HashPassword bcrypt-hashes an admin secret. bcrypt rejects inputs longer
// than 72 bytes, so such secrets fail at startup instead of at login.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), secretHashCost)
	if err != nil {
		return "", fmt.Errorf("hash admin secret: %w", err)
	}
	return string(hashed), nil
}

// ComparePasswords returns nil when plain matches hashed.
func ComparePasswords(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
