package security

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost the original deployment hashed its
// existing records with; raising it does not invalidate old hashes.
const DefaultBcryptCost = 10

// HashPassword derives a one-way verifier from a plaintext password.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a plaintext password against a stored
// verifier. Verifiers are never compared by equality.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
