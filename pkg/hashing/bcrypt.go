package hashing

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxBcryptPasswordLen is the number of bytes bcrypt actually consumes
const maxBcryptPasswordLen = 72

// Bcrypt hashes passwords with bcrypt.
// Example format: $2a$10$<22 char salt><31 char hash>
type Bcrypt struct {
	Cost int
}

// NewBcrypt returns a Bcrypt hasher. A zero cost selects bcrypt.DefaultCost
// and out of range costs are clamped.
func NewBcrypt(cost int) *Bcrypt {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{Cost: cost}
}

// Hash implements Hasher
func (b *Bcrypt) Hash(password string) (string, error) {
	if len(password) > maxBcryptPasswordLen {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("generating bcrypt hash: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword implements Hasher
func (b *Bcrypt) VerifyPassword(password, hashedPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		// Could never have been stored by Hash
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}
