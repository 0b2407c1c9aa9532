package hashing

import (
	"crypto/rand"
	"fmt"

	"github.com/digitive/crypt"
)

const cryptSaltChars = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// UnixCrypt handles traditional 13-character DES crypt hashes. It exists to
// verify records imported from older stores and is never used for new ones.
type UnixCrypt struct{}

// NewUnixCrypt creates a new Unix crypt hasher
func NewUnixCrypt() *UnixCrypt {
	return &UnixCrypt{}
}

// Hash implements Hasher using a random two character salt
func (h *UnixCrypt) Hash(password string) (string, error) {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	salt := string([]byte{
		cryptSaltChars[int(buf[0])%len(cryptSaltChars)],
		cryptSaltChars[int(buf[1])%len(cryptSaltChars)],
	})
	return crypt.Crypt(password, salt)
}

// VerifyPassword implements Hasher
func (h *UnixCrypt) VerifyPassword(password, hashedPassword string) error {
	if len(hashedPassword) != 13 {
		return fmt.Errorf("%w: crypt hash must be 13 characters", ErrInvalidHash)
	}
	// The salt is the first two characters
	computed, err := crypt.Crypt(password, hashedPassword[:2])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if computed != hashedPassword {
		return ErrPasswordMismatch
	}
	return nil
}
