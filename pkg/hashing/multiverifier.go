package hashing

import (
	"fmt"
	"strings"
)

// MultiVerifier hashes with a primary Hasher and verifies any supported
// hash format by detecting it from the encoded string.
type MultiVerifier struct {
	primary   Hasher
	bcrypt    *Bcrypt
	argon2id  *Argon2ID
	unixCrypt *UnixCrypt
}

// NewMultiVerifier creates a MultiVerifier. A nil primary selects bcrypt.
func NewMultiVerifier(primary Hasher, opts Options) *MultiVerifier {
	v := &MultiVerifier{
		bcrypt:    NewBcrypt(opts.BcryptCost),
		argon2id:  NewArgon2ID(opts.Argon2),
		unixCrypt: NewUnixCrypt(),
	}
	if primary == nil {
		primary = v.bcrypt
	}
	v.primary = primary
	return v
}

// Hash implements Hasher using the primary algorithm
func (v *MultiVerifier) Hash(password string) (string, error) {
	return v.primary.Hash(password)
}

// VerifyPassword implements Hasher
func (v *MultiVerifier) VerifyPassword(password, hashedPassword string) error {
	if hashedPassword == "" {
		return fmt.Errorf("%w: empty hash", ErrInvalidHash)
	}

	switch {
	case strings.HasPrefix(hashedPassword, "$argon2id$"):
		return v.argon2id.VerifyPassword(password, hashedPassword)
	case strings.HasPrefix(hashedPassword, "$2a$"),
		strings.HasPrefix(hashedPassword, "$2b$"),
		strings.HasPrefix(hashedPassword, "$2y$"):
		return v.bcrypt.VerifyPassword(password, hashedPassword)
	case len(hashedPassword) == 13 && !strings.Contains(hashedPassword, "$"):
		return v.unixCrypt.VerifyPassword(password, hashedPassword)
	}

	return fmt.Errorf("%w: unsupported hash format", ErrInvalidHash)
}
