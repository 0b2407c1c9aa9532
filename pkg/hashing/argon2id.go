package hashing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params controls Argon2id cost. Memory is in KiB.
type Argon2Params struct {
	Memory     uint32
	Time       uint32
	Threads    uint8
	SaltLength uint32
	KeyLength  uint32
}

// DefaultArgon2Params returns the parameters used when none are configured
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:     64 * 1024,
		Time:       3,
		Threads:    2,
		SaltLength: 16,
		KeyLength:  32,
	}
}

// withDefaults fills zero fields from DefaultArgon2Params
func (p Argon2Params) withDefaults() Argon2Params {
	d := DefaultArgon2Params()
	if p.Memory == 0 {
		p.Memory = d.Memory
	}
	if p.Time == 0 {
		p.Time = d.Time
	}
	if p.Threads == 0 {
		p.Threads = d.Threads
	}
	if p.SaltLength == 0 {
		p.SaltLength = d.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = d.KeyLength
	}
	return p
}

// Argon2ID hashes and verifies Argon2id PHC-formatted password hashes.
// Example format: $argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
type Argon2ID struct {
	Params Argon2Params
}

// NewArgon2ID returns an Argon2ID hasher, filling unset params with defaults
func NewArgon2ID(params Argon2Params) *Argon2ID {
	return &Argon2ID{Params: params.withDefaults()}
}

// Hash implements Hasher
func (a *Argon2ID) Hash(password string) (string, error) {
	salt := make([]byte, a.Params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, a.Params.Time, a.Params.Memory, a.Params.Threads, a.Params.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.Params.Memory,
		a.Params.Time,
		a.Params.Threads,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// VerifyPassword implements Hasher
func (a *Argon2ID) VerifyPassword(password, hashedPassword string) error {
	params, salt, expected, err := parsePHCArgon2ID(hashedPassword)
	if err != nil {
		return err
	}

	// Refuse encoded costs far beyond our own; the hash string is data
	if params.Memory > a.Params.Memory*2 || params.Time > a.Params.Time*2 {
		return fmt.Errorf("%w: argon2id parameters exceed limits", ErrInvalidHash)
	}

	derived := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(expected)))
	if subtle.ConstantTimeCompare(derived, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

func parsePHCArgon2ID(s string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(s, "$")
	// Expect: ["", "argon2id", "v=19", "m=..,t=..,p=..", "saltb64", "hashb64"]
	if len(parts) < 2 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("%w: not an argon2id hash", ErrInvalidHash)
	}

	// Version segment may be omitted
	if len(parts) == 5 && !strings.HasPrefix(parts[2], "v=") {
		parts = append(parts[:2], append([]string{"v=19"}, parts[2:]...)...)
	}
	if len(parts) != 6 {
		return params, nil, nil, fmt.Errorf("%w: malformed argon2id hash", ErrInvalidHash)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return params, nil, nil, fmt.Errorf("%w: unsupported argon2id version %q", ErrInvalidHash, parts[2])
	}

	var seen int
	for _, kv := range strings.Split(parts[3], ",") {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return params, nil, nil, fmt.Errorf("%w: bad argon2id parameter %q", ErrInvalidHash, kv)
		}
		n, err := strconv.ParseUint(val, 10, 32)
		if err != nil || n == 0 {
			return params, nil, nil, fmt.Errorf("%w: bad argon2id parameter %q", ErrInvalidHash, kv)
		}
		switch key {
		case "m":
			params.Memory = uint32(n)
		case "t":
			params.Time = uint32(n)
		case "p":
			if n > 255 {
				return params, nil, nil, fmt.Errorf("%w: bad argon2id parameter %q", ErrInvalidHash, kv)
			}
			params.Threads = uint8(n)
		default:
			continue
		}
		seen++
	}
	if seen != 3 {
		return params, nil, nil, fmt.Errorf("%w: missing argon2id parameters", ErrInvalidHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: argon2id salt: %v", ErrInvalidHash, err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: argon2id hash: %v", ErrInvalidHash, err)
	}
	if len(hash) == 0 {
		return params, nil, nil, fmt.Errorf("%w: argon2id hash empty", ErrInvalidHash)
	}
	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(hash))
	return params, salt, hash, nil
}
