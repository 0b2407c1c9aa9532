package hashing

import (
	"crypto/sha256"
	"encoding/hex"
)

// UsernameKey returns the store lookup key for username: the hex SHA-256
// digest of its bytes. It is unsalted and must never be used as a secret.
func UsernameKey(username string) string {
	sum := sha256.Sum256([]byte(username))
	return hex.EncodeToString(sum[:])
}
