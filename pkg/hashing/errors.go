package hashing

import "errors"

var (
	// ErrPasswordMismatch is returned when a password does not match its hash
	ErrPasswordMismatch = errors.New("password mismatch")

	// ErrInvalidHash is returned when a stored hash cannot be parsed
	ErrInvalidHash = errors.New("invalid password hash")

	// ErrPasswordTooLong is returned when a password exceeds what the algorithm accepts
	ErrPasswordTooLong = errors.New("password too long")

	// ErrUnknownAlgorithm is returned for an unsupported algorithm name
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)
