package credstore

import "errors"

var (
	// ErrMalformedStore is returned alongside an empty record set when the
	// backing file exists but cannot be decoded
	ErrMalformedStore = errors.New("malformed credential store")

	// ErrNoStore is returned by Clear when there is nothing to delete
	ErrNoStore = errors.New("credential store does not exist")
)
