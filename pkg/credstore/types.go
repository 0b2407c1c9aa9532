package credstore

// Records maps username keys to password hashes
type Records map[string]string

// Clone returns a copy of r. A nil Records clones to an empty one.
func (r Records) Clone() Records {
	out := make(Records, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store persists the full set of credential records
type Store interface {
	// Load returns every stored record. A missing backing store yields an
	// empty set. Malformed data yields an empty set and ErrMalformedStore.
	Load() (Records, error)
	// Save replaces the stored records with records
	Save(records Records) error
	// Clear deletes the backing store, returning ErrNoStore if there is none
	Clear() error
}
