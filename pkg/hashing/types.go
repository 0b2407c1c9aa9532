package hashing

// Hasher produces self-describing password hashes and verifies passwords
// against them. The encoded hash carries its own salt and cost parameters.
type Hasher interface {
	// Hash returns a freshly salted hash of password
	Hash(password string) (string, error)
	// VerifyPassword returns nil if password matches hashedPassword
	VerifyPassword(password, hashedPassword string) error
}

// Algorithm names a hashing algorithm that can be used for new records
type Algorithm string

const (
	// AlgorithmBcrypt selects bcrypt (default)
	AlgorithmBcrypt Algorithm = "bcrypt"
	// AlgorithmArgon2ID selects Argon2id
	AlgorithmArgon2ID Algorithm = "argon2id"
)

// Options holds the tunables for every algorithm New can build
type Options struct {
	BcryptCost int
	Argon2     Argon2Params
}

// New builds the primary hasher for algorithm, wrapped in a MultiVerifier
// so records written by any supported algorithm still verify.
func New(algorithm Algorithm, opts Options) (*MultiVerifier, error) {
	var primary Hasher
	switch algorithm {
	case "", AlgorithmBcrypt:
		primary = NewBcrypt(opts.BcryptCost)
	case AlgorithmArgon2ID:
		primary = NewArgon2ID(opts.Argon2)
	default:
		return nil, ErrUnknownAlgorithm
	}
	return NewMultiVerifier(primary, opts), nil
}
