package credential

import (
	"errors"
	"fmt"

	golog "github.com/fclairamb/go-log"
	"github.com/mmcdole/vklogin/pkg/credstore"
	"github.com/mmcdole/vklogin/pkg/hashing"
	"github.com/mmcdole/vklogin/pkg/logging"
)

// Service registers and verifies credentials against a Store. Every call
// reloads the store; nothing is cached between calls.
type Service struct {
	store  credstore.Store
	hasher hashing.Hasher
	logger golog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used by the Service
func WithLogger(logger golog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new Service. A nil hasher selects bcrypt with the
// default cost.
func NewService(store credstore.Store, hasher hashing.Hasher, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if hasher == nil {
		hasher = hashing.NewMultiVerifier(nil, hashing.Options{})
	}

	s := &Service{
		store:  store,
		hasher: hasher,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.App
	}
	return s, nil
}

// Register stores a new username/password pair
func (s *Service) Register(username, password string) Outcome {
	if username == "" || password == "" {
		return failure(KindEmptyInput, MsgEmptyInput, nil)
	}

	key := hashing.UsernameKey(username)
	log := s.logger.With("op", "register", "user_key", shortKey(key))

	records, err := s.load(log)
	if err != nil {
		return failure(KindPersistenceFailure, MsgPersistenceFailed, err)
	}

	if _, exists := records[key]; exists {
		log.Info("Registration rejected", "reason", KindDuplicateUser)
		return failure(KindDuplicateUser, MsgDuplicateUser, nil)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("Failed to hash password", "error", err)
		return failure(KindHashingFailure, MsgHashingFailed, err)
	}

	records[key] = hash
	if err := s.store.Save(records); err != nil {
		log.Error("Failed to save store", "error", err)
		return failure(KindPersistenceFailure, MsgPersistenceFailed, err)
	}

	log.Info("Registered user")
	return success(MsgRegistered)
}

// Verify checks password against the stored record for username
func (s *Service) Verify(username, password string) Outcome {
	if username == "" || password == "" {
		return failure(KindEmptyInput, MsgEmptyInput, nil)
	}

	key := hashing.UsernameKey(username)
	log := s.logger.With("op", "verify", "user_key", shortKey(key))

	records, err := s.load(log)
	if err != nil {
		return failure(KindPersistenceFailure, MsgPersistenceFailed, err)
	}

	hash, exists := records[key]
	if !exists {
		log.Info("Verification failed", "reason", KindUnknownUser)
		return failure(KindUnknownUser, MsgUnknownUser, nil)
	}

	if err := s.hasher.VerifyPassword(password, hash); err != nil {
		if !errors.Is(err, hashing.ErrPasswordMismatch) {
			log.Warn("Stored hash could not be checked", "error", err)
		}
		log.Info("Verification failed", "reason", KindWrongPassword)
		return failure(KindWrongPassword, MsgWrongPassword, nil)
	}

	log.Info("Verified user")
	return success(MsgVerified)
}

// Clear deletes the backing store
func (s *Service) Clear() Outcome {
	log := s.logger.With("op", "clear")

	err := s.store.Clear()
	switch {
	case err == nil:
		log.Info("Cleared store")
		return success(MsgCleared)
	case errors.Is(err, credstore.ErrNoStore):
		log.Info("Nothing to clear")
		return failure(KindNothingToClear, MsgNothingToClear, nil)
	default:
		log.Error("Failed to clear store", "error", err)
		return failure(KindPersistenceFailure, MsgPersistenceFailed, err)
	}
}

// HasAccount reports whether any credential record is stored
func (s *Service) HasAccount() (bool, error) {
	records, err := s.load(s.logger.With("op", "status"))
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

// load reads the store, treating malformed data as an empty store
func (s *Service) load(log golog.Logger) (credstore.Records, error) {
	records, err := s.store.Load()
	if errors.Is(err, credstore.ErrMalformedStore) {
		log.Warn("Ignoring malformed store, treating as empty", "error", err)
		return credstore.Records{}, nil
	}
	if err != nil {
		log.Error("Failed to load store", "error", err)
		return nil, err
	}
	return records, nil
}

// shortKey trims a username key for log output
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
