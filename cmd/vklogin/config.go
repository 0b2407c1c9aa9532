package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmcdole/vklogin/pkg/credstore"
	"github.com/mmcdole/vklogin/pkg/hashing"
	"github.com/mmcdole/vklogin/pkg/logging"
)

// Config holds the vklogin configuration
type Config struct {
	// Storage settings
	StorePath string `json:"store_path"` // Path to the credential store file

	// Hashing settings
	HashAlgorithm     string `json:"hash_algorithm"`               // "bcrypt" or "argon2id", used for new records
	BcryptCost        int    `json:"bcrypt_cost,omitempty"`        // bcrypt cost factor
	Argon2MemoryKiB   uint32 `json:"argon2_memory_kib,omitempty"`  // Argon2id memory in KiB
	Argon2Iterations  uint32 `json:"argon2_iterations,omitempty"`  // Argon2id passes
	Argon2Parallelism uint8  `json:"argon2_parallelism,omitempty"` // Argon2id threads

	// Logging settings
	AppLogPath string `json:"app_log_path,omitempty"` // Optional: Path to application log file
	LogLevel   string `json:"log_level,omitempty"`    // debug, info, warn (default), error
	LogMaxSize int64  `json:"log_max_size,omitempty"` // Rotate the app log past this many bytes
	Debug      bool   `json:"debug,omitempty"`        // Shorthand for log_level "debug"
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	// Convert relative paths to absolute paths based on config file location
	configDir := filepath.Dir(path)
	if config.StorePath != "" && !filepath.IsAbs(config.StorePath) {
		config.StorePath = filepath.Join(configDir, config.StorePath)
	}
	if config.AppLogPath != "" && !filepath.IsAbs(config.AppLogPath) {
		config.AppLogPath = filepath.Join(configDir, config.AppLogPath)
	}

	config.applyDefaults()
	return nil
}

// applyDefaults fills unset optional settings
func (c *Config) applyDefaults() {
	if c.StorePath == "" {
		c.StorePath = credstore.DefaultPath
	}
	if c.HashAlgorithm == "" {
		c.HashAlgorithm = string(hashing.AlgorithmBcrypt)
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 10
	}
	argon := hashing.DefaultArgon2Params()
	if c.Argon2MemoryKiB == 0 {
		c.Argon2MemoryKiB = argon.Memory
	}
	if c.Argon2Iterations == 0 {
		c.Argon2Iterations = argon.Time
	}
	if c.Argon2Parallelism == 0 {
		c.Argon2Parallelism = argon.Threads
	}
	if c.LogLevel == "" {
		c.LogLevel = string(logging.LogLevelWarn)
	}
	if c.Debug {
		c.LogLevel = string(logging.LogLevelDebug)
	}
	if c.LogMaxSize == 0 {
		c.LogMaxSize = logging.DefaultMaxSize
	}
}

// Validate rejects settings that cannot be used
func (c *Config) Validate() error {
	switch hashing.Algorithm(c.HashAlgorithm) {
	case hashing.AlgorithmBcrypt, hashing.AlgorithmArgon2ID:
	default:
		return fmt.Errorf("hash_algorithm %q: %w", c.HashAlgorithm, hashing.ErrUnknownAlgorithm)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.LogMaxSize < 0 {
		return fmt.Errorf("log_max_size must not be negative")
	}
	return nil
}

// HashOptions returns the hashing options described by the config
func (c *Config) HashOptions() hashing.Options {
	return hashing.Options{
		BcryptCost: c.BcryptCost,
		Argon2: hashing.Argon2Params{
			Memory:  c.Argon2MemoryKiB,
			Time:    c.Argon2Iterations,
			Threads: c.Argon2Parallelism,
		},
	}
}
