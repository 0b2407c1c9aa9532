package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmcdole/vklogin/pkg/logging"
	"github.com/spf13/afero"
)

const (
	// DefaultPath is the store file used when none is configured
	DefaultPath = "user_data.json"

	fileMode = 0600
	dirMode  = 0755
)

// FileStore implements Store as a single JSON object on disk
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a FileStore for path on fs. A nil fs uses the OS
// filesystem and an empty path uses DefaultPath.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{
		fs:   fs,
		path: path,
	}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store
func (s *FileStore) Load() (Records, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.App.Debug("Store file not found", "path", s.path)
			return Records{}, nil
		}
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		logging.App.Debug("Store file is malformed", "path", s.path, "size", len(data), "error", err)
		return Records{}, fmt.Errorf("%w: %s: %v", ErrMalformedStore, s.path, err)
	}
	if records == nil {
		records = Records{}
	}

	logging.App.Debug("Loaded store file", "path", s.path, "records", len(records))
	return records, nil
}

// Save implements Store. The file is rewritten in full through a temp file
// and rename so readers never observe a partial write.
func (s *FileStore) Save(records Records) error {
	if records == nil {
		records = Records{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}

	if err := s.atomicWrite(data); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}

	logging.App.Debug("Saved store file", "path", s.path, "records", len(records))
	return nil
}

// Clear implements Store
func (s *FileStore) Clear() error {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("checking store file: %w", err)
	}
	if !exists {
		return ErrNoStore
	}

	if err := s.fs.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return ErrNoStore
		}
		return fmt.Errorf("removing store file: %w", err)
	}

	logging.App.Debug("Removed store file", "path", s.path)
	return nil
}

func (s *FileStore) atomicWrite(content []byte) error {
	tmpPath := s.path + ".tmp"

	if err := afero.WriteFile(s.fs, tmpPath, content, fileMode); err != nil {
		return err
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		return err
	}

	return nil
}
