package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// defaultKeep is how many rotated logs are retained
const defaultKeep = 5

// RotatingWriter is a file writer that moves the log aside once it grows
// past maxSize. Rotated files are named <basename>.YYYYMMDD-HHMMSS in an
// old/ directory next to the log, and only the newest keep are retained.
type RotatingWriter struct {
	mu      sync.Mutex
	f       *os.File
	path    string
	oldDir  string
	base    string
	maxSize int64
	keep    int
	size    int64
}

// NewRotatingWriter opens path for appending, rotating first if the
// existing file is already over maxSize.
func NewRotatingWriter(path string, maxSize int64, keep int) (*RotatingWriter, error) {
	w := &RotatingWriter{
		path:    path,
		oldDir:  filepath.Join(filepath.Dir(path), "old"),
		base:    filepath.Base(path),
		maxSize: maxSize,
		keep:    keep,
	}

	if err := w.openLocked(); err != nil {
		return nil, err
	}
	if w.size >= w.maxSize {
		if err := w.rotateLocked(); err != nil {
			w.f.Close()
			return nil, err
		}
	}
	return w, nil
}

// Write implements io.Writer
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotateLocked(); err != nil {
			return 0, err
		}
	}

	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the current log file
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *RotatingWriter) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.f = f
	w.size = fi.Size()
	return nil
}

func (w *RotatingWriter) rotateLocked() error {
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}

	if err := os.MkdirAll(w.oldDir, 0755); err != nil {
		return fmt.Errorf("creating old/ directory: %w", err)
	}

	archive := filepath.Join(w.oldDir, fmt.Sprintf("%s.%s", w.base, time.Now().Format("20060102-150405")))
	if err := os.Rename(w.path, archive); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("archiving log file: %w", err)
	}
	w.pruneLocked()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating new log file: %w", err)
	}
	w.f = f
	w.size = 0
	return nil
}

// pruneLocked removes the oldest archives beyond keep. Errors are ignored;
// a leftover archive is harmless.
func (w *RotatingWriter) pruneLocked() {
	if w.keep <= 0 {
		return
	}
	matches, err := filepath.Glob(filepath.Join(w.oldDir, w.base+".*"))
	if err != nil || len(matches) <= w.keep {
		return
	}
	// Timestamps sort lexically
	sort.Strings(matches)
	for _, m := range matches[:len(matches)-w.keep] {
		_ = os.Remove(m)
	}
}
