package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	golog "github.com/fclairamb/go-log"
)

// AppLogger implements the go-log.Logger interface
type AppLogger struct {
	level   LogLevel
	logger  *log.Logger
	writer  io.Closer // nil unless the logger owns its destination
	keyvals []interface{}
}

var _ golog.Logger = (*AppLogger)(nil)

// NewAppLogger creates a logger writing to w, or stderr when w is nil
func NewAppLogger(w io.Writer, level LogLevel) *AppLogger {
	if w == nil {
		w = os.Stderr
	}
	return &AppLogger{
		level:  level,
		logger: log.New(w, "", 0), // No flags, we'll handle formatting ourselves
	}
}

// NewFileAppLogger creates a logger writing to a size-rotated file at path
func NewFileAppLogger(path string, level LogLevel, maxSize int64) (*AppLogger, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	rw, err := NewRotatingWriter(path, maxSize, defaultKeep)
	if err != nil {
		return nil, fmt.Errorf("creating rotating writer: %w", err)
	}

	l := NewAppLogger(rw, level)
	l.writer = rw
	return l, nil
}

func (l *AppLogger) shouldLog(level LogLevel) bool {
	return levelRank[level] >= levelRank[l.level]
}

func (l *AppLogger) log(level LogLevel, message string, keyvals ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	all := append(append([]interface{}{}, l.keyvals...), keyvals...)

	var kvStrings []string
	for i := 0; i+1 < len(all); i += 2 {
		kvStrings = append(kvStrings, fmt.Sprintf("%s=%s", toString(all[i]), formatValue(toString(all[i+1]))))
	}

	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 -0700")
	line := fmt.Sprintf("%s %s: %s", timestamp, strings.ToUpper(string(level)), message)
	if len(kvStrings) > 0 {
		line += " " + strings.Join(kvStrings, " ")
	}
	l.logger.Print(line)
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}

	// Keep each entry on one line
	return strings.Join(strings.Fields(fmt.Sprintf("%v", v)), " ")
}

// Debug implements go-log.Logger
func (l *AppLogger) Debug(message string, keyvals ...interface{}) {
	l.log(LogLevelDebug, message, keyvals...)
}

// Info implements go-log.Logger
func (l *AppLogger) Info(message string, keyvals ...interface{}) {
	l.log(LogLevelInfo, message, keyvals...)
}

// Warn implements go-log.Logger
func (l *AppLogger) Warn(message string, keyvals ...interface{}) {
	l.log(LogLevelWarn, message, keyvals...)
}

// Error implements go-log.Logger
func (l *AppLogger) Error(message string, keyvals ...interface{}) {
	l.log(LogLevelError, message, keyvals...)
}

// Panic implements go-log.Logger
func (l *AppLogger) Panic(message string, keyvals ...interface{}) {
	l.log(LogLevelPanic, message, keyvals...)
}

// With implements go-log.Logger. The returned logger shares the destination
// and prefixes every entry with keyvals.
func (l *AppLogger) With(keyvals ...interface{}) golog.Logger {
	child := *l
	child.writer = nil
	child.keyvals = append(append([]interface{}{}, l.keyvals...), keyvals...)
	return &child
}

// IsDebug returns true if the logger is at debug level
func (l *AppLogger) IsDebug() bool {
	return l.level == LogLevelDebug
}

// Close closes the log file if the logger owns one
func (l *AppLogger) Close() error {
	if l.writer != nil {
		return l.writer.Close()
	}
	return nil
}
