package logging

import (
	"fmt"
	"strings"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	// LogLevelDebug is for debug messages
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is for informational messages
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is for warning messages
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is for error messages
	LogLevelError LogLevel = "error"
	// LogLevelPanic is for panic messages
	LogLevelPanic LogLevel = "panic"
)

var levelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
	LogLevelPanic: 4,
}

// ParseLevel converts a config string into a LogLevel. Empty selects info.
func ParseLevel(s string) (LogLevel, error) {
	if s == "" {
		return LogLevelInfo, nil
	}
	level := LogLevel(strings.ToLower(s))
	if _, ok := levelRank[level]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// DefaultMaxSize is the log size that triggers rotation when none is configured
const DefaultMaxSize = 10 * 1024 * 1024

// App is the global application logger. Until Initialize is called it
// writes warnings and above to stderr.
var App = NewAppLogger(nil, LogLevelWarn)

// Initialize replaces the global logger. An empty appLogPath logs to stderr.
func Initialize(appLogPath string, level LogLevel, maxSize int64) error {
	if level == "" {
		level = LogLevelInfo
	}

	var newApp *AppLogger
	if appLogPath == "" {
		newApp = NewAppLogger(nil, level)
	} else {
		var err error
		newApp, err = NewFileAppLogger(appLogPath, level, maxSize)
		if err != nil {
			return fmt.Errorf("failed to initialize app logger: %w", err)
		}
	}

	old := App
	App = newApp
	return old.Close()
}

// formatValue formats a value for logfmt, quoting if necessary
func formatValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	// Quote if contains space, equals, or quotes
	if strings.ContainsAny(s, " =\"") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
