// Package logging builds the leveled stderr logger shared by the store,
// the task operations and the dispatcher.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is attached to every log line.
const Prefix = "task-cli"

// New creates a logger writing to w. debug forces the debug level;
// otherwise level is parsed with ParseLevel. An empty level means warn,
// so normal runs stay silent.
func New(w io.Writer, level string, debug bool) *log.Logger {
	lvl := log.WarnLevel
	if level != "" {
		lvl = ParseLevel(level)
	}
	if debug {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          Prefix,
		ReportTimestamp: debug,
		Formatter:       log.TextFormatter,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel converts a string to a log level. Unknown values map to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
