// Package logging provides the *slog.Logger shared by the segmentation packages.
//
// The logger defaults to discarding all output so library code can log freely
// without configuring anything. The MCP binary installs a stderr handler at
// startup; tests install a BufferedHandler to inspect what was logged.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetLogger replaces the package-level logger. Pass nil to discard all output.
//
// SetLogger is safe for concurrent use.
//
// Example enabling debug output to stderr:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(sl *slog.Logger) {
	if sl == nil {
		logger.Store(newDiscardLogger())
		return
	}
	logger.Store(sl)
}

// Logger returns the package-level logger, or a discard logger if none was set.
func Logger() *slog.Logger {
	l := logger.Load()
	if l == nil {
		l = newDiscardLogger()
		logger.Store(l)
	}
	return l
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to slog levels.
// Unknown or empty values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
