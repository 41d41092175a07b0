package reactive

import (
	"log/slog"
	"sync/atomic"
)

// DebugMode enables dev-time validation: hook order checking and usage
// warnings from hooks built on this package.
// Set it at startup; it is not synchronized.
var DebugMode bool

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for runtime warnings.
// Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the runtime logger.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
