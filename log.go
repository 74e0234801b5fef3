package gamecore

import (
	"log/slog"

	"github.com/playforge/gamecore/internal/logging"
)

// SetLogger replaces the logger used by every gamecore package. The provided
// logger should already carry any desired attributes; the framework adds none.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next log call and then cached.
// Call SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with any framework operation. For a
// strict happens-before guarantee, call it before starting goroutines that
// use the framework.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}
