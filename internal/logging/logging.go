// Package logging holds the framework-wide logger shared by the gamecore
// packages. Hosts replace it through gamecore.SetLogger.
package logging

import (
	"log/slog"
	"sync/atomic"
)

// logger is the custom logger installed via SetLogger. Named "logger" instead
// of "log" to avoid shadowing the stdlib package. Nil means no custom logger
// has been set and Logger falls back to a cached default.
var logger atomic.Pointer[slog.Logger]

// fallback caches the default-derived logger so it is not rebuilt on every
// Logger call. If slog.SetDefault changes after the first Logger call, the
// cache keeps the old handler until SetLogger(nil) clears it.
var fallback atomic.Pointer[slog.Logger]

// Logger returns the current framework logger. Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := fallback.Load(); l != nil {
		return l
	}
	l := slog.Default().With("component", "gamecore")
	// CompareAndSwap so a concurrently cached logger wins and every caller
	// observes the same instance.
	if fallback.CompareAndSwap(nil, l) {
		return l
	}
	if l2 := fallback.Load(); l2 != nil {
		return l2
	}
	return l
}

// SetLogger replaces the framework logger. Passing nil resets to the default:
// slog.Default() with a component attribute, re-derived on the next Logger
// call. Safe to call concurrently with any framework operation.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	fallback.Store(nil)
}
