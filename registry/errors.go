package registry

import "github.com/playforge/gamecore/internal/sentinel"

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrAlreadyRegistered is returned by Register when the type already
	// has a service bound. Use Replace to swap an existing binding.
	ErrAlreadyRegistered = sentinel.Error("service already registered")

	// ErrNotRegistered is returned by Resolve and Replace when no service
	// is bound for the requested type.
	ErrNotRegistered = sentinel.Error("service not registered")
)
