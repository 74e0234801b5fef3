package fsm

import "github.com/playforge/gamecore/internal/sentinel"

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrStateNotFound is returned by ChangeState when the target kind has
	// not been registered. The current state is left unchanged.
	ErrStateNotFound = sentinel.Error("state not registered")

	// ErrDuplicateRegistration is returned by Register when the kind is
	// already bound to a state. The existing registration is kept.
	ErrDuplicateRegistration = sentinel.Error("state already registered")
)
