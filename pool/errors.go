package pool

import "github.com/playforge/gamecore/internal/sentinel"

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrPoolExhausted is returned by Spawn when a bounded pool has no idle
	// instance and has already created maxSize instances. Spawn never
	// blocks waiting for a release.
	ErrPoolExhausted = sentinel.Error("pool exhausted")

	// ErrInvalidRelease is returned by Despawn for an instance that is not
	// owned by the pool or is already idle. Pool state is left untouched.
	ErrInvalidRelease = sentinel.Error("invalid release")

	// ErrPoolClosed is returned by Spawn and WarmUp after Close.
	ErrPoolClosed = sentinel.Error("pool is closed")

	// ErrPoolNotFound is returned by Manager operations that name an
	// unregistered kind.
	ErrPoolNotFound = sentinel.Error("pool not registered")

	// ErrWarmUp wraps instantiation failures that occur during pre-fill.
	// The pool remains usable; already-created idle instances are kept.
	ErrWarmUp = sentinel.Error("warm-up failed")
)
