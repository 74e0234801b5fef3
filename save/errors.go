package save

import "github.com/playforge/gamecore/internal/sentinel"

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrSlotNotFound is returned by Load and Delete when the named slot
	// does not exist.
	ErrSlotNotFound = sentinel.Error("save slot not found")

	// ErrStoreClosed is returned by every operation after Close.
	ErrStoreClosed = sentinel.Error("save store is closed")

	// ErrLocked is returned by Open when another process holds the save
	// directory lock.
	ErrLocked = sentinel.Error("save directory locked by another process")
)
