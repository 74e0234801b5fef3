package config

import "github.com/playforge/gamecore/internal/sentinel"

const (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = sentinel.Error("config destination must not be nil")

	// ErrParse is returned when environment variables cannot be parsed
	// into the destination struct.
	ErrParse = sentinel.Error("parsing environment into config")
)
