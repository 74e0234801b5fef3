package datatable

import "github.com/playforge/gamecore/internal/sentinel"

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrInvalidManifest is returned when the manifest fails validation
	// (missing table names, unknown column types, duplicate tables).
	ErrInvalidManifest = sentinel.Error("invalid manifest")

	// ErrSchemaMismatch is returned when a CSV header does not match the
	// table's column schema.
	ErrSchemaMismatch = sentinel.Error("csv header does not match schema")

	// ErrBadCell is returned when a cell fails its column's type check.
	ErrBadCell = sentinel.Error("cell value does not match column type")
)
