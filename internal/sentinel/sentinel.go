// Package sentinel provides an immutable error type for sentinel error
// declarations.
//
// Sentinel errors declared with errors.New are package-level vars that any
// code in the module could reassign. Error is a string-backed type that can
// be declared as a const, keeping the framework's error taxonomy immutable
// while remaining compatible with errors.Is through wrapped error chains.
package sentinel

// Compile-time check that Error implements the error interface.
var _ error = Error("")

// Error is an immutable error backed by a string constant. Because the type
// is comparable, the default == comparison used by errors.Is matches it
// through wrapped chains without an Is method.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
