package ort

import "errors"

// InitializationError reports that the native runtime environment could not
// be brought up or used. The usual cause is a missing shared library or a
// binary built without the 'ort' tag.
type InitializationError struct {
	Runtime string
	Err     error
}

func (e *InitializationError) Error() string { return "initialize " + e.Runtime + ": " + e.Err.Error() }
func (e *InitializationError) Unwrap() error { return e.Err }

// IsInitializationError reports whether err is (or wraps) an
// InitializationError.
func IsInitializationError(err error) bool {
	var t *InitializationError
	return errors.As(err, &t)
}
