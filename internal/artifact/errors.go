package artifact

import "errors"

// EnumerationError reports that a model version directory could not be
// listed or inspected.
type EnumerationError struct {
	Dir string
	Err error
}

func (e *EnumerationError) Error() string { return "enumerate " + e.Dir + ": " + e.Err.Error() }
func (e *EnumerationError) Unwrap() error { return e.Err }

// IsEnumerationError reports whether err is (or wraps) an EnumerationError.
func IsEnumerationError(err error) bool {
	var t *EnumerationError
	return errors.As(err, &t)
}

// LocalizationError reports that a directory bundle could not be
// materialized into a scratch store.
type LocalizationError struct {
	Name string
	Err  error
}

func (e *LocalizationError) Error() string { return "localize " + e.Name + ": " + e.Err.Error() }
func (e *LocalizationError) Unwrap() error { return e.Err }

// IsLocalizationError reports whether err is (or wraps) a LocalizationError.
func IsLocalizationError(err error) bool {
	var t *LocalizationError
	return errors.As(err, &t)
}

// ReadError reports that a file artifact could not be read into memory.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string { return "read " + e.Name + ": " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// IsReadError reports whether err is (or wraps) a ReadError.
func IsReadError(err error) bool {
	var t *ReadError
	return errors.As(err, &t)
}
