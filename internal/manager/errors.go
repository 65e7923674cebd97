package manager

// modelNotFoundError is returned when a requested model is not in the
// repository or not loaded.
type modelNotFoundError struct{ name string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.name }

func ErrModelNotFound(name string) error { return modelNotFoundError{name: name} }

// IsModelNotFound reports whether the error indicates a missing model.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// loadInProgressError signals a concurrent load on the same model for 409
// mapping.
type loadInProgressError struct{ name string }

func (e loadInProgressError) Error() string { return "load in progress: " + e.name }

func ErrLoadInProgress(name string) error { return loadInProgressError{name: name} }

// IsLoadInProgress reports whether err indicates an overlapping load.
func IsLoadInProgress(err error) bool {
	_, ok := err.(loadInProgressError)
	return ok
}
