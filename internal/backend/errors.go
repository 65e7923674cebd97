package backend

import (
	"errors"
	"fmt"
)

// ConfigTypeError reports a runtime config of the wrong concrete type
// reaching the factory.
type ConfigTypeError struct {
	Got string
}

func (e *ConfigTypeError) Error() string {
	return "unexpected runtime config type " + e.Got
}

// IsConfigTypeError reports whether err is (or wraps) a ConfigTypeError.
func IsConfigTypeError(err error) bool {
	var t *ConfigTypeError
	return errors.As(err, &t)
}

// ConfigValidationError reports a model configuration the backend cannot
// serve.
type ConfigValidationError struct {
	Model  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return "invalid config for model " + e.Model + ": " + e.Reason
}

// IsConfigValidationError reports whether err is (or wraps) a
// ConfigValidationError.
func IsConfigValidationError(err error) bool {
	var t *ConfigValidationError
	return errors.As(err, &t)
}

// ExecutionContextError reports that an execution context could not be
// constructed: a missing artifact, a device below the capability floor, or
// a runtime rejection.
type ExecutionContextError struct {
	Model    string
	Artifact string
	Err      error
}

func (e *ExecutionContextError) Error() string {
	if e.Artifact != "" {
		return fmt.Sprintf("execution context for %s (artifact %s): %v", e.Model, e.Artifact, e.Err)
	}
	return fmt.Sprintf("execution context for %s: %v", e.Model, e.Err)
}

func (e *ExecutionContextError) Unwrap() error { return e.Err }

// IsExecutionContextError reports whether err is (or wraps) an
// ExecutionContextError.
func IsExecutionContextError(err error) bool {
	var t *ExecutionContextError
	return errors.As(err, &t)
}
