package httpapi

import (
	"encoding/json"
	"net/http"

	"onnxd/internal/backend"
	"onnxd/internal/manager"
	"onnxd/internal/ort"
	"onnxd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps well-known manager and backend errors to HTTP status
// codes. Unrecognized errors are 500.
func statusForError(err error) int {
	switch {
	case manager.IsModelNotFound(err):
		return http.StatusNotFound
	case manager.IsLoadInProgress(err):
		return http.StatusConflict
	case ort.IsInitializationError(err):
		return http.StatusServiceUnavailable
	case backend.IsConfigValidationError(err):
		return http.StatusBadRequest
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
