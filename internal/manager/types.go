package manager

import (
	"time"

	"onnxd/internal/backend"
	"onnxd/internal/modelcfg"
)

// State represents lifecycle state of a model entry.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
)

// modelEntry is the manager's record of one model.
type modelEntry struct {
	Name     string
	State    State
	Err      string
	Version  int64
	Backend  *backend.Backend
	Config   *modelcfg.Config
	LoadedAt time.Time
	OpID     string
}

// clone returns a copy safe to restore after a failed in-place reload.
func (e *modelEntry) clone() *modelEntry {
	cp := *e
	return &cp
}
