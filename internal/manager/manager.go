package manager

import (
	"errors"
	"sync"
	"time"

	"onnxd/internal/backend"
	"onnxd/internal/gpu"
)

type Manager struct {
	mu         sync.RWMutex
	repoDir    string
	minCC      float64
	newFactory func() (*backend.Factory, error)
	gpus       []gpu.Device

	factory    *backend.Factory
	runtimeErr string
	models     map[string]*modelEntry
	scanErr    string
	started    bool

	publisher EventPublisher
	startTime time.Time
}

// New constructs a Manager for a repository with the given capability floor.
func New(repoDir string, minCC float64, newFactory func() (*backend.Factory, error)) *Manager {
	// Delegate to NewWithConfig to centralize defaults and option parsing.
	return NewWithConfig(ManagerConfig{
		RepositoryDir:        repoDir,
		MinComputeCapability: minCC,
		NewFactory:           newFactory,
	})
}

// Ready reports whether the initial repository load has completed and the
// native runtime, if it was needed, came up.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.started || m.runtimeErr != "" || m.scanErr != "" {
		return false
	}
	for _, e := range m.models {
		if e.State == StateLoading {
			return false
		}
	}
	return true
}

// getFactoryLocked returns the backend factory, building it on first use.
// A failed build is recorded and retried on the next call; the stub runtime
// fails the same way every time, a missing shared library may get fixed.
func (m *Manager) getFactoryLocked() (*backend.Factory, error) {
	if m.factory != nil {
		return m.factory, nil
	}
	if m.newFactory == nil {
		return nil, errors.New("no backend factory configured")
	}
	f, err := m.newFactory()
	if err != nil {
		m.runtimeErr = err.Error()
		return nil, err
	}
	m.runtimeErr = ""
	m.factory = f
	return f, nil
}
