package manager

import "onnxd/internal/backend"

// Unload removes a model entry and releases its backend. A model mid-load
// cannot be unloaded; callers retry once the load settles.
func (m *Manager) Unload(name string) error {
	if name == "" {
		return ErrModelNotFound("(unspecified)")
	}
	m.mu.Lock()
	e := m.models[name]
	if e == nil {
		m.mu.Unlock()
		return ErrModelNotFound(name)
	}
	if e.State == StateLoading {
		m.mu.Unlock()
		return ErrLoadInProgress(name)
	}
	delete(m.models, name)
	m.updateModelMetricsLocked()
	b := e.Backend
	opID := e.OpID
	m.mu.Unlock()

	m.publisher.Publish(Event{Name: "unload_start", Model: name, OpID: opID})
	var err error
	if b != nil {
		// Session teardown happens outside the lock; loads of other models
		// keep going while the native sessions are destroyed.
		err = b.Close()
	}
	unloadsTotal.Inc()
	m.publisher.Publish(Event{Name: "unload_done", Model: name, OpID: opID})
	return err
}

// Close releases every backend and shuts the factory down. The manager is
// not usable afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	backends := make([]*backend.Backend, 0, len(m.models))
	for _, e := range m.models {
		if e.Backend != nil {
			backends = append(backends, e.Backend)
		}
	}
	m.models = map[string]*modelEntry{}
	f := m.factory
	m.factory = nil
	m.updateModelMetricsLocked()
	m.mu.Unlock()

	var first error
	for _, b := range backends {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	if f != nil {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
