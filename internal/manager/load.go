package manager

import (
	"context"
	"time"

	"onnxd/internal/backend"
	"onnxd/internal/modelcfg"
	"onnxd/internal/repo"
)

// LoadAll scans the repository and loads every model found. Per-model
// failures are recorded on the entry and do not stop the rest; only a failed
// repository scan is returned. After LoadAll the manager reports ready.
func (m *Manager) LoadAll(ctx context.Context) error {
	models, err := repo.Scan(m.repoDir)
	if err != nil {
		m.mu.Lock()
		m.scanErr = err.Error()
		m.started = true
		m.mu.Unlock()
		return err
	}
	for _, ent := range models {
		_ = m.loadEntry(ctx, ent)
	}
	m.mu.Lock()
	m.scanErr = ""
	m.started = true
	m.mu.Unlock()
	return nil
}

// Load loads (or reloads in place) one model by name and returns the
// operation id. A model already serving keeps its old backend until the new
// one is ready; if the reload fails the old backend stays.
func (m *Manager) Load(ctx context.Context, name string) (string, error) {
	models, err := repo.Scan(m.repoDir)
	if err != nil {
		return "", err
	}
	for _, ent := range models {
		if ent.Name == name {
			return m.loadEntryOp(ctx, ent)
		}
	}
	return "", ErrModelNotFound(name)
}

func (m *Manager) loadEntry(ctx context.Context, ent repo.Entry) error {
	_, err := m.loadEntryOp(ctx, ent)
	return err
}

func (m *Manager) loadEntryOp(ctx context.Context, ent repo.Entry) (string, error) {
	opID := newOpID()

	m.mu.Lock()
	if cur := m.models[ent.Name]; cur != nil && cur.State == StateLoading {
		m.mu.Unlock()
		return "", ErrLoadInProgress(ent.Name)
	}
	var prev *modelEntry
	if cur := m.models[ent.Name]; cur != nil {
		prev = cur.clone()
	}
	m.models[ent.Name] = &modelEntry{Name: ent.Name, State: StateLoading, OpID: opID}
	m.updateModelMetricsLocked()
	m.mu.Unlock()

	m.publisher.Publish(Event{Name: "load_start", Model: ent.Name, OpID: opID})
	start := time.Now()
	b, version, err := m.buildBackend(ctx, ent)
	elapsed := time.Since(start)

	m.mu.Lock()
	e := m.models[ent.Name]
	if e == nil || e.OpID != opID {
		// Superseded by an unload or another load while we were building.
		m.mu.Unlock()
		if b != nil {
			_ = b.Close()
		}
		return opID, nil
	}
	var stale *backend.Backend
	if err != nil {
		if prev != nil && prev.State == StateReady {
			// Keep the old backend serving; surface the failure on the entry.
			restored := prev
			restored.Err = "reload failed: " + err.Error()
			m.models[ent.Name] = restored
		} else {
			e.State = StateError
			e.Err = err.Error()
		}
		loadsTotal.WithLabelValues("error").Inc()
	} else {
		e.State = StateReady
		e.Err = ""
		e.Backend = b
		e.Config = b.Config()
		e.Version = version
		e.LoadedAt = time.Now()
		if prev != nil {
			stale = prev.Backend
		}
		loadsTotal.WithLabelValues("ok").Inc()
		loadDuration.Observe(elapsed.Seconds())
	}
	m.updateModelMetricsLocked()
	m.mu.Unlock()

	if stale != nil {
		_ = stale.Close()
	}
	if err != nil {
		m.publisher.Publish(Event{Name: "load_failed", Model: ent.Name, OpID: opID,
			Fields: map[string]any{"error": err.Error()}})
		return opID, err
	}
	m.publisher.Publish(Event{Name: "load_done", Model: ent.Name, OpID: opID,
		Fields: map[string]any{"version": version, "duration_ms": elapsed.Milliseconds()}})
	return opID, nil
}

// buildBackend runs the full pipeline for one repository entry: model
// config, version selection, factory, backend construction.
func (m *Manager) buildBackend(ctx context.Context, ent repo.Entry) (*backend.Backend, int64, error) {
	cfg, err := modelcfg.Load(ent.ConfigPath)
	if err != nil {
		return nil, 0, err
	}
	if err := cfg.ValidateForModel(ent.Name); err != nil {
		return nil, 0, &backend.ConfigValidationError{Model: ent.Name, Reason: err.Error()}
	}
	versionDir, version, err := repo.LatestVersion(ent.Dir)
	if err != nil {
		return nil, 0, err
	}
	m.mu.Lock()
	f, err := m.getFactoryLocked()
	m.mu.Unlock()
	if err != nil {
		return nil, 0, err
	}
	b, err := f.CreateBackend(ctx, versionDir, cfg, m.minCC)
	if err != nil {
		return nil, 0, err
	}
	return b, version, nil
}
