package manager

import (
	"context"
	"sort"

	"onnxd/internal/repo"
)

// Reload reconciles the manager against the repository directory: models
// that appeared are loaded, models that vanished are unloaded, and tracked
// models are rebuilt when their highest version changed or their last load
// failed. A tracked model whose version is unchanged keeps serving
// untouched; a config-only edit is picked up with an explicit Load.
func (m *Manager) Reload(ctx context.Context) error {
	models, err := repo.Scan(m.repoDir)
	if err != nil {
		m.mu.Lock()
		m.scanErr = err.Error()
		m.mu.Unlock()
		return err
	}

	type snapshot struct {
		version int64
		state   State
	}
	m.mu.Lock()
	m.scanErr = ""
	present := make(map[string]bool, len(models))
	for _, ent := range models {
		present[ent.Name] = true
	}
	var removed []string
	tracked := make(map[string]snapshot, len(m.models))
	for name, e := range m.models {
		tracked[name] = snapshot{version: e.Version, state: e.State}
		if !present[name] {
			removed = append(removed, name)
		}
	}
	m.mu.Unlock()

	sort.Strings(removed)
	for _, name := range removed {
		_ = m.Unload(name)
	}
	added, refreshed := 0, 0
	for _, ent := range models {
		snap, ok := tracked[ent.Name]
		switch {
		case !ok:
			added++
		case snap.state == StateLoading:
			// An in-flight load will settle on its own.
			continue
		case snap.state == StateError:
			refreshed++
		default:
			if _, v, err := repo.LatestVersion(ent.Dir); err == nil && v == snap.version {
				continue
			}
			refreshed++
		}
		_ = m.loadEntry(ctx, ent)
	}
	m.publisher.Publish(Event{Name: "reload", Fields: map[string]any{
		"added": added, "removed": len(removed), "refreshed": refreshed}})
	return nil
}
