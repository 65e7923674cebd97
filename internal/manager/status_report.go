package manager

import (
	"sort"
	"time"

	"onnxd/internal/ort"
	"onnxd/pkg/types"
)

// Models returns the tracked models sorted by name.
func (m *Manager) Models() types.ModelsResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return types.ModelsResponse{Models: m.modelStatusesLocked()}
}

// Status builds the detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := types.StatusResponse{
		Models:               m.modelStatusesLocked(),
		MinComputeCapability: m.minCC,
		Error:                m.scanErr,
		UptimeSeconds:        int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:       time.Now().Unix(),
	}
	resp.Runtime = types.RuntimeStatus{Name: "onnxruntime", Built: ort.Built(), Error: m.runtimeErr}
	if m.factory != nil {
		resp.Runtime.Name = m.factory.RuntimeName()
	}
	for _, dev := range m.gpus {
		resp.GPUs = append(resp.GPUs, types.GPUStatus{
			ID: dev.ID, Name: dev.Name, ComputeCapability: dev.ComputeCapability,
		})
	}
	resp.State = m.stateLocked()
	return resp
}

func (m *Manager) stateLocked() string {
	if m.runtimeErr != "" || m.scanErr != "" {
		return string(StateError)
	}
	if !m.started {
		return string(StateLoading)
	}
	for _, e := range m.models {
		if e.State == StateLoading {
			return string(StateLoading)
		}
	}
	return string(StateReady)
}

func (m *Manager) modelStatusesLocked() []types.ModelStatus {
	out := make([]types.ModelStatus, 0, len(m.models))
	for _, e := range m.models {
		ms := types.ModelStatus{
			Name:    e.Name,
			State:   string(e.State),
			Error:   e.Err,
			Version: e.Version,
		}
		if !e.LoadedAt.IsZero() {
			ms.LoadedAtUnix = e.LoadedAt.Unix()
		}
		if e.Config != nil {
			ms.Platform = e.Config.Platform
			ms.MaxBatchSize = e.Config.MaxBatchSize
		}
		if e.Backend != nil {
			for _, ec := range e.Backend.Contexts() {
				ms.ExecutionContexts = append(ms.ExecutionContexts, types.ExecutionContextStatus{
					Name:     ec.Name,
					Kind:     string(ec.Kind),
					DeviceID: ec.DeviceID,
					Artifact: ec.Artifact,
					Inputs:   ec.Inputs(),
					Outputs:  ec.Outputs(),
				})
			}
		}
		out = append(out, ms)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
