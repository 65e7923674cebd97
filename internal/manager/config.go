package manager

import (
	"time"

	"onnxd/internal/backend"
	"onnxd/internal/gpu"
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// RepositoryDir is the model repository root.
	RepositoryDir string
	// MinComputeCapability is the CUDA capability floor for GPU placements.
	MinComputeCapability float64
	// NewFactory builds the backend factory on first use. Keeping
	// construction lazy lets the daemon come up and report a broken runtime
	// instead of dying on it.
	NewFactory func() (*backend.Factory, error)
	// GPUs is the visible device inventory, reported in Status.
	GPUs []gpu.Device
	// Publisher receives lifecycle events; nil means drop them.
	Publisher EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		repoDir:    cfg.RepositoryDir,
		minCC:      cfg.MinComputeCapability,
		newFactory: cfg.NewFactory,
		gpus:       cfg.GPUs,
		models:     make(map[string]*modelEntry),
		publisher:  cfg.Publisher,
		startTime:  time.Now(),
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	return m
}
