package manager

import (
	"os"

	"onnxd/internal/ort"
	"onnxd/internal/repo"
)

// SanityReport describes environment checks run before serving.
type SanityReport struct {
	RuntimeBuilt    bool   `json:"runtime_built"`
	RepositoryDir   string `json:"repository_dir"`
	RepositoryOK    bool   `json:"repository_ok"`
	RepositoryError string `json:"repository_error,omitempty"`
	ModelCount      int    `json:"model_count"`
	GPUCount        int    `json:"gpu_count"`
}

// SanityCheck validates the repository directory and reports what the build
// and the machine offer. It does not mutate state and is safe to call at any
// time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{
		RuntimeBuilt:  ort.Built(),
		RepositoryDir: m.repoDir,
		GPUCount:      len(m.gpus),
	}
	fi, err := os.Stat(m.repoDir)
	switch {
	case err != nil:
		r.RepositoryError = err.Error()
	case !fi.IsDir():
		r.RepositoryError = "repository path is not a directory"
	default:
		r.RepositoryOK = true
	}
	if r.RepositoryOK {
		if models, err := repo.Scan(m.repoDir); err == nil {
			r.ModelCount = len(models)
		}
	}
	return r
}
