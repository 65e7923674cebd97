package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"onnxd/internal/artifact"
	"onnxd/internal/common/fsutil"
	"onnxd/internal/gpu"
	"onnxd/internal/modelcfg"
	"onnxd/internal/ort"
)

// Backend is one constructed model: a validated configuration plus an
// execution context per configured instance.
type Backend struct {
	factory *Factory
	name    string
	path    string
	cfg     *modelcfg.Config
	minCC   float64
	ctxs    []*ExecutionContext
}

// ExecutionContext is a single native session placed on a device.
type ExecutionContext struct {
	Name     string
	Kind     modelcfg.Kind
	DeviceID int // -1 for CPU placements
	Artifact string

	session ort.Session
}

// Inputs returns the session's input tensor names.
func (e *ExecutionContext) Inputs() []string { return e.session.Inputs() }

// Outputs returns the session's output tensor names.
func (e *ExecutionContext) Outputs() []string { return e.session.Outputs() }

// Close destroys the native session.
func (e *ExecutionContext) Close() error { return e.session.Close() }

// Init binds the model configuration to the backend and validates that this
// backend serves its platform. path is the version directory the backend is
// built from; the model name falls back to its parent directory.
func (b *Backend) Init(path string, mc *modelcfg.Config, platform string) error {
	dirName := filepath.Base(filepath.Dir(path))
	if mc == nil {
		return &ConfigValidationError{Model: dirName, Reason: "nil model config"}
	}
	name := mc.Name
	if name == "" {
		name = dirName
	}
	b.name = name
	b.path = path
	if mc.Platform != platform {
		return &ConfigValidationError{
			Model:  name,
			Reason: fmt.Sprintf("platform %q not served by this backend (want %q)", mc.Platform, platform),
		}
	}
	if mc.MaxBatchSize < 0 {
		return &ConfigValidationError{Model: name, Reason: "max_batch_size must not be negative"}
	}
	b.cfg = mc
	return nil
}

// Name returns the model name.
func (b *Backend) Name() string { return b.name }

// Config returns the bound model configuration.
func (b *Backend) Config() *modelcfg.Config { return b.cfg }

// Contexts returns the constructed execution contexts.
func (b *Backend) Contexts() []*ExecutionContext {
	out := make([]*ExecutionContext, len(b.ctxs))
	copy(out, b.ctxs)
	return out
}

// placement is one device target an instance group expands to.
type placement struct {
	useCUDA bool
	device  int
	label   string
}

// groupPlacements expands an instance group to its device targets. GPU
// groups with an explicit device list must name visible devices at or above
// the capability floor; an empty list takes every eligible device.
func (b *Backend) groupPlacements(g modelcfg.InstanceGroup) ([]placement, error) {
	if g.Kind != modelcfg.KindGPU {
		return []placement{{device: -1, label: "cpu"}}, nil
	}
	inventory := b.factory.cfg.GPUs
	if len(g.GPUs) > 0 {
		out := make([]placement, 0, len(g.GPUs))
		for _, id := range g.GPUs {
			dev, ok := gpu.Lookup(inventory, id)
			if !ok {
				return nil, &ExecutionContextError{Model: b.name,
					Err: fmt.Errorf("instance group %s: gpu %d is not visible", g.Name, id)}
			}
			if dev.ComputeCapability < b.minCC {
				return nil, &ExecutionContextError{Model: b.name,
					Err: fmt.Errorf("instance group %s: %s below minimum compute capability %.1f", g.Name, dev, b.minCC)}
			}
			out = append(out, placement{useCUDA: true, device: id, label: fmt.Sprintf("gpu%d", id)})
		}
		return out, nil
	}
	var out []placement
	for _, dev := range inventory {
		if dev.ComputeCapability < b.minCC {
			continue
		}
		out = append(out, placement{useCUDA: true, device: dev.ID, label: fmt.Sprintf("gpu%d", dev.ID)})
	}
	if len(out) == 0 {
		return nil, &ExecutionContextError{Model: b.name,
			Err: fmt.Errorf("instance group %s: no visible gpu meets minimum compute capability %.1f", g.Name, b.minCC)}
	}
	return out, nil
}

// CreateExecutionContexts builds one native session per instance group
// replica and device target, reading artifacts from the resolved map. The
// first failure aborts construction; already created contexts are closed by
// the caller via Close.
func (b *Backend) CreateExecutionContexts(ctx context.Context, arts artifact.Map) error {
	if b.cfg == nil {
		return &ConfigValidationError{Model: b.name, Reason: "backend not initialized"}
	}
	for _, g := range b.cfg.InstanceGroups {
		placements, err := b.groupPlacements(g)
		if err != nil {
			return err
		}
		for i := 0; i < g.Count; i++ {
			for _, p := range placements {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := b.createContext(arts, g, i, p); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (b *Backend) createContext(arts artifact.Map, g modelcfg.InstanceGroup, replica int, p placement) error {
	aname := b.cfg.ArtifactFor(g)
	art, ok := arts[aname]
	if !ok {
		return &ExecutionContextError{Model: b.name, Artifact: aname,
			Err: fmt.Errorf("artifact not found in version directory (have: %s)", strings.Join(arts.Names(), ", "))}
	}
	model := ort.Model{Name: aname}
	switch a := art.(type) {
	case artifact.Inline:
		model.Data = a.Data
	case artifact.Localized:
		// Bundles conventionally carry their main file at the bundle root.
		model.Path = a.Path
		if mainFile := filepath.Join(a.Path, b.cfg.DefaultModelFilename); fsutil.PathExists(mainFile) {
			model.Path = mainFile
		}
	}
	sess, err := b.factory.loader.NewSession(model, ort.SessionOptions{UseCUDA: p.useCUDA, DeviceID: p.device})
	if err != nil {
		return &ExecutionContextError{Model: b.name, Artifact: aname, Err: err}
	}
	b.ctxs = append(b.ctxs, &ExecutionContext{
		Name:     fmt.Sprintf("%s_%s_%d_%s", b.name, g.Name, replica, p.label),
		Kind:     g.Kind,
		DeviceID: p.device,
		Artifact: aname,
		session:  sess,
	})
	return nil
}

// Close releases every execution context. Idempotent; the first close error
// is reported, remaining contexts are still closed.
func (b *Backend) Close() error {
	var first error
	for _, ec := range b.ctxs {
		if err := ec.Close(); err != nil && first == nil {
			first = err
		}
	}
	b.ctxs = nil
	return first
}
