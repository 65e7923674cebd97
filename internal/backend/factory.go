package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"onnxd/internal/artifact"
	"onnxd/internal/modelcfg"
	"onnxd/internal/ort"
)

// Factory builds ONNX backends. It holds one reference on the shared
// runtime environment from creation until Close.
type Factory struct {
	cfg      *Config
	loader   *ort.Loader
	resolver *artifact.Resolver

	mu     sync.Mutex
	closed bool
}

// NewFactory type-checks rc and acquires a runtime reference. The type
// check comes first: a mismatched config never initializes native state.
func NewFactory(rc RuntimeConfig, loader *ort.Loader, resolver *artifact.Resolver) (*Factory, error) {
	cfg, ok := rc.(*Config)
	if !ok {
		return nil, &ConfigTypeError{Got: fmt.Sprintf("%T", rc)}
	}
	if err := loader.Init(); err != nil {
		return nil, err
	}
	return &Factory{cfg: cfg, loader: loader, resolver: resolver}, nil
}

// RuntimeName names the native runtime for reporting.
func (f *Factory) RuntimeName() string { return f.loader.RuntimeName() }

// Close releases the factory's runtime reference. Backends built by the
// factory must be closed first. Idempotent.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.loader.Stop()
}

// CreateBackend resolves the version directory at path and constructs a
// ready Backend for it. Scratch stores backing localized bundles live
// exactly as long as construction and are released on success and on every
// failure path. The first failing step aborts the whole construction.
func (f *Factory) CreateBackend(ctx context.Context, path string, mc *modelcfg.Config, minCC float64) (*Backend, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, errors.New("backend factory is closed")
	}
	f.mu.Unlock()

	res, err := f.resolver.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Release() }()

	b := &Backend{factory: f, minCC: minCC}
	if err := b.Init(path, mc, modelcfg.PlatformONNX); err != nil {
		return nil, err
	}
	if err := b.CreateExecutionContexts(ctx, res.Artifacts); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}
