// Package backend constructs ONNX model backends: it turns a resolved
// artifact map plus a model configuration into native execution contexts
// placed on CPU or CUDA devices. The factory owns one reference on the
// shared runtime environment for its whole lifetime.
package backend

import (
	"onnxd/internal/gpu"
	"onnxd/internal/ort"
)

// RuntimeConfig is the opaque configuration handed uniformly to every
// backend factory kind. Each factory checks for its own concrete type and
// rejects anything else before touching native state.
type RuntimeConfig interface {
	BackendKind() string
}

// Config is the ONNX factory's concrete runtime configuration.
type Config struct {
	// Runtime holds native environment knobs (library path, thread pools).
	Runtime ort.Options
	// GPUs is the visible device inventory with compute capabilities.
	GPUs []gpu.Device
}

// BackendKind implements RuntimeConfig.
func (*Config) BackendKind() string { return "onnxruntime" }
