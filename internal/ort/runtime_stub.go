//go:build !ort

package ort

import "errors"

// This file provides a cgo-free stub compiled when the 'ort' build tag is
// NOT set. Default builds and CI stay free of native dependencies; any
// attempt to actually use the runtime fails fast instead of mocking
// inference behavior.

var runtimeBuilt = false

type stubRuntime struct{}

// NewRuntime returns the stub. The real binding lives in runtime_ort.go
// (tagged 'ort').
func NewRuntime(opts Options) Runtime {
	return stubRuntime{}
}

func (stubRuntime) Name() string { return "onnxruntime" }

func (stubRuntime) Init() error {
	return errors.New("onnxruntime support not built (missing 'ort' build tag)")
}

func (stubRuntime) Shutdown() error { return nil }

func (stubRuntime) NewSession(Model, SessionOptions) (Session, error) {
	return nil, errors.New("onnxruntime support not built (missing 'ort' build tag)")
}
