// Package ort wraps the native ONNX Runtime used to build execution
// contexts. The real binding compiles in behind the 'ort' build tag; default
// builds carry a stub that fails fast, keeping CI and cross-compiles free of
// cgo. Environment lifetime is refcounted through Loader so independent
// factories can share one native environment.
package ort

// Options configure the native runtime environment.
type Options struct {
	// LibraryPath overrides the onnxruntime shared library location.
	// Empty means the platform default search order.
	LibraryPath    string
	IntraOpThreads int
	InterOpThreads int
}

// Model is the artifact a session is constructed from. Exactly one of Data
// and Path is set: Data carries an in-memory model, Path points at a local
// file materialized by artifact resolution.
type Model struct {
	Name string
	Data []byte
	Path string
}

// SessionOptions place one session on a device.
type SessionOptions struct {
	UseCUDA  bool
	DeviceID int
}

// Session is one constructed inference session.
type Session interface {
	Inputs() []string
	Outputs() []string
	Close() error
}

// Runtime is the native surface the daemon drives. Implementations are not
// required to be safe for concurrent use; Loader serializes access.
type Runtime interface {
	Name() string
	Init() error
	Shutdown() error
	NewSession(model Model, opts SessionOptions) (Session, error)
}

// Built reports whether real onnxruntime support was compiled in.
func Built() bool { return runtimeBuilt }
