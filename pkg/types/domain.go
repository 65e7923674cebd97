package types

// ModelStatus describes one model tracked by the server.
type ModelStatus struct {
	// Model name, matching its repository directory.
	// example: resnet50
	Name string `json:"name" example:"resnet50"`
	// Current lifecycle state (ready, loading, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Error message when the model failed to load or reload.
	Error string `json:"error,omitempty"`
	// Version directory being served.
	// example: 3
	Version int64 `json:"version" example:"3"`
	// Platform declared by the model configuration.
	// example: onnxruntime_onnx
	Platform string `json:"platform,omitempty" example:"onnxruntime_onnx"`
	// Maximum batch size from the model configuration.
	// example: 8
	MaxBatchSize int `json:"max_batch_size" example:"8"`
	// Time the current backend finished loading (unix seconds).
	// example: 1700000000
	LoadedAtUnix int64 `json:"loaded_at_unix,omitempty" example:"1700000000"`
	// Execution contexts constructed for this model.
	ExecutionContexts []ExecutionContextStatus `json:"execution_contexts,omitempty"`
}

// ExecutionContextStatus describes one native session placed on a device.
type ExecutionContextStatus struct {
	// Context name: model, group, replica and device.
	// example: resnet50_group0_0_gpu0
	Name string `json:"name" example:"resnet50_group0_0_gpu0"`
	// Device kind (cpu or gpu).
	// example: gpu
	Kind string `json:"kind" example:"gpu"`
	// CUDA device ordinal, -1 for CPU placements.
	// example: 0
	DeviceID int `json:"device_id" example:"0"`
	// Artifact the session was created from.
	// example: model.onnx
	Artifact string `json:"artifact" example:"model.onnx"`
	// Input tensor names reported by the session.
	// example: ["input_1"]
	Inputs []string `json:"inputs,omitempty" example:"input_1"`
	// Output tensor names reported by the session.
	// example: ["probs"]
	Outputs []string `json:"outputs,omitempty" example:"probs"`
}

// GPUStatus describes one visible CUDA device.
type GPUStatus struct {
	// Device ordinal.
	// example: 0
	ID int `json:"id" example:"0"`
	// Device product name.
	// example: Tesla T4
	Name string `json:"name,omitempty" example:"Tesla T4"`
	// CUDA compute capability, 0 when unknown.
	// example: 7.5
	ComputeCapability float64 `json:"compute_capability" example:"7.5"`
}

// RuntimeStatus describes the native inference runtime.
type RuntimeStatus struct {
	// Runtime name.
	// example: onnxruntime
	Name string `json:"name" example:"onnxruntime"`
	// Whether native runtime support was compiled in.
	// example: true
	Built bool `json:"built" example:"true"`
	// Error message when the runtime failed to initialize.
	Error string `json:"error,omitempty"`
}
