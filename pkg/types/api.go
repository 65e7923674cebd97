package types

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Models tracked by the server, sorted by name.
	Models []ModelStatus `json:"models"`
}

// LoadResponse is returned by POST /models/{model}/load.
type LoadResponse struct {
	// Model the operation applies to.
	// example: resnet50
	Model string `json:"model" example:"resnet50"`
	// Operation id assigned to this load.
	// example: 7b40a9be-9c2f-4c6a-9f3c-0d9a8f6f2e11
	OpID string `json:"op_id" example:"7b40a9be-9c2f-4c6a-9f3c-0d9a8f6f2e11"`
}

// UnloadResponse is returned by POST /models/{model}/unload.
type UnloadResponse struct {
	// Model that was removed.
	// example: resnet50
	Model string `json:"model" example:"resnet50"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: resnet50
	Error string `json:"error" example:"model not found: resnet50"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Models tracked by the server, sorted by name.
	Models []ModelStatus `json:"models"`
	// Native runtime state.
	Runtime RuntimeStatus `json:"runtime"`
	// Visible CUDA devices.
	GPUs []GPUStatus `json:"gpus,omitempty"`
	// Minimum CUDA compute capability required for GPU placements.
	// example: 6.0
	MinComputeCapability float64 `json:"min_compute_capability" example:"6.0"`
	// Repository scan error, if the last scan failed.
	Error string `json:"error,omitempty"`
	// Overall server state (ready, loading, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
