package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"onnxd/internal/artifact"
	"onnxd/internal/fetch"
	"onnxd/internal/gpu"
	"onnxd/internal/modelcfg"
	"onnxd/internal/ort"
	"onnxd/internal/scratch"
)

type sessionRecord struct {
	name   string
	cuda   bool
	device int
	inline bool
	path   string
}

// fakeRuntime records session construction and tracks live sessions.
type fakeRuntime struct {
	mu        sync.Mutex
	inits     int
	shutdowns int
	records   []sessionRecord
	failOn    string
	open      int
}

func (f *fakeRuntime) Name() string { return "fake" }

func (f *fakeRuntime) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return nil
}

func (f *fakeRuntime) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	return nil
}

func (f *fakeRuntime) NewSession(m ort.Model, o ort.SessionOptions) (ort.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && f.failOn == m.Name {
		return nil, errors.New("runtime rejected model")
	}
	f.records = append(f.records, sessionRecord{
		name: m.Name, cuda: o.UseCUDA, device: o.DeviceID,
		inline: len(m.Data) > 0, path: m.Path,
	})
	f.open++
	return &fakeSession{rt: f}, nil
}

type fakeSession struct {
	rt     *fakeRuntime
	closed bool
}

func (s *fakeSession) Inputs() []string  { return []string{"input"} }
func (s *fakeSession) Outputs() []string { return []string{"output"} }

func (s *fakeSession) Close() error {
	if !s.closed {
		s.closed = true
		s.rt.mu.Lock()
		s.rt.open--
		s.rt.mu.Unlock()
	}
	return nil
}

func newHarness(t *testing.T, rt *fakeRuntime, devices []gpu.Device) (*Factory, *scratch.Root) {
	t.Helper()
	root, err := scratch.Open(filepath.Join(t.TempDir(), "scratch"))
	if err != nil {
		t.Fatalf("scratch: %v", err)
	}
	t.Cleanup(func() { _ = root.Close() })
	resolver := artifact.NewResolver(root, fetch.New(fetch.S3Options{}))
	f, err := NewFactory(&Config{GPUs: devices}, ort.NewLoader(rt), resolver)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f, root
}

// versionDir lays out <tmp>/<model>/1 with the given files and returns the
// version directory path.
func versionDir(t *testing.T, model string, files map[string][]byte) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), model, "1")
	for name, data := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return dir
}

func onnxConfig(t *testing.T, name string, groups ...modelcfg.InstanceGroup) *modelcfg.Config {
	t.Helper()
	c := &modelcfg.Config{Name: name, Platform: modelcfg.PlatformONNX, InstanceGroups: groups}
	if err := c.ApplyDefaults(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	return c
}

func assertNoStores(t *testing.T, root *scratch.Root) {
	t.Helper()
	entries, err := os.ReadDir(root.Dir())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Fatalf("scratch store leaked: %s", e.Name())
		}
	}
}

type foreignConfig struct{}

func (foreignConfig) BackendKind() string { return "tensorrt" }

func TestNewFactoryRejectsForeignConfig(t *testing.T) {
	rt := &fakeRuntime{}
	root, err := scratch.Open(filepath.Join(t.TempDir(), "scratch"))
	if err != nil {
		t.Fatalf("scratch: %v", err)
	}
	defer func() { _ = root.Close() }()
	resolver := artifact.NewResolver(root, fetch.New(fetch.S3Options{}))

	_, err = NewFactory(foreignConfig{}, ort.NewLoader(rt), resolver)
	if !IsConfigTypeError(err) {
		t.Fatalf("got %T %v, want ConfigTypeError", err, err)
	}
	// The type check must precede any native initialization.
	if rt.inits != 0 {
		t.Fatalf("runtime touched %d times on config mismatch", rt.inits)
	}
}

func TestFactoryLifecycle(t *testing.T) {
	rt := &fakeRuntime{}
	f, _ := newHarness(t, rt, nil)
	if rt.inits != 1 {
		t.Fatalf("inits = %d, want 1", rt.inits)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if rt.shutdowns != 1 {
		t.Fatalf("shutdowns = %d, want 1", rt.shutdowns)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if rt.shutdowns != 1 {
		t.Fatalf("second close reached the runtime: %d", rt.shutdowns)
	}
}

func TestCreateBackendCPUReplicas(t *testing.T) {
	rt := &fakeRuntime{}
	f, root := newHarness(t, rt, nil)
	dir := versionDir(t, "resnet", map[string][]byte{
		"model.onnx": {0x08, 0x01, 0x00, 0x12},
	})
	cfg := onnxConfig(t, "resnet", modelcfg.InstanceGroup{Kind: modelcfg.KindCPU, Count: 2})

	b, err := f.CreateBackend(context.Background(), dir, cfg, 0)
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	ctxs := b.Contexts()
	if len(ctxs) != 2 {
		t.Fatalf("contexts = %d, want 2", len(ctxs))
	}
	if ctxs[0].Name != "resnet_group0_0_cpu" || ctxs[1].Name != "resnet_group0_1_cpu" {
		t.Fatalf("context names %q %q", ctxs[0].Name, ctxs[1].Name)
	}
	for _, r := range rt.records {
		if !r.inline || r.cuda {
			t.Fatalf("unexpected session record %+v", r)
		}
	}
	if ctxs[0].Inputs()[0] != "input" || ctxs[0].Outputs()[0] != "output" {
		t.Fatalf("tensor names lost: %v %v", ctxs[0].Inputs(), ctxs[0].Outputs())
	}
	assertNoStores(t, root)

	if err := b.Close(); err != nil {
		t.Fatalf("backend close: %v", err)
	}
	if rt.open != 0 {
		t.Fatalf("%d sessions still open", rt.open)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestCreateBackendBundleMainFile(t *testing.T) {
	rt := &fakeRuntime{}
	f, root := newHarness(t, rt, nil)
	dir := versionDir(t, "bert", map[string][]byte{
		filepath.Join("bundle", "model.onnx"):  []byte("proto"),
		filepath.Join("bundle", "weights.bin"): {0x00, 0x01},
	})
	cfg := onnxConfig(t, "bert", modelcfg.InstanceGroup{Kind: modelcfg.KindCPU, ModelFilename: "bundle"})

	b, err := f.CreateBackend(context.Background(), dir, cfg, 0)
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	defer func() { _ = b.Close() }()
	if len(rt.records) != 1 {
		t.Fatalf("records = %+v", rt.records)
	}
	r := rt.records[0]
	if r.inline {
		t.Fatal("bundle artifact passed as inline bytes")
	}
	if filepath.Base(r.path) != "model.onnx" {
		t.Fatalf("session path %q does not point at the bundle main file", r.path)
	}
	// The store is gone once construction finished.
	if _, err := os.Stat(r.path); !os.IsNotExist(err) {
		t.Fatalf("localized path survived construction: %v", err)
	}
	assertNoStores(t, root)
}

func TestCreateBackendMissingArtifact(t *testing.T) {
	rt := &fakeRuntime{}
	f, root := newHarness(t, rt, nil)
	dir := versionDir(t, "resnet", map[string][]byte{"net.onnx": []byte("proto")})
	cfg := onnxConfig(t, "resnet")

	_, err := f.CreateBackend(context.Background(), dir, cfg, 0)
	if !IsExecutionContextError(err) {
		t.Fatalf("got %T %v, want ExecutionContextError", err, err)
	}
	var ece *ExecutionContextError
	if !errors.As(err, &ece) || ece.Artifact != modelcfg.DefaultModelFilename {
		t.Fatalf("wrong artifact in error: %v", err)
	}
	if len(rt.records) != 0 {
		t.Fatalf("sessions created despite missing artifact: %+v", rt.records)
	}
	assertNoStores(t, root)
}

func TestCreateBackendPlatformMismatch(t *testing.T) {
	rt := &fakeRuntime{}
	f, _ := newHarness(t, rt, nil)
	dir := versionDir(t, "resnet", map[string][]byte{"model.onnx": []byte("proto")})
	cfg := onnxConfig(t, "resnet")
	cfg.Platform = "tensorrt_plan"

	_, err := f.CreateBackend(context.Background(), dir, cfg, 0)
	if !IsConfigValidationError(err) {
		t.Fatalf("got %T %v, want ConfigValidationError", err, err)
	}
	if len(rt.records) != 0 {
		t.Fatal("sessions created despite platform mismatch")
	}
}

func TestCreateBackendGPUFloor(t *testing.T) {
	rt := &fakeRuntime{}
	devs := []gpu.Device{{ID: 0, Name: "Tesla T4", ComputeCapability: 7.5}}
	f, _ := newHarness(t, rt, devs)
	dir := versionDir(t, "resnet", map[string][]byte{"model.onnx": []byte("proto")})
	cfg := onnxConfig(t, "resnet", modelcfg.InstanceGroup{Kind: modelcfg.KindGPU, GPUs: []int{0}})

	if _, err := f.CreateBackend(context.Background(), dir, cfg, 8.0); !IsExecutionContextError(err) {
		t.Fatalf("capability below floor: got %v", err)
	}
	if len(rt.records) != 0 {
		t.Fatal("session created below capability floor")
	}

	b, err := f.CreateBackend(context.Background(), dir, cfg, 7.0)
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	defer func() { _ = b.Close() }()
	if len(rt.records) != 1 || !rt.records[0].cuda || rt.records[0].device != 0 {
		t.Fatalf("records = %+v", rt.records)
	}
}

func TestCreateBackendGPUAutofill(t *testing.T) {
	rt := &fakeRuntime{}
	devs := []gpu.Device{
		{ID: 0, ComputeCapability: 6.0},
		{ID: 1, ComputeCapability: 7.5},
	}
	f, _ := newHarness(t, rt, devs)
	dir := versionDir(t, "resnet", map[string][]byte{"model.onnx": []byte("proto")})
	cfg := onnxConfig(t, "resnet", modelcfg.InstanceGroup{Kind: modelcfg.KindGPU})

	b, err := f.CreateBackend(context.Background(), dir, cfg, 7.0)
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	defer func() { _ = b.Close() }()
	// Only the device meeting the floor is used.
	if len(rt.records) != 1 || rt.records[0].device != 1 {
		t.Fatalf("records = %+v", rt.records)
	}
}

func TestCreateBackendUnknownGPU(t *testing.T) {
	rt := &fakeRuntime{}
	f, _ := newHarness(t, rt, []gpu.Device{{ID: 0, ComputeCapability: 7.5}})
	dir := versionDir(t, "resnet", map[string][]byte{"model.onnx": []byte("proto")})
	cfg := onnxConfig(t, "resnet", modelcfg.InstanceGroup{Kind: modelcfg.KindGPU, GPUs: []int{3}})

	if _, err := f.CreateBackend(context.Background(), dir, cfg, 0); !IsExecutionContextError(err) {
		t.Fatalf("got %v, want ExecutionContextError", err)
	}
}

func TestCreateBackendRuntimeRejectionClosesPartial(t *testing.T) {
	rt := &fakeRuntime{failOn: "bad.onnx"}
	f, root := newHarness(t, rt, nil)
	dir := versionDir(t, "resnet", map[string][]byte{
		"model.onnx": []byte("ok"),
		"bad.onnx":   []byte("bad"),
	})
	cfg := onnxConfig(t, "resnet",
		modelcfg.InstanceGroup{Kind: modelcfg.KindCPU},
		modelcfg.InstanceGroup{Kind: modelcfg.KindCPU, ModelFilename: "bad.onnx"},
	)

	_, err := f.CreateBackend(context.Background(), dir, cfg, 0)
	if !IsExecutionContextError(err) {
		t.Fatalf("got %v, want ExecutionContextError", err)
	}
	// The context built before the failure must not leak.
	if len(rt.records) != 1 {
		t.Fatalf("records = %+v", rt.records)
	}
	if rt.open != 0 {
		t.Fatalf("%d sessions leaked after aborted construction", rt.open)
	}
	assertNoStores(t, root)
}

func TestCreateBackendOnClosedFactory(t *testing.T) {
	rt := &fakeRuntime{}
	f, _ := newHarness(t, rt, nil)
	_ = f.Close()
	dir := versionDir(t, "resnet", map[string][]byte{"model.onnx": []byte("proto")})
	if _, err := f.CreateBackend(context.Background(), dir, onnxConfig(t, "resnet"), 0); err == nil {
		t.Fatal("expected error from closed factory")
	}
}

func TestBackendInitNameFallsBackToDirectory(t *testing.T) {
	b := &Backend{}
	mc := onnxConfig(t, "")
	if err := b.Init(filepath.Join("repo", "squeezenet", "3"), mc, modelcfg.PlatformONNX); err != nil {
		t.Fatalf("init: %v", err)
	}
	if b.Name() != "squeezenet" {
		t.Fatalf("name = %q", b.Name())
	}
}
