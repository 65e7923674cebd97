package e2e

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"onnxd/internal/artifact"
	"onnxd/internal/backend"
	"onnxd/internal/fetch"
	"onnxd/internal/httpapi"
	"onnxd/internal/manager"
	"onnxd/internal/ort"
	"onnxd/internal/scratch"
)

const cpuConfig = "platform: onnxruntime_onnx\n"

var onnxBytes = []byte{0x08, 0x07, 0x12, 0x00}

// fakeRuntime satisfies ort.Runtime without native code so the whole stack
// can run under httptest.
type fakeRuntime struct {
	mu   sync.Mutex
	open int
}

func (f *fakeRuntime) Name() string    { return "fake" }
func (f *fakeRuntime) Init() error     { return nil }
func (f *fakeRuntime) Shutdown() error { return nil }

func (f *fakeRuntime) NewSession(m ort.Model, o ort.SessionOptions) (ort.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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

// writeModel lays out repo/<name>/config.yaml and repo/<name>/<version> with
// the given artifact files.
func writeModel(t *testing.T, repo, name string, version int, cfg string, files map[string][]byte) {
	t.Helper()
	dir := filepath.Join(repo, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if cfg != "" {
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	vdir := filepath.Join(dir, strconv.Itoa(version))
	if err := os.MkdirAll(vdir, 0o755); err != nil {
		t.Fatalf("mkdir version: %v", err)
	}
	for fname, data := range files {
		if err := os.WriteFile(filepath.Join(vdir, fname), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", fname, err)
		}
	}
}

// newServer wires scratch, resolver, loader, factory, manager and the HTTP
// mux the same way the daemon does and serves it from httptest.
func newServer(t *testing.T, repoDir string) (*httptest.Server, *manager.Manager) {
	t.Helper()
	root, err := scratch.Open(filepath.Join(t.TempDir(), "scratch"))
	if err != nil {
		t.Fatalf("scratch: %v", err)
	}
	t.Cleanup(func() { _ = root.Close() })
	resolver := artifact.NewResolver(root, fetch.New(fetch.S3Options{}))
	loader := ort.NewLoader(&fakeRuntime{})
	m := manager.NewWithConfig(manager.ManagerConfig{
		RepositoryDir:        repoDir,
		MinComputeCapability: 6.0,
		NewFactory: func() (*backend.Factory, error) {
			return backend.NewFactory(&backend.Config{}, loader, resolver)
		},
	})
	t.Cleanup(func() { _ = m.Close() })
	srv := httptest.NewServer(httpapi.NewMux(m))
	t.Cleanup(srv.Close)
	return srv, m
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPost(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
