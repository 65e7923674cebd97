package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"onnxd/pkg/types"
)

func TestE2E_Models_Status_Ready(t *testing.T) {
	repo := t.TempDir()
	writeModel(t, repo, "resnet50", 1, cpuConfig, map[string][]byte{"model.onnx": onnxBytes})
	writeModel(t, repo, "bert", 3, cpuConfig, map[string][]byte{"model.onnx": onnxBytes})
	srv, m := newServer(t, repo)

	// Before LoadAll the daemon has not finished startup.
	resp, body := httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz before startup: %d %s", resp.StatusCode, string(body))
	}

	if err := m.LoadAll(context.Background()); err != nil {
		t.Fatalf("load all: %v", err)
	}

	resp, body = httpGet(t, srv.URL+"/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/models %d %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/models content-type=%s", ct)
	}
	var models types.ModelsResponse
	if err := json.Unmarshal(body, &models); err != nil {
		t.Fatalf("/models json: %v body=%s", err, string(body))
	}
	if len(models.Models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models.Models))
	}
	if models.Models[0].Name != "bert" || models.Models[1].Name != "resnet50" {
		t.Fatalf("models not sorted by name: %s, %s", models.Models[0].Name, models.Models[1].Name)
	}
	for _, ms := range models.Models {
		if ms.State != "ready" {
			t.Fatalf("model %s state=%s error=%s", ms.Name, ms.State, ms.Error)
		}
		if len(ms.ExecutionContexts) != 1 {
			t.Fatalf("model %s contexts=%d, want 1", ms.Name, len(ms.ExecutionContexts))
		}
	}
	if models.Models[0].Version != 3 {
		t.Fatalf("bert version=%d, want 3", models.Models[0].Version)
	}

	resp, body = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz after startup: %d %s", resp.StatusCode, string(body))
	}

	resp, body = httpGet(t, srv.URL+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if st.State != "ready" {
		t.Fatalf("status state=%s error=%s", st.State, st.Error)
	}
	if len(st.Models) != 2 {
		t.Fatalf("status models=%d, want 2", len(st.Models))
	}
	if st.Runtime.Name == "" {
		t.Fatal("status runtime name empty")
	}
}

func TestE2E_Load_Unload_Flow(t *testing.T) {
	repo := t.TempDir()
	srv, m := newServer(t, repo)
	if err := m.LoadAll(context.Background()); err != nil {
		t.Fatalf("load all: %v", err)
	}

	// Model appears in the repository after startup; an explicit load picks
	// it up.
	writeModel(t, repo, "gpt2", 1, cpuConfig, map[string][]byte{"model.onnx": onnxBytes})

	resp, body := httpPost(t, srv.URL+"/models/gpt2/load")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("load %d %s", resp.StatusCode, string(body))
	}
	var loaded types.LoadResponse
	if err := json.Unmarshal(body, &loaded); err != nil {
		t.Fatalf("load json: %v body=%s", err, string(body))
	}
	if loaded.Model != "gpt2" || loaded.OpID == "" {
		t.Fatalf("load response: %+v", loaded)
	}

	resp, body = httpGet(t, srv.URL+"/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/models %d %s", resp.StatusCode, string(body))
	}
	var models types.ModelsResponse
	if err := json.Unmarshal(body, &models); err != nil {
		t.Fatalf("/models json: %v", err)
	}
	if len(models.Models) != 1 || models.Models[0].State != "ready" {
		t.Fatalf("models after load: %+v", models.Models)
	}

	resp, body = httpPost(t, srv.URL+"/models/gpt2/unload")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unload %d %s", resp.StatusCode, string(body))
	}
	resp, body = httpGet(t, srv.URL+"/models")
	if err := json.Unmarshal(body, &models); err != nil {
		t.Fatalf("/models json: %v", err)
	}
	if len(models.Models) != 0 {
		t.Fatalf("models after unload: %+v", models.Models)
	}

	// Unloading again and loading something unknown both miss.
	resp, body = httpPost(t, srv.URL+"/models/gpt2/unload")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second unload %d %s", resp.StatusCode, string(body))
	}
	resp, body = httpPost(t, srv.URL+"/models/nope/load")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("load unknown %d %s", resp.StatusCode, string(body))
	}
}

func TestE2E_Metrics_Exposed(t *testing.T) {
	repo := t.TempDir()
	writeModel(t, repo, "tiny", 1, cpuConfig, map[string][]byte{"model.onnx": onnxBytes})
	srv, m := newServer(t, repo)
	if err := m.LoadAll(context.Background()); err != nil {
		t.Fatalf("load all: %v", err)
	}
	// Drive a request through the middleware so counters move.
	if resp, _ := httpGet(t, srv.URL+"/models"); resp.StatusCode != http.StatusOK {
		t.Fatalf("/models %d", resp.StatusCode)
	}

	resp, body := httpGet(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
	for _, want := range []string{"onnxd_http_requests_total", "onnxd_manager_loads_total"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("/metrics missing %s", want)
		}
	}
}
