package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func mkModel(t *testing.T, root, name string, versions ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("platform: onnxruntime_onnx\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	for _, v := range versions {
		if err := os.MkdirAll(filepath.Join(dir, v), 0o755); err != nil {
			t.Fatalf("mkdir version: %v", err)
		}
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	mkModel(t, root, "bert", "1")
	mkModel(t, root, "resnet", "1", "2")
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".staging"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	models, err := Scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("models = %+v", models)
	}
	// Lexicographic order, plain files and hidden dirs skipped.
	if models[0].Name != "bert" || models[1].Name != "resnet" {
		t.Fatalf("order = %s, %s", models[0].Name, models[1].Name)
	}
	if filepath.Base(models[0].ConfigPath) != "config.yaml" {
		t.Fatalf("config path = %q", models[0].ConfigPath)
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLatestVersion(t *testing.T) {
	root := t.TempDir()
	mkModel(t, root, "resnet", "1", "3", "10")
	// Non-numeric and hidden directories are not versions.
	if err := os.MkdirAll(filepath.Join(root, "resnet", "latest"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "resnet", ".tmp"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, n, err := LatestVersion(filepath.Join(root, "resnet"))
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if n != 10 {
		t.Fatalf("version = %d, want 10", n)
	}
	if filepath.Base(path) != "10" {
		t.Fatalf("path = %q", path)
	}
}

func TestLatestVersionNone(t *testing.T) {
	root := t.TempDir()
	mkModel(t, root, "bare")
	if _, _, err := LatestVersion(filepath.Join(root, "bare")); err == nil {
		t.Fatal("expected error for model without versions")
	}
}
