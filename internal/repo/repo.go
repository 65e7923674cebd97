// Package repo reads the model repository layout:
//
//	<repository>/<model>/config.yaml
//	<repository>/<model>/<version>/<artifacts...>
//
// Model directories are scanned in lexicographic order. Version directories
// are numeric; the highest number is the one served.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"onnxd/internal/common/fsutil"
	"onnxd/internal/modelcfg"
)

// Entry is one model directory found in the repository.
type Entry struct {
	Name       string
	Dir        string
	ConfigPath string
}

// Scan lists the models under root. Hidden entries and plain files are
// skipped; symlinked model directories are followed.
func Scan(root string) ([]Entry, error) {
	base, err := fsutil.ExpandHome(root)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read repository: %w", err)
	}
	var models []Entry
	for _, e := range entries {
		name := e.Name()
		if fsutil.IsHidden(name) {
			continue
		}
		dir := filepath.Join(abs, name)
		st, err := os.Stat(dir)
		if err != nil || !st.IsDir() {
			continue
		}
		models = append(models, Entry{
			Name:       name,
			Dir:        dir,
			ConfigPath: filepath.Join(dir, modelcfg.ConfigFileName),
		})
	}
	return models, nil
}

// LatestVersion picks the highest numeric version subdirectory of a model
// directory and returns its path and number.
func LatestVersion(modelDir string) (string, int64, error) {
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		return "", 0, fmt.Errorf("read model dir: %w", err)
	}
	best := int64(-1)
	for _, e := range entries {
		name := e.Name()
		if fsutil.IsHidden(name) {
			continue
		}
		st, err := os.Stat(filepath.Join(modelDir, name))
		if err != nil || !st.IsDir() {
			continue
		}
		n, err := strconv.ParseInt(name, 10, 64)
		if err != nil || n < 0 {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best < 0 {
		return "", 0, fmt.Errorf("model %s has no version directories", filepath.Base(modelDir))
	}
	return filepath.Join(modelDir, strconv.FormatInt(best, 10)), best, nil
}
