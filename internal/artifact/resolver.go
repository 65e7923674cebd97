package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"onnxd/internal/common/fsutil"
	"onnxd/internal/scratch"
)

// Localizer copies a source tree or file to a local destination.
// *fetch.Fetcher satisfies it.
type Localizer interface {
	Fetch(ctx context.Context, src, dst string) error
}

// Resolver builds artifact maps from model version directories, using the
// scratch root for bundle stores.
type Resolver struct {
	root *scratch.Root
	loc  Localizer
}

// NewResolver returns a Resolver backed by the given scratch root and
// localizer.
func NewResolver(root *scratch.Root, loc Localizer) *Resolver {
	return &Resolver{root: root, loc: loc}
}

// Resolution is the outcome of resolving one version directory. It owns the
// scratch stores backing its Localized artifacts; Release frees them. Stores
// must outlive every read of a Localized path, so callers release only after
// backend construction is finished with the map.
type Resolution struct {
	Artifacts Map

	stores []*scratch.Store
}

// Release frees all scratch stores held by the resolution. Safe to call more
// than once; the first failure is reported, remaining stores are still
// attempted.
func (r *Resolution) Release() error {
	var first error
	for _, st := range r.stores {
		if err := st.Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Resolve enumerates dir and produces its artifact map. Directory entries
// become Localized bundles (each in its own store), file entries become
// Inline byte artifacts, hidden entries are skipped. Entries are processed
// in lexicographic order, bundles before files, and the first failure aborts
// the resolution with every store already created released again.
func (r *Resolver) Resolve(ctx context.Context, dir string) (*Resolution, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &EnumerationError{Dir: dir, Err: err}
	}

	type entry struct {
		name  string
		isDir bool
	}
	var files, bundles []entry
	for _, e := range entries {
		name := e.Name()
		if fsutil.IsHidden(name) {
			continue
		}
		// Stat rather than DirEntry type so symlinked bundles resolve.
		st, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return nil, &EnumerationError{Dir: dir, Err: fmt.Errorf("%s: %w", name, err)}
		}
		if st.IsDir() {
			bundles = append(bundles, entry{name: name, isDir: true})
		} else {
			files = append(files, entry{name: name})
		}
	}

	res := &Resolution{Artifacts: make(Map, len(files)+len(bundles))}
	for _, e := range bundles {
		store, err := r.root.NewStore("bundle-" + e.name)
		if err != nil {
			_ = res.Release()
			return nil, &LocalizationError{Name: e.name, Err: err}
		}
		res.stores = append(res.stores, store)
		dst := filepath.Join(store.Dir(), e.name)
		if err := r.loc.Fetch(ctx, filepath.Join(dir, e.name), dst); err != nil {
			_ = res.Release()
			return nil, &LocalizationError{Name: e.name, Err: err}
		}
		res.Artifacts[e.name] = Localized{Name: e.name, Path: dst}
	}
	for _, e := range files {
		data, err := os.ReadFile(filepath.Join(dir, e.name))
		if err != nil {
			_ = res.Release()
			return nil, &ReadError{Name: e.name, Err: err}
		}
		res.Artifacts[e.name] = Inline{Name: e.name, Data: data}
	}
	return res, nil
}
