// Package scratch manages the daemon's scratch area: per-resolution local
// stores that hold localized copies of model artifacts, plus startup cleanup
// of stores orphaned by a previous crash.
//
// A Root wraps one scratch directory. The process that acquires the root's
// advisory lock owns cleanup for that directory; other processes sharing the
// directory may still create stores (names never collide) but must not sweep.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const lockFileName = ".scratch.lock"

// Root is an open scratch directory.
type Root struct {
	dir   string
	lk    *flock.Flock
	owned bool
}

// Open creates the scratch directory if needed and tries to take its
// advisory lock. Open never fails just because another process holds the
// lock; Owned reports the outcome.
func Open(dir string) (*Root, error) {
	if dir == "" {
		return nil, fmt.Errorf("scratch: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scratch: create %s: %w", dir, err)
	}
	lk := flock.New(filepath.Join(dir, lockFileName))
	owned, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("scratch: lock %s: %w", lk.Path(), err)
	}
	return &Root{dir: dir, lk: lk, owned: owned}, nil
}

// Dir returns the scratch directory path.
func (r *Root) Dir() string { return r.dir }

// Owned reports whether this Root holds the directory's advisory lock.
func (r *Root) Owned() bool { return r.owned }

// Sweep removes every entry in the scratch directory except the lock file
// and returns the number of entries removed. It is a no-op when the lock is
// held elsewhere; live stores of another daemon must survive.
func (r *Root) Sweep() (int, error) {
	if !r.owned {
		return 0, nil
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return 0, fmt.Errorf("scratch: read %s: %w", r.dir, err)
	}
	removed := 0
	for _, e := range entries {
		if e.Name() == lockFileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(r.dir, e.Name())); err != nil {
			return removed, fmt.Errorf("scratch: remove %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// NewStore creates a fresh store directory under the root. The prefix is
// advisory and shows up in the directory name for debuggability.
func (r *Root) NewStore(prefix string) (*Store, error) {
	if prefix == "" {
		prefix = "store"
	}
	dir, err := os.MkdirTemp(r.dir, prefix+"-")
	if err != nil {
		return nil, fmt.Errorf("scratch: new store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Close releases the root's advisory lock. Stores created from the root
// stay valid; only Sweep ownership is given up.
func (r *Root) Close() error {
	if !r.owned {
		return nil
	}
	r.owned = false
	return r.lk.Unlock()
}

// Store is a single scratch directory owned by one artifact resolution.
// Release removes it from disk; calling Release more than once is safe.
type Store struct {
	mu       sync.Mutex
	dir      string
	released bool
}

// Dir returns the store's directory path.
func (s *Store) Dir() string { return s.dir }

// Release deletes the store directory. Idempotent; a failed removal can be
// retried.
func (s *Store) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("scratch: release %s: %w", s.dir, err)
	}
	s.released = true
	return nil
}
