package repo

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invokes a callback after repository changes settle. Events are
// debounced so a deploy touching many files triggers one reload. The
// repository root and its model directories are watched; writes inside
// version directories only surface when the version directory itself
// appears or goes away.
type Watcher struct {
	fsw     *fsnotify.Watcher
	root    string
	done    chan struct{}
	closing sync.Once
}

// Watch starts watching root and calls onChange after each settled burst of
// changes.
func Watch(root string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	w := &Watcher{fsw: fsw, root: root, done: make(chan struct{})}
	w.syncModelDirs()
	go w.run(debounce, onChange)
	return w, nil
}

// syncModelDirs (re)attaches watches to current model directories. Adding an
// already watched path is harmless; paths that vanished are dropped by
// fsnotify itself.
func (w *Watcher) syncModelDirs() {
	models, err := Scan(w.root)
	if err != nil {
		return
	}
	for _, m := range models {
		_ = w.fsw.Add(m.Dir)
	}
}

func (w *Watcher) run(debounce time.Duration, onChange func()) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C
		case <-fire:
			timer = nil
			fire = nil
			w.syncModelDirs()
			onChange()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. A callback already in flight may still complete.
func (w *Watcher) Close() error {
	var err error
	w.closing.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
