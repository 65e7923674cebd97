package ort

import (
	"errors"
	"sync"
)

// Loader refcounts the native runtime environment. The first Init brings the
// environment up, later Inits only bump the count, and the Stop matching the
// last outstanding Init tears it down. A Stop with no outstanding Init is a
// no-op. All operations, session construction included, hold the loader
// mutex, so native lifecycle calls never interleave.
type Loader struct {
	mu   sync.Mutex
	rt   Runtime
	refs int
}

// NewLoader returns a Loader over the given runtime.
func NewLoader(rt Runtime) *Loader {
	return &Loader{rt: rt}
}

// Init acquires a reference, initializing the native environment on the
// first one. A failed initialization leaves the count untouched so a later
// attempt can retry.
func (l *Loader) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.refs == 0 {
		if err := l.rt.Init(); err != nil {
			return &InitializationError{Runtime: l.rt.Name(), Err: err}
		}
	}
	l.refs++
	return nil
}

// Stop drops a reference and tears the environment down when the last one
// goes. Extra Stops are ignored.
func (l *Loader) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.refs == 0 {
		return nil
	}
	l.refs--
	if l.refs == 0 {
		return l.rt.Shutdown()
	}
	return nil
}

// NewSession builds a session through the runtime. It requires a live
// environment; construction after the last Stop is refused.
func (l *Loader) NewSession(model Model, opts SessionOptions) (Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.refs == 0 {
		return nil, &InitializationError{Runtime: l.rt.Name(), Err: errors.New("runtime not initialized")}
	}
	return l.rt.NewSession(model, opts)
}

// Refs returns the outstanding reference count.
func (l *Loader) Refs() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refs
}

// RuntimeName names the underlying runtime for reporting.
func (l *Loader) RuntimeName() string { return l.rt.Name() }
