package manager

// Event represents a manager lifecycle event.
// Minimal and stable: name + model and optional fields via key/values.
// Names in use: load_start, load_done, load_failed, unload_start,
// unload_done, reload.
type Event struct {
	Name   string
	Model  string
	OpID   string
	Fields map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
