package manager

import "github.com/google/uuid"

// newOpID returns a unique operation id used to correlate the events of one
// load or unload.
func newOpID() string { return uuid.NewString() }
