// Package artifact turns a model version directory into the artifact map a
// backend is constructed from. Regular files are read whole into memory;
// subdirectories are materialized into scratch stores so that relative paths
// inside a bundle keep working no matter where the repository lives.
package artifact

import "sort"

// Artifact is one named entry of a model version directory. The two
// implementations are Inline and Localized; nothing else satisfies the
// interface.
type Artifact interface {
	artifact()
}

// Inline is a file artifact carried as raw bytes. Contents are read exactly
// as stored, never line-ending translated.
type Inline struct {
	Name string
	Data []byte
}

func (Inline) artifact() {}

// Localized is a directory bundle copied to a local scratch path. Member
// files are addressed relative to Path.
type Localized struct {
	Name string
	Path string
}

func (Localized) artifact() {}

// Map holds a version directory's artifacts keyed by entry name.
type Map map[string]Artifact

// Names returns the artifact names in lexicographic order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
