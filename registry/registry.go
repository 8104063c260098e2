// Package registry keeps the distinct author names seen during one crawl run.
package registry

// Registry is an append-only ordered set of names.
//
// Iteration order is insertion order and drives the order of the authors
// artifact. A Registry belongs to a single crawl run and is not safe for
// concurrent mutation.
type Registry struct {
	names []string
	index map[string]struct{}
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		index: make(map[string]struct{}),
	}
}

// Observe records name if it has not been seen yet.
// It reports whether the name was newly added.
func (r *Registry) Observe(name string) bool {
	if _, ok := r.index[name]; ok {
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}

// Contains reports whether name has been observed
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns a copy of the observed names in first-seen order
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of distinct names
func (r *Registry) Len() int {
	return len(r.names)
}
