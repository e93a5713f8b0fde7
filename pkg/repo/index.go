package repo

import (
	"iter"
	"slices"
)

// Index maps package names to their direct dependency lists. Enumeration
// follows the order in which packages were added, which for parsed files is
// file order. An Index is read-only once loaded and safe for concurrent
// readers.
type Index struct {
	order []string
	deps  map[string][]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{deps: make(map[string][]string)}
}

// Add records deps for name. It reports false, leaving the index unchanged,
// if name is already present. The list is copied.
func (x *Index) Add(name string, deps []string) bool {
	if _, ok := x.deps[name]; ok {
		return false
	}
	x.order = append(x.order, name)
	x.deps[name] = slices.Clone(deps)
	if x.deps[name] == nil {
		x.deps[name] = []string{}
	}
	return true
}

// Lookup returns the dependency list of id, or nil if id is unknown.
func (x *Index) Lookup(id string) []string { return x.deps[id] }

// Has reports whether id is a package of the index.
func (x *Index) Has(id string) bool {
	_, ok := x.deps[id]
	return ok
}

// Len returns the number of packages.
func (x *Index) Len() int { return len(x.order) }

// Names returns the package names in insertion order.
func (x *Index) Names() []string { return slices.Clone(x.order) }

// All yields every package with its dependency list in insertion order.
func (x *Index) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, name := range x.order {
			if !yield(name, x.deps[name]) {
				return
			}
		}
	}
}
