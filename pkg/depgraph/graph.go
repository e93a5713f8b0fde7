package depgraph

import (
	"iter"
	"maps"
	"slices"
)

// Adjacency provides the direct dependency list of a package.
// Lookup returns nil for packages it does not know about; callers treat
// those as leaves.
type Adjacency interface {
	Lookup(id string) []string
}

// Index is an [Adjacency] that can also enumerate every package it holds.
// Reverse indexing needs the full enumeration.
type Index interface {
	Adjacency
	All() iter.Seq2[string, []string]
}

// AdjacencyFunc adapts a plain function to [Adjacency].
type AdjacencyFunc func(id string) []string

// Lookup calls f(id).
func (f AdjacencyFunc) Lookup(id string) []string { return f(id) }

// Map is a simple in-memory [Index]. Enumeration is in lexicographic key
// order so results built from it are deterministic.
type Map map[string][]string

// Lookup returns the dependency list stored for id.
func (m Map) Lookup(id string) []string { return m[id] }

// All yields every package in sorted order.
func (m Map) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

// Edge is a single package -> dependency pair.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph maps each visited package to its dependency list. Keys keep the
// order in which they were first visited, which is the order every renderer
// iterates in.
//
// A Graph only holds what one traversal reached; it is not a view of the
// whole repository. The zero value is an empty graph without a root.
type Graph struct {
	// Root is the package the traversal started from.
	Root string

	order []string
	deps  map[string][]string
}

// NewGraph creates an empty graph rooted at root.
func NewGraph(root string) *Graph {
	return &Graph{Root: root, deps: make(map[string][]string)}
}

// Set records the dependency list for id, appending id to the node order the
// first time it is seen. The list is copied.
func (g *Graph) Set(id string, deps []string) {
	if g.deps == nil {
		g.deps = make(map[string][]string)
	}
	if _, ok := g.deps[id]; !ok {
		g.order = append(g.order, id)
	}
	g.deps[id] = slices.Clone(deps)
	if g.deps[id] == nil {
		g.deps[id] = []string{}
	}
}

// Has reports whether id is a key of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.deps[id]
	return ok
}

// Deps returns the dependency list recorded for id, or nil if id is not a
// key. The returned slice must not be modified.
func (g *Graph) Deps(id string) []string { return g.deps[id] }

// Nodes returns the keys in visiting order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Len returns the number of keys.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of recorded edges, duplicates included.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, id := range g.order {
		n += len(g.deps[id])
	}
	return n
}

// Edges returns every recorded edge in visiting order, duplicates included.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, id := range g.order {
		for _, d := range g.deps[id] {
			edges = append(edges, Edge{From: id, To: d})
		}
	}
	return edges
}

// Equal reports whether two graphs have the same root, the same keys in the
// same order and the same dependency lists.
func (g *Graph) Equal(o *Graph) bool {
	if g.Root != o.Root || !slices.Equal(g.order, o.order) {
		return false
	}
	for _, id := range g.order {
		if !slices.Equal(g.deps[id], o.deps[id]) {
			return false
		}
	}
	return true
}
