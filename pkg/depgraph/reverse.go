package depgraph

import "slices"

// ReverseIndex maps each package to the packages that list it as a direct
// dependency. It is computed once from an [Index] in O(V+E) and can then
// answer any number of reverse queries.
//
// Matching is by exact string equality. A dependency written as "musl>=1.2"
// does not make its owner a dependent of "musl"; normalising such tokens is
// the job of the index parser.
type ReverseIndex struct {
	dependents map[string][]string
}

// NewReverseIndex scans every package in idx once. A package that names the
// same dependency twice is recorded once as its dependent. Dependent lists
// are sorted.
func NewReverseIndex(idx Index) *ReverseIndex {
	rev := make(map[string][]string)
	for pkg, deps := range idx.All() {
		seen := make(map[string]bool, len(deps))
		for _, d := range deps {
			if seen[d] {
				continue
			}
			seen[d] = true
			rev[d] = append(rev[d], pkg)
		}
	}
	for k := range rev {
		slices.Sort(rev[k])
	}
	return &ReverseIndex{dependents: rev}
}

// Dependents returns the packages that list id as a direct dependency.
// The returned slice must not be modified.
func (r *ReverseIndex) Dependents(id string) []string { return r.dependents[id] }

// Walk returns the reverse graph of target: target and every package reached
// by repeatedly asking who depends on the current one, each mapped to its
// direct dependents. Every package is expanded once, so reverse cycles
// terminate without further bookkeeping.
func (r *ReverseIndex) Walk(target string) *Graph {
	g := NewGraph(target)
	visited := map[string]bool{}

	stack := []string{target}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		deps := r.dependents[id]
		g.Set(id, deps)
		for i := len(deps) - 1; i >= 0; i-- {
			if !visited[deps[i]] {
				stack = append(stack, deps[i])
			}
		}
	}
	return g
}

// Reverse builds a [ReverseIndex] over idx and walks it from target.
// Use [NewReverseIndex] directly when querying several targets.
func Reverse(target string, idx Index) *Graph {
	return NewReverseIndex(idx).Walk(target)
}

// Dependents returns the direct reverse dependents of target in idx, sorted.
func Dependents(target string, idx Index) []string {
	var out []string
	for pkg, deps := range idx.All() {
		if slices.Contains(deps, target) {
			out = append(out, pkg)
		}
	}
	slices.Sort(out)
	return out
}
