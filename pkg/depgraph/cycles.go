package depgraph

import (
	"errors"
	"slices"

	"github.com/dominikbraun/graph"
)

// Cycles returns the groups of packages in g that depend on each other,
// directly or transitively. Each group is a strongly connected component with
// more than one member, or a single package that lists itself. Members are
// sorted, and groups are ordered by their first member.
//
// [Build] only reports whether a cycle exists; Cycles names the packages
// involved.
func Cycles(g *Graph) ([][]string, error) {
	dg := graph.New(graph.StringHash, graph.Directed())

	addVertex := func(id string) error {
		if err := dg.AddVertex(id); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return err
		}
		return nil
	}

	selfLoops := map[string]bool{}
	for _, id := range g.Nodes() {
		if err := addVertex(id); err != nil {
			return nil, err
		}
		for _, d := range g.Deps(id) {
			if d == id {
				selfLoops[id] = true
				continue
			}
			if err := addVertex(d); err != nil {
				return nil, err
			}
			if err := dg.AddEdge(id, d); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}

	sccs, err := graph.StronglyConnectedComponents(dg)
	if err != nil {
		return nil, err
	}

	var out [][]string
	for _, c := range sccs {
		if len(c) > 1 || (len(c) == 1 && selfLoops[c[0]]) {
			slices.Sort(c)
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b []string) int { return slices.Compare(a, b) })
	return out, nil
}
