package depgraph

// Stats summarises a graph.
type Stats struct {
	Nodes       int `json:"nodes"`
	Edges       int `json:"edges"`        // recorded edges, duplicates included
	UniqueEdges int `json:"unique_edges"` // distinct (from, to) pairs
	Leaves      int `json:"leaves"`       // keys with an empty dependency list
	Depth       int `json:"depth"`        // longest shortest-path distance from the root
}

// Summarize computes [Stats] for g. Depth is measured breadth-first from
// g.Root over the recorded edges; an empty graph has depth 0.
func Summarize(g *Graph) Stats {
	s := Stats{Nodes: g.Len(), Edges: g.EdgeCount()}

	unique := map[Edge]bool{}
	for _, id := range g.Nodes() {
		deps := g.Deps(id)
		if len(deps) == 0 {
			s.Leaves++
		}
		for _, d := range deps {
			unique[Edge{From: id, To: d}] = true
		}
	}
	s.UniqueEdges = len(unique)

	if !g.Has(g.Root) {
		return s
	}
	level := map[string]int{g.Root: 0}
	queue := []string{g.Root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, d := range g.Deps(id) {
			if _, ok := level[d]; ok {
				continue
			}
			level[d] = level[id] + 1
			s.Depth = max(s.Depth, level[d])
			queue = append(queue, d)
		}
	}
	return s
}
