package depgraph

type phase uint8

const (
	enter phase = iota
	exit
)

type frame struct {
	id    string
	phase phase
}

// Build walks the dependencies reachable from root and returns the forward
// graph together with a flag telling whether a cycle was seen.
//
// The walk is a depth-first search driven by an explicit stack, so graph
// depth is limited by memory rather than by the goroutine stack. Children
// are pushed in reverse so they are visited left to right, matching what a
// recursive walk would do.
//
// Packages unknown to adj are recorded as leaves with an empty dependency
// list; an unknown root yields a single-node graph. A dependency that points
// back to a package still on the open path sets the cycle flag and is not
// expanded again. A package reached through a second path (a diamond) is
// expanded only once.
func Build(root string, adj Adjacency) (*Graph, bool) {
	g := NewGraph(root)
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	cycle := false

	stack := []frame{{id: root, phase: enter}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.phase == exit {
			delete(onPath, f.id)
			continue
		}

		switch {
		case onPath[f.id]:
			cycle = true
			continue
		case visited[f.id]:
			continue
		}

		visited[f.id] = true
		onPath[f.id] = true

		deps := adj.Lookup(f.id)
		g.Set(f.id, deps)

		stack = append(stack, frame{id: f.id, phase: exit})
		for i := len(deps) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: deps[i], phase: enter})
		}
	}
	return g, cycle
}
