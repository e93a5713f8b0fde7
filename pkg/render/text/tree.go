package text

import (
	"maps"
	"strings"

	"github.com/matzehuels/depviz/pkg/depgraph"
)

// Tree connectors.
const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	blank      = "    "
)

// CycleMarker follows a package that repeats on its own branch.
const CycleMarker = " [cycle]"

type treeItem struct {
	id     string
	prefix string // indentation inherited from the parent
	last   bool   // last child of its parent
	depth  int
	path   map[string]bool // packages above this one on the branch
}

// Tree draws g as an ASCII tree rooted at g.Root.
//
// Every branch is drawn in full, so a package reached through several paths
// appears once per path with its complete subtree. A package that already
// appears higher up on the same branch is printed once more with
// [CycleMarker] and not expanded. Each item carries its own copy of the set
// of packages above it; siblings never see each other's descendants.
func Tree(g *depgraph.Graph) string {
	if g.Root == "" {
		return ""
	}

	var b strings.Builder
	stack := []treeItem{{id: g.Root, path: map[string]bool{}}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		connector := ""
		if it.depth > 0 {
			connector = branch
			if it.last {
				connector = lastBranch
			}
		}
		b.WriteString(it.prefix + connector + it.id)

		if it.path[it.id] {
			b.WriteString(CycleMarker + "\n")
			continue
		}
		b.WriteString("\n")

		childPrefix := it.prefix
		if it.depth > 0 {
			if it.last {
				childPrefix += blank
			} else {
				childPrefix += pipe
			}
		}

		path := maps.Clone(it.path)
		path[it.id] = true

		deps := g.Deps(it.id)
		for i := len(deps) - 1; i >= 0; i-- {
			stack = append(stack, treeItem{
				id:     deps[i],
				prefix: childPrefix,
				last:   i == len(deps)-1,
				depth:  it.depth + 1,
				path:   path,
			})
		}
	}
	return b.String()
}
