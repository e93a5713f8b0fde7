package text

import (
	"io"
	"strings"

	"github.com/matzehuels/depviz/pkg/depgraph"
)

// NoDependencies is printed in place of the dependency list of a leaf.
const NoDependencies = "(no dependencies)"

// EdgeList formats every package of g in visiting order as
// "pkg -> dep1, dep2", or "pkg -> (no dependencies)" for leaves. Duplicate
// dependencies are printed as recorded.
func EdgeList(g *depgraph.Graph) string {
	var b strings.Builder
	WriteEdgeList(&b, g)
	return b.String()
}

// WriteEdgeList writes the output of [EdgeList] to w.
func WriteEdgeList(w io.StringWriter, g *depgraph.Graph) {
	for _, id := range g.Nodes() {
		deps := g.Deps(id)
		list := NoDependencies
		if len(deps) > 0 {
			list = strings.Join(deps, ", ")
		}
		w.WriteString(id + " -> " + list + "\n")
	}
}
