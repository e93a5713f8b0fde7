package nodelink

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/depviz/pkg/depgraph"
)

// Options configures diagram generation.
type Options struct {
	// Reverse draws each edge from the dependency list entry to its key.
	// Use it for reverse graphs, where keys map to their dependents, so
	// arrows still point from dependent to dependency.
	Reverse bool
}

// ToDOT converts a graph to Graphviz DOT source.
//
// Every id that appears as a key or inside a dependency list is declared
// exactly once, in lexicographic order. Edges are deduplicated and sorted by
// (from, to). The output is therefore a pure function of the graph contents:
// identical graphs yield byte-identical text, whatever order they were built
// in. The root node is drawn with a heavier outline.
func ToDOT(g *depgraph.Graph, opts Options) string {
	seen := make(map[string]bool)
	edgeSet := make(map[depgraph.Edge]bool)
	for _, id := range g.Nodes() {
		seen[id] = true
		for _, d := range g.Deps(id) {
			seen[d] = true
			e := depgraph.Edge{From: id, To: d}
			if opts.Reverse {
				e = depgraph.Edge{From: d, To: id}
			}
			edgeSet[e] = true
		}
	}
	if g.Root != "" {
		seen[g.Root] = true
	}

	nodes := make([]string, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)

	edges := make([]depgraph.Edge, 0, len(edgeSet))
	for e := range edgeSet {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b depgraph.Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})

	var buf bytes.Buffer
	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=rounded];\n")
	buf.WriteString("\n")

	for _, id := range nodes {
		if id == g.Root {
			fmt.Fprintf(&buf, "  %s [penwidth=2];\n", quote(id))
			continue
		}
		fmt.Fprintf(&buf, "  %s;\n", quote(id))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.From), quote(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(id string) string {
	return `"` + dotEscaper.Replace(id) + `"`
}
