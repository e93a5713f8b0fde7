package depgraph

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

// scenario is the five-package graph used across the engine tests.
var scenario = Map{
	"A": {"B", "C"},
	"B": {"D"},
	"C": {"D", "E"},
	"D": {},
	"E": {"B"},
}

func TestBuild_VisitOrder(t *testing.T) {
	g, _ := Build("A", scenario)

	want := []string{"A", "B", "D", "C", "E"}
	if got := g.Nodes(); !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
	if !slices.Equal(g.Deps("E"), []string{"B"}) {
		t.Errorf("Deps(E) = %v, want [B]", g.Deps("E"))
	}
}

func TestBuild_CrossEdgeIsNotCycle(t *testing.T) {
	// E -> B points at a package that was already fully expanded through
	// A -> B, not at one on the open path A -> C -> E.
	_, cycle := Build("A", scenario)
	if cycle {
		t.Error("Build() cycle = true, want false for a cross edge")
	}
}

func TestBuild_Cycle(t *testing.T) {
	tests := []struct {
		name string
		adj  Map
		root string
		want bool
	}{
		{"simple", Map{"A": {"B"}, "B": {}}, "A", false},
		{"two-node", Map{"A": {"B"}, "B": {"A"}}, "A", true},
		{"triangle", Map{"A": {"B"}, "B": {"C"}, "C": {"A"}}, "A", true},
		{"self-loop", Map{"A": {"A"}}, "A", true},
		{"inner cycle", Map{"A": {"B"}, "B": {"C"}, "C": {"B"}}, "A", true},
		{"diamond", Map{"A": {"B", "C"}, "B": {"D"}, "C": {"D"}, "D": {}}, "A", false},
		{"back to ancestor late", Map{"A": {"B", "C"}, "B": {}, "C": {"E"}, "E": {"C"}}, "A", true},
		{"unknown root", Map{}, "X", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := Build(tt.root, tt.adj)
			if got != tt.want {
				t.Errorf("Build(%q) cycle = %v, want %v", tt.root, got, tt.want)
			}
		})
	}
}

func TestBuild_Simple(t *testing.T) {
	g, cycle := Build("A", Map{"A": {"B"}, "B": {}})
	if cycle {
		t.Error("Build() cycle = true, want false")
	}
	want := NewGraph("A")
	want.Set("A", []string{"B"})
	want.Set("B", nil)
	if !g.Equal(want) {
		t.Errorf("Build() = %v, want %v", g.Edges(), want.Edges())
	}
}

func TestBuild_UnknownRoot(t *testing.T) {
	g, cycle := Build("X", Map{})
	if cycle {
		t.Error("Build() cycle = true, want false")
	}
	if g.Len() != 1 || !g.Has("X") {
		t.Fatalf("Build() nodes = %v, want [X]", g.Nodes())
	}
	if deps := g.Deps("X"); deps == nil || len(deps) != 0 {
		t.Errorf("Deps(X) = %#v, want empty non-nil list", deps)
	}
}

func TestBuild_UnknownDependencyIsLeaf(t *testing.T) {
	g, _ := Build("A", Map{"A": {"missing"}})
	if !g.Has("missing") {
		t.Fatal("unresolved dependency should be recorded as a leaf")
	}
	if len(g.Deps("missing")) != 0 {
		t.Errorf("Deps(missing) = %v, want empty", g.Deps("missing"))
	}
}

func TestBuild_LookupOncePerNode(t *testing.T) {
	calls := map[string]int{}
	adj := AdjacencyFunc(func(id string) []string {
		calls[id]++
		return scenario[id]
	})

	Build("A", adj)

	for id, n := range calls {
		if n != 1 {
			t.Errorf("Lookup(%q) called %d times, want 1", id, n)
		}
	}
	if len(calls) != len(scenario) {
		t.Errorf("looked up %d packages, want %d", len(calls), len(scenario))
	}
}

func TestBuild_DuplicatesPreserved(t *testing.T) {
	g, cycle := Build("A", Map{"A": {"B", "B"}, "B": {}})
	if cycle {
		t.Error("duplicate dependency must not be reported as a cycle")
	}
	if !slices.Equal(g.Deps("A"), []string{"B", "B"}) {
		t.Errorf("Deps(A) = %v, want [B B]", g.Deps("A"))
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestBuild_CopiesDependencyLists(t *testing.T) {
	adj := Map{"A": {"B"}, "B": {}}
	g, _ := Build("A", adj)

	adj["A"][0] = "Z"

	if g.Deps("A")[0] != "B" {
		t.Errorf("graph changed after source mutation: Deps(A) = %v", g.Deps("A"))
	}
}

func TestBuild_AcyclicVisitsReachableOnce(t *testing.T) {
	adj := Map{
		"root":        {"a", "b", "c"},
		"a":           {"d", "e"},
		"b":           {"e", "f"},
		"c":           {"f", "a"},
		"d":           {},
		"e":           {"f"},
		"f":           {},
		"unreachable": {"a"},
	}
	g, cycle := Build("root", adj)
	if cycle {
		t.Fatal("Build() cycle = true on an acyclic graph")
	}
	if g.Len() != 7 {
		t.Errorf("Len() = %d, want 7 reachable nodes", g.Len())
	}
	if g.Has("unreachable") {
		t.Error("graph should only contain reachable nodes")
	}
}

func TestBuild_Deep(t *testing.T) {
	// A chain far deeper than a recursive walk would comfortably handle.
	const depth = 200_000
	adj := AdjacencyFunc(func(id string) []string {
		var n int
		fmt.Sscanf(strings.TrimPrefix(id, "p"), "%d", &n)
		if n >= depth {
			return nil
		}
		return []string{fmt.Sprintf("p%d", n+1)}
	})

	g, cycle := Build("p0", adj)
	if cycle {
		t.Error("Build() cycle = true on a chain")
	}
	if g.Len() != depth+1 {
		t.Errorf("Len() = %d, want %d", g.Len(), depth+1)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	g1, c1 := Build("A", scenario)
	g2, c2 := Build("A", scenario)
	if !g1.Equal(g2) || c1 != c2 {
		t.Error("two builds over the same snapshot differ")
	}
}
