package text

import (
	"strings"
	"testing"

	"github.com/matzehuels/depviz/pkg/depgraph"
)

var scenario = depgraph.Map{
	"A": {"B", "C"},
	"B": {"D"},
	"C": {"D", "E"},
	"D": {},
	"E": {"B"},
}

func TestEdgeList(t *testing.T) {
	g, _ := depgraph.Build("A", scenario)

	want := strings.Join([]string{
		"A -> B, C",
		"B -> D",
		"D -> (no dependencies)",
		"C -> D, E",
		"E -> B",
	}, "\n") + "\n"

	if got := EdgeList(g); got != want {
		t.Errorf("EdgeList() =\n%s\nwant\n%s", got, want)
	}
}

func TestEdgeList_UnknownRoot(t *testing.T) {
	g, _ := depgraph.Build("X", depgraph.Map{})
	if got, want := EdgeList(g), "X -> (no dependencies)\n"; got != want {
		t.Errorf("EdgeList() = %q, want %q", got, want)
	}
}

func TestEdgeList_KeepsDuplicates(t *testing.T) {
	g, _ := depgraph.Build("A", depgraph.Map{"A": {"B", "B"}})
	if got := EdgeList(g); !strings.HasPrefix(got, "A -> B, B\n") {
		t.Errorf("EdgeList() = %q, want duplicate kept", got)
	}
}

func TestTree_Diamond(t *testing.T) {
	g, _ := depgraph.Build("A", scenario)

	want := strings.Join([]string{
		"A",
		"├── B",
		"│   └── D",
		"└── C",
		"    ├── D",
		"    └── E",
		"        └── B",
		"            └── D",
	}, "\n") + "\n"

	if got := Tree(g); got != want {
		t.Errorf("Tree() =\n%s\nwant\n%s", got, want)
	}
}

func TestTree_Cycle(t *testing.T) {
	g, _ := depgraph.Build("A", depgraph.Map{"A": {"B"}, "B": {"C"}, "C": {"A", "D"}})

	want := strings.Join([]string{
		"A",
		"└── B",
		"    └── C",
		"        ├── A [cycle]",
		"        └── D",
	}, "\n") + "\n"

	if got := Tree(g); got != want {
		t.Errorf("Tree() =\n%s\nwant\n%s", got, want)
	}
}

func TestTree_SelfLoop(t *testing.T) {
	g, _ := depgraph.Build("A", depgraph.Map{"A": {"A"}})
	want := "A\n└── A [cycle]\n"
	if got := Tree(g); got != want {
		t.Errorf("Tree() = %q, want %q", got, want)
	}
}

func TestTree_SingleNode(t *testing.T) {
	g, _ := depgraph.Build("X", depgraph.Map{})
	if got := Tree(g); got != "X\n" {
		t.Errorf("Tree() = %q, want %q", got, "X\n")
	}
}

func TestTree_Empty(t *testing.T) {
	if got := Tree(&depgraph.Graph{}); got != "" {
		t.Errorf("Tree(empty) = %q, want empty", got)
	}
}

func TestTree_Deterministic(t *testing.T) {
	g, _ := depgraph.Build("A", scenario)
	if Tree(g) != Tree(g) {
		t.Error("Tree() output differs between calls")
	}
}
